package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fithome/internal/models"
)

const dateLayout = "2006-01-02"

// streakLookback bounds how far back workout days are scanned for the streak.
const streakLookback = 400

// GetStats returns the home screen statistics snapshot for a user.
func (db *DB) GetStats(ctx context.Context, userID int) (*models.Stats, error) {
	return db.getStats(ctx, userID, time.Now().UTC())
}

func (db *DB) getStats(ctx context.Context, userID int, now time.Time) (*models.Stats, error) {
	stats := &models.Stats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_logs WHERE user_id = $1`, userID,
	).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	days, err := db.workoutDays(ctx, userID, now.AddDate(0, 0, -streakLookback))
	if err != nil {
		return nil, err
	}
	stats.CurrentStreak = computeStreak(days, now)

	rows, err := db.Pool.Query(ctx,
		`SELECT (completed_at AT TIME ZONE 'UTC')::date AS day, COALESCE(SUM(duration_sec), 0)::bigint
		 FROM workout_logs
		 WHERE user_id = $1 AND completed_at >= $2
		 GROUP BY day`,
		userID, truncateDay(now).AddDate(0, 0, -6))
	if err != nil {
		return nil, fmt.Errorf("querying weekly minutes: %w", err)
	}
	defer rows.Close()

	secondsByDay := make(map[string]int64)
	for rows.Next() {
		var day time.Time
		var secs int64
		if err := rows.Scan(&day, &secs); err != nil {
			return nil, fmt.Errorf("scanning weekly minutes: %w", err)
		}
		secondsByDay[day.Format(dateLayout)] = secs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.WeeklySummary = weeklySummary(secondsByDay, now)

	return stats, nil
}

// workoutDays returns the distinct UTC days with at least one workout since start, newest first.
func (db *DB) workoutDays(ctx context.Context, userID int, start time.Time) ([]time.Time, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT (completed_at AT TIME ZONE 'UTC')::date AS day
		 FROM workout_logs
		 WHERE user_id = $1 AND completed_at >= $2
		 ORDER BY day DESC`,
		userID, start)
	if err != nil {
		return nil, fmt.Errorf("querying workout days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning workout day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// computeStreak counts consecutive workout days ending today or yesterday.
// days must be distinct and sorted newest first.
func computeStreak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	today := truncateDay(now)
	expected := today
	if first := truncateDay(days[0]); first.Before(today) {
		// A streak survives until the end of the day after the last workout.
		if !first.Equal(today.AddDate(0, 0, -1)) {
			return 0
		}
		expected = first
	}

	streak := 0
	for _, d := range days {
		d = truncateDay(d)
		if d.After(expected) {
			continue
		}
		if !d.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// weeklySummary builds the last seven days (oldest first, ending today) from per-day seconds.
func weeklySummary(secondsByDay map[string]int64, now time.Time) []models.DayMinutes {
	today := truncateDay(now)
	summary := make([]models.DayMinutes, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		summary = append(summary, models.DayMinutes{
			Day:     d.Weekday().String()[:3],
			Minutes: int(secondsByDay[d.Format(dateLayout)] / 60),
		})
	}
	return summary
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
