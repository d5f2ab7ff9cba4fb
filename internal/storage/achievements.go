package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fithome/internal/achievements"
	"github.com/claude/fithome/internal/models"
)

// ListAchievements returns all achievement definitions with tiers in ascending threshold order.
func (db *DB) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT a.id, a.name, a.description, a.metric, a.icon, t.level, t.name, t.threshold
		 FROM achievements a
		 JOIN achievement_tiers t ON t.achievement_id = a.id
		 ORDER BY a.sort_order, a.id, t.threshold`)
	if err != nil {
		return nil, fmt.Errorf("querying achievements: %w", err)
	}
	defer rows.Close()

	var result []models.Achievement
	index := make(map[string]int)
	for rows.Next() {
		var a models.Achievement
		var t models.Tier
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Metric, &a.Icon, &t.Level, &t.Name, &t.Threshold); err != nil {
			return nil, fmt.Errorf("scanning achievement: %w", err)
		}
		i, ok := index[a.ID]
		if !ok {
			i = len(result)
			index[a.ID] = i
			result = append(result, a)
		}
		result[i].Tiers = append(result[i].Tiers, t)
	}
	return result, rows.Err()
}

// GetAchievementMetrics returns the user's current value for every achievement metric.
func (db *DB) GetAchievementMetrics(ctx context.Context, userID int) (achievements.Metrics, error) {
	var total int
	var seconds int64
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_sec), 0)::bigint FROM workout_logs WHERE user_id = $1`,
		userID).Scan(&total, &seconds)
	if err != nil {
		return nil, fmt.Errorf("querying workout totals: %w", err)
	}

	now := time.Now().UTC()
	days, err := db.workoutDays(ctx, userID, now.AddDate(0, 0, -streakLookback))
	if err != nil {
		return nil, err
	}

	return achievements.Metrics{
		models.MetricTotalWorkouts: total,
		models.MetricCurrentStreak: computeStreak(days, now),
		models.MetricTotalMinutes:  int(seconds / 60),
	}, nil
}

// GetNextChallenge returns the nearest uncompleted achievement tier, or nil when all are complete.
func (db *DB) GetNextChallenge(ctx context.Context, userID int) (*models.NextChallenge, error) {
	defs, err := db.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := db.GetAchievementMetrics(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievements.Next(defs, metrics), nil
}
