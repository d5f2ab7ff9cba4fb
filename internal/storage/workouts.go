package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fithome/internal/models"
	"github.com/google/uuid"
)

// InsertWorkoutLog records a completed workout. A zero ID is replaced with a new UUID.
func (db *DB) InsertWorkoutLog(ctx context.Context, log models.WorkoutLog) (uuid.UUID, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, user_id, routine_id, completed_at, duration_sec)
		 VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.UserID, log.RoutineID, log.CompletedAt, log.DurationSec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout log: %w", err)
	}
	return log.ID, nil
}

// QueryWorkoutLogs retrieves workout logs in a time range, newest first.
func (db *DB) QueryWorkoutLogs(ctx context.Context, start, end time.Time, userID int) ([]models.WorkoutLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, routine_id, completed_at, duration_sec
		 FROM workout_logs
		 WHERE completed_at >= $1 AND completed_at < $2 AND user_id = $3
		 ORDER BY completed_at DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.RoutineID, &l.CompletedAt, &l.DurationSec); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
