package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/claude/fithome/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertRoutine saves a routine. A zero ID is replaced with a new UUID.
// Returns the stored routine with ID and CreatedAt populated.
func (db *DB) InsertRoutine(ctx context.Context, r models.Routine) (*models.Routine, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	prefs, err := json.Marshal(r.Preferences)
	if err != nil {
		return nil, fmt.Errorf("encoding routine preferences: %w", err)
	}
	plan, err := json.Marshal(r.Plan)
	if err != nil {
		return nil, fmt.Errorf("encoding routine plan: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`INSERT INTO routines (id, user_id, name, preferences, plan)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		r.ID, r.UserID, r.Name, prefs, plan,
	).Scan(&r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting routine: %w", err)
	}
	return &r, nil
}

// ListRoutines returns a user's saved routines in storage order (oldest first).
func (db *DB) ListRoutines(ctx context.Context, userID int) ([]models.Routine, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, preferences, plan, created_at
		 FROM routines
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying routines: %w", err)
	}
	defer rows.Close()

	result := []models.Routine{}
	for rows.Next() {
		r, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// GetRoutine retrieves a single routine by ID.
func (db *DB) GetRoutine(ctx context.Context, id uuid.UUID, userID int) (*models.Routine, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, preferences, plan, created_at
		 FROM routines
		 WHERE id = $1 AND user_id = $2`,
		id, userID)
	r, err := scanRoutine(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// DeleteRoutine removes a routine. Returns ErrNotFound if it does not exist.
func (db *DB) DeleteRoutine(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting routine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRoutine(row pgx.Row) (*models.Routine, error) {
	var r models.Routine
	var prefs, plan []byte
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &prefs, &plan, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning routine: %w", err)
	}
	if err := json.Unmarshal(prefs, &r.Preferences); err != nil {
		return nil, fmt.Errorf("decoding routine %s preferences: %w", r.ID, err)
	}
	if err := json.Unmarshal(plan, &r.Plan); err != nil {
		return nil, fmt.Errorf("decoding routine %s plan: %w", r.ID, err)
	}
	return &r, nil
}
