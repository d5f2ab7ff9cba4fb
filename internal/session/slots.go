package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/claude/fithome/internal/home"
)

// ErrSlotEmpty is returned when nothing has been stored under a key.
var ErrSlotEmpty = errors.New("session slot is empty")

// SlotStore keeps transient per-session values in a local SQLite database.
type SlotStore struct {
	db *sql.DB
}

// OpenSlotStore opens (or creates) the slot database at dir/slots.db.
func OpenSlotStore(dir string) (*SlotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "slots.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening slot db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session_slots (
		session_id TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      BLOB NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, key)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating slot table: %w", err)
	}

	return &SlotStore{db: db}, nil
}

// Put stores value under key for a session, replacing any previous value.
func (s *SlotStore) Put(ctx context.Context, sessionID, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO session_slots (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)`,
		sessionID, key, value, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key for a session.
func (s *SlotStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_slots WHERE session_id = ? AND key = ?`,
		sessionID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return value, nil
}

// PurgeOlderThan deletes slots not written since cutoff and reports how many went.
func (s *SlotStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_slots WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging slots: %w", err)
	}
	return res.RowsAffected()
}

// Bind returns the slot of a single session.
func (s *SlotStore) Bind(sessionID string) home.Slot {
	return boundSlot{store: s, sessionID: sessionID}
}

// Close closes the slot database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}

type boundSlot struct {
	store     *SlotStore
	sessionID string
}

func (b boundSlot) Put(ctx context.Context, key string, value []byte) error {
	return b.store.Put(ctx, b.sessionID, key, value)
}
