package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SlotStore {
	t.Helper()
	store, err := OpenSlotStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSlotStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestSlotPutOverwrites checks the latest write wins.
func TestSlotPutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "s1", "k", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "s1", "k", []byte("two")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "s1", "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("got %q, want two", got)
	}
}

// TestSlotIsolation checks sessions do not see each other's values.
func TestSlotIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Bind("s1").Put(ctx, "k", []byte("mine")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "s2", "k"); !errors.Is(err, ErrSlotEmpty) {
		t.Errorf("err = %v, want ErrSlotEmpty", err)
	}
	got, err := store.Get(ctx, "s1", "k")
	if err != nil || string(got) != "mine" {
		t.Errorf("got %q, %v", got, err)
	}
}

// TestSlotPurge checks old slots are removed and fresh ones kept.
func TestSlotPurge(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "old", "k", []byte("x")); err != nil {
		t.Fatal(err)
	}
	n, err := store.PurgeOlderThan(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("purged %d, want 1", n)
	}

	if err := store.Put(ctx, "fresh", "k", []byte("y")); err != nil {
		t.Fatal(err)
	}
	n, err = store.PurgeOlderThan(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("purged %d, want 0", n)
	}
	if _, err := store.Get(ctx, "fresh", "k"); err != nil {
		t.Errorf("fresh slot gone: %v", err)
	}
}

// TestSlotReopen checks values persist across reopening the database.
func TestSlotReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenSlotStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "s", "k", []byte("kept")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = OpenSlotStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	got, err := store.Get(ctx, "s", "k")
	if err != nil || string(got) != "kept" {
		t.Errorf("got %q, %v", got, err)
	}
}
