package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fithome/internal/models"
	"github.com/claude/fithome/internal/profile"
	"github.com/claude/fithome/internal/session"
	"github.com/claude/fithome/internal/storage"
)

type fakeStore struct {
	mu        sync.Mutex
	stats     *models.Stats
	statsErr  error
	routines  []models.Routine
	challenge *models.NextChallenge
	users     map[int]*storage.User
	logins    map[string]int
	logs      []models.WorkoutLog
	defs      []models.Achievement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stats:     &models.Stats{TotalWorkouts: 3, CurrentStreak: 1, WeeklySummary: []models.DayMinutes{{Day: "Tue", Minutes: 20}}},
		challenge: &models.NextChallenge{Current: 3, Tier: models.Tier{Level: 1, Name: "Bronze", Threshold: 5}},
		users:     map[int]*storage.User{1: {ID: 1, Login: "local", DisplayName: "Local Dev User"}},
		logins:    map[string]int{"local": 1},
		defs:      []models.Achievement{{ID: "dedicated", Name: "Dedicated", Metric: models.MetricTotalWorkouts}},
	}
}

func (f *fakeStore) GetStats(context.Context, int) (*models.Stats, error) {
	return f.stats, f.statsErr
}

func (f *fakeStore) ListRoutines(_ context.Context, userID int) ([]models.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Routine{}
	for _, r := range f.routines {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetNextChallenge(context.Context, int) (*models.NextChallenge, error) {
	return f.challenge, nil
}

func (f *fakeStore) GetUser(_ context.Context, userID int) (*storage.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateDisplayName(_ context.Context, userID int, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.DisplayName = name
	return nil
}

func (f *fakeStore) GetOrCreateUser(_ context.Context, login, displayName string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.logins[login]; ok {
		return id, nil
	}
	id := len(f.users) + 1
	f.users[id] = &storage.User{ID: id, Login: login, DisplayName: displayName}
	f.logins[login] = id
	return id, nil
}

func (f *fakeStore) InsertRoutine(_ context.Context, r models.Routine) (*models.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	f.routines = append(f.routines, r)
	return &r, nil
}

func (f *fakeStore) GetRoutine(_ context.Context, id uuid.UUID, userID int) (*models.Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.routines {
		if r.ID == id && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) DeleteRoutine(_ context.Context, id uuid.UUID, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.routines {
		if r.ID == id && r.UserID == userID {
			f.routines = append(f.routines[:i], f.routines[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) InsertWorkoutLog(_ context.Context, log models.WorkoutLog) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	log.ID = uuid.New()
	f.logs = append(f.logs, log)
	return log.ID, nil
}

func (f *fakeStore) ListAchievements(context.Context) ([]models.Achievement, error) {
	return f.defs, nil
}

type fakeGenerator struct {
	plan    *models.Plan
	err     error
	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) GeneratePlan(context.Context, models.Preferences) (*models.Plan, error) {
	if g.started != nil {
		close(g.started)
	}
	if g.release != nil {
		<-g.release
	}
	return g.plan, g.err
}

func completePlan() *models.Plan {
	return &models.Plan{
		Warmup:   []models.Step{{Name: "March in place", DurationSec: 60}},
		Rounds:   []models.Step{{Name: "Push-ups", Reps: 10}},
		Cooldown: []models.Step{},
	}
}

type testEnv struct {
	srv   *Server
	store *fakeStore
	gen   *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	slots, err := session.OpenSlotStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenSlotStore: %v", err)
	}
	t.Cleanup(func() { slots.Close() })

	store := newFakeStore()
	gen := &fakeGenerator{plan: completePlan()}
	srv := New(Deps{
		Store:     store,
		Profiles:  profile.NewService(store, profile.NewNotifier()),
		Generator: gen,
		Sessions: session.NewManager(session.Options{
			Name:   "fithome-test",
			Secret: "0123456789abcdef0123456789abcdef",
			MaxAge: time.Hour,
		}),
		Slots: slots,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &testEnv{srv: srv, store: store, gen: gen}
}

// do sends a request through the router, carrying cookies from earlier responses.
func (e *testEnv) do(method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}
