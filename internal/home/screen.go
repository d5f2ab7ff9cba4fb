package home

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/claude/fithome/internal/models"
)

// Deps are the collaborators a Screen talks to. Profile may be nil.
type Deps struct {
	Stats      StatsSource
	Routines   RoutineSource
	Challenges ChallengeSource
	Generator  PlanGenerator
	Profile    ProfileSource
	Slot       Slot
	Notifier   Notifier
	Navigator  Navigator
}

// Option configures a Screen.
type Option func(*Screen)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// WithRand sets the random source used for the suggestion.
func WithRand(rng *rand.Rand) Option {
	return func(s *Screen) { s.rng = rng }
}

// WithSuggestion reuses a suggestion instead of drawing a new one at mount.
func WithSuggestion(sug Suggestion) Option {
	return func(s *Screen) { s.view.Suggestion = &sug }
}

// Screen holds the state of one mounted home screen.
type Screen struct {
	userID int
	deps   Deps
	logger *slog.Logger
	now    func() time.Time
	rng    *rand.Rand

	mu          sync.Mutex
	mounted     bool
	unsubscribe func()
	view        View
}

// New creates an unmounted Screen for a user.
func New(userID int, deps Deps, logger *slog.Logger, opts ...Option) *Screen {
	s := &Screen{
		userID: userID,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount subscribes to profile changes, derives the greeting and suggestion,
// then runs the initial load. It returns once the load has settled.
// Calling Mount again is a no-op.
func (s *Screen) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.view.Greeting = Greeting(s.now().Hour())
	if s.view.Suggestion == nil {
		sug := Suggest(s.rng)
		s.view.Suggestion = &sug
	}
	s.view.IsLoading = true
	s.mu.Unlock()

	if s.deps.Profile != nil {
		unsub := s.deps.Profile.Subscribe(s.userID, s.setDisplayName)
		s.mu.Lock()
		s.unsubscribe = unsub
		s.mu.Unlock()
	}

	s.load(ctx)
}

// Unmount stops profile notifications.
func (s *Screen) Unmount() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// View returns a snapshot of the current state.
func (s *Screen) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	if v.Suggestion != nil {
		sug := *v.Suggestion
		v.Suggestion = &sug
	}
	if v.RecentRoutines != nil {
		v.RecentRoutines = append([]models.Routine(nil), v.RecentRoutines...)
	}
	return v
}

func (s *Screen) setDisplayName(name string) {
	s.mu.Lock()
	s.view.DisplayName = name
	s.mu.Unlock()
}

// load fetches stats, routines and the next challenge together. Any failure
// leaves all three empty and raises a single toast.
func (s *Screen) load(ctx context.Context) {
	var (
		stats     *models.Stats
		routines  []models.Routine
		challenge *models.NextChallenge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.deps.Stats.GetStats(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("loading stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		routines, err = s.deps.Routines.ListRoutines(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("loading routines: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		challenge, err = s.deps.Challenges.GetNextChallenge(gctx, s.userID)
		if err != nil {
			return fmt.Errorf("loading next challenge: %w", err)
		}
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	if err == nil {
		s.view.Stats = stats
		s.view.RecentRoutines = RecentRoutines(routines)
		s.view.NextChallenge = challenge
	}
	s.view.IsLoading = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("loading dashboard data", "user_id", s.userID, "error", err)
		s.deps.Notifier.Error(LoadFailedMessage)
	}
}

// StartSuggestedWorkout generates a plan for the suggestion, stores it in the
// session slot and navigates to the builder. Failures are logged, raise one
// toast and are returned. While a generation is running further calls return
// ErrAlreadyGenerating without side effects.
func (s *Screen) StartSuggestedWorkout(ctx context.Context) error {
	s.mu.Lock()
	if s.view.IsGenerating {
		s.mu.Unlock()
		return ErrAlreadyGenerating
	}
	if s.view.Suggestion == nil {
		s.mu.Unlock()
		return ErrNoSuggestion
	}
	prefs := s.view.Suggestion.Preferences
	s.view.IsGenerating = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.view.IsGenerating = false
		s.mu.Unlock()
	}()

	if err := s.generate(ctx, prefs); err != nil {
		s.logger.Error("generating suggested workout", "user_id", s.userID, "goal", prefs.Goal, "error", err)
		s.deps.Notifier.Error(GenerateFailedMessage)
		return err
	}
	return nil
}

func (s *Screen) generate(ctx context.Context, prefs models.Preferences) error {
	plan, err := s.deps.Generator.GeneratePlan(ctx, prefs)
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}
	if !plan.Complete() {
		return ErrInvalidPlan
	}

	data, err := json.Marshal(GeneratedRecord{
		Plan:        *plan,
		Preferences: prefs,
		Date:        s.now().Format(DateLayout),
	})
	if err != nil {
		return fmt.Errorf("encoding generated plan: %w", err)
	}
	if err := s.deps.Slot.Put(ctx, SlotKey, data); err != nil {
		return fmt.Errorf("storing generated plan: %w", err)
	}

	s.deps.Navigator.Navigate(Navigation{
		Route: RouteBuilder,
		State: map[string]any{StateShowSuggestedPlan: true},
	})
	return nil
}

// OpenRoutine starts a session with a saved routine.
func (s *Screen) OpenRoutine(r models.Routine) {
	s.deps.Navigator.Navigate(Navigation{Route: RouteSession, State: map[string]any{"routine": r}})
}

// OpenProfile navigates to the profile screen.
func (s *Screen) OpenProfile() {
	s.deps.Navigator.Navigate(Navigation{Route: RouteProfile})
}

// OpenPreferences navigates to the preferences screen.
func (s *Screen) OpenPreferences() {
	s.deps.Navigator.Navigate(Navigation{Route: RoutePreferences})
}

// OpenBuilder navigates to the workout builder without a suggested plan.
func (s *Screen) OpenBuilder() {
	s.deps.Navigator.Navigate(Navigation{Route: RouteBuilder})
}
