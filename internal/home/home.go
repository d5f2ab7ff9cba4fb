// Package home orchestrates the Home screen: greeting, suggested workout,
// dashboard data and the suggested-workout generation action.
package home

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/claude/fithome/internal/models"
)

// User-facing toast messages.
const (
	LoadFailedMessage     = "Failed to load dashboard data"
	GenerateFailedMessage = "Failed to generate workout. Please try again."
)

// SlotKey is the session slot holding the latest generated suggested workout.
const SlotKey = "suggested_workout"

// DateLayout formats the calendar day stored with a generated plan.
const DateLayout = "2006-01-02"

// Navigation routes.
const (
	RouteBuilder     = "/builder"
	RouteSession     = "/session"
	RouteProfile     = "/profile"
	RoutePreferences = "/preferences"
)

// StateShowSuggestedPlan asks the builder to surface the stored suggested plan.
const StateShowSuggestedPlan = "showSuggestedPlan"

var (
	ErrAlreadyGenerating = errors.New("suggested workout is already being generated")
	ErrInvalidPlan       = errors.New("generated plan is missing warmup, rounds or cooldown")
	ErrNoSuggestion      = errors.New("no suggested workout")
)

// SuggestedDurations are the workout lengths, in minutes, a suggestion picks from.
var SuggestedDurations = []int{15, 20, 30}

// StatsSource supplies the statistics snapshot.
type StatsSource interface {
	GetStats(ctx context.Context, userID int) (*models.Stats, error)
}

// RoutineSource supplies saved routines in storage order, oldest first.
type RoutineSource interface {
	ListRoutines(ctx context.Context, userID int) ([]models.Routine, error)
}

// ChallengeSource supplies the nearest uncompleted achievement tier, or nil.
type ChallengeSource interface {
	GetNextChallenge(ctx context.Context, userID int) (*models.NextChallenge, error)
}

// PlanGenerator produces a workout plan for a preference record.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, prefs models.Preferences) (*models.Plan, error)
}

// ProfileSource delivers display-name changes until unsubscribed.
type ProfileSource interface {
	Subscribe(userID int, fn func(displayName string)) (unsubscribe func())
}

// Slot is transient session storage. Put overwrites any previous value.
type Slot interface {
	Put(ctx context.Context, key string, value []byte) error
}

// Notifier raises user-facing toasts.
type Notifier interface {
	Error(message string)
}

// Navigator moves the user to another screen.
type Navigator interface {
	Navigate(nav Navigation)
}

// Navigation is a destination route plus the state handed to it.
type Navigation struct {
	Route string         `json:"route"`
	State map[string]any `json:"state,omitempty"`
}

// Suggestion is the randomized workout offered on the home screen.
type Suggestion struct {
	Title       string             `json:"title"`
	Duration    int                `json:"duration"`
	Preferences models.Preferences `json:"preferences"`
}

// GeneratedRecord is what the builder reads back from the session slot.
type GeneratedRecord struct {
	Plan        models.Plan        `json:"plan"`
	Preferences models.Preferences `json:"preferences"`
	Date        string             `json:"date"`
}

// View is the display-ready state of the home screen.
type View struct {
	Greeting       string                `json:"greeting"`
	DisplayName    string                `json:"display_name"`
	Suggestion     *Suggestion           `json:"suggestion"`
	Stats          *models.Stats         `json:"stats"`
	RecentRoutines []models.Routine      `json:"recent_routines"`
	NextChallenge  *models.NextChallenge `json:"next_challenge"`
	IsLoading      bool                  `json:"is_loading"`
	IsGenerating   bool                  `json:"is_generating"`
}

// Greeting returns the salutation for an hour of the day.
func Greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good Morning"
	case hour < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// Suggest picks a random goal and duration and fills in the default preferences.
// A nil rng uses the global source.
func Suggest(rng *rand.Rand) Suggestion {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	goal := models.Goals[intN(len(models.Goals))]
	duration := SuggestedDurations[intN(len(SuggestedDurations))]

	return Suggestion{
		Title:    fmt.Sprintf("%d-Minute %s Workout", duration, goal.Label()),
		Duration: duration,
		Preferences: models.Preferences{
			Duration:             duration,
			SkillLevel:           models.SkillIntermediate,
			Goal:                 goal,
			Equipment:            []string{"bodyweight"},
			Rounds:               3,
			IncludeWarmup:        true,
			WarmupDuration:       5,
			IncludeCooldown:      true,
			CooldownDuration:     5,
			RestBetweenExercises: 15,
			RestBetweenRounds:    60,
		},
	}
}

// RecentRoutines returns the last three routines, most recent first.
func RecentRoutines(routines []models.Routine) []models.Routine {
	start := len(routines) - 3
	if start < 0 {
		start = 0
	}
	recent := make([]models.Routine, 0, len(routines)-start)
	for i := len(routines) - 1; i >= start; i-- {
		recent = append(recent, routines[i])
	}
	return recent
}
