package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Goal is the training focus of a workout.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalCardio      Goal = "cardio"
	GoalHIIT        Goal = "hiit"
	GoalFlexibility Goal = "flexibility"
	GoalEndurance   Goal = "endurance"
)

// Goals lists every goal in display order.
var Goals = []Goal{GoalStrength, GoalCardio, GoalHIIT, GoalFlexibility, GoalEndurance}

// Label returns the human-readable goal name.
func (g Goal) Label() string {
	switch g {
	case GoalStrength:
		return "Strength"
	case GoalCardio:
		return "Cardio"
	case GoalHIIT:
		return "HIIT"
	case GoalFlexibility:
		return "Flexibility"
	case GoalEndurance:
		return "Endurance"
	default:
		return string(g)
	}
}

// Valid reports whether g is a known goal.
func (g Goal) Valid() bool {
	for _, known := range Goals {
		if g == known {
			return true
		}
	}
	return false
}

// SkillLevel is the user's training experience.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// Valid reports whether s is a known skill level.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// Preferences is the full parameter set used to generate a workout plan.
// Durations are in minutes except the rest intervals, which are seconds.
type Preferences struct {
	Duration             int        `json:"duration"`
	SkillLevel           SkillLevel `json:"skill_level"`
	Goal                 Goal       `json:"goal"`
	Equipment            []string   `json:"equipment"`
	Rounds               int        `json:"rounds"`
	IncludeWarmup        bool       `json:"include_warmup"`
	WarmupDuration       int        `json:"warmup_duration"`
	IncludeCooldown      bool       `json:"include_cooldown"`
	CooldownDuration     int        `json:"cooldown_duration"`
	RestBetweenExercises int        `json:"rest_between_exercises"`
	RestBetweenRounds    int        `json:"rest_between_rounds"`
}

// Validate checks that the preferences describe a workout that can be generated.
func (p Preferences) Validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", p.Duration)
	}
	if p.Rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", p.Rounds)
	}
	if !p.Goal.Valid() {
		return fmt.Errorf("unknown goal %q", p.Goal)
	}
	if !p.SkillLevel.Valid() {
		return fmt.Errorf("unknown skill level %q", p.SkillLevel)
	}
	if p.IncludeWarmup && p.WarmupDuration <= 0 {
		return fmt.Errorf("warmup_duration must be positive when warmup is included")
	}
	if p.IncludeCooldown && p.CooldownDuration <= 0 {
		return fmt.Errorf("cooldown_duration must be positive when cooldown is included")
	}
	if p.RestBetweenExercises < 0 || p.RestBetweenRounds < 0 {
		return fmt.Errorf("rest intervals cannot be negative")
	}
	return nil
}

// Step is a single exercise within a plan section.
type Step struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
	Reps        int    `json:"reps,omitempty"`
}

// Plan is a workout made of warm-up, round and cool-down sequences.
// A nil section means the section is missing; an empty non-nil section is valid.
type Plan struct {
	Warmup   []Step `json:"warmup"`
	Rounds   []Step `json:"rounds"`
	Cooldown []Step `json:"cooldown"`
}

// Complete reports whether all three sections are present.
func (p *Plan) Complete() bool {
	return p != nil && p.Warmup != nil && p.Rounds != nil && p.Cooldown != nil
}

// Routine is a saved workout plan.
type Routine struct {
	ID          uuid.UUID   `json:"id"`
	UserID      int         `json:"user_id"`
	Name        string      `json:"name"`
	Preferences Preferences `json:"preferences"`
	Plan        Plan        `json:"plan"`
	CreatedAt   time.Time   `json:"created_at"`
}

// WorkoutLog records one completed workout session.
type WorkoutLog struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int        `json:"user_id"`
	RoutineID   *uuid.UUID `json:"routine_id,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`
	DurationSec int        `json:"duration_sec"`
}
