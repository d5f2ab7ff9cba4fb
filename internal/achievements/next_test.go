package achievements

import (
	"testing"

	"github.com/claude/fithome/internal/models"
)

var defs = []models.Achievement{
	{
		ID: "workouts", Name: "Dedicated", Metric: models.MetricTotalWorkouts,
		Tiers: []models.Tier{{Level: 1, Name: "Bronze", Threshold: 10}, {Level: 2, Name: "Silver", Threshold: 50}},
	},
	{
		ID: "streak", Name: "On Fire", Metric: models.MetricCurrentStreak,
		Tiers: []models.Tier{{Level: 1, Name: "Bronze", Threshold: 3}, {Level: 2, Name: "Silver", Threshold: 7}},
	},
}

// TestNextTier verifies the lowest unreached tier is selected.
func TestNextTier(t *testing.T) {
	tests := []struct {
		current int
		want    string
		ok      bool
	}{
		{0, "Bronze", true},
		{9, "Bronze", true},
		{10, "Silver", true},
		{49, "Silver", true},
		{50, "", false},
	}
	for _, tt := range tests {
		got, ok := NextTier(defs[0], tt.current)
		if ok != tt.ok || got.Name != tt.want {
			t.Errorf("NextTier(%d) = (%q, %v), want (%q, %v)", tt.current, got.Name, ok, tt.want, tt.ok)
		}
	}
}

// TestNextPicksHighestRatio verifies the achievement closest to completion wins.
func TestNextPicksHighestRatio(t *testing.T) {
	// workouts: 8/10 = 0.8, streak: 2/3 = 0.67
	got := Next(defs, Metrics{models.MetricTotalWorkouts: 8, models.MetricCurrentStreak: 2})
	if got == nil {
		t.Fatal("Next returned nil")
	}
	if got.Achievement.ID != "workouts" || got.Tier.Name != "Bronze" || got.Current != 8 {
		t.Errorf("Next = %s/%s current=%d, want workouts/Bronze current=8", got.Achievement.ID, got.Tier.Name, got.Current)
	}

	// workouts: 12/50 = 0.24, streak: 5/7 = 0.71
	got = Next(defs, Metrics{models.MetricTotalWorkouts: 12, models.MetricCurrentStreak: 5})
	if got == nil || got.Achievement.ID != "streak" || got.Tier.Name != "Silver" {
		t.Errorf("Next = %+v, want streak/Silver", got)
	}
}

// TestNextTieGoesToFirst verifies definition order breaks ties.
func TestNextTieGoesToFirst(t *testing.T) {
	got := Next(defs, Metrics{})
	if got == nil || got.Achievement.ID != "workouts" {
		t.Errorf("Next = %+v, want workouts on a tie", got)
	}
}

// TestNextAllComplete verifies nil is returned once every tier is reached.
func TestNextAllComplete(t *testing.T) {
	got := Next(defs, Metrics{models.MetricTotalWorkouts: 100, models.MetricCurrentStreak: 30})
	if got != nil {
		t.Errorf("Next = %+v, want nil", got)
	}
	if Next(nil, Metrics{}) != nil {
		t.Error("Next(nil) should be nil")
	}
}
