package models

import "testing"

// TestNextChallengeProgress verifies percentage computation and clamping.
func TestNextChallengeProgress(t *testing.T) {
	tests := []struct {
		current, threshold int
		want               int
		remaining          int
	}{
		{0, 10, 0, 10},
		{5, 10, 50, 5},
		{9, 10, 90, 1},
		{15, 10, 100, 0},
		{3, 0, 0, 0},
	}

	for _, tt := range tests {
		c := &NextChallenge{Tier: Tier{Threshold: tt.threshold}, Current: tt.current}
		if got := c.Progress(); got != tt.want {
			t.Errorf("Progress(%d/%d) = %d, want %d", tt.current, tt.threshold, got, tt.want)
		}
		if tt.threshold > 0 {
			if got := c.Remaining(); got != tt.remaining {
				t.Errorf("Remaining(%d/%d) = %d, want %d", tt.current, tt.threshold, got, tt.remaining)
			}
		}
	}

	var nilChallenge *NextChallenge
	if nilChallenge.Progress() != 0 || nilChallenge.Remaining() != 0 {
		t.Error("nil challenge should report zero progress and remaining")
	}
}

// TestStatsWeeklyMinutes verifies the weekly summary total.
func TestStatsWeeklyMinutes(t *testing.T) {
	s := &Stats{WeeklySummary: []DayMinutes{{"Mon", 20}, {"Tue", 0}, {"Wed", 35}}}
	if got := s.WeeklyMinutes(); got != 55 {
		t.Errorf("WeeklyMinutes() = %d, want 55", got)
	}
	var nilStats *Stats
	if nilStats.WeeklyMinutes() != 0 {
		t.Error("nil stats should report 0 minutes")
	}
}
