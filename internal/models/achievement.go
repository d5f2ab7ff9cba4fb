package models

// Metric names tracked by achievements.
const (
	MetricTotalWorkouts = "total_workouts"
	MetricCurrentStreak = "current_streak"
	MetricTotalMinutes  = "total_minutes"
)

// Tier is one milestone level within an achievement.
type Tier struct {
	Level     int    `json:"level"`
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// Achievement is a progression of tiers over a single metric.
// Tiers are ordered by ascending threshold.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Icon        string `json:"icon,omitempty"`
	Tiers       []Tier `json:"tiers"`
}

// NextChallenge pairs an achievement with the tier the user is approaching.
type NextChallenge struct {
	Achievement Achievement `json:"achievement"`
	Tier        Tier        `json:"tier"`
	Current     int         `json:"current"`
}

// Progress returns the completion percentage towards the tier, clamped to [0, 100].
func (c *NextChallenge) Progress() int {
	if c == nil || c.Tier.Threshold <= 0 {
		return 0
	}
	pct := c.Current * 100 / c.Tier.Threshold
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Remaining returns how much of the metric is left to reach the tier.
func (c *NextChallenge) Remaining() int {
	if c == nil {
		return 0
	}
	if r := c.Tier.Threshold - c.Current; r > 0 {
		return r
	}
	return 0
}
