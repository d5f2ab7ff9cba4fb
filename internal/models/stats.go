package models

// DayMinutes is the number of workout minutes on one day.
type DayMinutes struct {
	Day     string `json:"day"`
	Minutes int    `json:"minutes"`
}

// Stats is the rolled-up statistics snapshot shown on the home screen.
type Stats struct {
	TotalWorkouts int          `json:"total_workouts"`
	CurrentStreak int          `json:"current_streak"`
	WeeklySummary []DayMinutes `json:"weekly_summary"`
}

// WeeklyMinutes sums the minutes across the weekly summary.
func (s *Stats) WeeklyMinutes() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, d := range s.WeeklySummary {
		total += d.Minutes
	}
	return total
}
