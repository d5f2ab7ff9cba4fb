// Package achievements computes tier progression for achievement definitions.
package achievements

import "github.com/claude/fithome/internal/models"

// Metrics maps a metric name (models.Metric*) to the user's current value.
type Metrics map[string]int

// NextTier returns the lowest tier of a whose threshold is above current.
// The second return value is false when every tier is complete.
func NextTier(a models.Achievement, current int) (models.Tier, bool) {
	for _, t := range a.Tiers {
		if t.Threshold > current {
			return t, true
		}
	}
	return models.Tier{}, false
}

// Next returns the nearest uncompleted tier across all achievements, or nil
// when every tier of every achievement is complete. Nearest means the highest
// completion ratio; ties go to the achievement listed first.
func Next(defs []models.Achievement, metrics Metrics) *models.NextChallenge {
	var best *models.NextChallenge
	var bestNum, bestDen int

	for _, a := range defs {
		current := metrics[a.Metric]
		tier, ok := NextTier(a, current)
		if !ok {
			continue
		}
		num, den := current, tier.Threshold
		if num < 0 {
			num = 0
		}
		// num/den > bestNum/bestDen without floating point.
		if best == nil || num*bestDen > bestNum*den {
			best = &models.NextChallenge{Achievement: a, Tier: tier, Current: current}
			bestNum, bestDen = num, den
		}
	}
	return best
}
