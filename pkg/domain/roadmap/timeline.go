package roadmap

import (
	"math"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
)

// DefaultWeeklyCapacityHours is the assumed productive hours per developer
// per week when no capacity is configured.
const DefaultWeeklyCapacityHours = 30

// ProjectTimeline computes whole-week duration projections for one, two,
// and three developers. All three are always reported so a caller can
// weigh staffing options against the same total.
func ProjectTimeline(items []scoring.ScoredFeature, weeklyCapacity float64) Timeline {
	if weeklyCapacity <= 0 {
		weeklyCapacity = DefaultWeeklyCapacityHours
	}
	var total float64
	for _, it := range items {
		total += it.Effort.Floored()
	}
	return Timeline{
		TotalHours: round1(total),
		ByTeamSize: TeamTimeline{
			OneDev:    weeksFor(total, 1, weeklyCapacity),
			TwoDevs:   weeksFor(total, 2, weeklyCapacity),
			ThreeDevs: weeksFor(total, 3, weeklyCapacity),
		},
	}
}

// weeksFor is ceil(hours / (teamSize x weeklyCapacity)), never negative.
func weeksFor(hours float64, teamSize int, weeklyCapacity float64) int {
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / (float64(teamSize) * weeklyCapacity)))
}
