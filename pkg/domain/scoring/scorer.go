package scoring

import (
	"sort"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// impactRubric assigns base impact (0..10) by category: security and
// correctness fixes outrank nice-to-have polish.
var impactRubric = map[Category]float64{
	CategorySecurity:      9,
	CategoryCorrectness:   8,
	CategoryCoreFeature:   7,
	CategoryIntegration:   6,
	CategoryPerformance:   6,
	CategoryDocumentation: 3,
	CategoryPolish:        2,
}

const defaultImpact = 5

// Candidate is a unit of potential work entering the scoring engine: a gap
// converted by the pipeline, or an externally supplied feature proposal.
type Candidate struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Category    Category      `json:"category" yaml:"category"`
	// ExplicitPriority is empty when no document declared one.
	ExplicitPriority spec.Priority `json:"explicit_priority,omitempty" yaml:"explicit_priority,omitempty"`
	Effort           Effort        `json:"effort,omitempty" yaml:"effort,omitempty"`
	DependsOn        []string      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Source           string        `json:"source" yaml:"source"` // "gap" or "proposal"
	Evidence         []string      `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// ScoredFeature is a candidate annotated with impact, effort, ROI, and a
// final priority bucket. Consumed read-only by the roadmap generator.
type ScoredFeature struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Category    Category      `json:"category" yaml:"category"`
	Priority    spec.Priority `json:"priority" yaml:"priority"`
	Impact      float64       `json:"impact" yaml:"impact"` // 0..10
	Effort      Effort        `json:"effort" yaml:"effort"`
	ROI         float64       `json:"roi" yaml:"roi"` // impact / floored effort hours
	Source      string        `json:"source" yaml:"source"`
	DependsOn   []string      `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Evidence    []string      `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Score computes impact, effort, ROI, and priority for every candidate and
// returns them ordered by (priority, ROI descending, ID).
//
// Impact comes from the category rubric, nudged up by an explicit urgent
// priority. Missing effort estimates fall back to the category table. The
// final priority bucket is derived from the item's ROI percentile within
// this scoring run, but an explicit priority always wins over the computed
// bucket, because explicit data is more trustworthy than heuristics.
func Score(candidates []Candidate) []ScoredFeature {
	scored := make([]ScoredFeature, 0, len(candidates))

	for _, c := range candidates {
		impact, ok := impactRubric[c.Category]
		if !ok {
			impact = defaultImpact
		}
		switch c.ExplicitPriority {
		case spec.PriorityP0:
			impact += 2
		case spec.PriorityP1:
			impact++
		}
		if impact > 10 {
			impact = 10
		}

		effort := c.Effort
		if effort.IsZero() {
			effort = EffortForCategory(c.Category)
		}

		scored = append(scored, ScoredFeature{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Category:    c.Category,
			Impact:      impact,
			Effort:      effort,
			ROI:         round2(impact / effort.Floored()),
			Source:      c.Source,
			DependsOn:   c.DependsOn,
			Evidence:    c.Evidence,
		})
	}

	assignPriorities(scored, candidates)

	sort.SliceStable(scored, func(i, j int) bool {
		if c := scored[i].Priority.Compare(scored[j].Priority); c != 0 {
			return c < 0
		}
		if scored[i].ROI != scored[j].ROI {
			return scored[i].ROI > scored[j].ROI
		}
		return scored[i].ID < scored[j].ID
	})
	return scored
}

// assignPriorities buckets items by ROI percentile, then overrides with any
// explicit priority.
func assignPriorities(scored []ScoredFeature, candidates []Candidate) {
	rois := make([]float64, len(scored))
	for i, s := range scored {
		rois[i] = s.ROI
	}
	sort.Float64s(rois)

	for i := range scored {
		if p := candidates[i].ExplicitPriority; p.IsValid() {
			scored[i].Priority = p
			continue
		}
		scored[i].Priority = bucketForPercentile(percentile(rois, scored[i].ROI), scored[i].Impact)
	}
}

// percentile returns the fraction of values strictly below v.
func percentile(sorted []float64, v float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	below := sort.SearchFloat64s(sorted, v)
	return float64(below) / float64(len(sorted))
}

// bucketForPercentile maps an ROI percentile to a priority. P0 is reserved
// for top-percentile items that are also high-impact.
func bucketForPercentile(p, impact float64) spec.Priority {
	switch {
	case p >= 0.85 && impact >= 8:
		return spec.PriorityP0
	case p >= 0.6:
		return spec.PriorityP1
	case p >= 0.3:
		return spec.PriorityP2
	default:
		return spec.PriorityP3
	}
}
