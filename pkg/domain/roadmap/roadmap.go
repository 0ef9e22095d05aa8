// Package roadmap assembles scored work items into an ordered, phased
// delivery plan with dependency-aware packing and team-size timeline
// projections. A roadmap is a terminal artifact: generated in one pass,
// handed to the exporter, never mutated afterwards.
package roadmap

import (
	"time"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Phase is one ordered delivery bucket. Items reference entries in the
// roadmap's AllItems by ID.
type Phase struct {
	Index        int      `json:"index" yaml:"index"`
	Name         string   `json:"name" yaml:"name"`
	Items        []string `json:"items" yaml:"items"`
	EffortHours  float64  `json:"effort_hours" yaml:"effort_hours"`
	Risks        []string `json:"risks,omitempty" yaml:"risks,omitempty"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// Summary aggregates the roadmap for the report header.
type Summary struct {
	ByPriority map[spec.Priority]int `json:"by_priority" yaml:"by_priority"`
	NextSteps  []string              `json:"next_steps" yaml:"next_steps"`
}

// TeamTimeline is the projected duration in whole weeks for a fixed team
// size. All three sizes are always reported so callers can compare options.
type TeamTimeline struct {
	OneDev    int `json:"one_dev" yaml:"one_dev"`
	TwoDevs   int `json:"two_devs" yaml:"two_devs"`
	ThreeDevs int `json:"three_devs" yaml:"three_devs"`
}

// Timeline carries the per-team-size projections.
type Timeline struct {
	TotalHours float64      `json:"total_hours" yaml:"total_hours"`
	ByTeamSize TeamTimeline `json:"by_team_size" yaml:"by_team_size"`
}

// Roadmap is the complete generated plan.
type Roadmap struct {
	ID          string                  `json:"id" yaml:"id"`
	GeneratedAt time.Time               `json:"generated_at" yaml:"generated_at"`
	Phases      []Phase                 `json:"phases" yaml:"phases"`
	AllItems    []scoring.ScoredFeature `json:"all_items" yaml:"all_items"`
	Summary     Summary                 `json:"summary" yaml:"summary"`
	Timeline    Timeline                `json:"timeline" yaml:"timeline"`
}

// Item returns the scored feature with the given ID, or nil.
func (r *Roadmap) Item(id string) *scoring.ScoredFeature {
	for i := range r.AllItems {
		if r.AllItems[i].ID == id {
			return &r.AllItems[i]
		}
	}
	return nil
}

// Equal compares two roadmaps by value, ignoring generation timestamps.
// Used to verify export round-trips.
func (r *Roadmap) Equal(other *Roadmap) bool {
	if r == nil || other == nil {
		return r == other
	}
	a, b := *r, *other
	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	return equalRoadmaps(a, b)
}

func equalRoadmaps(a, b Roadmap) bool {
	if a.ID != b.ID || len(a.Phases) != len(b.Phases) || len(a.AllItems) != len(b.AllItems) {
		return false
	}
	for i := range a.Phases {
		if !equalPhases(a.Phases[i], b.Phases[i]) {
			return false
		}
	}
	for i := range a.AllItems {
		if !equalItems(a.AllItems[i], b.AllItems[i]) {
			return false
		}
	}
	if a.Timeline != b.Timeline {
		return false
	}
	if len(a.Summary.ByPriority) != len(b.Summary.ByPriority) {
		return false
	}
	for k, v := range a.Summary.ByPriority {
		if b.Summary.ByPriority[k] != v {
			return false
		}
	}
	return equalStrings(a.Summary.NextSteps, b.Summary.NextSteps)
}

func equalPhases(a, b Phase) bool {
	return a.Index == b.Index && a.Name == b.Name && a.EffortHours == b.EffortHours &&
		equalStrings(a.Items, b.Items) && equalStrings(a.Risks, b.Risks) &&
		equalStrings(a.Dependencies, b.Dependencies)
}

func equalItems(a, b scoring.ScoredFeature) bool {
	return a.ID == b.ID && a.Title == b.Title && a.Description == b.Description &&
		a.Category == b.Category && a.Priority == b.Priority &&
		a.Impact == b.Impact && a.Effort == b.Effort && a.ROI == b.ROI &&
		a.Source == b.Source &&
		equalStrings(a.DependsOn, b.DependsOn) && equalStrings(a.Evidence, b.Evidence)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
