// Package gap diffs canonical specs against extracted source facts and
// emits confidence-scored gaps: requirements with no implementation, stub
// implementations, or implementations missing declared fields.
package gap

import (
	"sort"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Category classifies what kind of divergence a gap records.
type Category string

const (
	// CategoryMissing means no corresponding source fact was found.
	CategoryMissing Category = "MISSING"
	// CategoryStub means a matching function exists but is not implemented.
	CategoryStub Category = "STUB"
	// CategoryIncomplete means the match is missing requirement-declared fields.
	CategoryIncomplete Category = "INCOMPLETE"
)

// Gap is one detected discrepancy between a requirement and the code.
// Gaps are immutable once emitted; re-running analysis produces a fresh set.
type Gap struct {
	RequirementID string         `json:"requirement_id"`
	SpecID        string         `json:"spec_id"`
	Category      Category       `json:"category"`
	Description   string         `json:"description"`
	Priority      spec.Priority  `json:"priority"`
	Confidence    int            `json:"confidence"` // 0..100 certainty this gap is real
	Effort        scoring.Effort `json:"effort"`
	Evidence      []string       `json:"evidence,omitempty"`
}

// SortGaps orders gaps deterministically: priority first (P0 highest),
// then confidence descending, then requirement ID as the final tiebreak so
// repeated runs on identical input always agree.
func SortGaps(gaps []Gap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		if c := gaps[i].Priority.Compare(gaps[j].Priority); c != 0 {
			return c < 0
		}
		if gaps[i].Confidence != gaps[j].Confidence {
			return gaps[i].Confidence > gaps[j].Confidence
		}
		if gaps[i].SpecID != gaps[j].SpecID {
			return gaps[i].SpecID < gaps[j].SpecID
		}
		return gaps[i].RequirementID < gaps[j].RequirementID
	})
}

// Config carries the heuristic constants of the analyzer. The defaults are
// tuned by example; they affect ranking stability, not correctness, and are
// exposed here rather than hard-coded.
type Config struct {
	// SuppressBelow drops gaps whose confidence is under this threshold.
	SuppressBelow int
	// NoMatchConfidence is the certainty assigned when no source fact
	// resembles the requirement at all.
	NoMatchConfidence int
	// StubConfidence is the certainty when the matched function is a stub.
	StubConfidence int
	// IncompleteConfidence is the certainty when declared fields are missing
	// from the matched function's parameters.
	IncompleteConfidence int
	// FuzzyThreshold is the minimum similarity ratio (0..1) for a fuzzy
	// name match to count as a match.
	FuzzyThreshold float64
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		SuppressBelow:        50,
		NoMatchConfidence:    85,
		StubConfidence:       90,
		IncompleteConfidence: 70,
		FuzzyThreshold:       0.72,
	}
}
