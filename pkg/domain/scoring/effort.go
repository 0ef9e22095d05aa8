// Package scoring computes impact, effort, ROI, and priority for gaps and
// candidate features. All rubrics and tables are explicit package data so
// every scoring rule is visible and unit-testable.
package scoring

import "fmt"

// Level tags how trustworthy an effort estimate is.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// IsValid returns true for a recognized confidence level.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// Three-point spread factors applied to the realistic estimate.
const (
	optimisticFactor  = 0.6
	pessimisticFactor = 1.8
)

// MinEffortHours floors effort in ROI math so near-zero estimates do not
// blow the ratio up.
const MinEffortHours = 0.25

// Effort is an hours estimate with a confidence tag and a three-point
// optimistic/realistic/pessimistic range.
type Effort struct {
	Hours       float64 `json:"hours" yaml:"hours"` // realistic
	Confidence  Level   `json:"confidence" yaml:"confidence"`
	Optimistic  float64 `json:"optimistic" yaml:"optimistic"`
	Pessimistic float64 `json:"pessimistic" yaml:"pessimistic"`
}

// NewEffort builds an estimate around a realistic hour count, deriving the
// three-point range.
func NewEffort(realistic float64, confidence Level) Effort {
	if realistic < 0 {
		realistic = 0
	}
	if !confidence.IsValid() {
		confidence = LevelLow
	}
	return Effort{
		Hours:       round2(realistic),
		Confidence:  confidence,
		Optimistic:  round2(realistic * optimisticFactor),
		Pessimistic: round2(realistic * pessimisticFactor),
	}
}

// Floored returns the realistic hours, never below MinEffortHours.
func (e Effort) Floored() float64 {
	if e.Hours < MinEffortHours {
		return MinEffortHours
	}
	return e.Hours
}

// IsZero reports whether no estimate was made.
func (e Effort) IsZero() bool {
	return e.Hours == 0 && e.Confidence == ""
}

// String renders the estimate for reports: "8h (medium, 4.8-14.4h)".
func (e Effort) String() string {
	return fmt.Sprintf("%gh (%s, %g-%gh)", e.Hours, e.Confidence, e.Optimistic, e.Pessimistic)
}

// Category classifies a work item; it keys the impact rubric and the
// fallback effort table.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryCorrectness   Category = "correctness"
	CategoryCoreFeature   Category = "core-feature"
	CategoryIntegration   Category = "integration"
	CategoryPerformance   Category = "performance"
	CategoryDocumentation Category = "documentation"
	CategoryPolish        Category = "polish"
)

// effortTable is the fallback realistic-hours estimate by change category,
// used when an item carries no direct estimate.
var effortTable = map[Category]float64{
	CategorySecurity:      6,
	CategoryCorrectness:   4,
	CategoryCoreFeature:   16,
	CategoryIntegration:   10,
	CategoryPerformance:   8,
	CategoryDocumentation: 2,
	CategoryPolish:        3,
}

const defaultEffortHours = 8

// EffortForCategory returns the table estimate for a category, tagged
// low-confidence because it is derived, not measured.
func EffortForCategory(c Category) Effort {
	hours, ok := effortTable[c]
	if !ok {
		hours = defaultEffortHours
	}
	return NewEffort(hours, LevelLow)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
