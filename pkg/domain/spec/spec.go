// Package spec defines the canonical specification model that both supported
// document conventions are parsed into. Downstream stages (gap analysis,
// completeness checks, scoring) consume this model read-only.
package spec

import (
	"fmt"
)

// Status describes the lifecycle state a specification document declares
// for itself. Free-form values from documents are preserved as-is.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusApproved    Status = "approved"
	StatusImplemented Status = "implemented"
	StatusUnknown     Status = "unknown"
)

// ParsedSpec is the canonical specification unit. Exactly one parser
// produces each ParsedSpec from one source document (or one epic within
// a document); it is never mutated downstream.
type ParsedSpec struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Path     string   `json:"path" yaml:"path"`
	Status   Status   `json:"status" yaml:"status"`
	Priority Priority `json:"priority" yaml:"priority"`

	FunctionalRequirements    []Requirement `json:"functional_requirements" yaml:"functional_requirements"`
	NonFunctionalRequirements []Requirement `json:"non_functional_requirements" yaml:"non_functional_requirements"`
	AcceptanceCriteria        []Criterion   `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	SuccessCriteria           []string      `json:"success_criteria" yaml:"success_criteria"`
	Phases                    []SpecPhase   `json:"phases" yaml:"phases"`
}

// Requirement is a granular condition a spec declares. IDs are unique
// within their owning ParsedSpec.
type Requirement struct {
	ID                 string   `json:"id" yaml:"id"`
	Title              string   `json:"title" yaml:"title"`
	Priority           Priority `json:"priority" yaml:"priority"`
	Description        string   `json:"description" yaml:"description"`
	AcceptanceCriteria []string `json:"acceptance_criteria" yaml:"acceptance_criteria"`
}

// Criterion is a single acceptance criterion, optionally checkbox-tracked.
type Criterion struct {
	Text    string `json:"text" yaml:"text"`
	Checked bool   `json:"checked" yaml:"checked"`
}

// SpecPhase is a delivery phase declared by (or derived from) a document,
// referencing requirements by ID.
type SpecPhase struct {
	Index          int      `json:"index" yaml:"index"`
	Name           string   `json:"name" yaml:"name"`
	RequirementIDs []string `json:"requirement_ids" yaml:"requirement_ids"`
}

// Requirements returns functional and non-functional requirements combined,
// functional first.
func (s *ParsedSpec) Requirements() []Requirement {
	out := make([]Requirement, 0, len(s.FunctionalRequirements)+len(s.NonFunctionalRequirements))
	out = append(out, s.FunctionalRequirements...)
	out = append(out, s.NonFunctionalRequirements...)
	return out
}

// Validate checks the spec for structural integrity. It returns all
// problems found rather than stopping at the first.
func (s *ParsedSpec) Validate() []error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, fmt.Errorf("spec ID is required"))
	}
	if s.Title == "" {
		errs = append(errs, fmt.Errorf("spec title is required"))
	}

	seen := make(map[string]bool)
	for i, r := range s.Requirements() {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("requirement at index %d missing ID", i))
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("duplicate requirement ID: %s", r.ID))
		}
		seen[r.ID] = true
	}

	for _, ph := range s.Phases {
		for _, id := range ph.RequirementIDs {
			if !seen[id] {
				errs = append(errs, fmt.Errorf("phase %q references unknown requirement %s", ph.Name, id))
			}
		}
	}
	return errs
}
