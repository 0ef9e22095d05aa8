package application_test

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/domain/feature"
	"github.com/felixgeelhaar/gapmap/pkg/domain/gap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want scoring.Category
	}{
		{"Validate the auth token on every request", scoring.CategorySecurity},
		{"Add response cache for hot paths", scoring.CategoryPerformance},
		{"Update the README with setup steps", scoring.CategoryDocumentation},
		{"Push events to the billing webhook", scoring.CategoryIntegration},
		{"Fix incorrect rounding in totals", scoring.CategoryCorrectness},
		{"Add dark mode", scoring.CategoryCoreFeature},
	}
	for _, tt := range tests {
		if got := application.Categorize(tt.text); got != tt.want {
			t.Errorf("Categorize(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestGapCandidateCarriesPriorityAndEffort(t *testing.T) {
	g := gap.Gap{
		RequirementID: "FR1",
		SpecID:        "user-auth",
		Category:      gap.CategoryMissing,
		Description:   `Requirement "Hash password" has no corresponding implementation`,
		Priority:      spec.PriorityP0,
		Confidence:    85,
		Effort:        scoring.NewEffort(6, scoring.LevelMedium),
		Evidence:      []string{"no function matching [hashPassword]"},
	}
	c := application.GapCandidate(g)

	if c.ID != "gap:user-auth/FR1" {
		t.Errorf("ID = %q", c.ID)
	}
	if c.ExplicitPriority != spec.PriorityP0 {
		t.Errorf("explicit priority = %s, want P0", c.ExplicitPriority)
	}
	if c.Effort.Hours != 6 {
		t.Errorf("effort = %g, want the gap's estimate", c.Effort.Hours)
	}
	if c.Category != scoring.CategorySecurity {
		t.Errorf("category = %s, want security for a password requirement", c.Category)
	}
	if c.Source != "gap" {
		t.Errorf("source = %q", c.Source)
	}
}

func TestScoreIncludesUnsubstantiatedClaims(t *testing.T) {
	findings := []feature.Finding{
		{
			Advertised:    feature.Advertised{Title: "Full-text search", Path: "README.md"},
			AccuracyScore: 0,
			Reality:       "no structural backing",
		},
		{
			Advertised:    feature.Advertised{Title: "Export reports", Path: "README.md"},
			AccuracyScore: 100,
		},
	}

	scored := application.NewScoreService(nil).Score(nil, findings, nil)
	if len(scored) != 1 {
		t.Fatalf("got %d items, want only the unsubstantiated claim", len(scored))
	}
	if !strings.Contains(scored[0].Title, "Full-text search") {
		t.Errorf("title = %q", scored[0].Title)
	}
	if scored[0].Source != "claim" {
		t.Errorf("source = %q, want claim", scored[0].Source)
	}
}

func TestScoreMergesAllSources(t *testing.T) {
	gaps := []gap.Gap{{
		RequirementID: "FR1", SpecID: "s", Category: gap.CategoryMissing,
		Description: "Requirement missing", Priority: spec.PriorityP1,
		Confidence: 85, Effort: scoring.NewEffort(4, scoring.LevelMedium),
	}}
	proposals := []scoring.Candidate{{
		ID: "proposal:dark-mode", Title: "Dark mode",
		Category: scoring.CategoryPolish, Source: "proposal",
	}}

	scored := application.NewScoreService(nil).Score(gaps, nil, proposals)
	if len(scored) != 2 {
		t.Fatalf("got %d items, want 2", len(scored))
	}
	sources := map[string]bool{}
	for _, s := range scored {
		sources[s.Source] = true
	}
	if !sources["gap"] || !sources["proposal"] {
		t.Errorf("sources = %v, want both gap and proposal", sources)
	}
}
