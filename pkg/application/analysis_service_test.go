package application_test

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/domain/gap"
	"github.com/felixgeelhaar/gapmap/pkg/parser"
)

const authSpec = `# User Authentication

Status: in-progress
Priority: P0

## Functional Requirements

- FR1: Validate email on signup [P0]
- FR2: Hash password before storing [P1]
- FR3: Purge expired sessions [P2]

## Acceptance Criteria

- [ ] invalid addresses are rejected
- [x] passwords never stored in plain text
`

const authSource = `package auth

// ValidateEmail rejects malformed addresses.
func ValidateEmail(email string) bool {
	return email != ""
}

func hashPassword(pw string) string {
	panic("not implemented")
}
`

func fixtureProject(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, root, "specs/001-user-auth/spec.md", authSpec)
	writeFile(t, root, "src/auth.go", authSource)
	writeFile(t, root, "README.md", "# Demo\n\n## Features\n\n- **Magic sync** - syncs everything\n")
	return root
}

func TestAnalyzeEndToEnd(t *testing.T) {
	root := fixtureProject(t)

	result, err := application.NewAnalysisService(nil, nil).Analyze(
		context.Background(), root, application.AnalysisOptions{})
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if result.Detection.Format != parser.FormatA {
		t.Errorf("format = %s, want A", result.Detection.Format)
	}
	if result.Stats.SpecCount != 1 || result.Stats.RequirementCount != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}

	// FR1 is implemented, FR2 is a stub, FR3 is absent.
	byReq := map[string]gap.Gap{}
	for _, g := range result.Gaps {
		byReq[g.RequirementID] = g
	}
	if _, ok := byReq["FR1"]; ok {
		t.Error("FR1 flagged despite a real implementation")
	}
	if g, ok := byReq["FR2"]; !ok || g.Category != gap.CategoryStub {
		t.Errorf("FR2 gap = %+v, want STUB", g)
	}
	if g, ok := byReq["FR3"]; !ok || g.Category != gap.CategoryMissing {
		t.Errorf("FR3 gap = %+v, want MISSING", g)
	}

	// The advertised feature has no backing symbol.
	if len(result.Findings) != 1 || !result.Findings[0].IsUnsubstantiated() {
		t.Errorf("findings = %+v, want one unsubstantiated claim", result.Findings)
	}

	// Gap order: P0 and P1 requirements come before P2.
	if len(result.Gaps) >= 2 && result.Gaps[0].RequirementID != "FR2" {
		t.Errorf("first gap = %s, want the P1 stub before the P2 missing requirement",
			result.Gaps[0].RequirementID)
	}
}

func TestAnalyzeNoSpecs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.go", "package app\n\nfunc Run() {}\n")

	_, err := application.NewAnalysisService(nil, nil).Analyze(
		context.Background(), root, application.AnalysisOptions{})
	if err == nil {
		t.Fatal("want error when no specification documents exist")
	}
}
