package parser

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

const authSpecDoc = `# User Authentication

**Status**: draft
**Priority**: P1

## Functional Requirements

- FR1: Login — users sign in with email and password [P0]
- Session refresh: rotate tokens hourly

## Non-Functional Requirements

- Latency under 200ms for the login endpoint

## Acceptance Criteria

- [x] valid credentials produce a session
- [ ] sessions expire after an hour

## Success Criteria

- 99% of logins complete without support tickets
`

func TestParseSpecFile(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "specs/001-auth/spec.md", authSpecDoc)

	p := NewConventionA(nil)
	parsed, err := p.ParseSpecFile(filepath.Join(root, "specs", "001-auth", "spec.md"))
	if err != nil {
		t.Fatalf("ParseSpecFile: %v", err)
	}

	if parsed.ID != "001-auth" {
		t.Errorf("ID = %q, want 001-auth", parsed.ID)
	}
	if parsed.Title != "User Authentication" {
		t.Errorf("Title = %q", parsed.Title)
	}
	if parsed.Status != spec.StatusDraft {
		t.Errorf("Status = %q, want draft", parsed.Status)
	}
	if parsed.Priority != spec.PriorityP1 {
		t.Errorf("Priority = %s, want P1", parsed.Priority)
	}

	if len(parsed.FunctionalRequirements) != 2 {
		t.Fatalf("functional requirements = %d, want 2", len(parsed.FunctionalRequirements))
	}
	fr1 := parsed.FunctionalRequirements[0]
	if fr1.ID != "FR1" || fr1.Title != "Login" {
		t.Errorf("FR1 = %q/%q", fr1.ID, fr1.Title)
	}
	if fr1.Priority != spec.PriorityP0 {
		t.Errorf("FR1 priority = %s, want inline P0 tag to win", fr1.Priority)
	}
	fr2 := parsed.FunctionalRequirements[1]
	if fr2.ID != "FR2" || fr2.Title != "Session refresh" {
		t.Errorf("FR2 = %q/%q, want generated ID and split title", fr2.ID, fr2.Title)
	}
	if fr2.Description != "rotate tokens hourly" {
		t.Errorf("FR2 description = %q", fr2.Description)
	}

	if len(parsed.NonFunctionalRequirements) != 1 {
		t.Fatalf("non-functional requirements = %d, want 1", len(parsed.NonFunctionalRequirements))
	}
	if parsed.NonFunctionalRequirements[0].ID != "NFR1" {
		t.Errorf("NFR ID = %q", parsed.NonFunctionalRequirements[0].ID)
	}

	if len(parsed.AcceptanceCriteria) != 2 {
		t.Fatalf("acceptance criteria = %d, want 2", len(parsed.AcceptanceCriteria))
	}
	if !parsed.AcceptanceCriteria[0].Checked {
		t.Error("first criterion should be checked")
	}
	if parsed.AcceptanceCriteria[1].Checked {
		t.Error("second criterion should be unchecked")
	}

	if len(parsed.SuccessCriteria) != 1 {
		t.Errorf("success criteria = %v, want 1", parsed.SuccessCriteria)
	}
}

func TestParseSpecFileMinimal(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "specs/002-bare/spec.md", "just prose, no headings at all\n")

	parsed, err := NewConventionA(nil).ParseSpecFile(filepath.Join(root, "specs", "002-bare", "spec.md"))
	if err != nil {
		t.Fatalf("ParseSpecFile: %v", err)
	}
	if parsed.Title != "002-bare" {
		t.Errorf("Title = %q, want folder name fallback", parsed.Title)
	}
	if len(parsed.FunctionalRequirements) != 0 {
		t.Errorf("requirements = %v, want none", parsed.FunctionalRequirements)
	}
}

func TestConventionASkipsUnreadable(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "specs/001-auth/spec.md", authSpecDoc)

	det := Detection{
		Format: FormatA,
		Paths: Paths{FeatureDirs: []string{
			filepath.Join(root, "specs", "000-missing"),
			filepath.Join(root, "specs", "001-auth"),
		}},
	}
	specs, err := NewConventionA(nil).Parse(det)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(specs) != 1 || specs[0].ID != "001-auth" {
		t.Fatalf("specs = %+v, want only 001-auth", specs)
	}
}
