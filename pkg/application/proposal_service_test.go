package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

func writeProposal(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProposals(t *testing.T) {
	dir := t.TempDir()
	writeProposal(t, dir, "01-dark-mode.json", `{
		"title": "Dark mode",
		"description": "Theme toggle for the dashboard",
		"category": "polish",
		"priority": "P2",
		"effort_hours": 12
	}`)
	writeProposal(t, dir, "02-sso.json", `{
		"id": "sso",
		"title": "Single sign-on",
		"depends_on": ["proposal:dark-mode"]
	}`)

	cands, err := application.NewProposalService(nil).Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}

	dark := cands[0]
	if dark.ID != "proposal:dark-mode" {
		t.Errorf("ID = %q, want slug derived from title", dark.ID)
	}
	if dark.ExplicitPriority != spec.PriorityP2 {
		t.Errorf("priority = %s, want P2", dark.ExplicitPriority)
	}
	if dark.Effort.Hours != 12 {
		t.Errorf("effort = %g, want 12", dark.Effort.Hours)
	}
	if dark.Category != scoring.CategoryPolish {
		t.Errorf("category = %s", dark.Category)
	}

	sso := cands[1]
	if sso.ID != "proposal:sso" {
		t.Errorf("ID = %q, want explicit id", sso.ID)
	}
	if len(sso.DependsOn) != 1 || sso.DependsOn[0] != "proposal:dark-mode" {
		t.Errorf("depends_on = %v", sso.DependsOn)
	}
	// Category omitted in the file: derived from the text.
	if sso.Category == "" {
		t.Error("category not derived for proposal without one")
	}
}

func TestLoadProposalsSkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeProposal(t, dir, "bad-schema.json", `{"description": "no title"}`)
	writeProposal(t, dir, "bad-field.json", `{"title": "X Y", "bogus": true}`)
	writeProposal(t, dir, "not-json.json", `{{{`)
	writeProposal(t, dir, "good.json", `{"title": "Real proposal"}`)

	cands, err := application.NewProposalService(nil).Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want the single valid one: %+v", len(cands), cands)
	}
	if cands[0].Title != "Real proposal" {
		t.Errorf("title = %q", cands[0].Title)
	}
}

func TestLoadProposalsMissingDir(t *testing.T) {
	cands, err := application.NewProposalService(nil).Load(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cands != nil {
		t.Fatalf("got %v, want nil for a missing directory", cands)
	}
}
