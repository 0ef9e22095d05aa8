package parser

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

const requirementsDoc = `# Notes App Requirements

## 1. Functional Requirements

- **Search** - full text search across notes
- plain prose bullet without a bold term

### FR-1: User Login

Users authenticate with email and password.

Acceptance Criteria:
- [ ] rejects bad passwords

## Non-Functional Requirements

- **Performance**: p95 under 100ms
`

const epicsDoc = `# Epics

## Epic: Checkout [P1]

- US1: Add to cart - items accumulate across pages

### Story: Pay with card

Charge the saved card on confirmation.

- [ ] declines are surfaced to the user

## Epic 2: Admin

### US-7: Ban users
`

const architectureDoc = `# Architecture

## API Surface

- GET /users/{id} returns a user
- POST /sessions creates a session

## Data Model

- **User** - id, email, password_hash
- plain bullet, not an entity
`

func TestParseRequirementsDoc(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/requirements.md", requirementsDoc)

	parsed, err := NewConventionB(nil, false).ParseRequirementsDoc(filepath.Join(root, "docs", "requirements.md"))
	if err != nil {
		t.Fatalf("ParseRequirementsDoc: %v", err)
	}

	if parsed.Title != "Notes App Requirements" {
		t.Errorf("Title = %q", parsed.Title)
	}
	if len(parsed.FunctionalRequirements) != 2 {
		t.Fatalf("functional requirements = %+v, want bold bullet plus heading section", parsed.FunctionalRequirements)
	}

	search := parsed.FunctionalRequirements[0]
	if search.ID != "FR-L1" || search.Title != "Search" {
		t.Errorf("bullet requirement = %q/%q", search.ID, search.Title)
	}
	if search.Description != "full text search across notes" {
		t.Errorf("bullet description = %q", search.Description)
	}

	login := parsed.FunctionalRequirements[1]
	if login.ID != "FR-1" || login.Title != "User Login" {
		t.Errorf("heading requirement = %q/%q", login.ID, login.Title)
	}
	if len(login.AcceptanceCriteria) != 1 || login.AcceptanceCriteria[0] != "rejects bad passwords" {
		t.Errorf("login criteria = %v", login.AcceptanceCriteria)
	}

	if len(parsed.NonFunctionalRequirements) != 1 {
		t.Fatalf("non-functional requirements = %+v", parsed.NonFunctionalRequirements)
	}
	perf := parsed.NonFunctionalRequirements[0]
	if perf.ID != "NFR-L1" || perf.Title != "Performance" {
		t.Errorf("NFR = %q/%q", perf.ID, perf.Title)
	}
}

func TestParseEpicsDoc(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/epics.md", epicsDoc)

	epics, err := NewConventionB(nil, false).ParseEpicsDoc(filepath.Join(root, "docs", "epics.md"))
	if err != nil {
		t.Fatalf("ParseEpicsDoc: %v", err)
	}
	if len(epics) != 2 {
		t.Fatalf("epics = %d, want 2", len(epics))
	}

	checkout := epics[0]
	if checkout.ID != "epic-checkout" || checkout.Title != "Checkout" {
		t.Errorf("epic = %q/%q", checkout.ID, checkout.Title)
	}
	if checkout.Priority != spec.PriorityP1 {
		t.Errorf("epic priority = %s, want tag from heading", checkout.Priority)
	}
	if len(checkout.FunctionalRequirements) != 2 {
		t.Fatalf("checkout stories = %+v", checkout.FunctionalRequirements)
	}
	if checkout.FunctionalRequirements[0].ID != "US1" || checkout.FunctionalRequirements[0].Title != "Add to cart" {
		t.Errorf("bullet story = %+v", checkout.FunctionalRequirements[0])
	}
	pay := checkout.FunctionalRequirements[1]
	if pay.ID != "US2" || pay.Title != "Pay with card" {
		t.Errorf("heading story = %q/%q", pay.ID, pay.Title)
	}
	if len(pay.AcceptanceCriteria) != 1 {
		t.Errorf("story criteria = %v", pay.AcceptanceCriteria)
	}
	if len(checkout.Phases) != 1 {
		t.Errorf("phases = %+v, want one bucket for the default priority", checkout.Phases)
	}

	admin := epics[1]
	if admin.Title != "Admin" {
		t.Errorf("second epic title = %q", admin.Title)
	}
	if len(admin.FunctionalRequirements) != 1 || admin.FunctionalRequirements[0].Title != "Ban users" {
		t.Errorf("admin stories = %+v", admin.FunctionalRequirements)
	}
	if admin.FunctionalRequirements[0].ID != "US1" {
		t.Errorf("story numbering should restart per epic, got %q", admin.FunctionalRequirements[0].ID)
	}
}

func TestParseArchitectureDoc(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/architecture.md", architectureDoc)

	specs, err := NewConventionB(nil, true).ParseArchitectureDoc(filepath.Join(root, "docs", "architecture.md"))
	if err != nil {
		t.Fatalf("ParseArchitectureDoc: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want api-contracts and data-model", len(specs))
	}

	api := specs[0]
	if api.ID != "api-contracts" || len(api.FunctionalRequirements) != 2 {
		t.Fatalf("api spec = %q with %d requirements", api.ID, len(api.FunctionalRequirements))
	}
	if api.FunctionalRequirements[0].Title != "GET /users/{id}" {
		t.Errorf("endpoint title = %q", api.FunctionalRequirements[0].Title)
	}

	model := specs[1]
	if model.ID != "data-model" || len(model.FunctionalRequirements) != 1 {
		t.Fatalf("model spec = %q with %d requirements", model.ID, len(model.FunctionalRequirements))
	}
	if model.FunctionalRequirements[0].Title != "User" {
		t.Errorf("entity title = %q", model.FunctionalRequirements[0].Title)
	}
}

func TestConventionBParseSkipsArchitectureUnlessAsIs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/requirements.md", requirementsDoc)
	writeDoc(t, root, "docs/architecture.md", architectureDoc)

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	specs, err := NewConventionB(nil, false).Parse(det)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, s := range specs {
		if s.ID == "api-contracts" || s.ID == "data-model" {
			t.Fatalf("architecture spec %q parsed without as-is mode", s.ID)
		}
	}

	asIs, err := NewConventionB(nil, true).Parse(det)
	if err != nil {
		t.Fatalf("Parse as-is: %v", err)
	}
	if len(asIs) != len(specs)+2 {
		t.Errorf("as-is specs = %d, want %d plus architecture pair", len(asIs), len(specs))
	}
}

func TestParseAllUnknownFormat(t *testing.T) {
	if specs := ParseAll(Detection{Format: FormatUnknown}, false, nil); specs != nil {
		t.Errorf("specs = %+v, want nil", specs)
	}
}
