package roadmap_test

import (
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

func item(id string, prio spec.Priority, hours float64, deps ...string) scoring.ScoredFeature {
	return scoring.ScoredFeature{
		ID:        id,
		Title:     "work " + id,
		Category:  scoring.CategoryCoreFeature,
		Priority:  prio,
		Impact:    7,
		Effort:    scoring.NewEffort(hours, scoring.LevelMedium),
		ROI:       7 / hours,
		DependsOn: deps,
	}
}

func phaseOf(t *testing.T, r *roadmap.Roadmap, id string) int {
	t.Helper()
	for _, ph := range r.Phases {
		for _, it := range ph.Items {
			if it == id {
				return ph.Index
			}
		}
	}
	t.Fatalf("item %s not scheduled in any phase", id)
	return 0
}

func TestGenerateRespectsCapacity(t *testing.T) {
	// 1 dev x 30h x 2 weeks = 60h per phase; four 25h items need 2 phases.
	items := []scoring.ScoredFeature{
		item("a", spec.PriorityP0, 25),
		item("b", spec.PriorityP0, 25),
		item("c", spec.PriorityP1, 25),
		item("d", spec.PriorityP1, 25),
	}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})

	if len(r.Phases) != 2 {
		t.Fatalf("got %d phases, want 2: %+v", len(r.Phases), r.Phases)
	}
	if got := r.Phases[0].Items; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("phase 1 items = %v, want [a b]", got)
	}
	if r.Phases[0].Name != "Foundation" || r.Phases[1].Name != "Core Delivery" {
		t.Errorf("phase names = %q, %q", r.Phases[0].Name, r.Phases[1].Name)
	}
}

func TestGenerateNeverSchedulesBeforeDependency(t *testing.T) {
	// "a" is highest priority but depends on low-priority "z": z must be
	// pulled into a's phase or earlier.
	items := []scoring.ScoredFeature{
		item("a", spec.PriorityP0, 10, "z"),
		item("b", spec.PriorityP0, 10),
		item("z", spec.PriorityP3, 10),
	}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})

	if pa, pz := phaseOf(t, r, "a"), phaseOf(t, r, "z"); pa < pz {
		t.Fatalf("a in phase %d before its dependency z in phase %d", pa, pz)
	}
}

func TestGenerateCrossPhaseDependencyRecorded(t *testing.T) {
	// Capacity of 15h per phase forces z (scheduled first via pull-forward)
	// and a into different phases.
	items := []scoring.ScoredFeature{
		item("z", spec.PriorityP0, 12),
		item("a", spec.PriorityP1, 12, "z"),
	}
	ctx := roadmap.Context{TeamSize: 1, WeeklyCapacityHours: 15, PhaseSpanWeeks: 1}
	r := roadmap.NewGenerator(nil).Generate(items, ctx)

	pa, pz := phaseOf(t, r, "a"), phaseOf(t, r, "z")
	if pa <= pz {
		t.Fatalf("expected a (phase %d) after z (phase %d) under tight capacity", pa, pz)
	}
	deps := r.Phases[pa-1].Dependencies
	if len(deps) != 1 || deps[0] != "z" {
		t.Errorf("phase %d dependencies = %v, want [z]", pa, deps)
	}
}

func TestGenerateCycleBrokenByPriority(t *testing.T) {
	items := []scoring.ScoredFeature{
		item("a", spec.PriorityP0, 5, "b"),
		item("b", spec.PriorityP1, 5, "a"),
	}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})

	// Both items still land somewhere; the cycle is not fatal.
	phaseOf(t, r, "a")
	phaseOf(t, r, "b")
	if len(r.AllItems) != 2 {
		t.Fatalf("AllItems = %d, want 2", len(r.AllItems))
	}
}

func TestGenerateUnknownDependencyIgnored(t *testing.T) {
	items := []scoring.ScoredFeature{item("a", spec.PriorityP0, 5, "ghost")}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})
	if phaseOf(t, r, "a") != 1 {
		t.Fatal("item with unknown dependency should schedule normally")
	}
}

func TestGenerateMaxPhasesOverflow(t *testing.T) {
	// Ten 60h items at 60h capacity would want 10 phases; the cap of 4
	// makes the last phase absorb the rest.
	var items []scoring.ScoredFeature
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		items = append(items, item(id, spec.PriorityP1, 60))
	}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})

	if len(r.Phases) != 4 {
		t.Fatalf("got %d phases, want capped at 4", len(r.Phases))
	}
	last := r.Phases[3]
	if len(last.Items) != 7 {
		t.Errorf("last phase has %d items, want 7 overflow items", len(last.Items))
	}
}

func TestGenerateSummaryAndNextSteps(t *testing.T) {
	items := []scoring.ScoredFeature{
		item("a", spec.PriorityP0, 5),
		item("b", spec.PriorityP0, 5),
		item("c", spec.PriorityP2, 5),
		item("d", spec.PriorityP2, 5),
	}
	r := roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})

	if r.Summary.ByPriority[spec.PriorityP0] != 2 || r.Summary.ByPriority[spec.PriorityP2] != 2 {
		t.Errorf("ByPriority = %v", r.Summary.ByPriority)
	}
	if len(r.Summary.NextSteps) != 3 {
		t.Errorf("NextSteps = %v, want the top 3", r.Summary.NextSteps)
	}
	if r.ID == "" || r.GeneratedAt.IsZero() {
		t.Error("roadmap identity not populated")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	items := []scoring.ScoredFeature{
		item("c", spec.PriorityP1, 8),
		item("a", spec.PriorityP1, 8),
		item("b", spec.PriorityP0, 8),
	}
	g := roadmap.NewGenerator(nil)
	r1 := g.Generate(items, roadmap.Context{})
	r2 := g.Generate(items, roadmap.Context{})

	for i := range r1.Phases {
		a, b := r1.Phases[i].Items, r2.Phases[i].Items
		if len(a) != len(b) {
			t.Fatalf("phase %d differs between runs", i)
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("phase %d item %d: %s vs %s", i, j, a[j], b[j])
			}
		}
	}
	// Equal priority falls back to ROI then ID: b (P0) first, then a, c.
	if got := r1.AllItems[0].ID; got != "b" {
		t.Errorf("first item = %s, want b", got)
	}
	if r1.AllItems[1].ID != "a" || r1.AllItems[2].ID != "c" {
		t.Errorf("tie order = %s,%s, want a,c", r1.AllItems[1].ID, r1.AllItems[2].ID)
	}
}

func TestProjectTimeline(t *testing.T) {
	items := []scoring.ScoredFeature{
		item("a", spec.PriorityP1, 45),
		item("b", spec.PriorityP1, 45),
	}
	tl := roadmap.ProjectTimeline(items, 30)

	if tl.TotalHours != 90 {
		t.Fatalf("total = %g, want 90", tl.TotalHours)
	}
	if tl.ByTeamSize.OneDev != 3 || tl.ByTeamSize.TwoDevs != 2 || tl.ByTeamSize.ThreeDevs != 1 {
		t.Errorf("weeks = %d/%d/%d, want 3/2/1", tl.ByTeamSize.OneDev, tl.ByTeamSize.TwoDevs, tl.ByTeamSize.ThreeDevs)
	}
}

func TestProjectTimelineEmpty(t *testing.T) {
	tl := roadmap.ProjectTimeline(nil, 0)
	if tl.TotalHours != 0 || tl.ByTeamSize.OneDev != 0 {
		t.Fatalf("empty timeline = %+v, want zeros", tl)
	}
}
