package roadmap

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Context configures one generation run. Zero values fall back to defaults.
type Context struct {
	// TeamSize drives per-phase capacity. Default 1.
	TeamSize int
	// MaxPhases caps how many phases are created. Default 4.
	MaxPhases int
	// WeeklyCapacityHours is the productive hours one developer contributes
	// per week, net of meetings and review. Default 30.
	WeeklyCapacityHours float64
	// PhaseSpanWeeks is the intended calendar length of one phase. Default 2.
	PhaseSpanWeeks int
}

func (c Context) withDefaults() Context {
	if c.TeamSize <= 0 {
		c.TeamSize = 1
	}
	if c.MaxPhases <= 0 {
		c.MaxPhases = 4
	}
	if c.WeeklyCapacityHours <= 0 {
		c.WeeklyCapacityHours = 30
	}
	if c.PhaseSpanWeeks <= 0 {
		c.PhaseSpanWeeks = 2
	}
	return c
}

// phaseNames label phases by delivery horizon. Extra phases reuse the last.
var phaseNames = []string{"Foundation", "Core Delivery", "Hardening", "Polish"}

// Generator packs scored items into a phased roadmap.
type Generator struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewGenerator creates a roadmap generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// Generate assembles a roadmap from scored items.
//
// Packing strategy: items are taken in (priority, ROI descending, ID)
// order and greedily placed into the earliest phase with remaining
// capacity. An item is never placed before a phase holding one of its
// dependencies; when a dependency has not been scheduled yet it is pulled
// forward first. Dependency cycles are broken by priority order and logged
// as warnings, never fatal. Capacity per phase is
// teamSize x weeklyCapacity x phaseSpanWeeks; the final phase absorbs
// overflow so every item is always scheduled.
func (g *Generator) Generate(items []scoring.ScoredFeature, ctx Context) *Roadmap {
	ctx = ctx.withDefaults()

	sorted := make([]scoring.ScoredFeature, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Priority.Compare(sorted[j].Priority); c != 0 {
			return c < 0
		}
		if sorted[i].ROI != sorted[j].ROI {
			return sorted[i].ROI > sorted[j].ROI
		}
		return sorted[i].ID < sorted[j].ID
	})

	p := newPacker(sorted, ctx, g.logger)
	for i := range sorted {
		p.schedule(sorted[i].ID)
	}
	phases := p.phases()

	r := &Roadmap{
		ID:          g.newID(),
		GeneratedAt: g.now().UTC(),
		Phases:      phases,
		AllItems:    sorted,
		Summary:     summarize(sorted, phases),
		Timeline:    ProjectTimeline(sorted, ctx.WeeklyCapacityHours),
	}
	return r
}

// packer holds the mutable scheduling state for one run.
type packer struct {
	byID     map[string]*scoring.ScoredFeature
	ctx      Context
	logger   *slog.Logger
	capacity float64

	phaseOf  map[string]int
	visiting map[string]bool
	slots    []phaseSlot
}

type phaseSlot struct {
	items []string
	hours float64
	deps  map[string]bool // dependency IDs scheduled in earlier phases
	risks map[string]bool
}

func newPacker(items []scoring.ScoredFeature, ctx Context, logger *slog.Logger) *packer {
	byID := make(map[string]*scoring.ScoredFeature, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return &packer{
		byID:     byID,
		ctx:      ctx,
		logger:   logger,
		capacity: float64(ctx.TeamSize) * ctx.WeeklyCapacityHours * float64(ctx.PhaseSpanWeeks),
		phaseOf:  make(map[string]int, len(items)),
		visiting: make(map[string]bool),
	}
}

// schedule places one item, pulling unscheduled dependencies forward first.
// Returns the phase index the item landed in.
func (p *packer) schedule(id string) int {
	if idx, done := p.phaseOf[id]; done {
		return idx
	}
	item, known := p.byID[id]
	if !known {
		return -1
	}
	if p.visiting[id] {
		// Cycle: fall back to the priority-sorted order and let the
		// dependency land wherever it would have anyway.
		p.logger.Warn("dependency cycle detected, breaking by priority",
			"item", id)
		return -1
	}
	p.visiting[id] = true
	defer delete(p.visiting, id)

	earliest := 0
	for _, dep := range item.DependsOn {
		if _, ok := p.byID[dep]; !ok {
			p.logger.Debug("dependency not among scheduled items, ignoring",
				"item", id, "dependency", dep)
			continue
		}
		if depPhase := p.schedule(dep); depPhase > earliest {
			earliest = depPhase
		}
	}

	idx := p.place(item, earliest)
	p.phaseOf[id] = idx

	slot := &p.slots[idx]
	for _, dep := range item.DependsOn {
		if depPhase, ok := p.phaseOf[dep]; ok && depPhase < idx {
			slot.deps[dep] = true
		}
	}
	if item.Effort.Confidence == scoring.LevelLow {
		slot.risks[fmt.Sprintf("%s: low-confidence effort estimate (%s)", item.ID, item.Effort)] = true
	}
	if item.Category == scoring.CategorySecurity {
		slot.risks[fmt.Sprintf("%s: security exposure until shipped", item.ID)] = true
	}
	return idx
}

// place finds the earliest phase at or after `from` with spare capacity,
// creating phases up to the cap. The last phase absorbs overflow.
func (p *packer) place(item *scoring.ScoredFeature, from int) int {
	hours := item.Effort.Floored()
	for idx := from; ; idx++ {
		if idx >= p.ctx.MaxPhases {
			idx = p.ctx.MaxPhases - 1
			p.ensure(idx)
			p.add(idx, item, hours)
			return idx
		}
		p.ensure(idx)
		slot := &p.slots[idx]
		if slot.hours+hours <= p.capacity || len(slot.items) == 0 {
			p.add(idx, item, hours)
			return idx
		}
	}
}

func (p *packer) ensure(idx int) {
	for len(p.slots) <= idx {
		p.slots = append(p.slots, phaseSlot{
			deps:  make(map[string]bool),
			risks: make(map[string]bool),
		})
	}
}

func (p *packer) add(idx int, item *scoring.ScoredFeature, hours float64) {
	slot := &p.slots[idx]
	slot.items = append(slot.items, item.ID)
	slot.hours += hours
}

// phases converts the packing slots into ordered, named phases. Trailing
// empty slots are dropped.
func (p *packer) phases() []Phase {
	var out []Phase
	for i, slot := range p.slots {
		if len(slot.items) == 0 {
			continue
		}
		name := phaseNames[len(phaseNames)-1]
		if i < len(phaseNames) {
			name = phaseNames[i]
		}
		out = append(out, Phase{
			Index:        len(out) + 1,
			Name:         name,
			Items:        slot.items,
			EffortHours:  round1(slot.hours),
			Risks:        sortedKeys(slot.risks),
			Dependencies: sortedKeys(slot.deps),
		})
	}
	return out
}

func summarize(items []scoring.ScoredFeature, phases []Phase) Summary {
	byPriority := make(map[spec.Priority]int)
	for _, it := range items {
		byPriority[it.Priority]++
	}

	var next []string
	if len(phases) > 0 {
		for _, id := range phases[0].Items {
			if len(next) == 3 {
				break
			}
			for i := range items {
				if items[i].ID == id {
					next = append(next, fmt.Sprintf("%s (%s, %s)", items[i].Title, items[i].Priority, items[i].Effort))
					break
				}
			}
		}
	}
	return Summary{ByPriority: byPriority, NextSteps: next}
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
