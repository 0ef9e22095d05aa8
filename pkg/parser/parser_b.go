package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// ConventionB parses the flat convention: a requirements document, an
// epics/stories document, and an architecture document at the project's
// planning location. When AsIs is set, the architecture document is also
// parsed: it describes an existing system being documented rather than a
// greenfield design.
type ConventionB struct {
	logger *slog.Logger
	AsIs   bool
}

// NewConventionB creates the flat-convention parser.
func NewConventionB(logger *slog.Logger, asIs bool) *ConventionB {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConventionB{logger: logger, AsIs: asIs}
}

var (
	// ### FR-1: User Login, heading-anchored requirement sections
	reReqHeading = regexp.MustCompile(`(?i)^((?:FR|NFR|REQ)[- ]?\d+(?:\.\d+)*)\s*[:.\-]\s*(.+)$`)

	// ## Epic: Checkout  |  ## Epic 2: Checkout
	reEpicHeading = regexp.MustCompile(`(?i)^epic(?:\s+\d+)?\s*[:.\-]\s*(.+)$`)

	// ### Story: As a user …  |  ### US-3: …
	reStoryHeading = regexp.MustCompile(`(?i)^(?:story|us[- ]?\d+)\s*[:.\-]?\s*(.*)$`)

	// GET /users/{id}  and friends
	reEndpoint = regexp.MustCompile(`\b(GET|POST|PUT|PATCH|DELETE)\s+(/[^\s` + "`" + `]*)`)
)

// Parse converts the detected flat documents into canonical specs. Each
// document is isolated: one malformed or missing document never fails the
// others.
func (p *ConventionB) Parse(det Detection) ([]spec.ParsedSpec, error) {
	var specs []spec.ParsedSpec

	if path := det.Paths.Requirements; path != "" {
		if s, err := p.ParseRequirementsDoc(path); err != nil {
			p.logger.Warn("skipping requirements document", "path", path, "error", err)
		} else {
			specs = append(specs, *s)
		}
	}

	if path := det.Paths.Epics; path != "" {
		if epics, err := p.ParseEpicsDoc(path); err != nil {
			p.logger.Warn("skipping epics document", "path", path, "error", err)
		} else {
			specs = append(specs, epics...)
		}
	}

	if path := det.Paths.Architecture; path != "" && p.AsIs {
		if archSpecs, err := p.ParseArchitectureDoc(path); err != nil {
			p.logger.Warn("skipping architecture document", "path", path, "error", err)
		} else {
			specs = append(specs, archSpecs...)
		}
	}

	return specs, nil
}

// ParseRequirementsDoc extracts functional and non-functional requirements
// using two redundant strategies, heading-anchored requirement sections and
// bold-term bullet lists under a named section, merged with de-duplication
// by normalized title.
func (p *ConventionB) ParseRequirementsDoc(path string) (*spec.ParsedSpec, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("read requirements document: %w", err)
	}

	parsed := &spec.ParsedSpec{
		ID:       "requirements",
		Title:    "Requirements",
		Path:     path,
		Status:   spec.StatusUnknown,
		Priority: spec.DefaultPriority(),
	}

	sections := splitSections(lines)
	var functional, nonFunctional []spec.Requirement

	for _, sec := range sections {
		if sec.Level == 1 && parsed.Title == "Requirements" && sec.Heading != "" {
			parsed.Title = stripMarkup(sec.Heading)
		}

		// Strategy 1: heading-anchored requirement sections.
		if m := reReqHeading.FindStringSubmatch(sec.Heading); m != nil {
			req := spec.Requirement{
				ID:                 strings.ToUpper(strings.ReplaceAll(m[1], " ", "")),
				Title:              stripMarkup(m[2]),
				Priority:           priorityIn(sec.Heading),
				Description:        strings.TrimSpace(strings.Join(sec.Body, "\n")),
				AcceptanceCriteria: criteriaUnder(sec.Body),
			}
			if strings.HasPrefix(req.ID, "NFR") {
				nonFunctional = append(nonFunctional, req)
			} else {
				functional = append(functional, req)
			}
			continue
		}

		// Strategy 2: bold-term bullet lists under a named section.
		isNFR := headingMatches(sec.Heading, "non-functional requirement", "nonfunctional requirement")
		isFR := !isNFR && headingMatches(sec.Heading, "functional requirement")
		if !isFR && !isNFR {
			continue
		}
		for i, item := range bullets(sec.Body) {
			m := reBoldTerm.FindStringSubmatch(item)
			if m == nil {
				continue
			}
			prefix, list := "FR", &functional
			if isNFR {
				prefix, list = "NFR", &nonFunctional
			}
			*list = append(*list, spec.Requirement{
				ID:          fmt.Sprintf("%s-L%d", prefix, i+1),
				Title:       stripMarkup(m[1]),
				Priority:    priorityIn(item),
				Description: strings.TrimSpace(m[2]),
			})
		}
	}

	parsed.FunctionalRequirements = spec.MergeRequirements(functional)
	parsed.NonFunctionalRequirements = spec.MergeRequirements(nonFunctional)
	return parsed, nil
}

// ParseEpicsDoc yields one ParsedSpec per epic. Nested stories become
// requirements with their criteria, and phases are bucketed by story
// priority: one phase per non-empty bucket, indexed P0 first.
func (p *ConventionB) ParseEpicsDoc(path string) ([]spec.ParsedSpec, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("read epics document: %w", err)
	}

	var epics []spec.ParsedSpec
	var current *spec.ParsedSpec
	storyID := 0

	flush := func() {
		if current == nil {
			return
		}
		current.FunctionalRequirements = spec.MergeRequirements(current.FunctionalRequirements)
		current.Phases = phasesByPriority(current.FunctionalRequirements)
		epics = append(epics, *current)
		current = nil
	}

	for _, sec := range splitSections(lines) {
		if m := reEpicHeading.FindStringSubmatch(sec.Heading); m != nil && sec.Level <= 2 {
			flush()
			title := stripMarkup(m[1])
			current = &spec.ParsedSpec{
				ID:       "epic-" + spec.Slugify(title),
				Title:    title,
				Path:     path,
				Status:   spec.StatusUnknown,
				Priority: priorityIn(sec.Heading),
			}
			storyID = 0
			// Bullet stories directly under the epic heading.
			for _, item := range bullets(sec.Body) {
				storyID++
				req := requirementFromBullet(item, fmt.Sprintf("US%d", storyID))
				current.FunctionalRequirements = append(current.FunctionalRequirements, req)
			}
			continue
		}

		if current == nil {
			continue
		}

		if m := reStoryHeading.FindStringSubmatch(sec.Heading); m != nil && sec.Level >= 3 {
			storyID++
			req := spec.Requirement{
				ID:                 fmt.Sprintf("US%d", storyID),
				Title:              stripMarkup(m[1]),
				Priority:           priorityIn(sec.Heading),
				Description:        strings.TrimSpace(strings.Join(sec.Body, "\n")),
				AcceptanceCriteria: criteriaUnder(sec.Body),
			}
			if req.Title == "" {
				req.Title = fmt.Sprintf("Story %d", storyID)
			}
			current.FunctionalRequirements = append(current.FunctionalRequirements, req)
			for _, c := range checkboxes(sec.Body) {
				current.AcceptanceCriteria = append(current.AcceptanceCriteria, c)
			}
		}
	}
	flush()

	return epics, nil
}

// ParseArchitectureDoc extracts API endpoint contracts and data-model field
// lists as separate specs. This is pattern matching over headings and
// bullets, not a full parse of the architecture prose.
func (p *ConventionB) ParseArchitectureDoc(path string) ([]spec.ParsedSpec, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("read architecture document: %w", err)
	}

	api := spec.ParsedSpec{
		ID: "api-contracts", Title: "API Contracts", Path: path,
		Status: spec.StatusUnknown, Priority: spec.DefaultPriority(),
	}
	model := spec.ParsedSpec{
		ID: "data-model", Title: "Data Model", Path: path,
		Status: spec.StatusUnknown, Priority: spec.DefaultPriority(),
	}

	inModel := false
	endpointID, entityID := 0, 0

	for _, sec := range splitSections(lines) {
		if sec.Heading != "" {
			inModel = headingMatches(sec.Heading, "data model", "entities", "schema")
		}

		for _, m := range reEndpoint.FindAllStringSubmatch(strings.Join(sec.Body, "\n"), -1) {
			endpointID++
			api.FunctionalRequirements = append(api.FunctionalRequirements, spec.Requirement{
				ID:          fmt.Sprintf("API%d", endpointID),
				Title:       fmt.Sprintf("%s %s", m[1], m[2]),
				Priority:    spec.DefaultPriority(),
				Description: fmt.Sprintf("Endpoint contract %s %s declared in %s", m[1], m[2], sec.Heading),
			})
		}

		if !inModel {
			continue
		}
		for _, item := range bullets(sec.Body) {
			m := reBoldTerm.FindStringSubmatch(item)
			if m == nil {
				continue
			}
			entityID++
			model.FunctionalRequirements = append(model.FunctionalRequirements, spec.Requirement{
				ID:          fmt.Sprintf("DM%d", entityID),
				Title:       stripMarkup(m[1]),
				Priority:    spec.DefaultPriority(),
				Description: strings.TrimSpace(m[2]),
			})
		}
	}

	var specs []spec.ParsedSpec
	if len(api.FunctionalRequirements) > 0 {
		api.FunctionalRequirements = spec.MergeRequirements(api.FunctionalRequirements)
		specs = append(specs, api)
	}
	if len(model.FunctionalRequirements) > 0 {
		specs = append(specs, model)
	}
	return specs, nil
}

// criteriaUnder returns the checklist items in a body as plain strings,
// for requirements whose acceptance criteria ride along in the same section.
func criteriaUnder(body []string) []string {
	var out []string
	inCriteria := false
	for _, line := range body {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "acceptance criteria") {
			inCriteria = true
			continue
		}
		if m := reCheckbox.FindStringSubmatch(line); m != nil {
			out = append(out, strings.TrimSpace(m[2]))
			continue
		}
		if inCriteria {
			if m := reBullet.FindStringSubmatch(line); m != nil {
				out = append(out, strings.TrimSpace(m[1]))
			}
		}
	}
	return out
}

// phasesByPriority buckets requirements into phases by priority, P0 first,
// one phase per non-empty bucket, indexes assigned in that fixed order.
func phasesByPriority(reqs []spec.Requirement) []spec.SpecPhase {
	buckets := make(map[spec.Priority][]string)
	for _, r := range reqs {
		buckets[r.Priority] = append(buckets[r.Priority], r.ID)
	}

	var phases []spec.SpecPhase
	for _, p := range spec.AllPriorities() {
		ids := buckets[p]
		if len(ids) == 0 {
			continue
		}
		phases = append(phases, spec.SpecPhase{
			Index:          len(phases),
			Name:           fmt.Sprintf("Phase %d (%s)", len(phases)+1, p),
			RequirementIDs: ids,
		})
	}
	return phases
}
