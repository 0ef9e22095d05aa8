package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// ConventionA parses the hierarchical convention: one spec file per
// numbered feature folder under the root marker directory.
type ConventionA struct {
	logger *slog.Logger
}

// NewConventionA creates the hierarchical-convention parser.
func NewConventionA(logger *slog.Logger) *ConventionA {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConventionA{logger: logger}
}

// Parse converts every detected feature folder into one ParsedSpec.
// A folder whose spec file cannot be read is skipped, not fatal.
func (p *ConventionA) Parse(det Detection) ([]spec.ParsedSpec, error) {
	var specs []spec.ParsedSpec
	for _, dir := range det.Paths.FeatureDirs {
		path := filepath.Join(dir, SpecFileName)
		parsed, err := p.ParseSpecFile(path)
		if err != nil {
			p.logger.Warn("skipping unreadable spec file", "path", path, "error", err)
			continue
		}
		specs = append(specs, *parsed)
	}
	return specs, nil
}

// ParseSpecFile parses one canonical spec file. Missing sections yield
// empty lists; only an unreadable file is an error.
func (p *ConventionA) ParseSpecFile(path string) (*spec.ParsedSpec, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}

	parsed := &spec.ParsedSpec{
		ID:       filepath.Base(filepath.Dir(path)),
		Path:     path,
		Status:   spec.StatusUnknown,
		Priority: spec.DefaultPriority(),
	}

	sections := splitSections(lines)
	frID, nfrID := 0, 0

	for _, sec := range sections {
		switch {
		case sec.Level == 1 && parsed.Title == "":
			parsed.Title = stripMarkup(sec.Heading)
			p.parseMetadata(sec.Body, parsed)

		case headingMatches(sec.Heading, "non-functional requirement", "nonfunctional requirement", "constraints"):
			for _, item := range bullets(sec.Body) {
				nfrID++
				parsed.NonFunctionalRequirements = append(parsed.NonFunctionalRequirements,
					requirementFromBullet(item, fmt.Sprintf("NFR%d", nfrID)))
			}

		case headingMatches(sec.Heading, "functional requirement", "requirements", "user stories"):
			for _, item := range bullets(sec.Body) {
				frID++
				parsed.FunctionalRequirements = append(parsed.FunctionalRequirements,
					requirementFromBullet(item, fmt.Sprintf("FR%d", frID)))
			}

		case headingMatches(sec.Heading, "acceptance criteria"):
			parsed.AcceptanceCriteria = append(parsed.AcceptanceCriteria, checkboxes(sec.Body)...)

		case headingMatches(sec.Heading, "success criteria", "success metrics"):
			parsed.SuccessCriteria = append(parsed.SuccessCriteria, bullets(sec.Body)...)
		}
	}

	if parsed.Title == "" {
		parsed.Title = parsed.ID
	}
	parsed.FunctionalRequirements = spec.MergeRequirements(parsed.FunctionalRequirements)
	parsed.NonFunctionalRequirements = spec.MergeRequirements(parsed.NonFunctionalRequirements)
	return parsed, nil
}

// parseMetadata picks status and priority out of the document preamble,
// accepting both "**Status**: draft" and "Status: draft" forms.
func (p *ConventionA) parseMetadata(body []string, parsed *spec.ParsedSpec) {
	for _, line := range body {
		clean := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		key, value, ok := strings.Cut(clean, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "status":
			parsed.Status = spec.Status(strings.ToLower(value))
		case "priority":
			if pr, err := spec.ParsePriority(value); err == nil {
				parsed.Priority = pr
			}
		}
	}
}

// requirementFromBullet turns one list item into a requirement. Bullets may
// carry their own ID prefix ("FR3: Title - description") and priority tag.
func requirementFromBullet(item, fallbackID string) spec.Requirement {
	req := spec.Requirement{
		ID:       fallbackID,
		Priority: priorityIn(item),
	}

	text := item
	if m := reReqID.FindStringSubmatch(text); m != nil {
		req.ID = strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
		text = strings.TrimSpace(text[len(m[0]):])
	}

	title, desc := text, ""
	for _, sep := range []string{" — ", " - ", " – ", ": "} {
		if t, d, ok := strings.Cut(text, sep); ok {
			title, desc = t, d
			break
		}
	}

	req.Title = stripMarkup(title)
	req.Description = strings.TrimSpace(desc)
	if req.Title == "" {
		req.Title = stripMarkup(item)
	}
	return req
}
