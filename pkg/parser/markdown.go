// Package parser discovers and parses the two supported specification
// document conventions into the canonical spec model. Convention A is a
// hierarchical tree of numbered feature folders, each holding one spec file;
// Convention B is a flat set of planning documents (requirements,
// architecture, epics). Both parsers degrade gracefully: missing sections
// yield empty lists and malformed documents are skipped, never fatal.
package parser

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Section is one heading-delimited region of a markdown document.
type Section struct {
	Level   int
	Heading string
	Body    []string
}

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	reBullet   = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	reCheckbox = regexp.MustCompile(`^\s*[-*+]\s+\[([ xX])\]\s+(.*)$`)
	reBoldTerm = regexp.MustCompile(`^\*\*(.+?)\*\*\s*[:\-–]?\s*(.*)$`)
	// [P0] / (P1) / P2: tags anywhere in a line
	rePriorityTag = regexp.MustCompile(`(?i)[\[(]?\b(P[0-3])\b[\])]?`)
	// requirement identifier prefix: FR1:, NFR-2., US 3 -
	reReqID = regexp.MustCompile(`(?i)^\*{0,2}((?:FR|NFR|REQ|US)[- ]?\d+(?:\.\d+)*)\*{0,2}\s*[:.\-]\s*`)
)

// readLines reads a whole file as lines. Oversized lines are tolerated up
// to 1MB, matching what planning documents realistically contain.
func readLines(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // best-effort close on read path

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// splitSections breaks a document into heading-delimited sections. Content
// before the first heading is returned as a level-0 section with an empty
// heading.
func splitSections(lines []string) []Section {
	var sections []Section
	current := Section{Level: 0}

	for _, line := range lines {
		if m := reHeading.FindStringSubmatch(line); m != nil {
			sections = append(sections, current)
			current = Section{Level: len(m[1]), Heading: strings.TrimSpace(m[2])}
			continue
		}
		current.Body = append(current.Body, line)
	}
	sections = append(sections, current)

	// Drop an empty preamble.
	if len(sections) > 0 && sections[0].Heading == "" && len(strings.TrimSpace(strings.Join(sections[0].Body, ""))) == 0 {
		sections = sections[1:]
	}
	return sections
}

// headingMatches reports whether a section heading names one of the given
// aliases, ignoring case and numbering prefixes ("3. Requirements").
func headingMatches(heading string, aliases ...string) bool {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = regexp.MustCompile(`^[\d.]+\s*`).ReplaceAllString(h, "")
	for _, a := range aliases {
		if strings.Contains(h, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// bullets returns the text of each top-level list item in a body.
func bullets(body []string) []string {
	var items []string
	for _, line := range body {
		if m := reCheckbox.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[2]))
			continue
		}
		if m := reBullet.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
		}
	}
	return items
}

// checkboxes returns list items as criteria, preserving checked state.
// Plain bullets count as unchecked criteria.
func checkboxes(body []string) []spec.Criterion {
	var items []spec.Criterion
	for _, line := range body {
		if m := reCheckbox.FindStringSubmatch(line); m != nil {
			items = append(items, spec.Criterion{
				Text:    strings.TrimSpace(m[2]),
				Checked: strings.TrimSpace(m[1]) != "",
			})
			continue
		}
		if m := reBullet.FindStringSubmatch(line); m != nil {
			items = append(items, spec.Criterion{Text: strings.TrimSpace(m[1])})
		}
	}
	return items
}

// priorityIn extracts an explicit P0..P3 tag from a line, or the default.
func priorityIn(line string) spec.Priority {
	if m := rePriorityTag.FindStringSubmatch(line); m != nil {
		if p, err := spec.ParsePriority(m[1]); err == nil {
			return p
		}
	}
	return spec.DefaultPriority()
}

// stripMarkup removes bold/italic markers and priority tags from a title.
func stripMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	s = rePriorityTag.ReplaceAllString(s, "")
	return strings.Trim(strings.TrimSpace(s), "*_ :-")
}
