package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/feature"
)

// overviewFiles are the documents that advertise capabilities to users, in
// lookup order. The first one found per name is used.
var overviewFiles = []string{
	"README.md",
	"readme.md",
	"docs/overview.md",
	"docs/features.md",
}

var featureHeadings = []string{"features", "capabilities", "what it does", "highlights"}

// ExtractAdvertised collects feature claims from a project's overview
// documents: every bullet under a features-style heading becomes one
// advertised feature. Missing documents are skipped silently; claims are
// checked against code elsewhere, not here.
func ExtractAdvertised(root string) ([]feature.Advertised, error) {
	var out []feature.Advertised
	seen := map[string]bool{}

	for _, rel := range overviewFiles {
		path := filepath.Join(root, rel)
		lines, err := readLines(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, adv := range advertisedIn(lines, rel) {
			key := strings.ToLower(adv.Title)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, adv)
		}
	}
	return out, nil
}

func advertisedIn(lines []string, path string) []feature.Advertised {
	var out []feature.Advertised
	for _, sec := range splitSections(lines) {
		if !headingMatches(sec.Heading, featureHeadings...) {
			continue
		}
		for _, item := range bullets(sec.Body) {
			title, detail := splitClaim(item)
			if title == "" {
				continue
			}
			out = append(out, feature.Advertised{
				Title:  title,
				Detail: detail,
				Path:   path,
			})
		}
	}
	return out
}

// splitClaim separates a bullet into the claim and its elaboration.
// "**Full-text search** - across all documents" keeps the bold term as the
// claim; otherwise the text up to the first sentence delimiter is used.
func splitClaim(item string) (title, detail string) {
	if m := reBoldTerm.FindStringSubmatch(item); m != nil {
		return stripMarkup(m[1]), strings.TrimSpace(m[2])
	}
	for _, sep := range []string{" - ", ": ", ". "} {
		if i := strings.Index(item, sep); i > 0 {
			return stripMarkup(item[:i]), strings.TrimSpace(item[i+len(sep):])
		}
	}
	return stripMarkup(item), ""
}
