package spec

import (
	"regexp"
	"strings"
)

// reqIDPrefix strips leading requirement identifiers like "FR1:", "NFR-2.",
// "REQ_3 -" from titles before comparison.
var reqIDPrefix = regexp.MustCompile(`(?i)^\s*(?:FR|NFR|REQ|US|AC)[-_ ]?\d+(?:\.\d+)*\s*[:.\-]?\s*`)

// nonWord collapses everything that is not a letter or digit.
var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeTitle reduces a requirement title to a canonical comparison key:
// ID prefixes dropped, lowercased, punctuation collapsed to single spaces.
// Two titles with the same normalized form describe the same requirement.
func NormalizeTitle(title string) string {
	t := reqIDPrefix.ReplaceAllString(title, "")
	t = strings.ToLower(t)
	t = nonWord.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// MergeRequirements de-duplicates requirements by normalized title.
// The first occurrence wins its position; later duplicates contribute any
// acceptance criteria the first lacked and upgrade the priority if more
// urgent. Order of first occurrences is preserved.
func MergeRequirements(reqs []Requirement) []Requirement {
	merged := make([]Requirement, 0, len(reqs))
	index := make(map[string]int)

	for _, r := range reqs {
		key := NormalizeTitle(r.Title)
		if key == "" {
			merged = append(merged, r)
			continue
		}

		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, r)
			continue
		}

		absorbRequirement(&merged[i], r)
	}
	return merged
}

// absorbRequirement folds a duplicate declaration into the first one:
// priority upgrades if more urgent, missing description filled, acceptance
// criteria unioned.
func absorbRequirement(dst *Requirement, src Requirement) {
	if src.Priority.IsMoreUrgentThan(dst.Priority) {
		dst.Priority = src.Priority
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	for _, ac := range src.AcceptanceCriteria {
		if !containsFold(dst.AcceptanceCriteria, ac) {
			dst.AcceptanceCriteria = append(dst.AcceptanceCriteria, ac)
		}
	}
}

// MergeAcrossSpecs de-duplicates requirements declared by more than one
// document, the same way MergeRequirements does within a single document.
// The first occurrence (in spec order) keeps its spec, ID, and position and
// absorbs each later duplicate; the duplicates are dropped from their specs.
// Functional and non-functional requirements are merged as separate pools.
func MergeAcrossSpecs(specs []ParsedSpec) []ParsedSpec {
	mergePool := func(lists [][]Requirement) [][]Requirement {
		type ref struct{ list, idx int }
		seen := map[string]ref{}
		out := make([][]Requirement, len(lists))

		for li, list := range lists {
			kept := make([]Requirement, 0, len(list))
			for _, r := range list {
				key := NormalizeTitle(r.Title)
				if key == "" {
					kept = append(kept, r)
					continue
				}
				if first, ok := seen[key]; ok {
					if first.list == li {
						absorbRequirement(&kept[first.idx], r)
					} else {
						absorbRequirement(&out[first.list][first.idx], r)
					}
					continue
				}
				seen[key] = ref{li, len(kept)}
				kept = append(kept, r)
			}
			out[li] = kept
		}
		return out
	}

	fr := make([][]Requirement, len(specs))
	nfr := make([][]Requirement, len(specs))
	for i := range specs {
		fr[i] = specs[i].FunctionalRequirements
		nfr[i] = specs[i].NonFunctionalRequirements
	}
	fr, nfr = mergePool(fr), mergePool(nfr)
	for i := range specs {
		specs[i].FunctionalRequirements = fr[i]
		specs[i].NonFunctionalRequirements = nfr[i]
	}
	return specs
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}

// Slugify converts a title into a stable lowercase identifier, the same way
// section headings become IDs ("User Login" -> "user-login").
func Slugify(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = nonWord.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}
