package gap

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// MatchKind says how a requirement was matched to a source fact.
type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchFuzzy MatchKind = "fuzzy"
	MatchNone  MatchKind = "none"
)

// Match is the outcome of locating a requirement's implementation.
type Match struct {
	Kind     MatchKind
	Function *source.FunctionSignature
	// Ratio is the name similarity of the winning candidate (1.0 for exact).
	Ratio float64
	// Candidate is the derived name that produced the match.
	Candidate string
}

// BestMatch locates the source function most likely to implement the
// requirement. This is the single scoring function for requirement-to-code
// matching; all its rules live here, not scattered through the pipeline.
//
// Rules, in order:
//  1. Exact: a derived name candidate equals a function's normalized name.
//  2. Fuzzy: the highest similarity ratio between any candidate and any
//     exported function name, if it clears the configured threshold.
//  3. None: nothing resembles the requirement.
//
// Exported functions are preferred over unexported on equal footing.
func BestMatch(req spec.Requirement, ix *source.Index, cfg Config) Match {
	candidates := NameCandidates(req.Title)

	// Rule 1: exact normalized-name match.
	for _, cand := range candidates {
		hits := ix.LookupFunction(cand)
		if len(hits) == 0 {
			continue
		}
		best := pickPreferred(hits)
		return Match{Kind: MatchExact, Function: best, Ratio: 1.0, Candidate: cand}
	}

	// Rule 2: fuzzy similarity against every exported function.
	var (
		bestRatio float64
		bestFn    *source.FunctionSignature
		bestCand  string
	)
	fns := ix.Functions()
	for i := range fns {
		fn := &fns[i]
		if !fn.IsExported {
			continue
		}
		key := source.SymbolKey(fn.Name)
		for _, cand := range candidates {
			ratio := similarity(source.SymbolKey(cand), key)
			if ratio > bestRatio {
				bestRatio, bestFn, bestCand = ratio, fn, cand
			}
		}
	}
	if bestFn != nil && bestRatio >= cfg.FuzzyThreshold {
		return Match{Kind: MatchFuzzy, Function: bestFn, Ratio: bestRatio, Candidate: bestCand}
	}

	return Match{Kind: MatchNone}
}

// pickPreferred chooses among same-named functions: exported beats
// unexported, then non-stub beats stub, then first (path order) wins.
func pickPreferred(hits []source.FunctionSignature) *source.FunctionSignature {
	best := 0
	for i := 1; i < len(hits); i++ {
		if rankFact(hits[i]) > rankFact(hits[best]) {
			best = i
		}
	}
	return &hits[best]
}

func rankFact(fn source.FunctionSignature) int {
	rank := 0
	if fn.IsExported {
		rank += 2
	}
	if !fn.IsStub {
		rank++
	}
	return rank
}

// similarity is the sequence-match ratio between two normalized names,
// computed character-wise.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// MissingFields returns the requirement-declared fields that appear in none
// of the function's parameters.
func MissingFields(declared []string, fn *source.FunctionSignature) []string {
	var missing []string
	for _, field := range declared {
		key := source.SymbolKey(field)
		found := false
		for _, param := range fn.Params {
			if strings.Contains(source.SymbolKey(param), key) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, field)
		}
	}
	return missing
}
