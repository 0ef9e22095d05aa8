package feature

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/gap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
)

// Analyzer checks advertised features against structural code evidence.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a feature-completeness analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze produces one finding per advertised feature. Accuracy is the
// fraction of expected evidence kinds actually found, scaled 0..100. A
// feature with zero evidence is never dropped: it is reported with score 0
// and an explanatory reality.
func (a *Analyzer) Analyze(advertised []Advertised, ix *source.Index) []Finding {
	findings := make([]Finding, 0, len(advertised))
	for _, adv := range advertised {
		findings = append(findings, a.check(adv, ix))
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].AccuracyScore != findings[j].AccuracyScore {
			return findings[i].AccuracyScore < findings[j].AccuracyScore
		}
		return findings[i].Advertised.Title < findings[j].Advertised.Title
	})
	return findings
}

// check gathers the evidence for one claim. Expected evidence kinds:
//  1. an exported function whose name derives from the claim,
//  2. an exported class/type whose name derives from the claim,
//  3. a route-handler-shaped symbol mentioning a claim keyword.
func (a *Analyzer) check(adv Advertised, ix *source.Index) Finding {
	candidates := gap.NameCandidates(adv.Title)
	tokens := gap.TitleTokens(adv.Title)

	var evidence []string
	kinds := 0

	if fn := findFunction(candidates, ix); fn != nil {
		kinds++
		evidence = append(evidence, fmt.Sprintf("%s:%d function %s", fn.FilePath, fn.Line, fn.Name))
	}

	if cls := findClass(candidates, tokens, ix); cls != nil {
		kinds++
		evidence = append(evidence, fmt.Sprintf("%s:%d type %s", cls.FilePath, cls.Line, cls.Name))
	}

	if handler := findHandler(tokens, ix); handler != nil {
		kinds++
		evidence = append(evidence, fmt.Sprintf("%s:%d handler %s", handler.FilePath, handler.Line, handler.Name))
	}

	const expectedKinds = 3
	score := kinds * 100 / expectedKinds

	reality := describeReality(adv, evidence)
	return Finding{
		Advertised:    adv,
		AccuracyScore: score,
		Reality:       reality,
		Evidence:      evidence,
	}
}

func findFunction(candidates []string, ix *source.Index) *source.FunctionSignature {
	for _, cand := range candidates {
		hits := ix.LookupFunction(cand)
		for i := range hits {
			if hits[i].IsExported && !hits[i].IsStub {
				return &hits[i]
			}
		}
	}
	return nil
}

func findClass(candidates []string, tokens []string, ix *source.Index) *source.ClassFact {
	for _, cand := range candidates {
		if hits := ix.LookupClass(cand); len(hits) > 0 {
			return &hits[0]
		}
	}
	// Service/Manager suffixes are common for feature-carrying types.
	for _, tok := range tokens {
		for _, suffix := range []string{"service", "manager", "controller"} {
			if hits := ix.LookupClass(tok + suffix); len(hits) > 0 {
				return &hits[0]
			}
		}
	}
	return nil
}

func findHandler(tokens []string, ix *source.Index) *source.FunctionSignature {
	if len(tokens) == 0 {
		return nil
	}
	fns := ix.Functions()
	for i := range fns {
		fn := &fns[i]
		if !fn.IsExported || fn.IsStub {
			continue
		}
		key := source.SymbolKey(fn.Name)
		if !strings.Contains(key, "handle") && !strings.HasSuffix(key, "handler") &&
			!strings.Contains(key, "route") && !strings.Contains(key, "endpoint") {
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(key, tok) {
				return fn
			}
		}
	}
	return nil
}

func describeReality(adv Advertised, evidence []string) string {
	if len(evidence) == 0 {
		return fmt.Sprintf("No exported symbol, type, or handler corroborates %q; the claim has no structural backing in the code.", adv.Title)
	}
	return fmt.Sprintf("Found %s backing %q.", strings.Join(evidence, "; "), adv.Title)
}
