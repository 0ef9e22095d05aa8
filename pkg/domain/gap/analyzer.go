package gap

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Analyzer diffs canonical specs against indexed source facts.
type Analyzer struct {
	cfg    Config
	logger *slog.Logger
}

// NewAnalyzer creates a gap analyzer. Zero-value config fields fall back
// to the tuned defaults.
func NewAnalyzer(cfg Config, logger *slog.Logger) *Analyzer {
	def := DefaultConfig()
	if cfg.SuppressBelow == 0 {
		cfg.SuppressBelow = def.SuppressBelow
	}
	if cfg.NoMatchConfidence == 0 {
		cfg.NoMatchConfidence = def.NoMatchConfidence
	}
	if cfg.StubConfidence == 0 {
		cfg.StubConfidence = def.StubConfidence
	}
	if cfg.IncompleteConfidence == 0 {
		cfg.IncompleteConfidence = def.IncompleteConfidence
	}
	if cfg.FuzzyThreshold == 0 {
		cfg.FuzzyThreshold = def.FuzzyThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze emits one gap per requirement whose implementation is missing,
// stubbed, or incomplete. The result is sorted deterministically and gaps
// below the suppression threshold are dropped as noise.
func (a *Analyzer) Analyze(specs []spec.ParsedSpec, ix *source.Index) []Gap {
	var gaps []Gap
	for _, s := range specs {
		for _, req := range s.Requirements() {
			if g := a.analyzeRequirement(s, req, ix); g != nil {
				if g.Confidence < a.cfg.SuppressBelow {
					a.logger.Debug("suppressing low-confidence gap",
						"requirement", req.ID, "confidence", g.Confidence)
					continue
				}
				gaps = append(gaps, *g)
			}
		}
	}
	SortGaps(gaps)
	return gaps
}

func (a *Analyzer) analyzeRequirement(s spec.ParsedSpec, req spec.Requirement, ix *source.Index) *Gap {
	match := BestMatch(req, ix, a.cfg)

	switch match.Kind {
	case MatchNone:
		// Certainty of absence: nothing in the code resembles this
		// requirement at all.
		return &Gap{
			RequirementID: req.ID,
			SpecID:        s.ID,
			Category:      CategoryMissing,
			Description:   fmt.Sprintf("Requirement %q has no corresponding implementation", req.Title),
			Priority:      req.Priority,
			Confidence:    a.cfg.NoMatchConfidence,
			Effort:        estimateEffort(req),
			Evidence:      []string{fmt.Sprintf("no function matching %v", NameCandidates(req.Title))},
		}

	case MatchExact, MatchFuzzy:
		fn := match.Function
		loc := fmt.Sprintf("%s:%d %s", fn.FilePath, fn.Line, fn.Name)

		if fn.IsStub {
			return &Gap{
				RequirementID: req.ID,
				SpecID:        s.ID,
				Category:      CategoryStub,
				Description:   fmt.Sprintf("Requirement %q is backed only by a stub (%s)", req.Title, fn.Name),
				Priority:      req.Priority,
				Confidence:    scaleByRatio(a.cfg.StubConfidence, match.Ratio),
				Effort:        estimateEffort(req),
				Evidence:      []string{loc},
			}
		}

		declared := DeclaredFields(append([]string{req.Description}, req.AcceptanceCriteria...)...)
		if missing := MissingFields(declared, fn); len(missing) > 0 {
			return &Gap{
				RequirementID: req.ID,
				SpecID:        s.ID,
				Category:      CategoryIncomplete,
				Description: fmt.Sprintf("Implementation of %q is missing declared fields: %s",
					req.Title, strings.Join(missing, ", ")),
				Priority:   req.Priority,
				Confidence: scaleByRatio(a.cfg.IncompleteConfidence, match.Ratio),
				Effort:     estimateEffort(req),
				Evidence:   []string{loc},
			}
		}
	}

	return nil
}

// scaleByRatio weights a base confidence by match certainty: a fuzzy match
// carries less certainty than an exact one.
func scaleByRatio(base int, ratio float64) int {
	scaled := int(float64(base) * (0.7 + 0.3*ratio))
	if scaled > 100 {
		return 100
	}
	return scaled
}

// estimateEffort derives effort from requirement complexity signals: the
// count of acceptance criteria and the presence of sub-task bullets in the
// description.
func estimateEffort(req spec.Requirement) scoring.Effort {
	hours := 4.0
	hours += 1.5 * float64(len(req.AcceptanceCriteria))

	subTasks := 0
	for _, line := range strings.Split(req.Description, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			subTasks++
		}
	}
	hours += 2 * float64(subTasks)

	confidence := scoring.LevelLow
	switch {
	case len(req.AcceptanceCriteria) >= 3:
		confidence = scoring.LevelHigh
	case len(req.AcceptanceCriteria) >= 1 || subTasks > 0:
		confidence = scoring.LevelMedium
	}
	return scoring.NewEffort(hours, confidence)
}
