package application

import (
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/domain/feature"
	"github.com/felixgeelhaar/gapmap/pkg/domain/gap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// categoryKeywords drive gap categorization. First matching bucket wins;
// buckets are checked in declaration order so security outranks the rest.
var categoryKeywords = []struct {
	category scoring.Category
	words    []string
}{
	{scoring.CategorySecurity, []string{
		"auth", "password", "token", "encrypt", "permission", "csrf",
		"injection", "sanitize", "secret", "credential", "session"}},
	{scoring.CategoryPerformance, []string{
		"performance", "cache", "latency", "slow", "optimiz", "throughput"}},
	{scoring.CategoryDocumentation, []string{
		"document", "readme", "changelog", "docs", "guide"}},
	{scoring.CategoryIntegration, []string{
		"api", "webhook", "sync", "integrat", "export", "import", "third-party"}},
	{scoring.CategoryCorrectness, []string{
		"validate", "fix", "error", "bug", "incorrect", "broken", "crash"}},
}

// ScoreService converts analysis output into scored, prioritized features.
type ScoreService struct {
	logger *slog.Logger
}

// NewScoreService creates a scorer.
func NewScoreService(logger *slog.Logger) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreService{logger: logger}
}

// Score turns gaps, unsubstantiated feature claims, and external proposals
// into one ranked list. Gaps carry their spec priority as explicit; claims
// and proposals compete on computed ROI alone unless they declare one.
func (s *ScoreService) Score(gaps []gap.Gap, findings []feature.Finding, proposals []scoring.Candidate) []scoring.ScoredFeature {
	candidates := make([]scoring.Candidate, 0, len(gaps)+len(findings)+len(proposals))

	for _, g := range gaps {
		candidates = append(candidates, GapCandidate(g))
	}
	for _, f := range findings {
		if !f.IsUnsubstantiated() {
			continue
		}
		candidates = append(candidates, scoring.Candidate{
			ID:          "claim:" + spec.Slugify(f.Advertised.Title),
			Title:       "Deliver advertised feature: " + f.Advertised.Title,
			Description: f.Reality,
			Category:    Categorize(f.Advertised.Title + " " + f.Advertised.Detail),
			Source:      "claim",
			Evidence:    []string{f.Advertised.Path},
		})
	}
	candidates = append(candidates, proposals...)

	scored := scoring.Score(candidates)
	s.logger.Info("scoring complete", "candidates", len(candidates), "scored", len(scored))
	return scored
}

// GapCandidate converts one gap into a scoring candidate. The gap's spec
// priority is passed through as explicit so parser-sourced urgency always
// survives scoring.
func GapCandidate(g gap.Gap) scoring.Candidate {
	return scoring.Candidate{
		ID:               "gap:" + g.SpecID + "/" + g.RequirementID,
		Title:            g.Description,
		Category:         Categorize(g.Description),
		ExplicitPriority: g.Priority,
		Effort:           g.Effort,
		Source:           "gap",
		Evidence:         g.Evidence,
	}
}

// Categorize maps free text onto a scoring category by keyword, defaulting
// to core-feature.
func Categorize(text string) scoring.Category {
	lower := strings.ToLower(text)
	for _, bucket := range categoryKeywords {
		for _, w := range bucket.words {
			if strings.Contains(lower, w) {
				return bucket.category
			}
		}
	}
	return scoring.CategoryCoreFeature
}
