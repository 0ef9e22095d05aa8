package application

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

// RoadmapService generates, caches, and exports delivery roadmaps.
type RoadmapService struct {
	repo      *storage.FilesystemRepository
	scorer    *ScoreService
	proposals *ProposalService
	generator *roadmap.Generator
	logger    *slog.Logger
}

// NewRoadmapService wires the roadmap pipeline tail.
func NewRoadmapService(repo *storage.FilesystemRepository, logger *slog.Logger) *RoadmapService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoadmapService{
		repo:      repo,
		scorer:    NewScoreService(logger),
		proposals: NewProposalService(logger),
		generator: roadmap.NewGenerator(logger),
		logger:    logger,
	}
}

// Generate scores the analysis output together with any workspace
// proposals, packs the result into phases, and caches the roadmap.
func (s *RoadmapService) Generate(result *AnalysisResult, ctx roadmap.Context) (*roadmap.Roadmap, error) {
	props, err := s.proposals.Load(s.repo.ProposalsPath())
	if err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}

	scored := s.scorer.Score(result.Gaps, result.Findings, props)
	rm := s.generator.Generate(scored, ctx)

	if err := s.repo.SaveRoadmap(rm); err != nil {
		return nil, fmt.Errorf("cache roadmap: %w", err)
	}
	s.logger.Info("roadmap generated",
		"items", len(rm.AllItems), "phases", len(rm.Phases),
		"one_dev_weeks", rm.Timeline.ByTeamSize.OneDev)
	return rm, nil
}

// Export serializes the cached roadmap to path in the given format.
func (s *RoadmapService) Export(format storage.ExportFormat, path string) error {
	rm, err := s.repo.LoadRoadmap()
	if err != nil {
		return fmt.Errorf("no cached roadmap, run the roadmap command first: %w", err)
	}
	if err := storage.ExportToFile(rm, format, path); err != nil {
		return err
	}
	s.logger.Info("roadmap exported", "format", format, "path", path)
	return nil
}

// Cached returns the last generated roadmap, if any.
func (s *RoadmapService) Cached() (*roadmap.Roadmap, error) {
	return s.repo.LoadRoadmap()
}

// ScoreOnly runs the scoring stage without roadmap packing, for commands
// that display the ranked list directly.
func (s *RoadmapService) ScoreOnly(result *AnalysisResult) ([]scoring.ScoredFeature, error) {
	props, err := s.proposals.Load(s.repo.ProposalsPath())
	if err != nil {
		return nil, fmt.Errorf("load proposals: %w", err)
	}
	return s.scorer.Score(result.Gaps, result.Findings, props), nil
}
