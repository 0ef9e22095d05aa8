package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"github.com/felixgeelhaar/gapmap/pkg/domain/feature"
	"github.com/felixgeelhaar/gapmap/pkg/domain/gap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
	"github.com/felixgeelhaar/gapmap/pkg/parser"
)

// AnalysisResult is the combined output of one full reconciliation run.
type AnalysisResult struct {
	Detection parser.Detection     `json:"detection"`
	Specs     []spec.ParsedSpec    `json:"specs"`
	Files     []source.FileFacts   `json:"files"`
	Gaps      []gap.Gap            `json:"gaps"`
	Findings  []feature.Finding    `json:"findings"`
	Stats     AnalysisStats        `json:"stats"`
}

// AnalysisStats summarizes the run for reporting.
type AnalysisStats struct {
	SpecCount        int `json:"spec_count"`
	RequirementCount int `json:"requirement_count"`
	FileCount        int `json:"file_count"`
	FunctionCount    int `json:"function_count"`
	GapCount         int `json:"gap_count"`
	FindingCount     int `json:"finding_count"`
}

// AnalysisOptions tunes one run.
type AnalysisOptions struct {
	// AsIs enables architecture-document parsing for projects documented
	// in their current state rather than as a greenfield plan.
	AsIs bool
	// GapConfig overrides gap-analysis heuristics; zero fields use defaults.
	GapConfig gap.Config
	// Timeout bounds one full run. Zero means defaultAnalysisTimeout.
	Timeout time.Duration
}

// defaultAnalysisTimeout bounds a full run on degenerate trees (symlink
// loops, network mounts). Normal projects finish in well under a second.
const defaultAnalysisTimeout = 2 * time.Minute

// AnalysisService runs the full pipeline: detect, parse, scan, diff.
type AnalysisService struct {
	scanner *ScanService
	logger  *slog.Logger
}

// NewAnalysisService wires the pipeline. A nil scanner gets defaults.
func NewAnalysisService(scanner *ScanService, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if scanner == nil {
		scanner = NewScanService(0, logger)
	}
	return &AnalysisService{scanner: scanner, logger: logger}
}

// Scanner exposes the underlying source scanner for commands that need
// facts without a full analysis.
func (a *AnalysisService) Scanner() *ScanService {
	return a.scanner
}

// Analyze reconciles the specification documents under root against the
// source tree under root and returns every detected divergence. Specs and
// facts are derived fresh from the filesystem on every call; nothing is
// carried over between runs.
func (a *AnalysisService) Analyze(ctx context.Context, root string, opts AnalysisOptions) (*AnalysisResult, error) {
	d := opts.Timeout
	if d <= 0 {
		d = defaultAnalysisTimeout
	}
	t := timeout.New[*AnalysisResult](timeout.Config{DefaultTimeout: d})
	return t.Execute(ctx, d, func(ctx context.Context) (*AnalysisResult, error) {
		return a.analyze(ctx, root, opts)
	})
}

func (a *AnalysisService) analyze(ctx context.Context, root string, opts AnalysisOptions) (*AnalysisResult, error) {
	det, err := parser.Detect(root, a.logger)
	if err != nil {
		return nil, fmt.Errorf("detect spec format: %w", err)
	}
	if det.Format == parser.FormatUnknown {
		return nil, fmt.Errorf("no recognized specification documents under %s", root)
	}

	specs := parser.ParseAll(det, opts.AsIs, a.logger)
	if len(specs) == 0 {
		return nil, fmt.Errorf("documents detected (%s) but no specs could be parsed", det.Format)
	}

	ix, files, err := a.scanner.Scan(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("scan codebase: %w", err)
	}

	gaps := gap.NewAnalyzer(opts.GapConfig, a.logger).Analyze(specs, ix)

	advertised, err := parser.ExtractAdvertised(root)
	if err != nil {
		a.logger.Warn("overview documents unreadable, skipping feature check", "error", err)
	}
	findings := feature.NewAnalyzer(a.logger).Analyze(advertised, ix)

	reqs := 0
	for _, s := range specs {
		reqs += len(s.Requirements())
	}

	result := &AnalysisResult{
		Detection: det,
		Specs:     specs,
		Files:     files,
		Gaps:      gaps,
		Findings:  findings,
		Stats: AnalysisStats{
			SpecCount:        len(specs),
			RequirementCount: reqs,
			FileCount:        len(files),
			FunctionCount:    ix.FunctionCount(),
			GapCount:         len(gaps),
			FindingCount:     len(findings),
		},
	}
	a.logger.Info("analysis complete",
		"specs", result.Stats.SpecCount,
		"requirements", result.Stats.RequirementCount,
		"gaps", result.Stats.GapCount,
		"findings", result.Stats.FindingCount)
	return result, nil
}
