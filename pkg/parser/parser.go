package parser

import (
	"log/slog"

	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
)

// Parser converts one detected document convention into canonical specs.
// Both conventions implement this contract so downstream stages never
// branch on format.
type Parser interface {
	Parse(det Detection) ([]spec.ParsedSpec, error)
}

// ParseAll runs the parser(s) selected by the detection verdict. The asIs
// flag is forwarded to Convention B for its architecture document. A
// requirement declared by more than one document is merged into its first
// declaration, so downstream analysis sees it exactly once.
func ParseAll(det Detection, asIs bool, logger *slog.Logger) []spec.ParsedSpec {
	if logger == nil {
		logger = slog.Default()
	}

	var parsers []Parser
	switch det.Format {
	case FormatA:
		parsers = append(parsers, NewConventionA(logger))
	case FormatB:
		parsers = append(parsers, NewConventionB(logger, asIs))
	case FormatBoth:
		parsers = append(parsers, NewConventionA(logger), NewConventionB(logger, asIs))
	default:
		return nil
	}

	var specs []spec.ParsedSpec
	for _, p := range parsers {
		parsed, err := p.Parse(det)
		if err != nil {
			logger.Warn("parser failed, continuing with remaining documents", "error", err)
			continue
		}
		specs = append(specs, parsed...)
	}
	return spec.MergeAcrossSpecs(specs)
}
