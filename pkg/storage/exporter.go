package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
)

// ExportFormat names a roadmap serialization.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatYAML     ExportFormat = "yaml"
)

// ParseExportFormat accepts format names and common aliases.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (markdown, json, yaml)", s)
	}
}

// Export serializes a roadmap. Markdown is the human report; JSON and YAML
// round-trip through ParseRoadmap.
func Export(r *roadmap.Roadmap, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return renderMarkdown(r), nil
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal roadmap: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal roadmap: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ExportToFile serializes a roadmap and writes it to path, creating parent
// directories as needed.
func ExportToFile(r *roadmap.Roadmap, format ExportFormat, path string) error {
	data, err := Export(r, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ParseRoadmap reads a machine-readable export back into a roadmap.
// Markdown exports are a one-way report and cannot be parsed.
func ParseRoadmap(data []byte, format ExportFormat) (*roadmap.Roadmap, error) {
	var r roadmap.Roadmap
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("unmarshal roadmap: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("unmarshal roadmap: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %q is not machine-readable", format)
	}
	return &r, nil
}

func renderMarkdown(r *roadmap.Roadmap) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Delivery Roadmap\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Priority | Items |\n|---|---|\n")
	for _, p := range []string{"P0", "P1", "P2", "P3"} {
		count := 0
		for prio, n := range r.Summary.ByPriority {
			if string(prio) == p {
				count = n
			}
		}
		fmt.Fprintf(&b, "| %s | %d |\n", p, count)
	}
	b.WriteString("\n")

	if len(r.Summary.NextSteps) > 0 {
		fmt.Fprintf(&b, "### Next steps\n\n")
		for i, step := range r.Summary.NextSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Timeline\n\n")
	fmt.Fprintf(&b, "Total effort: %gh\n\n", r.Timeline.TotalHours)
	fmt.Fprintf(&b, "| Team size | Duration |\n|---|---|\n")
	fmt.Fprintf(&b, "| 1 developer | %d weeks |\n", r.Timeline.ByTeamSize.OneDev)
	fmt.Fprintf(&b, "| 2 developers | %d weeks |\n", r.Timeline.ByTeamSize.TwoDevs)
	fmt.Fprintf(&b, "| 3 developers | %d weeks |\n\n", r.Timeline.ByTeamSize.ThreeDevs)

	for _, phase := range r.Phases {
		fmt.Fprintf(&b, "## Phase %d: %s (%gh)\n\n", phase.Index, phase.Name, phase.EffortHours)
		for _, id := range phase.Items {
			if item := r.Item(id); item != nil {
				fmt.Fprintf(&b, "- **%s** [%s] %s (ROI %.2f, %s)\n",
					item.Priority, item.Category, item.Title, item.ROI, item.Effort)
			}
		}
		if len(phase.Dependencies) > 0 {
			fmt.Fprintf(&b, "\nDepends on earlier phases: %s\n", strings.Join(phase.Dependencies, ", "))
		}
		if len(phase.Risks) > 0 {
			fmt.Fprintf(&b, "\nRisks:\n")
			for _, risk := range phase.Risks {
				fmt.Fprintf(&b, "- %s\n", risk)
			}
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}
