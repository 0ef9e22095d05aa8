package parser

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies which specification convention(s) a project uses.
type Format string

const (
	FormatA       Format = "A"
	FormatB       Format = "B"
	FormatBoth    Format = "both"
	FormatUnknown Format = "unknown"
)

// Convention A root marker: a directory of numbered feature folders, each
// holding one canonical spec file.
const (
	ConventionARoot = "specs"
	SpecFileName    = "spec.md"
)

// Convention B core documents, by accepted filename.
var (
	requirementsNames = []string{"requirements.md", "prd.md"}
	architectureNames = []string{"architecture.md", "arch.md"}
	epicsNames        = []string{"epics.md", "stories.md"}

	// candidateDirs are scanned, in order, for Convention B documents.
	candidateDirs = []string{"docs", "planning", "product", "."}
)

// Paths lists every specification artifact the detector located.
type Paths struct {
	SpecRoot     string   `json:"spec_root,omitempty"`    // Convention A root
	FeatureDirs  []string `json:"feature_dirs,omitempty"` // Convention A feature folders
	Requirements string   `json:"requirements,omitempty"` // Convention B documents
	Architecture string   `json:"architecture,omitempty"`
	Epics        string   `json:"epics,omitempty"`
	Sprints      []string `json:"sprints,omitempty"` // dated sprint sub-artifacts
}

// Detection is the detector's verdict for a project root.
type Detection struct {
	Format     Format  `json:"format"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Paths      Paths   `json:"paths"`
}

// OverrideConfig is the optional format-override file at
// .gapmap/config.yaml. SpecDocuments names a custom Convention B document
// directory; a {project-root} placeholder is substituted before use.
type OverrideConfig struct {
	SpecDocuments string `yaml:"spec_documents"`
}

const (
	configDir  = ".gapmap"
	configFile = "config.yaml"
	// placeholder substituted with the absolute project root
	rootPlaceholder = "{project-root}"
)

// Detect decides which convention(s) are present under root. It is a pure
// filesystem read: no side effects, and an unreadable override config only
// logs a warning before falling back to default locations.
func Detect(root string, logger *slog.Logger) (Detection, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := os.Stat(root); err != nil {
		return Detection{Format: FormatUnknown}, fmt.Errorf("project root %s: %w", root, err)
	}

	det := Detection{Format: FormatUnknown}

	if specRoot, features := detectConventionA(root); len(features) > 0 {
		det.Format = FormatA
		det.Confidence = 0.9
		det.Paths.SpecRoot = specRoot
		det.Paths.FeatureDirs = features
	}

	dirs := candidateDirs
	if override, err := loadOverride(root); err != nil {
		logger.Warn("ignoring invalid format-override config", "root", root, "error", err)
	} else if override != "" {
		dirs = append([]string{override}, dirs...)
	}

	if b, found := detectConventionB(root, dirs); found > 0 {
		if det.Format == FormatA {
			det.Format = FormatBoth
			det.Confidence = 1.0
		} else {
			det.Format = FormatB
			det.Confidence = 0.4 + 0.2*float64(found)
		}
		det.Paths.Requirements = b.Requirements
		det.Paths.Architecture = b.Architecture
		det.Paths.Epics = b.Epics
		det.Paths.Sprints = b.Sprints
	}

	return det, nil
}

// detectConventionA looks for the root marker directory containing at least
// one feature folder with a spec file.
func detectConventionA(root string) (string, []string) {
	specRoot := filepath.Join(root, ConventionARoot)
	entries, err := os.ReadDir(specRoot)
	if err != nil {
		return "", nil
	}

	var features []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(specRoot, e.Name())
		if _, err := os.Stat(filepath.Join(dir, SpecFileName)); err == nil {
			features = append(features, dir)
		}
	}
	sort.Strings(features)
	if len(features) == 0 {
		return "", nil
	}
	return specRoot, features
}

// detectConventionB scans candidate directories for the three core planning
// documents, stopping at the first directory that holds at least one.
func detectConventionB(root string, dirs []string) (Paths, int) {
	for _, dir := range dirs {
		base := dir
		if !filepath.IsAbs(base) {
			base = filepath.Join(root, dir)
		}

		var p Paths
		p.Requirements = firstExisting(base, requirementsNames)
		p.Architecture = firstExisting(base, architectureNames)
		p.Epics = firstExisting(base, epicsNames)

		found := 0
		for _, path := range []string{p.Requirements, p.Architecture, p.Epics} {
			if path != "" {
				found++
			}
		}
		if found == 0 {
			continue
		}

		if matches, err := filepath.Glob(filepath.Join(base, "sprint-*.md")); err == nil {
			sort.Strings(matches)
			p.Sprints = matches
		}
		return p, found
	}
	return Paths{}, 0
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadOverride reads the format-override config if present. A missing file
// is not an error; an unreadable or invalid one is, so the caller can log
// and fall back.
func loadOverride(root string) (string, error) {
	path := filepath.Join(root, configDir, configFile)
	data, err := os.ReadFile(filepath.Clean(path))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read override config: %w", err)
	}

	var cfg OverrideConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("parse override config: %w", err)
	}
	if cfg.SpecDocuments == "" {
		return "", nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return strings.ReplaceAll(cfg.SpecDocuments, rootPlaceholder, abs), nil
}
