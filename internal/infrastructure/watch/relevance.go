// Package watch re-runs the analysis pipeline when specification documents
// or source files change, coalescing rapid edit bursts into one run.
package watch

import (
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/gapmap/pkg/extract"
)

// Kind classifies why a changed path matters to the pipeline.
type Kind string

const (
	KindSpec   Kind = "spec"   // specification or planning document
	KindSource Kind = "source" // extractable source file
	KindNone   Kind = ""       // irrelevant to analysis
)

// ignoredDirs are never watched; changes inside them cannot affect the
// analysis and .gapmap would otherwise retrigger on our own writes.
var ignoredDirs = map[string]bool{
	".git": true, ".gapmap": true, "vendor": true, "node_modules": true,
	"__pycache__": true, ".idea": true, ".vscode": true, "dist": true,
	"build": true, "target": true, ".venv": true,
}

// specDocNames are the Convention B planning documents watched by name.
var specDocNames = map[string]bool{
	"requirements.md": true, "prd.md": true,
	"architecture.md": true, "arch.md": true,
	"epics.md": true, "stories.md": true,
	"readme.md": true,
}

// Classify reports whether a changed path should trigger re-analysis and
// why. Markdown files count as spec changes when they are a known planning
// document or live under a specs tree; anything the extractor supports is
// a source change.
func Classify(path string) Kind {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if ignoredDirs[part] {
			return KindNone
		}
	}

	base := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(base, ".md") {
		if specDocNames[base] || base == "spec.md" || underSpecsTree(path) || strings.HasPrefix(base, "sprint-") {
			return KindSpec
		}
		return KindNone
	}

	if extract.Supported(path) {
		return KindSource
	}
	return KindNone
}

// IgnoredDir reports whether a directory should be pruned from watching.
func IgnoredDir(name string) bool {
	return ignoredDirs[name]
}

func underSpecsTree(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if strings.EqualFold(part, "specs") || strings.EqualFold(part, "docs") ||
			strings.EqualFold(part, "planning") || strings.EqualFold(part, "product") {
			return true
		}
	}
	return false
}
