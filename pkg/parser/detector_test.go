package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestDetectConventionA(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "specs/001-auth/spec.md", "# Auth\n")
	writeDoc(t, root, "specs/002-billing/spec.md", "# Billing\n")
	writeDoc(t, root, "specs/notes.md", "stray file, not a feature folder\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatA {
		t.Fatalf("format = %s, want %s", det.Format, FormatA)
	}
	if det.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", det.Confidence)
	}
	if len(det.Paths.FeatureDirs) != 2 {
		t.Fatalf("feature dirs = %v, want 2", det.Paths.FeatureDirs)
	}
	if filepath.Base(det.Paths.FeatureDirs[0]) != "001-auth" {
		t.Errorf("feature dirs not sorted: %v", det.Paths.FeatureDirs)
	}
}

func TestDetectConventionB(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "docs/requirements.md", "# Requirements\n")
	writeDoc(t, root, "docs/epics.md", "# Epics\n")
	writeDoc(t, root, "docs/sprint-2026-01.md", "# Sprint\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatB {
		t.Fatalf("format = %s, want %s", det.Format, FormatB)
	}
	if det.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8 for two documents", det.Confidence)
	}
	if det.Paths.Requirements == "" || det.Paths.Epics == "" {
		t.Errorf("paths incomplete: %+v", det.Paths)
	}
	if det.Paths.Architecture != "" {
		t.Errorf("architecture = %q, want empty", det.Paths.Architecture)
	}
	if len(det.Paths.Sprints) != 1 {
		t.Errorf("sprints = %v, want one", det.Paths.Sprints)
	}
}

func TestDetectBothConventions(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "specs/001-auth/spec.md", "# Auth\n")
	writeDoc(t, root, "docs/prd.md", "# PRD\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatBoth {
		t.Fatalf("format = %s, want %s", det.Format, FormatBoth)
	}
	if det.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", det.Confidence)
	}
}

func TestDetectNothing(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "src/main.go", "package main\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatUnknown {
		t.Errorf("format = %s, want %s", det.Format, FormatUnknown)
	}
}

func TestDetectMissingRoot(t *testing.T) {
	if _, err := Detect(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestDetectOverrideConfig(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, ".gapmap/config.yaml", "spec_documents: \"{project-root}/planning\"\n")
	writeDoc(t, root, "planning/requirements.md", "# Requirements\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatB {
		t.Fatalf("format = %s, want %s", det.Format, FormatB)
	}
	if filepath.Base(filepath.Dir(det.Paths.Requirements)) != "planning" {
		t.Errorf("requirements = %q, want file under planning/", det.Paths.Requirements)
	}
}

func TestDetectInvalidOverrideFallsBack(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, ".gapmap/config.yaml", "spec_documents: [unterminated")
	writeDoc(t, root, "docs/requirements.md", "# Requirements\n")

	det, err := Detect(root, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if det.Format != FormatB {
		t.Errorf("format = %s, want %s after ignoring bad override", det.Format, FormatB)
	}
}
