package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
	"github.com/felixgeelhaar/gapmap/pkg/domain/scoring"
	"github.com/felixgeelhaar/gapmap/pkg/domain/spec"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

func newRepo(t *testing.T) *storage.FilesystemRepository {
	t.Helper()
	repo := storage.NewFilesystemRepository(t.TempDir())
	if err := repo.Initialize(); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestInitializeCreatesMetaDirs(t *testing.T) {
	repo := newRepo(t)
	if !repo.IsInitialized() {
		t.Fatal("IsInitialized() = false after Initialize")
	}
	if _, err := os.Stat(repo.ProposalsPath()); err != nil {
		t.Fatalf("proposals dir missing: %v", err)
	}
}

func TestResolvePathRejectsTraversal(t *testing.T) {
	repo := newRepo(t)
	for _, bad := range []string{"", "../escape.json", "sub/dir.json", "../../etc/passwd"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("ResolvePath(%q) accepted, want rejection", bad)
		}
	}
	if _, err := repo.ResolvePath("state.json"); err != nil {
		t.Errorf("ResolvePath(state.json) = %v", err)
	}
}

func TestStateRoundTrip(t *testing.T) {
	repo := newRepo(t)

	state, err := repo.LoadState()
	if err != nil {
		t.Fatalf("LoadState() on fresh workspace: %v", err)
	}
	if state.Stage != "" {
		t.Fatalf("fresh stage = %q, want empty", state.Stage)
	}

	state.Stage = "analyzed"
	state.GapCount = 7
	if err := repo.SaveState(state); err != nil {
		t.Fatalf("SaveState(): %v", err)
	}

	loaded, err := repo.LoadState()
	if err != nil {
		t.Fatalf("LoadState(): %v", err)
	}
	if loaded.Stage != "analyzed" || loaded.GapCount != 7 {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not stamped on save")
	}
}

func sampleRoadmap() *roadmap.Roadmap {
	items := []scoring.ScoredFeature{
		{
			ID: "gap:auth/FR1", Title: "Hash password", Category: scoring.CategorySecurity,
			Priority: spec.PriorityP0, Impact: 9,
			Effort: scoring.NewEffort(6, scoring.LevelMedium), ROI: 1.5, Source: "gap",
			Evidence: []string{"src/auth.go:12 hashPassword"},
		},
		{
			ID: "proposal:dark-mode", Title: "Dark mode", Category: scoring.CategoryPolish,
			Priority: spec.PriorityP3, Impact: 2,
			Effort: scoring.NewEffort(12, scoring.LevelLow), ROI: 0.17, Source: "proposal",
			DependsOn: []string{"gap:auth/FR1"},
		},
	}
	return roadmap.NewGenerator(nil).Generate(items, roadmap.Context{})
}

func TestRoadmapCacheRoundTrip(t *testing.T) {
	repo := newRepo(t)
	rm := sampleRoadmap()

	if err := repo.SaveRoadmap(rm); err != nil {
		t.Fatalf("SaveRoadmap(): %v", err)
	}
	loaded, err := repo.LoadRoadmap()
	if err != nil {
		t.Fatalf("LoadRoadmap(): %v", err)
	}
	if !rm.Equal(loaded) {
		t.Fatalf("cached roadmap differs:\nsaved  %+v\nloaded %+v", rm, loaded)
	}
}

func TestLoadRoadmapMissing(t *testing.T) {
	repo := newRepo(t)
	if _, err := repo.LoadRoadmap(); err == nil {
		t.Fatal("want error when no roadmap has been generated")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	repo := newRepo(t)
	saved := map[string]int{"gaps": 3}
	if err := repo.SaveDocument("analysis.json", saved); err != nil {
		t.Fatalf("SaveDocument(): %v", err)
	}
	var loaded map[string]int
	if err := repo.LoadDocument("analysis.json", &loaded); err != nil {
		t.Fatalf("LoadDocument(): %v", err)
	}
	if loaded["gaps"] != 3 {
		t.Fatalf("loaded = %v", loaded)
	}

	path, _ := repo.ResolvePath("analysis.json")
	if filepath.Dir(path) != repo.MetaDir() {
		t.Error("artifact written outside the metadata directory")
	}
}
