// Package wiring assembles the application services for a workspace root.
package wiring

import (
	"log/slog"
	"os"

	"github.com/felixgeelhaar/gapmap/pkg/application"
	"github.com/felixgeelhaar/gapmap/pkg/storage"
)

// Workspace bundles the services every command needs.
type Workspace struct {
	Root     string
	Repo     *storage.FilesystemRepository
	Analysis *application.AnalysisService
	Roadmaps *application.RoadmapService
	Logger   *slog.Logger
}

// NewWorkspace wires services for the given project root.
func NewWorkspace(root string, verbose bool) *Workspace {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	repo := storage.NewFilesystemRepository(root)
	return &Workspace{
		Root:     root,
		Repo:     repo,
		Analysis: application.NewAnalysisService(application.NewScanService(0, logger), logger),
		Roadmaps: application.NewRoadmapService(repo, logger),
		Logger:   logger,
	}
}

// LoadWorkflow restores the pipeline state machine from the persisted
// workspace state.
func (w *Workspace) LoadWorkflow() (*application.Workflow, *storage.WorkspaceState, error) {
	state, err := w.Repo.LoadState()
	if err != nil {
		return nil, nil, err
	}
	wf, err := application.NewWorkflow(state.Stage, w.Root)
	if err != nil {
		return nil, nil, err
	}
	return wf, state, nil
}

// SaveStage persists a pipeline stage transition.
func (w *Workspace) SaveStage(state *storage.WorkspaceState, stage string) error {
	state.Stage = stage
	state.Root = w.Root
	return w.Repo.SaveState(state)
}
