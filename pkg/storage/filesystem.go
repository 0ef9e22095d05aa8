// Package storage persists workspace artifacts under the project's .gapmap
// directory and serializes roadmaps to their export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/gapmap/pkg/domain/roadmap"
)

const GapmapDir = ".gapmap"

const (
	StateFile    = "state.json"
	AnalysisFile = "analysis.json"
	RoadmapFile  = "roadmap.json"
	ConfigFile   = "config.yaml"
	ProposalsDir = "proposals"
)

// WorkspaceState records where the pipeline stands between command
// invocations. It is the only mutable artifact the engine keeps; every
// analysis artifact is derived fresh and merely cached.
type WorkspaceState struct {
	Stage     string    `json:"stage"`
	Root      string    `json:"root"`
	UpdatedAt time.Time `json:"updated_at"`
	SpecCount int       `json:"spec_count,omitempty"`
	GapCount  int       `json:"gap_count,omitempty"`
}

// FilesystemRepository stores workspace artifacts as files under
// root/.gapmap. Reads retry briefly to ride out concurrent writers
// (a watch-mode analysis racing a status command).
type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

// NewFilesystemRepository creates a repository rooted at the project dir.
func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// MetaDir returns the absolute .gapmap directory path.
func (r *FilesystemRepository) MetaDir() string {
	return filepath.Join(r.root, GapmapDir)
}

// ProposalsPath returns the directory external proposals are read from.
func (r *FilesystemRepository) ProposalsPath() string {
	return filepath.Join(r.MetaDir(), ProposalsDir)
}

// ResolvePath validates that filename names a direct child of .gapmap and
// returns its absolute path. Traversal attempts are rejected.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	baseDir := r.MetaDir()
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}
	return cleanPath, nil
}

// Initialize creates the .gapmap directory tree.
func (r *FilesystemRepository) Initialize() error {
	for _, dir := range []string{r.MetaDir(), r.ProposalsPath()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// IsInitialized reports whether the workspace has a .gapmap directory.
func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(r.MetaDir())
	return err == nil
}

// SaveState persists the pipeline stage record.
func (r *FilesystemRepository) SaveState(state *WorkspaceState) error {
	state.UpdatedAt = time.Now().UTC()
	return r.saveJSON(StateFile, state)
}

// LoadState reads the pipeline stage record. A missing file yields a fresh
// zero state, not an error.
func (r *FilesystemRepository) LoadState() (*WorkspaceState, error) {
	retryer := retry.New[*WorkspaceState](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*WorkspaceState, error) {
		path, err := r.ResolvePath(StateFile)
		if err != nil {
			return nil, err
		}
		// #nosec G304 -- path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return &WorkspaceState{Root: r.root}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read state file: %w", err)
		}
		var s WorkspaceState
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("unmarshal state: %w", err)
		}
		return &s, nil
	})
}

// SaveRoadmap caches the generated roadmap.
func (r *FilesystemRepository) SaveRoadmap(rm *roadmap.Roadmap) error {
	return r.saveJSON(RoadmapFile, rm)
}

// LoadRoadmap reads the cached roadmap. Missing cache is an error; callers
// are expected to tell the user to generate one first.
func (r *FilesystemRepository) LoadRoadmap() (*roadmap.Roadmap, error) {
	retryer := retry.New[*roadmap.Roadmap](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*roadmap.Roadmap, error) {
		path, err := r.ResolvePath(RoadmapFile)
		if err != nil {
			return nil, err
		}
		// #nosec G304 -- path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read roadmap file: %w", err)
		}
		var rm roadmap.Roadmap
		if err := json.Unmarshal(data, &rm); err != nil {
			return nil, fmt.Errorf("unmarshal roadmap: %w", err)
		}
		return &rm, nil
	})
}

// SaveDocument caches an arbitrary JSON artifact (the analysis result).
func (r *FilesystemRepository) SaveDocument(filename string, v any) error {
	return r.saveJSON(filename, v)
}

// LoadDocument reads a cached JSON artifact into out.
func (r *FilesystemRepository) LoadDocument(filename string, out any) error {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return err
	}
	// #nosec G304 -- path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filename, err)
	}
	return nil
}

func (r *FilesystemRepository) saveJSON(filename string, v any) error {
	path, err := r.ResolvePath(filename)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filename, err)
	}
	return os.WriteFile(path, data, 0600)
}
