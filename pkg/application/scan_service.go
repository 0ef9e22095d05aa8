// Package application orchestrates the analysis pipeline: source scanning,
// spec parsing, gap analysis, scoring, and roadmap generation. Services are
// thin coordinators; all heuristics live in the domain packages.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/felixgeelhaar/gapmap/pkg/domain/source"
	"github.com/felixgeelhaar/gapmap/pkg/extract"
)

// skipDirs are never descended into when scanning a codebase.
var skipDirs = map[string]bool{
	".git": true, ".gapmap": true, "vendor": true, "node_modules": true,
	"__pycache__": true, ".idea": true, ".vscode": true, "dist": true,
	"build": true, "target": true, ".venv": true,
}

// maxFileSize guards against minified bundles and generated blobs.
const maxFileSize = 1 << 20

// defaultScanConcurrency bounds parallel file reads.
const defaultScanConcurrency = 8

// ScanService walks a project tree and extracts structural facts from every
// supported source file.
type ScanService struct {
	concurrency int
	logger      *slog.Logger
}

// NewScanService creates a scanner. Concurrency <= 0 uses the default.
func NewScanService(concurrency int, logger *slog.Logger) *ScanService {
	if concurrency <= 0 {
		concurrency = defaultScanConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{concurrency: concurrency, logger: logger}
}

// Scan extracts facts from every supported source file under root and
// returns them indexed. Individual files that cannot be read or parsed are
// logged and skipped; only a missing root or a tree with no source files
// at all is an error.
func (s *ScanService) Scan(ctx context.Context, root string) (*source.Index, []source.FileFacts, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, fmt.Errorf("scan root: %w", err)
	}

	paths, err := s.collect(root)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no supported source files under %s", root)
	}

	p := pool.New().WithMaxGoroutines(s.concurrency)
	var mu sync.Mutex
	var files []source.FileFacts

	for _, path := range paths {
		path := path
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			facts, err := s.extractFile(root, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("skipping unreadable source file", "path", path, "error", err)
				return
			}
			if !facts.IsEmpty() {
				files = append(files, facts)
			}
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	s.logger.Info("codebase scanned",
		"root", root, "files", len(files), "functions", countFunctions(files))
	return source.NewIndex(files), files, nil
}

// collect gathers the relative paths of all supported source files.
func (s *ScanService) collect(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			s.logger.Debug("walk error, skipping entry", "path", path, "error", err)
			return nil
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Size() > maxFileSize {
			return nil
		}
		if !extract.Supported(path) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

func (s *ScanService) extractFile(root, rel string) (source.FileFacts, error) {
	data, err := os.ReadFile(filepath.Join(root, rel)) // #nosec G304 -- rel comes from walking root
	if err != nil {
		return source.FileFacts{}, err
	}
	return extract.Extract(rel, data), nil
}

func countFunctions(files []source.FileFacts) int {
	n := 0
	for _, f := range files {
		n += len(f.Functions)
	}
	return n
}
