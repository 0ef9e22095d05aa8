package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultQuietWindow = 500 * time.Millisecond

// Watcher observes a project tree and invokes the callback with a batch of
// relevant changes after each quiet window. Irrelevant paths (build output,
// VCS metadata, our own .gapmap writes) never trigger.
type Watcher struct {
	fs       *fsnotify.Watcher
	batcher  *Batcher
	onChange func([]Change)
	logger   *slog.Logger
}

// New creates a watcher. A zero quiet window uses the default.
func New(quiet time.Duration, onChange func([]Change), logger *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if quiet == 0 {
		quiet = defaultQuietWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{fs: fs, onChange: onChange, logger: logger}
	w.batcher = NewBatcher(quiet, w.emit)
	return w, nil
}

// WatchTree registers root and every non-ignored subdirectory.
func (w *Watcher) WatchTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if IgnoredDir(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// Run blocks processing events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()   //nolint:errcheck // shutdown path
	defer w.batcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			op := opName(event.Op)
			if op == "" {
				continue
			}

			// New directories join the watch set so files created inside
			// them are seen.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !IgnoredDir(filepath.Base(event.Name)) {
						_ = w.WatchTree(event.Name)
					}
					continue
				}
			}

			kind := Classify(event.Name)
			if kind == KindNone {
				continue
			}
			w.logger.Debug("relevant change", "path", event.Name, "kind", kind, "op", op)
			w.batcher.Add(Change{Path: event.Name, Kind: kind, Op: op})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func (w *Watcher) emit(batch []Change) {
	if w.onChange != nil {
		w.onChange(batch)
	}
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
