package watch

import (
	"sync"
	"time"
)

// Change is one relevant filesystem event.
type Change struct {
	Path string
	Kind Kind
	Op   string // "create", "write", "remove", "rename"
}

// Batcher accumulates changes and fires the callback once the window
// elapses with no further additions, handing over everything collected
// since the last flush. A save-all in an editor becomes one analysis run
// instead of dozens.
type Batcher struct {
	window   time.Duration
	callback func([]Change)

	mu      sync.Mutex
	timer   *time.Timer
	pending []Change
	seen    map[string]bool
}

// NewBatcher creates a batcher with the given quiet window.
func NewBatcher(window time.Duration, callback func([]Change)) *Batcher {
	return &Batcher{
		window:   window,
		callback: callback,
		seen:     make(map[string]bool),
	}
}

// Add records a change and resets the quiet window. Duplicate paths within
// one batch are kept once, with the latest operation.
func (b *Batcher) Add(c Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seen[c.Path] {
		for i := range b.pending {
			if b.pending[i].Path == c.Path {
				b.pending[i].Op = c.Op
				break
			}
		}
	} else {
		b.seen[c.Path] = true
		b.pending = append(b.pending, c)
	}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.window, b.flush)
}

func (b *Batcher) flush() {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.seen = make(map[string]bool)
	b.mu.Unlock()

	if len(batch) > 0 {
		b.callback(batch)
	}
}

// Stop cancels any pending flush. Collected changes are dropped.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}
	b.pending = nil
	b.seen = make(map[string]bool)
}
