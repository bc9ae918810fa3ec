// Package persist hands graph and app-state saves to a store in the background.
package persist

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"spatial-notepad/internal/model"
	"spatial-notepad/internal/store"
)

// Writer coalesces saves: only the latest value of each collection is written,
// after Debounce has passed without a newer save. Write errors are logged and
// dropped; nothing is retried.
type Writer struct {
	p        store.Persister
	debounce time.Duration
	log      *slog.Logger

	mu       sync.Mutex
	idle     *sync.Cond
	timer    *time.Timer
	running  bool
	pending  batch
	failures int
}

type batch struct {
	nodes    []model.Node
	edges    []model.Edge
	appState *model.AppState
	hasNodes bool
	hasEdges bool
}

func (b batch) empty() bool {
	return !b.hasNodes && !b.hasEdges && b.appState == nil
}

type WriterOpts struct {
	Persister store.Persister
	Debounce  time.Duration
	Logger    *slog.Logger
}

const DefaultDebounce = 150 * time.Millisecond

func NewWriter(opts WriterOpts) *Writer {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Writer{p: opts.Persister, debounce: debounce, log: logger}
	w.idle = sync.NewCond(&w.mu)
	return w
}

func (w *Writer) SaveNodes(nodes []model.Node) {
	w.mu.Lock()
	w.pending.nodes = model.CloneNodes(nodes)
	w.pending.hasNodes = true
	w.scheduleLocked()
	w.mu.Unlock()
}

func (w *Writer) SaveEdges(edges []model.Edge) {
	w.mu.Lock()
	w.pending.edges = model.CloneEdges(edges)
	w.pending.hasEdges = true
	w.scheduleLocked()
	w.mu.Unlock()
}

func (w *Writer) SaveAppState(st model.AppState) {
	w.mu.Lock()
	cp := st.Clone()
	w.pending.appState = &cp
	w.scheduleLocked()
	w.mu.Unlock()
}

func (w *Writer) scheduleLocked() {
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.onTimer)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Writer) onTimer() {
	w.mu.Lock()
	if w.running {
		// The in-flight write reschedules when it finishes.
		w.mu.Unlock()
		return
	}
	b := w.takeLocked()
	if b.empty() {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.write(b)
	w.finish()
}

func (w *Writer) takeLocked() batch {
	b := w.pending
	w.pending = batch{}
	return b
}

func (w *Writer) finish() {
	w.mu.Lock()
	w.running = false
	if !w.pending.empty() && w.timer != nil {
		w.timer.Reset(w.debounce)
	}
	w.idle.Broadcast()
	w.mu.Unlock()
}

func (w *Writer) write(b batch) {
	ctx := context.Background()
	if b.hasNodes {
		if err := w.p.SaveNodes(ctx, b.nodes); err != nil {
			w.fail("nodes", err)
		}
	}
	if b.hasEdges {
		if err := w.p.SaveEdges(ctx, b.edges); err != nil {
			w.fail("edges", err)
		}
	}
	if b.appState != nil {
		if err := w.p.SaveAppState(ctx, *b.appState); err != nil {
			w.fail("app state", err)
		}
	}
}

func (w *Writer) fail(what string, err error) {
	w.log.Warn("persist failed", "what", what, "err", err)
	w.mu.Lock()
	w.failures++
	w.mu.Unlock()
}

// Failures is the number of writes that returned an error.
func (w *Writer) Failures() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.failures
}

// Flush waits for any in-flight write and then writes whatever is pending,
// until nothing is left.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if w.timer != nil {
			w.timer.Stop()
		}
		for w.running {
			w.idle.Wait()
		}
		b := w.takeLocked()
		if b.empty() {
			return
		}
		w.running = true
		w.mu.Unlock()
		w.write(b)
		w.mu.Lock()
		w.running = false
		w.idle.Broadcast()
	}
}

// Close flushes pending saves. The Writer stays usable afterwards.
func (w *Writer) Close() error {
	w.Flush()
	return nil
}
