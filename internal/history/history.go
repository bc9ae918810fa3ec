// Package history keeps a bounded, linear undo/redo log of full graph snapshots.
package history

import "spatial-notepad/internal/model"

// DefaultLimit is the number of snapshots kept before the oldest is evicted.
const DefaultLimit = 50

// Snapshot is an independent copy of the node and edge collections.
type Snapshot struct {
	Nodes []model.Node `json:"nodes"`
	Edges []model.Edge `json:"edges"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Nodes: model.CloneNodes(s.Nodes), Edges: model.CloneEdges(s.Edges)}
}

// History is a single linear log with a cursor. The cursor is -1 until the
// first push and otherwise always indexes a stored snapshot.
//
// History is not safe for concurrent use.
type History struct {
	limit   int
	entries []Snapshot
	cursor  int
}

func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit, cursor: -1}
}

// Push drops everything after the cursor, appends a copy of (nodes, edges)
// and moves the cursor onto it. When the log overflows the oldest entry is
// evicted and the cursor stays put.
func (h *History) Push(nodes []model.Node, edges []model.Edge) {
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, Snapshot{Nodes: model.CloneNodes(nodes), Edges: model.CloneEdges(edges)})
	if len(h.entries) > h.limit {
		h.entries[0] = Snapshot{}
		h.entries = h.entries[1:]
		return
	}
	h.cursor++
}

// Undo steps the cursor back and returns a copy of the snapshot it lands on.
// It is a no-op at or before the first entry.
func (h *History) Undo() (Snapshot, bool) {
	if h.cursor <= 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor].clone(), true
}

// Redo steps the cursor forward; it is a no-op at the newest entry.
func (h *History) Redo() (Snapshot, bool) {
	if h.cursor >= len(h.entries)-1 {
		return Snapshot{}, false
	}
	h.cursor++
	return h.entries[h.cursor].clone(), true
}

// Current returns a copy of the snapshot under the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.cursor < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.cursor].clone(), true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.entries)-1 }
func (h *History) Cursor() int   { return h.cursor }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Limit() int    { return h.limit }

// Reset forgets every snapshot.
func (h *History) Reset() {
	h.entries = nil
	h.cursor = -1
}
