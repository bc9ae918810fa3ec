package history

import (
	"fmt"
	"testing"

	"spatial-notepad/internal/model"
)

func nodesN(n int) []model.Node {
	out := make([]model.Node, n)
	for i := range out {
		out[i] = model.Node{ID: fmt.Sprintf("n%d", i)}
	}
	return out
}

func TestHistory_EmptyCursorAndNoops(t *testing.T) {
	h := New(0)
	if h.Cursor() != -1 || h.Len() != 0 {
		t.Fatalf("expected empty log with cursor -1, got cursor=%d len=%d", h.Cursor(), h.Len())
	}
	if h.Limit() != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, h.Limit())
	}
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo on empty log must be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo on empty log must be a no-op")
	}

	h.Push(nil, nil)
	if _, ok := h.Undo(); ok {
		t.Fatalf("undo at cursor 0 must be a no-op")
	}
	if h.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", h.Cursor())
	}
}

func TestHistory_UndoRedoWalk(t *testing.T) {
	h := New(0)
	for i := 0; i < 4; i++ {
		h.Push(nodesN(i), nil)
	}

	for want := 2; want >= 0; want-- {
		s, ok := h.Undo()
		if !ok {
			t.Fatalf("expected undo to succeed")
		}
		if len(s.Nodes) != want {
			t.Fatalf("expected %d nodes after undo, got %d", want, len(s.Nodes))
		}
	}
	if h.CanUndo() {
		t.Fatalf("expected no more undo")
	}
	for want := 1; want <= 3; want++ {
		s, ok := h.Redo()
		if !ok || len(s.Nodes) != want {
			t.Fatalf("redo: ok=%v nodes=%d want %d", ok, len(s.Nodes), want)
		}
	}
	if _, ok := h.Redo(); ok {
		t.Fatalf("redo at newest entry must be a no-op")
	}
}

func TestHistory_PushTruncatesRedoBranch(t *testing.T) {
	h := New(0)
	h.Push(nodesN(0), nil)
	h.Push(nodesN(1), nil)
	h.Push(nodesN(2), nil)
	h.Undo()
	h.Undo()

	h.Push(nodesN(5), nil)
	if h.Len() != 2 || h.Cursor() != 1 {
		t.Fatalf("expected len=2 cursor=1, got len=%d cursor=%d", h.Len(), h.Cursor())
	}
	if h.CanRedo() {
		t.Fatalf("expected redo branch to be dropped")
	}
}

func TestHistory_BoundEvictsOldest(t *testing.T) {
	h := New(0)
	for i := 0; i < 51; i++ {
		h.Push(nodesN(i), nil)
	}
	if h.Len() != 50 {
		t.Fatalf("expected 50 entries, got %d", h.Len())
	}
	if h.Cursor() != 49 {
		t.Fatalf("expected cursor 49, got %d", h.Cursor())
	}

	var last Snapshot
	steps := 0
	for {
		s, ok := h.Undo()
		if !ok {
			break
		}
		last = s
		steps++
	}
	if steps != 49 {
		t.Fatalf("expected 49 undo steps, got %d", steps)
	}
	// The very first push (0 nodes) is gone; the oldest reachable has 1 node.
	if len(last.Nodes) != 1 {
		t.Fatalf("expected oldest reachable snapshot to have 1 node, got %d", len(last.Nodes))
	}
}

func TestHistory_SnapshotsAreIndependent(t *testing.T) {
	h := New(0)
	live := []model.Node{{ID: "a", Data: model.NodeData{Content: "before", Attrs: map[string]any{"k": "v"}}}}
	h.Push(live, nil)

	live[0].Data.Content = "after"
	live[0].Data.Attrs["k"] = "changed"

	cur, ok := h.Current()
	if !ok {
		t.Fatalf("expected current snapshot")
	}
	if cur.Nodes[0].Data.Content != "before" || cur.Nodes[0].Data.Attrs["k"] != "v" {
		t.Fatalf("stored snapshot was altered: %#v", cur.Nodes[0].Data)
	}

	// Mutating a returned copy must not leak back either.
	cur.Nodes[0].Data.Content = "leak"
	again, _ := h.Current()
	if again.Nodes[0].Data.Content != "before" {
		t.Fatalf("returned snapshot shares state with the log")
	}
}

func TestHistory_Reset(t *testing.T) {
	h := New(3)
	h.Push(nil, nil)
	h.Push(nil, nil)
	h.Reset()
	if h.Len() != 0 || h.Cursor() != -1 {
		t.Fatalf("expected reset log, got len=%d cursor=%d", h.Len(), h.Cursor())
	}
}
