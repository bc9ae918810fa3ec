package canvas

import "spatial-notepad/internal/history"

// PushHistory records the current state as one snapshot.
func (c *Canvas) PushHistory() {
	c.history.Push(c.nodes, c.edges)
}

func (c *Canvas) Undo() bool {
	snap, ok := c.history.Undo()
	if !ok {
		return false
	}
	c.restore(snap)
	return true
}

func (c *Canvas) Redo() bool {
	snap, ok := c.history.Redo()
	if !ok {
		return false
	}
	c.restore(snap)
	return true
}

func (c *Canvas) restore(snap history.Snapshot) {
	c.nodes = snap.Nodes
	c.edges = snap.Edges
	for id := range c.editing {
		if !c.hasNode(id) {
			delete(c.editing, id)
		}
	}
	c.persistNodes()
	c.persistEdges()
}

// ClearCanvas empties the graph and records the empty state, which discards
// any redo range.
func (c *Canvas) ClearCanvas() {
	c.nodes = nil
	c.edges = nil
	c.editing = map[string]bool{}
	c.persistNodes()
	c.persistEdges()
	c.PushHistory()
}

type HistoryStatus struct {
	Cursor  int  `json:"cursor"`
	Len     int  `json:"len"`
	Limit   int  `json:"limit"`
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

func (c *Canvas) HistoryStatus() HistoryStatus {
	return HistoryStatus{
		Cursor:  c.history.Cursor(),
		Len:     c.history.Len(),
		Limit:   c.history.Limit(),
		CanUndo: c.history.CanUndo(),
		CanRedo: c.history.CanRedo(),
	}
}
