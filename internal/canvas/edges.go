package canvas

import "spatial-notepad/internal/model"

// LineageEdgeID is the id given to an edge from a parent to a generated child.
func LineageEdgeID(parentID, childID string) string {
	return "e-" + parentID + "-" + childID
}

// AddEdge appends e when both endpoints exist and reports whether it did.
// Parallel edges between the same pair are allowed.
func (c *Canvas) AddEdge(e model.Edge, skipHistory bool) bool {
	if !c.hasNode(e.Source) || !c.hasNode(e.Target) {
		c.log.Debug("edge with missing endpoint ignored", "source", e.Source, "target", e.Target)
		return false
	}
	if e.Type == "" {
		e.Type = model.DefaultEdgeType
	}
	e.Animated = true
	if e.ID == "" || c.edgeIndex(e.ID) >= 0 {
		e.ID = c.freshEdgeID()
	}
	c.edges = append(c.edges, e)
	c.persistEdges()
	if !skipHistory {
		c.PushHistory()
	}
	return true
}

func (c *Canvas) freshEdgeID() string {
	for {
		id := c.newID()
		if id != "" && c.edgeIndex(id) < 0 {
			return id
		}
	}
}

// Connect adds a user-drawn edge and returns its id.
func (c *Canvas) Connect(source, target string) (string, bool) {
	if !c.AddEdge(model.Edge{Source: source, Target: target}, false) {
		return "", false
	}
	return c.edges[len(c.edges)-1].ID, true
}

func (c *Canvas) RemoveEdge(id string) bool {
	i := c.edgeIndex(id)
	if i < 0 {
		return false
	}
	c.edges = append(c.edges[:i:i], c.edges[i+1:]...)
	c.persistEdges()
	c.PushHistory()
	return true
}
