package canvas

import "spatial-notepad/internal/model"

// BranchOffsetX is the horizontal distance between a parent and a branch or
// decomposed child.
const BranchOffsetX = 400

type AddNodeOpts struct {
	Size        *model.Size
	SkipHistory bool
}

// AddNode appends a node with a fresh id and returns that id.
func (c *Canvas) AddNode(typ string, pos model.Position, data model.NodeData, opts AddNodeOpts) string {
	if typ == "" {
		typ = model.DefaultNodeType
	}
	data = data.Clone()
	if data.Label == "" {
		data.Label = c.lang.DefaultNodeLabel()
	}
	size := model.DefaultNodeSize
	if opts.Size != nil {
		size = *opts.Size
	}
	id := c.freshNodeID()
	c.nodes = append(c.nodes, model.Node{ID: id, Type: typ, Position: pos, Size: size, Data: data})
	c.persistNodes()
	if !opts.SkipHistory {
		c.PushHistory()
	}
	return id
}

func (c *Canvas) freshNodeID() string {
	for {
		id := c.newID()
		if id != "" && !c.hasNode(id) {
			return id
		}
	}
}

// UpdateNodeData merges patch into the node's data. A content change is
// propagated to the node's lineage children.
func (c *Canvas) UpdateNodeData(id string, patch model.DataPatch, skipHistory bool) {
	if !c.hasNode(id) {
		c.log.Debug("update of unknown node ignored", "node", id)
		return
	}
	if patch.Content != nil {
		c.propagate(id, patch, map[string]bool{})
	} else {
		c.applyPatch(id, patch)
	}
	c.persistNodes()
	if !skipHistory {
		c.PushHistory()
	}
}

func (c *Canvas) applyPatch(id string, patch model.DataPatch) {
	if i := c.nodeIndex(id); i >= 0 {
		c.nodes[i].Data = model.MergeNodeData(c.nodes[i].Data, patch)
	}
}

// DeleteNode removes the node and every edge touching it. Lineage children
// keep their ParentID.
func (c *Canvas) DeleteNode(id string) bool {
	i := c.nodeIndex(id)
	if i < 0 {
		c.log.Debug("delete of unknown node ignored", "node", id)
		return false
	}
	c.nodes = append(c.nodes[:i:i], c.nodes[i+1:]...)
	kept := c.edges[:0:0]
	for _, e := range c.edges {
		if !e.Touches(id) {
			kept = append(kept, e)
		}
	}
	c.edges = kept
	delete(c.editing, id)
	c.persistNodes()
	c.persistEdges()
	c.PushHistory()
	return true
}

// MoveNode changes only the position and is never recorded in history.
func (c *Canvas) MoveNode(id string, pos model.Position) bool {
	i := c.nodeIndex(id)
	if i < 0 {
		return false
	}
	c.nodes[i].Position = pos
	c.persistNodes()
	return true
}

func (c *Canvas) ResizeNode(id string, size model.Size) bool {
	i := c.nodeIndex(id)
	if i < 0 {
		return false
	}
	c.nodes[i].Size = size
	c.persistNodes()
	c.PushHistory()
	return true
}

// AddBranch creates an empty child to the right of parentID and links it.
func (c *Canvas) AddBranch(parentID string) (string, bool) {
	parent, ok := c.Node(parentID)
	if !ok {
		return "", false
	}
	pos := model.Position{X: parent.Position.X + BranchOffsetX, Y: parent.Position.Y}
	childID := c.AddNode(model.DefaultNodeType, pos, model.NodeData{
		Label:    c.lang.BranchLabel(),
		ParentID: parentID,
	}, AddNodeOpts{SkipHistory: true})
	c.AddEdge(model.Edge{ID: LineageEdgeID(parentID, childID), Source: parentID, Target: childID}, true)
	c.PushHistory()
	return childID, true
}
