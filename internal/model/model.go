package model

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultNodeSize is the card size used when a caller does not ask for one.
var DefaultNodeSize = Size{Width: 250, Height: 350}

const DefaultNodeType = "glass"

type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Size     Size     `json:"size"`
	Data     NodeData `json:"data"`
}

// Clone returns a copy of n that shares no mutable state with it.
func (n Node) Clone() Node {
	n.Data = n.Data.Clone()
	return n
}

// NodeData is the user-facing payload of a node.
//
// ParentID records decomposition lineage (which node this one was spawned from);
// it is not a rendering hierarchy. SectionLabel, when set, is the heading text used
// to find this node's section in the parent's content.
//
// Attrs holds the opaque media/doc/style fields. Values must be JSON-shaped
// (map[string]any, []any, string, float64, bool, nil).
type NodeData struct {
	Label        string
	Content      string
	ParentID     string
	SectionLabel string
	Attrs        map[string]any
}

func (d NodeData) Clone() NodeData {
	d.Attrs = cloneAttrs(d.Attrs)
	return d
}

const DefaultEdgeType = "smoothstep"

type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Type         string `json:"type,omitempty"`
	Animated     bool   `json:"animated,omitempty"`
}

// Touches reports whether id is either endpoint of e.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
