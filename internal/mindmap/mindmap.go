// Package mindmap splits a note into a fan of linked child notes, one per
// heading section and, in deep mode, one per paragraph inside each section.
package mindmap

import (
	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/richtext"
)

// Layout constants. Children sit OffsetX to the right of their anchor and are
// centered vertically on it.
const (
	OffsetX          = canvas.BranchOffsetX
	SectionSpacing   = 500
	ParagraphSpacing = 250
)

// ParagraphSize is the card size of paragraph-level children.
var ParagraphSize = model.Size{Width: 300, Height: 200}

type Mode int

const (
	Shallow Mode = iota
	Deep
)

func (m Mode) String() string {
	if m == Deep {
		return "deep"
	}
	return "shallow"
}

// Graph is the part of canvas.Canvas the decomposer drives.
type Graph interface {
	Node(id string) (model.Node, bool)
	Language() model.Language
	AddNode(typ string, pos model.Position, data model.NodeData, opts canvas.AddNodeOpts) string
	AddEdge(e model.Edge, skipHistory bool) bool
	PushHistory()
	EndEdit(id string)
}

type Result struct {
	NodeIDs []string `json:"nodeIds"`
	EdgeIDs []string `json:"edgeIds"`
}

type Decomposer struct {
	g Graph
}

func New(g Graph) *Decomposer {
	return &Decomposer{g: g}
}

// Decompose creates the children of sourceID. All mutations are recorded as a
// single history snapshot, even when nothing was created. It returns false,
// without touching history, when the source does not exist.
func (d *Decomposer) Decompose(sourceID string, mode Mode) (Result, bool) {
	src, ok := d.g.Node(sourceID)
	if !ok {
		return Result{}, false
	}
	var res Result
	sections := richtext.SegmentByHeadings(src.Data.Content)
	if len(sections) == 0 {
		d.paragraphs(&res, src.ID, src.Position, src.Data.Content)
	}
	lang := d.g.Language()
	for i, s := range sections {
		label := s.Heading
		if label == "" {
			label = lang.NodeLabel(i + 1)
		}
		pos := fanPosition(src.Position, i, len(sections), SectionSpacing)
		id := d.g.AddNode(model.DefaultNodeType, pos, model.NodeData{
			Label:        label,
			Content:      s.Body,
			ParentID:     src.ID,
			SectionLabel: label,
		}, canvas.AddNodeOpts{SkipHistory: true})
		d.link(&res, src.ID, id)
		if mode == Deep && s.Body != "" {
			d.paragraphs(&res, id, pos, s.Body)
		}
	}
	d.g.PushHistory()
	d.g.EndEdit(src.ID)
	return res, true
}

func (d *Decomposer) paragraphs(res *Result, anchorID string, anchor model.Position, content string) {
	blocks := richtext.Paragraphs(content)
	lang := d.g.Language()
	size := ParagraphSize
	for i, b := range blocks {
		id := d.g.AddNode(model.DefaultNodeType, fanPosition(anchor, i, len(blocks), ParagraphSpacing), model.NodeData{
			Label:    lang.NodeLabel(i + 1),
			Content:  b,
			ParentID: anchorID,
		}, canvas.AddNodeOpts{Size: &size, SkipHistory: true})
		d.link(res, anchorID, id)
	}
}

func (d *Decomposer) link(res *Result, parentID, childID string) {
	res.NodeIDs = append(res.NodeIDs, childID)
	edgeID := canvas.LineageEdgeID(parentID, childID)
	if d.g.AddEdge(model.Edge{ID: edgeID, Source: parentID, Target: childID, Type: model.DefaultEdgeType}, true) {
		res.EdgeIDs = append(res.EdgeIDs, edgeID)
	}
}

// fanPosition places child i of k at OffsetX to the right of anchor, spread
// vertically by spacing and centered on the anchor's y.
func fanPosition(anchor model.Position, i, k int, spacing float64) model.Position {
	return model.Position{
		X: anchor.X + OffsetX,
		Y: anchor.Y + (float64(i)-float64(k-1)/2)*spacing,
	}
}
