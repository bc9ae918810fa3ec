// Package canvas owns the canonical node and edge collections of one notepad.
//
// Every mutation runs to completion synchronously; persistence is handed to a
// Saver after the in-memory state has changed. A Canvas is not safe for
// concurrent use.
package canvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"spatial-notepad/internal/history"
	"spatial-notepad/internal/model"
)

// Saver receives full-collection replacements. Implementations must not block
// and must not report errors back to the canvas.
type Saver interface {
	SaveNodes(nodes []model.Node)
	SaveEdges(edges []model.Edge)
}

// Source is read once by Bootstrap.
type Source interface {
	LoadNodes(ctx context.Context) ([]model.Node, error)
	LoadEdges(ctx context.Context) ([]model.Edge, error)
}

type Options struct {
	History  *history.History
	Saver    Saver
	Language model.Language
	Logger   *slog.Logger
	NewID    func() string
}

type Canvas struct {
	nodes   []model.Node
	edges   []model.Edge
	history *history.History
	saver   Saver
	lang    model.Language
	log     *slog.Logger
	newID   func() string
	editing map[string]bool
}

// New returns a canvas whose history holds the empty baseline. A non-empty
// opts.History is kept as is and the canvas starts from its current snapshot.
func New(opts Options) *Canvas {
	c := &Canvas{
		history: opts.History,
		saver:   opts.Saver,
		lang:    opts.Language,
		log:     opts.Logger,
		newID:   opts.NewID,
		editing: map[string]bool{},
	}
	if c.history == nil {
		c.history = history.New(history.DefaultLimit)
	}
	if c.lang == "" {
		c.lang = model.LanguageEN
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if snap, ok := c.history.Current(); ok {
		c.nodes = snap.Nodes
		c.edges = snap.Edges
	} else {
		c.history.Push(nil, nil)
	}
	return c
}

// Bootstrap seeds the canvas from src. Empty persisted collections mean
// "nothing to restore" and leave the current state alone. The history is reset
// to a single baseline of whatever state results.
func (c *Canvas) Bootstrap(ctx context.Context, src Source) error {
	nodes, err := src.LoadNodes(ctx)
	if err != nil {
		return fmt.Errorf("canvas: load nodes: %w", err)
	}
	edges, err := src.LoadEdges(ctx)
	if err != nil {
		return fmt.Errorf("canvas: load edges: %w", err)
	}
	if len(nodes) > 0 {
		c.nodes = model.CloneNodes(nodes)
	}
	if len(edges) > 0 {
		c.edges = model.CloneEdges(edges)
	}
	c.history.Reset()
	c.history.Push(c.nodes, c.edges)
	c.log.Debug("canvas restored", "nodes", len(c.nodes), "edges", len(c.edges))
	return nil
}

func (c *Canvas) Language() model.Language { return c.lang }

func (c *Canvas) SetLanguage(lang model.Language) {
	if lang != "" {
		c.lang = lang
	}
}

// Nodes returns a copy of the node collection.
func (c *Canvas) Nodes() []model.Node { return model.CloneNodes(c.nodes) }

// Edges returns a copy of the edge collection.
func (c *Canvas) Edges() []model.Edge { return model.CloneEdges(c.edges) }

func (c *Canvas) Node(id string) (model.Node, bool) {
	i := c.nodeIndex(id)
	if i < 0 {
		return model.Node{}, false
	}
	return c.nodes[i].Clone(), true
}

// Children returns the nodes whose ParentID is id, in collection order.
func (c *Canvas) Children(id string) []model.Node {
	var out []model.Node
	for _, n := range c.nodes {
		if n.Data.ParentID == id {
			out = append(out, n.Clone())
		}
	}
	return out
}

func (c *Canvas) BeginEdit(id string) {
	if c.nodeIndex(id) >= 0 {
		c.editing[id] = true
	}
}

func (c *Canvas) EndEdit(id string) { delete(c.editing, id) }

// Editing reports whether id is in edit mode.
func (c *Canvas) Editing(id string) bool { return c.editing[id] }

func (c *Canvas) nodeIndex(id string) int {
	return indexOf(c.nodes, func(n model.Node) bool { return n.ID == id })
}

func (c *Canvas) edgeIndex(id string) int {
	return indexOf(c.edges, func(e model.Edge) bool { return e.ID == id })
}

func (c *Canvas) hasNode(id string) bool { return c.nodeIndex(id) >= 0 }

func indexOf[T any](xs []T, match func(T) bool) int {
	for i, x := range xs {
		if match(x) {
			return i
		}
	}
	return -1
}

func (c *Canvas) persistNodes() {
	if c.saver != nil {
		c.saver.SaveNodes(model.CloneNodes(c.nodes))
	}
}

func (c *Canvas) persistEdges() {
	if c.saver != nil {
		c.saver.SaveEdges(model.CloneEdges(c.edges))
	}
}
