package mindmap

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/model"
)

func newCanvas(t *testing.T) *canvas.Canvas {
	t.Helper()
	n := 0
	return canvas.New(canvas.Options{NewID: func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}})
}

func addSource(c *canvas.Canvas, content string) string {
	return c.AddNode("", model.Position{X: 100, Y: 1000}, model.NodeData{Content: content}, canvas.AddNodeOpts{SkipHistory: true})
}

func TestShallowThreeHeadings(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h1>A</h1><p>a</p><h1>B</h1><p>b</p><h1>C</h1><p>c</p>")
	before := c.HistoryStatus().Len
	c.BeginEdit(src)

	res, ok := New(c).Decompose(src, Shallow)
	if !ok {
		t.Fatalf("Decompose failed")
	}
	if len(res.NodeIDs) != 3 || len(res.EdgeIDs) != 3 {
		t.Fatalf("expected 3 nodes and 3 edges, got %+v", res)
	}
	for _, e := range c.Edges() {
		if e.Source != src {
			t.Fatalf("edge %+v does not start at the source", e)
		}
		if e.Type != model.DefaultEdgeType || !e.Animated {
			t.Fatalf("unexpected edge style: %+v", e)
		}
	}
	if got := c.HistoryStatus().Len; got != before+1 {
		t.Fatalf("expected exactly one snapshot, got %d new", got-before)
	}
	if c.Editing(src) {
		t.Fatalf("expected edit mode to end")
	}

	var labels, contents []string
	for _, id := range res.NodeIDs {
		n, _ := c.Node(id)
		labels = append(labels, n.Data.SectionLabel)
		contents = append(contents, n.Data.Content)
		if n.Data.ParentID != src || n.Data.Label != n.Data.SectionLabel {
			t.Fatalf("unexpected lineage: %+v", n.Data)
		}
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"<p>a</p>", "<p>b</p>", "<p>c</p>"}, contents); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionLayout(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h2>A</h2><h2>B</h2><h2>C</h2>")
	res, _ := New(c).Decompose(src, Shallow)

	var got []model.Position
	for _, id := range res.NodeIDs {
		n, _ := c.Node(id)
		got = append(got, n.Position)
	}
	want := []model.Position{{X: 500, Y: 500}, {X: 500, Y: 1000}, {X: 500, Y: 1500}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestDeepModeAttachesParagraphsToSection(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h1>Only</h1><p>one</p><p>two</p>")
	res, _ := New(c).Decompose(src, Deep)
	if len(res.NodeIDs) != 3 {
		t.Fatalf("expected 1 section and 2 paragraphs, got %d", len(res.NodeIDs))
	}
	section, _ := c.Node(res.NodeIDs[0])
	for i, id := range res.NodeIDs[1:] {
		n, _ := c.Node(id)
		if n.Data.ParentID != section.ID || n.Data.SectionLabel != "" {
			t.Fatalf("paragraph %d not anchored on the section: %+v", i, n.Data)
		}
		if n.Size != ParagraphSize {
			t.Fatalf("unexpected paragraph size: %+v", n.Size)
		}
		wantY := section.Position.Y + (float64(i)-0.5)*ParagraphSpacing
		if n.Position.X != section.Position.X+OffsetX || n.Position.Y != wantY {
			t.Fatalf("paragraph %d at %+v", i, n.Position)
		}
		if n.Data.Label != fmt.Sprintf("Node %d", i+1) {
			t.Fatalf("unexpected label %q", n.Data.Label)
		}
	}
	edges := c.Edges()
	if len(edges) != 3 || edges[1].Source != section.ID || edges[1].ID != canvas.LineageEdgeID(section.ID, res.NodeIDs[1]) {
		t.Fatalf("unexpected edges: %+v", edges)
	}
}

func TestShallowModeSkipsParagraphs(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h1>Only</h1><p>one</p><p>two</p>")
	res, _ := New(c).Decompose(src, Shallow)
	if len(res.NodeIDs) != 1 {
		t.Fatalf("expected one section node, got %d", len(res.NodeIDs))
	}
}

func TestHeaderMergeInParagraphPass(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<p>Question:</p><p>Answer text</p><p>Next para</p>")
	res, _ := New(c).Decompose(src, Shallow)
	if len(res.NodeIDs) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(res.NodeIDs))
	}
	first, _ := c.Node(res.NodeIDs[0])
	if first.Data.Content != "<p>Question:</p><br><p>Answer text</p>" {
		t.Fatalf("unexpected merged content %q", first.Data.Content)
	}
	if first.Position != (model.Position{X: 500, Y: 875}) {
		t.Fatalf("unexpected paragraph position %+v", first.Position)
	}
}

func TestHeaderMergeWithContractions(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<p>Isn't it true we don't know what's next for the team?</p><p>Answer text</p><p>Next para</p>")
	res, _ := New(c).Decompose(src, Shallow)
	if len(res.NodeIDs) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(res.NodeIDs))
	}
	first, _ := c.Node(res.NodeIDs[0])
	want := "<p>Isn't it true we don't know what's next for the team?</p><br><p>Answer text</p>"
	if first.Data.Content != want {
		t.Fatalf("unexpected merged content %q", first.Data.Content)
	}
}

func TestEmptyContentStillPushesOnce(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "")
	before := c.HistoryStatus().Len
	res, ok := New(c).Decompose(src, Deep)
	if !ok || len(res.NodeIDs) != 0 {
		t.Fatalf("expected no children, got %+v", res)
	}
	if got := c.HistoryStatus().Len; got != before+1 {
		t.Fatalf("expected one snapshot, got %d new", got-before)
	}
}

func TestSingleHeadingWithoutBody(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h3>Lonely</h3>")
	res, _ := New(c).Decompose(src, Deep)
	if len(res.NodeIDs) != 1 {
		t.Fatalf("expected one child, got %d", len(res.NodeIDs))
	}
	n, _ := c.Node(res.NodeIDs[0])
	if n.Data.Content != "" || n.Position.Y != 1000 {
		t.Fatalf("unexpected child %+v", n)
	}
}

func TestEmptyHeadingGetsFallbackLabel(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<h1>First</h1><h1>  </h1>")
	res, _ := New(c).Decompose(src, Shallow)
	n, _ := c.Node(res.NodeIDs[1])
	if n.Data.Label != "Node 2" || n.Data.SectionLabel != "Node 2" {
		t.Fatalf("unexpected fallback labels: %+v", n.Data)
	}
}

func TestListOnlyContent(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "<ul><li>a</li><li>b</li><li>c</li></ul>")
	res, _ := New(c).Decompose(src, Shallow)
	if len(res.NodeIDs) != 3 {
		t.Fatalf("expected one node per list item, got %d", len(res.NodeIDs))
	}
}

func TestPlainTextFallsBackToDoubleBreaks(t *testing.T) {
	c := newCanvas(t)
	src := addSource(c, "alpha\n\nbeta")
	res, _ := New(c).Decompose(src, Shallow)
	if len(res.NodeIDs) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(res.NodeIDs))
	}
}

func TestUnknownSourceIsNoop(t *testing.T) {
	c := newCanvas(t)
	before := c.HistoryStatus().Len
	if _, ok := New(c).Decompose("missing", Deep); ok {
		t.Fatalf("expected failure for unknown source")
	}
	if c.HistoryStatus().Len != before {
		t.Fatalf("expected no snapshot for unknown source")
	}
}

func TestDecomposeIsUndoneInOneStep(t *testing.T) {
	c := newCanvas(t)
	src := c.AddNode("", model.Position{}, model.NodeData{Content: "<h1>A</h1><p>x</p><h1>B</h1>"}, canvas.AddNodeOpts{})
	New(c).Decompose(src, Deep)
	c.Undo()
	if len(c.Nodes()) != 1 || len(c.Edges()) != 0 {
		t.Fatalf("expected one undo to remove the whole decomposition")
	}
}
