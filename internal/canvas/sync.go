package canvas

import (
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/richtext"
)

// propagate applies patch to id and pushes the new content down the lineage.
// visited is shared by the whole pass; a node already in it is skipped, which
// also stops a ParentID cycle.
func (c *Canvas) propagate(id string, patch model.DataPatch, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	c.applyPatch(id, patch)
	if patch.Content == nil {
		return
	}
	content := *patch.Content
	for _, child := range c.Children(id) {
		next, ok := childContent(child, content)
		if !ok || next == child.Data.Content {
			continue
		}
		c.propagate(child.ID, model.ContentPatch(next), visited)
	}
}

// childContent is what a child should hold given its parent's content. A
// child whose section heading has disappeared is left alone.
func childContent(child model.Node, parentContent string) (string, bool) {
	if child.Data.SectionLabel == "" {
		return parentContent, true
	}
	return richtext.FindSection(parentContent, child.Data.SectionLabel)
}
