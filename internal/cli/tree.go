package cli

import (
	"fmt"

	"spatial-notepad/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// lineageNode is the JSON form of `notepad tree --json`.
type lineageNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []lineageNode `json:"children,omitempty"`
}

func newTreeCmd(app *App) *cobra.Command {
	var plain, asJSON bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Render the parent/child lineage of every node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			roots := buildLineage(s.canvas.Nodes())
			if err := s.close(); err != nil {
				return writeErr(cmd, err)
			}
			if asJSON {
				return writeOut(cmd, app, roots)
			}

			// EnvColorProfile honors NO_COLOR and CLICOLOR_FORCE for piped output.
			profile := termenv.EnvColorProfile()
			if plain {
				profile = termenv.Ascii
			}
			lipgloss.SetColorProfile(profile)

			_, err = fmt.Fprint(cmd.OutOrStdout(), renderLineage(roots))
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the lineage as JSON instead of a drawing")
	return cmd
}

// buildLineage groups nodes under their ParentID. Nodes whose parent is
// missing are roots. Nodes only reachable through a parent cycle are rooted at
// the first such node in canvas order.
func buildLineage(nodes []model.Node) []lineageNode {
	byID := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	kids := map[string][]string{}
	var rootIDs []string
	for _, n := range nodes {
		if _, ok := byID[n.Data.ParentID]; ok && n.Data.ParentID != n.ID {
			kids[n.Data.ParentID] = append(kids[n.Data.ParentID], n.ID)
			continue
		}
		rootIDs = append(rootIDs, n.ID)
	}

	visited := map[string]bool{}
	var build func(id string) lineageNode
	build = func(id string) lineageNode {
		visited[id] = true
		ln := lineageNode{ID: id, Label: byID[id].Data.Label}
		for _, c := range kids[id] {
			if visited[c] {
				continue
			}
			ln.Children = append(ln.Children, build(c))
		}
		return ln
	}

	out := make([]lineageNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		out = append(out, build(id))
	}
	for _, n := range nodes {
		if !visited[n.ID] {
			out = append(out, build(n.ID))
		}
	}
	return out
}

func renderLineage(roots []lineageNode) string {
	if len(roots) == 0 {
		return "(empty canvas)\n"
	}
	accent := lipgloss.Color(model.DefaultTheme().AccentColor)
	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(lipgloss.NewStyle().Foreground(accent).PaddingRight(1)).
		ItemStyle(lipgloss.NewStyle())
	for _, r := range roots {
		t.Child(lineageTree(r))
	}
	return t.String() + "\n"
}

func lineageTree(n lineageNode) any {
	label := lineageLabel(n)
	if len(n.Children) == 0 {
		return label
	}
	t := tree.Root(label)
	for _, c := range n.Children {
		t.Child(lineageTree(c))
	}
	return t
}

func lineageLabel(n lineageNode) string {
	id := n.ID
	if len(id) > 8 {
		id = id[:8]
	}
	muted := lipgloss.NewStyle().Faint(true)
	return n.Label + " " + muted.Render("("+id+")")
}
