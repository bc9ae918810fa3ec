package cli

import (
	"encoding/json"
	"io"
	"strings"

	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/ingest"
	"spatial-notepad/internal/model"

	"github.com/spf13/cobra"
)

func newNodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "Node commands",
	}
	cmd.AddCommand(newNodesListCmd(app))
	cmd.AddCommand(newNodesShowCmd(app))
	cmd.AddCommand(newNodesAddCmd(app))
	cmd.AddCommand(newNodesUpdateCmd(app))
	cmd.AddCommand(newNodesDeleteCmd(app))
	cmd.AddCommand(newNodesMoveCmd(app))
	cmd.AddCommand(newNodesResizeCmd(app))
	cmd.AddCommand(newNodesBranchCmd(app))
	cmd.AddCommand(newNodesImportCmd(app))
	return cmd
}

// nodeView is a node with its lineage children and the edges touching it.
type nodeView struct {
	model.Node
	Children []string     `json:"children"`
	Edges    []model.Edge `json:"edges"`
}

func viewNode(c *canvas.Canvas, n model.Node) nodeView {
	v := nodeView{Node: n, Children: []string{}, Edges: []model.Edge{}}
	for _, ch := range c.Children(n.ID) {
		v.Children = append(v.Children, ch.ID)
	}
	for _, e := range c.Edges() {
		if e.Touches(n.ID) {
			v.Edges = append(v.Edges, e)
		}
	}
	return v
}

func newNodesListCmd(app *App) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes in canvas order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				out := make([]model.Node, 0)
				for _, n := range s.canvas.Nodes() {
					if typ != "" && n.Type != typ {
						continue
					}
					out = append(out, n)
				}
				return out, nil
			})
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "Only nodes of this type")
	return cmd
}

func newNodesShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <node-id>",
		Short: "Show a node with its children and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				n, err := nodeOrNotFound(s.canvas, args[0])
				if err != nil {
					return nil, err
				}
				return viewNode(s.canvas, n), nil
			})
		},
	}
	return cmd
}

func newNodesAddCmd(app *App) *cobra.Command {
	var typ, label, content, parent string
	var x, y, width, height float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readContentFlag(cmd, content)
			if err != nil {
				return writeErr(cmd, err)
			}
			opts := canvas.AddNodeOpts{}
			if cmd.Flags().Changed("width") || cmd.Flags().Changed("height") {
				size := model.DefaultNodeSize
				if cmd.Flags().Changed("width") {
					size.Width = width
				}
				if cmd.Flags().Changed("height") {
					size.Height = height
				}
				if size.Width <= 0 || size.Height <= 0 {
					return writeErr(cmd, errUsage("size must be positive"))
				}
				opts.Size = &size
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				data := model.NodeData{Label: strings.TrimSpace(label), Content: text, ParentID: strings.TrimSpace(parent)}
				id := s.canvas.AddNode(typ, model.Position{X: x, Y: y}, data, opts)
				n, _ := s.canvas.Node(id)
				return n, nil
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", model.DefaultNodeType, "Node type")
	cmd.Flags().StringVar(&label, "label", "", "Label (default: localized \"New Node\")")
	cmd.Flags().StringVar(&content, "content", "", "HTML content, or - to read stdin")
	cmd.Flags().StringVar(&parent, "parent", "", "Lineage parent node id")
	cmd.Flags().Float64Var(&x, "x", 0, "X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Y position")
	cmd.Flags().Float64Var(&width, "width", model.DefaultNodeSize.Width, "Width")
	cmd.Flags().Float64Var(&height, "height", model.DefaultNodeSize.Height, "Height")
	return cmd
}

func newNodesUpdateCmd(app *App) *cobra.Command {
	var label, content, sectionLabel, parent, dataJSON string

	cmd := &cobra.Command{
		Use:   "update <node-id>",
		Short: "Merge fields into a node's data (content changes sync to children)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.DataPatch
			if strings.TrimSpace(dataJSON) != "" {
				if err := json.Unmarshal([]byte(dataJSON), &patch); err != nil {
					return writeErr(cmd, errUsage("invalid --data: %v", err))
				}
			}
			if cmd.Flags().Changed("label") {
				patch.Label = model.StringPtr(label)
			}
			if cmd.Flags().Changed("content") {
				text, err := readContentFlag(cmd, content)
				if err != nil {
					return writeErr(cmd, err)
				}
				patch.Content = model.StringPtr(text)
			}
			if cmd.Flags().Changed("section-label") {
				patch.SectionLabel = model.StringPtr(sectionLabel)
			}
			if cmd.Flags().Changed("parent") {
				patch.ParentID = model.StringPtr(strings.TrimSpace(parent))
			}
			if patch.IsEmpty() {
				return writeErr(cmd, errUsage("nothing to update; pass --label, --content, --section-label, --parent or --data"))
			}

			return withSession(cmd, app, func(s *session) (any, error) {
				id := args[0]
				if _, err := nodeOrNotFound(s.canvas, id); err != nil {
					return nil, err
				}
				s.canvas.UpdateNodeData(id, patch, false)
				n, _ := s.canvas.Node(id)
				return viewNode(s.canvas, n), nil
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "New label")
	cmd.Flags().StringVar(&content, "content", "", "New HTML content, or - to read stdin")
	cmd.Flags().StringVar(&sectionLabel, "section-label", "", "Heading this node mirrors in its parent")
	cmd.Flags().StringVar(&parent, "parent", "", "Lineage parent node id (empty to detach)")
	cmd.Flags().StringVar(&dataJSON, "data", "", "JSON object merged into the node data (null removes a key)")
	return cmd
}

func newNodesDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <node-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a node and every edge touching it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				if !s.canvas.DeleteNode(args[0]) {
					return nil, errNotFound("node", args[0])
				}
				return map[string]any{"id": args[0], "deleted": true}, nil
			})
		},
	}
	return cmd
}

func newNodesMoveCmd(app *App) *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "move <node-id>",
		Short: "Move a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				if !s.canvas.MoveNode(args[0], model.Position{X: x, Y: y}) {
					return nil, errNotFound("node", args[0])
				}
				n, _ := s.canvas.Node(args[0])
				return n, nil
			})
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Y position")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func newNodesResizeCmd(app *App) *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "resize <node-id>",
		Short: "Resize a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return writeErr(cmd, errUsage("size must be positive"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				if !s.canvas.ResizeNode(args[0], model.Size{Width: width, Height: height}) {
					return nil, errNotFound("node", args[0])
				}
				n, _ := s.canvas.Node(args[0])
				return n, nil
			})
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "Width")
	cmd.Flags().Float64Var(&height, "height", 0, "Height")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}

func newNodesBranchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch <node-id>",
		Short: "Add a linked child to the right of a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				id, ok := s.canvas.AddBranch(args[0])
				if !ok {
					return nil, errNotFound("node", args[0])
				}
				n, _ := s.canvas.Node(id)
				return n, nil
			})
		},
	}
	return cmd
}

func newNodesImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <node-id> <file>",
		Short: "Attach a document to a node (text and Markdown become its content)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ingest.File(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				if _, err := nodeOrNotFound(s.canvas, args[0]); err != nil {
					return nil, err
				}
				s.canvas.UpdateNodeData(args[0], doc.Patch(), false)
				n, _ := s.canvas.Node(args[0])
				return n, nil
			})
		},
	}
	return cmd
}

// readContentFlag returns v, or stdin when v is "-".
func readContentFlag(cmd *cobra.Command, v string) (string, error) {
	if v != "-" {
		return v, nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
