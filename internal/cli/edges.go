package cli

import (
	"spatial-notepad/internal/model"

	"github.com/spf13/cobra"
)

func newEdgesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edges",
		Aliases: []string{"edge"},
		Short:   "Edge commands",
	}
	cmd.AddCommand(newEdgesListCmd(app))
	cmd.AddCommand(newEdgesAddCmd(app))
	cmd.AddCommand(newEdgesRemoveCmd(app))
	return cmd
}

func newEdgesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [node-id]",
		Short: "List edges (optionally only those touching a node)",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				out := make([]model.Edge, 0)
				for _, e := range s.canvas.Edges() {
					if len(args) == 1 && !e.Touches(args[0]) {
						continue
					}
					out = append(out, e)
				}
				return out, nil
			})
		},
	}
	return cmd
}

func newEdgesAddCmd(app *App) *cobra.Command {
	var typ, sourceHandle, targetHandle string

	cmd := &cobra.Command{
		Use:   "add <source-id> <target-id>",
		Short: "Connect two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				for _, id := range args {
					if _, err := nodeOrNotFound(s.canvas, id); err != nil {
						return nil, err
					}
				}
				e := model.Edge{
					Source:       args[0],
					Target:       args[1],
					SourceHandle: sourceHandle,
					TargetHandle: targetHandle,
					Type:         typ,
				}
				s.canvas.AddEdge(e, false)
				edges := s.canvas.Edges()
				return edges[len(edges)-1], nil
			})
		},
	}

	cmd.Flags().StringVar(&typ, "type", model.DefaultEdgeType, "Edge type")
	cmd.Flags().StringVar(&sourceHandle, "source-handle", "", "Source handle id")
	cmd.Flags().StringVar(&targetHandle, "target-handle", "", "Target handle id")
	return cmd
}

func newEdgesRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <edge-id>",
		Aliases: []string{"delete"},
		Short:   "Remove an edge",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				if !s.canvas.RemoveEdge(args[0]) {
					return nil, errNotFound("edge", args[0])
				}
				return map[string]any{"id": args[0], "deleted": true}, nil
			})
		},
	}
	return cmd
}
