package cli

import "github.com/spf13/cobra"

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every node and edge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errUsage("refusing to clear without --yes"))
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				removed := map[string]int{"nodes": len(s.canvas.Nodes()), "edges": len(s.canvas.Edges())}
				s.canvas.ClearCanvas()
				return map[string]any{"removed": removed}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}
