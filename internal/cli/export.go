package cli

import (
	"spatial-notepad/internal/format"
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write nodes, edges and preferences as one JSON backup (stdout without a file)",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := store.ReadAll(cmd.Context(), store.SQLite{Dir: app.cfg.Dir})
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 0 || args[0] == "-" {
				return format.WriteJSON(cmd.OutOrStdout(), ex, true)
			}
			if err := store.WriteExportFile(args[0], ex); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"path":  args[0],
				"nodes": len(ex.Nodes),
				"edges": len(ex.Edges),
			})
		},
	}
	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the stored notepad with a backup written by export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errUsage("refusing to overwrite %s without --yes", app.cfg.Dir))
			}
			ex, err := store.ReadExportFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dropped := dropDanglingEdges(ex)
			if err := store.WriteAll(cmd.Context(), store.SQLite{Dir: app.cfg.Dir}, ex); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"nodes":        len(ex.Nodes),
				"edges":        len(ex.Edges),
				"droppedEdges": dropped,
				"appState":     ex.AppState != nil,
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm")
	return cmd
}

// dropDanglingEdges removes edges whose endpoints are not in ex.Nodes and
// returns how many were removed.
func dropDanglingEdges(ex *store.Export) int {
	ids := make(map[string]bool, len(ex.Nodes))
	for _, n := range ex.Nodes {
		ids[n.ID] = true
	}
	kept := make([]model.Edge, 0, len(ex.Edges))
	for _, e := range ex.Edges {
		if ids[e.Source] && ids[e.Target] {
			kept = append(kept, e)
		}
	}
	dropped := len(ex.Edges) - len(kept)
	ex.Edges = kept
	if ex.Nodes == nil {
		ex.Nodes = []model.Node{}
	}
	return dropped
}
