package cli

import (
	"spatial-notepad/internal/mindmap"

	"github.com/spf13/cobra"
)

func newMindMapCmd(app *App) *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "mindmap <node-id>",
		Short: "Split a node's content into linked section and paragraph nodes",
		Long: `Split a node's content into child nodes.

Each heading becomes a section node 400 to the right of the source, fanned
500 apart vertically. Without headings, each paragraph becomes a node fanned
250 apart. --deep also splits every section's body into paragraph nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := mindmap.Shallow
			if deep {
				mode = mindmap.Deep
			}
			return withSession(cmd, app, func(s *session) (any, error) {
				res, ok := mindmap.New(s.canvas).Decompose(args[0], mode)
				if !ok {
					return nil, errNotFound("node", args[0])
				}
				return map[string]any{
					"source": args[0],
					"mode":   mode.String(),
					"result": res,
				}, nil
			})
		},
	}
	cmd.Flags().BoolVar(&deep, "deep", false, "Also split each section into paragraph nodes")
	return cmd
}
