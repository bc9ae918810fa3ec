package cli

import (
	"spatial-notepad/internal/links"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the data dir and the SQLite schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.db.Ensure(cmd.Context()); err != nil {
				_ = s.close()
				return writeErr(cmd, err)
			}
			// Persist the defaults so later commands and the server agree on them.
			s.writer.SaveAppState(s.prefs.State())
			if err := s.close(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":        app.cfg.Dir,
				"sqlitePath": s.db.Path(),
				"linksPath":  links.NewRegistry(app.cfg.Dir).Path(),
				"language":   s.prefs.Language(),
			})
		},
	}
	return cmd
}
