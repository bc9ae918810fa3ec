package cli

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"spatial-notepad/internal/links"

	"github.com/spf13/cobra"
)

func newLinksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Link registry commands",
	}
	cmd.AddCommand(newLinksListCmd(app))
	cmd.AddCommand(newLinksPushCmd(app))
	cmd.AddCommand(newLinksServeCmd(app))
	return cmd
}

func newLinksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the links held by the registry (remote when --links-url is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := app.linkRegistry().Fetch(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == nil {
				return writeOut(cmd, app, []any{})
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newLinksPushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Replace the registry's links with the saved quick-links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(s *session) (any, error) {
				ls := s.prefs.State().CustomLinks
				if err := app.linkRegistry().Push(cmd.Context(), ls); err != nil {
					return nil, err
				}
				return map[string]any{"pushed": len(ls)}, nil
			})
		},
	}
}

func newLinksServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve only the link registry (GET/POST " + links.Path + ")",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mux := http.NewServeMux()
			links.NewHandler(links.NewRegistry(app.cfg.Dir), app.log).Register(mux)

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return writeErr(cmd, err)
			}
			announce(cmd, app, ln.Addr().String())
			if err := serveUntilDone(ctx, ln, mux); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:3001", "Bind address (host:port or :port)")
	return cmd
}
