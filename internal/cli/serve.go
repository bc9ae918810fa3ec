package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"spatial-notepad/internal/web"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App, defaultAddr string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notepad JSON API (and the link registry)",
		Long: strings.TrimSpace(`
Serve the canvas, history, preferences and link registry over HTTP.

One process owns the canvas while it runs: undo/redo history lives in memory
and starts from the state restored at startup.
`),
		Example: strings.TrimSpace(`
# Serve on the default address
notepad serve

# Serve another data dir on a random port
notepad --dir /tmp/pad serve --addr 127.0.0.1:0
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := web.NewServer(ctx, web.ServerConfig{
				Addr:     listenAddr,
				Dir:      app.cfg.Dir,
				Language: app.cfg.Lang(),
				LinksURL: app.cfg.LinksURL,
				Logger:   app.log,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				_ = srv.Close()
				return writeErr(cmd, err)
			}
			announce(cmd, app, ln.Addr().String())

			if err := srv.Serve(ctx, ln); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "Bind address (host:port or :port)")
	return cmd
}

func announce(cmd *cobra.Command, app *App, addr string) {
	url := "http://" + addr
	_ = writeOut(cmd, app, map[string]any{
		"addr":      addr,
		"url":       url,
		"dir":       app.cfg.Dir,
		"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
	})
	fmt.Fprintf(cmd.ErrOrStderr(), "notepad running at %s (dir=%s)\n", url, app.cfg.Dir)
}

// serveUntilDone serves h on ln until ctx is done.
func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
