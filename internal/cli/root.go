package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/config"
	"spatial-notepad/internal/format"
	"spatial-notepad/internal/links"
	"spatial-notepad/internal/logging"
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/persist"
	"spatial-notepad/internal/prefs"
	"spatial-notepad/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Lang       string
	LogLevel   string
	LogFormat  string
	LinksURL   string
	PrettyJSON bool

	cfg *config.Config
	log *slog.Logger
	// langFlag is set when --lang was given explicitly; it then wins over the
	// language saved in the app state.
	langFlag bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	env := config.FromEnv()

	cmd := &cobra.Command{
		Use:          "notepad",
		Short:        "Spatial notepad: a graph of content cards with linked sections",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a card and split it into a mind map
  notepad nodes add --label "Plan" --content "<h1>Goals</h1><p>ship</p><h1>Risks</h1><p>time</p>"
  notepad mindmap <node-id> --deep

  # Show the lineage of every card
  notepad tree

  # Direct node lookup (shortcut for: notepad nodes show <node-id>)
  notepad 0b8f5a52-3c1e-4f0e-9a55-6f1f7c1f9c11

  # Serve the JSON API
  notepad serve --addr 127.0.0.1:3000
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.langFlag = cmd.Flags().Changed("lang")
		return app.configure(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", env.Dir, "Path to the data dir (notepad.sqlite, links.json)")
	cmd.PersistentFlags().StringVar(&app.Lang, "lang", env.Language, "Language for default labels (en|ru)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", env.LogLevel, "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFormat, "log-format", env.LogFormat, "Log format (text|json)")
	cmd.PersistentFlags().StringVar(&app.LinksURL, "links-url", env.LinksURL, "Base URL of a remote link registry (empty: use the local links.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newNodesCmd(app))
	cmd.AddCommand(newEdgesCmd(app))
	cmd.AddCommand(newMindMapCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newLinksCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newServeCmd(app, env.Addr))

	return cmd
}

func (app *App) configure(cmd *cobra.Command) error {
	cfg := &config.Config{
		Dir:       app.Dir,
		Addr:      config.DefaultAddr,
		Language:  app.Lang,
		LogLevel:  app.LogLevel,
		LogFormat: app.LogFormat,
		LinksURL:  app.LinksURL,
	}
	if err := cfg.Validate(); err != nil {
		return writeErr(cmd, err)
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	app.Dir = cfg.Dir
	app.log = log
	cmd.SetContext(logging.WithLogger(cmd.Context(), log))
	return nil
}

func (app *App) linkRegistry() prefs.LinkRegistry {
	if app.cfg.LinksURL != "" {
		return links.NewClient(app.cfg.LinksURL)
	}
	return links.NewRegistry(app.cfg.Dir)
}

// session is one command's view of the notepad: the canvas and preferences
// restored from disk, with every mutation routed through a persist.Writer.
type session struct {
	db     store.SQLite
	writer *persist.Writer
	prefs  *prefs.Service
	canvas *canvas.Canvas
}

func openSession(cmd *cobra.Command, app *App) (*session, error) {
	ctx := cmd.Context()
	db := store.SQLite{Dir: app.cfg.Dir}
	w := persist.NewWriter(persist.WriterOpts{Persister: db, Logger: app.log})

	p := prefs.New(prefs.Options{Saver: w, Links: app.linkRegistry(), Language: app.cfg.Lang(), Logger: app.log})
	if err := p.Load(ctx, db); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("load app state: %w", err)
	}
	lang := p.Language()
	if app.langFlag {
		lang = app.cfg.Lang()
	}

	c := canvas.New(canvas.Options{Saver: w, Language: lang, Logger: app.log})
	if err := c.Bootstrap(ctx, db); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &session{db: db, writer: w, prefs: p, canvas: c}, nil
}

// close flushes pending writes. A failed write is reported as the command's
// error so scripts notice lost changes.
func (s *session) close() error {
	_ = s.writer.Close()
	if n := s.writer.Failures(); n > 0 {
		return fmt.Errorf("persist: %d write(s) failed", n)
	}
	return nil
}

// withSession runs fn against a fresh session and flushes it afterwards.
func withSession(cmd *cobra.Command, app *App, fn func(s *session) (any, error)) error {
	s, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	out, err := fn(s)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out)
}

func nodeOrNotFound(c *canvas.Canvas, id string) (model.Node, error) {
	n, ok := c.Node(id)
	if !ok {
		return model.Node{}, errNotFound("node", id)
	}
	return n, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteData(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
