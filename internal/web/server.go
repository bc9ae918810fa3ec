// Package web serves the notepad over a JSON HTTP API.
//
// One Server owns one canvas. The canvas is single-threaded, so every handler
// that touches it holds s.mu for the whole call. Pushes to the link registry
// run outside s.mu.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"spatial-notepad/internal/canvas"
	"spatial-notepad/internal/links"
	"spatial-notepad/internal/logging"
	"spatial-notepad/internal/mindmap"
	"spatial-notepad/internal/model"
	"spatial-notepad/internal/persist"
	"spatial-notepad/internal/prefs"
	"spatial-notepad/internal/store"
)

type ServerConfig struct {
	Addr     string
	Dir      string
	Language model.Language
	// LinksURL points prefs at a remote registry. When empty, the registry
	// served by this process is used.
	LinksURL string
	Logger   *slog.Logger

	// Persister defaults to SQLite in Dir.
	Persister store.Persister
	Debounce  time.Duration
}

type Server struct {
	mu         sync.Mutex
	pushMu     sync.Mutex
	cfg        ServerConfig
	log        *slog.Logger
	canvas     *canvas.Canvas
	decomposer *mindmap.Decomposer
	prefs      *prefs.Service
	writer     *persist.Writer
	registry   *links.Registry
}

// NewServer restores the canvas and preferences from storage. Load failures
// are logged and the server starts empty.
func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	cfg.LinksURL = strings.TrimSpace(cfg.LinksURL)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.Persister == nil {
		cfg.Persister = store.SQLite{Dir: cfg.Dir}
	}

	s := &Server{cfg: cfg, log: cfg.Logger, registry: links.NewRegistry(cfg.Dir)}
	s.writer = persist.NewWriter(persist.WriterOpts{Persister: cfg.Persister, Debounce: cfg.Debounce, Logger: cfg.Logger})

	var remote prefs.LinkRegistry = s.registry
	if cfg.LinksURL != "" {
		remote = links.NewClient(cfg.LinksURL)
	}
	s.prefs = prefs.New(prefs.Options{Saver: s.writer, Links: remote, Language: cfg.Language, Logger: cfg.Logger})
	if err := s.prefs.Load(ctx, cfg.Persister); err != nil {
		s.log.Warn("load app state", "err", err)
	}

	s.canvas = canvas.New(canvas.Options{Saver: s.writer, Language: s.prefs.Language(), Logger: cfg.Logger})
	if err := s.canvas.Bootstrap(ctx, cfg.Persister); err != nil {
		s.log.Warn("restore canvas", "err", err)
	}
	s.decomposer = mindmap.New(s.canvas)
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("POST /api/nodes", s.handleNodeCreate)
	mux.HandleFunc("GET /api/nodes/{nodeId}", s.handleNodeGet)
	mux.HandleFunc("PATCH /api/nodes/{nodeId}", s.handleNodeUpdate)
	mux.HandleFunc("DELETE /api/nodes/{nodeId}", s.handleNodeDelete)
	mux.HandleFunc("POST /api/nodes/{nodeId}/move", s.handleNodeMove)
	mux.HandleFunc("POST /api/nodes/{nodeId}/resize", s.handleNodeResize)
	mux.HandleFunc("POST /api/nodes/{nodeId}/branch", s.handleNodeBranch)
	mux.HandleFunc("POST /api/nodes/{nodeId}/mindmap", s.handleNodeMindMap)
	mux.HandleFunc("POST /api/nodes/{nodeId}/document", s.handleNodeDocument)
	mux.HandleFunc("POST /api/nodes/{nodeId}/edit", s.handleEditBegin)
	mux.HandleFunc("DELETE /api/nodes/{nodeId}/edit", s.handleEditEnd)
	mux.HandleFunc("POST /api/edges", s.handleEdgeCreate)
	mux.HandleFunc("DELETE /api/edges/{edgeId}", s.handleEdgeDelete)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /api/history/undo", s.handleUndo)
	mux.HandleFunc("POST /api/history/redo", s.handleRedo)
	mux.HandleFunc("POST /api/history/push", s.handleHistoryPush)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/state", s.handleStateGet)
	mux.HandleFunc("PUT /api/state", s.handleStatePut)
	mux.HandleFunc("POST /api/state/links", s.handleStateLinkAdd)
	mux.HandleFunc("DELETE /api/state/links/{linkId}", s.handleStateLinkDelete)
	links.NewHandler(s.registry, s.log).Register(mux)
	return requestLogger(s.log, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Flush writes pending saves synchronously.
func (s *Server) Flush() { s.writer.Flush() }

func (s *Server) Close() error { return s.writer.Close() }

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("web: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down and flushes.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("listening", "addr", ln.Addr().String(), "dir", s.cfg.Dir)

	select {
	case err := <-errCh:
		_ = s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	_ = s.Close()
	return err
}
