package links

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"spatial-notepad/internal/model"
)

// Path is the route the registry is served on.
const Path = "/api/links"

const maxBodyBytes = 1 << 20

// Handler serves GET and POST on Path.
type Handler struct {
	reg *Registry
	log *slog.Logger
}

func NewHandler(reg *Registry, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{reg: reg, log: logger}
}

// Register adds the registry routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+Path, h.handleGet)
	mux.HandleFunc("POST "+Path, h.handlePost)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	links, err := h.reg.Load()
	if err != nil {
		h.log.Error("load links", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load links"})
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var links []model.Link
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&links); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid links payload"})
		return
	}
	if err := h.reg.Save(links); err != nil {
		h.log.Error("save links", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to save links"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
