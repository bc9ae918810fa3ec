package web

import (
	"context"
	"net/http"
	"strings"

	"spatial-notepad/internal/model"
)

func (s *Server) handleStateGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.prefs.State())
}

func (s *Server) handleStatePut(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.prefs.State()
	if err := decodeBody(r, &st); err != nil {
		writeError(w, err)
		return
	}
	lang, err := model.ParseLanguage(string(st.Language))
	if err != nil {
		writeError(w, badRequestError{msg: err.Error()})
		return
	}
	st.Language = lang
	if st.CustomFonts == nil {
		st.CustomFonts = []model.CustomFont{}
	}
	if st.CustomLinks == nil {
		st.CustomLinks = []model.Link{}
	}
	s.prefs.Replace(st)
	s.canvas.SetLanguage(lang)
	writeJSON(w, http.StatusOK, s.prefs.State())
}

type linkAddRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (s *Server) handleStateLinkAdd(w http.ResponseWriter, r *http.Request) {
	var req linkAddRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, badRequestError{msg: "missing url"})
		return
	}
	s.mu.Lock()
	link := s.prefs.AddLink(req.Name, req.URL)
	s.mu.Unlock()
	s.pushLinks(r.Context())
	writeJSON(w, http.StatusCreated, link)
}

func (s *Server) handleStateLinkDelete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("linkId"))
	s.mu.Lock()
	removed := s.prefs.RemoveLink(id)
	s.mu.Unlock()
	if !removed {
		writeError(w, errNotFound("link", id))
		return
	}
	s.pushLinks(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// pushLinks mirrors the current quick-links to the registry. pushMu keeps
// pushes in order and each one reads the list afresh, so the last push always
// carries the newest links.
func (s *Server) pushLinks(ctx context.Context) {
	s.pushMu.Lock()
	defer s.pushMu.Unlock()
	s.mu.Lock()
	links := s.prefs.State().CustomLinks
	s.mu.Unlock()
	s.prefs.PushLinks(ctx, links)
}
