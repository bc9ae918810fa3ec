// Package prefs holds the application preferences: theme, grid, language,
// custom fonts and quick-links.
package prefs

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"spatial-notepad/internal/model"
)

// Saver receives the whole state after every change.
type Saver interface {
	SaveAppState(st model.AppState)
}

// Source is read once by Load.
type Source interface {
	LoadAppState(ctx context.Context) (*model.AppState, error)
}

// LinkRegistry is the remote copy of the quick-links.
type LinkRegistry interface {
	Fetch(ctx context.Context) ([]model.Link, error)
	Push(ctx context.Context, links []model.Link) error
}

type Options struct {
	Saver    Saver
	Links    LinkRegistry
	Language model.Language
	Logger   *slog.Logger
	NewID    func() string
}

// Service is not safe for concurrent use.
type Service struct {
	state model.AppState
	saver Saver
	links LinkRegistry
	log   *slog.Logger
	newID func() string
}

func New(opts Options) *Service {
	s := &Service{
		state: model.DefaultAppState(opts.Language),
		saver: opts.Saver,
		links: opts.Links,
		log:   opts.Logger,
		newID: opts.NewID,
	}
	if s.state.Language == "" {
		s.state.Language = model.LanguageEN
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Load restores the saved state. Links from the remote registry win over the
// saved ones when the registry returns a non-empty list; registry errors are
// logged and ignored.
func (s *Service) Load(ctx context.Context, src Source) error {
	st, err := src.LoadAppState(ctx)
	if err != nil {
		return err
	}
	var remote []model.Link
	if s.links != nil {
		remote, err = s.links.Fetch(ctx)
		if err != nil {
			s.log.Warn("fetch links", "err", err)
			remote = nil
		}
	}
	if st != nil {
		s.state = st.Clone()
		if s.state.Language == "" {
			s.state.Language = model.LanguageEN
		}
		if s.state.CustomFonts == nil {
			s.state.CustomFonts = []model.CustomFont{}
		}
		if s.state.CustomLinks == nil {
			s.state.CustomLinks = []model.Link{}
		}
	}
	if len(remote) > 0 {
		s.state.CustomLinks = append([]model.Link{}, remote...)
	}
	return nil
}

// State returns a copy of the current preferences.
func (s *Service) State() model.AppState { return s.state.Clone() }

func (s *Service) Language() model.Language { return s.state.Language }

// Replace overwrites every preference at once.
func (s *Service) Replace(st model.AppState) {
	s.state = st.Clone()
	s.save()
}

func (s *Service) SetTheme(t model.Theme) {
	s.state.Theme = t
	s.save()
}

// SetBackgroundImage clears any HTML background.
func (s *Service) SetBackgroundImage(image string) {
	s.state.Theme.BackgroundImage = image
	s.state.Theme.BackgroundHTML = ""
	s.save()
}

// SetBackgroundHTML clears any image background.
func (s *Service) SetBackgroundHTML(html string) {
	s.state.Theme.BackgroundHTML = html
	s.state.Theme.BackgroundImage = ""
	s.save()
}

func (s *Service) ToggleGrid() bool {
	s.state.GridEnabled = !s.state.GridEnabled
	s.save()
	return s.state.GridEnabled
}

func (s *Service) ToggleSnap() bool {
	s.state.SnapToGrid = !s.state.SnapToGrid
	s.save()
	return s.state.SnapToGrid
}

func (s *Service) ToggleLanguage() model.Language {
	s.state.Language = s.state.Language.Toggle()
	s.save()
	return s.state.Language
}

func (s *Service) SetLanguage(lang model.Language) {
	s.state.Language = lang
	s.save()
}

func (s *Service) AddCustomFont(f model.CustomFont) {
	s.state.CustomFonts = append(s.state.CustomFonts, f)
	s.save()
}

// AddCustomLink stores a new link under a fresh id and mirrors the list to
// the registry.
func (s *Service) AddCustomLink(ctx context.Context, name, url string) model.Link {
	link := s.AddLink(name, url)
	s.PushLinks(ctx, s.state.Clone().CustomLinks)
	return link
}

// DeleteCustomLink removes a quick-link and mirrors the list to the registry.
func (s *Service) DeleteCustomLink(ctx context.Context, id string) bool {
	if !s.RemoveLink(id) {
		return false
	}
	s.PushLinks(ctx, s.state.Clone().CustomLinks)
	return true
}

// AddLink appends a quick-link without touching the registry.
func (s *Service) AddLink(name, url string) model.Link {
	link := model.Link{ID: s.newID(), Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)}
	s.state.CustomLinks = append(s.state.CustomLinks, link)
	s.save()
	return link
}

// RemoveLink drops a quick-link without touching the registry.
func (s *Service) RemoveLink(id string) bool {
	kept := make([]model.Link, 0, len(s.state.CustomLinks))
	for _, l := range s.state.CustomLinks {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(s.state.CustomLinks) {
		return false
	}
	s.state.CustomLinks = kept
	s.save()
	return true
}

// PushLinks mirrors links to the registry. Failures are logged only. It reads
// no service state, so callers may run it without holding their lock.
func (s *Service) PushLinks(ctx context.Context, links []model.Link) {
	if s.links == nil {
		return
	}
	if err := s.links.Push(ctx, links); err != nil {
		s.log.Warn("sync links", "err", err)
	}
}

func (s *Service) save() {
	if s.saver != nil {
		s.saver.SaveAppState(s.state.Clone())
	}
}
