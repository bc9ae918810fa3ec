package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"spatial-notepad/internal/model"
	"spatial-notepad/internal/store"
)

type recordingSaver struct {
	saved []model.AppState
}

func (r *recordingSaver) SaveAppState(st model.AppState) { r.saved = append(r.saved, st) }

type fakeRegistry struct {
	remote  []model.Link
	pushed  [][]model.Link
	failGet bool
	failPut bool
}

func (f *fakeRegistry) Fetch(context.Context) ([]model.Link, error) {
	if f.failGet {
		return nil, errors.New("offline")
	}
	return f.remote, nil
}

func (f *fakeRegistry) Push(_ context.Context, links []model.Link) error {
	f.pushed = append(f.pushed, links)
	if f.failPut {
		return errors.New("offline")
	}
	return nil
}

func TestDefaults(t *testing.T) {
	s := New(Options{})
	st := s.State()
	if st.Language != model.LanguageEN || !st.GridEnabled || !st.SnapToGrid || st.Theme != model.DefaultTheme() {
		t.Fatalf("unexpected defaults: %+v", st)
	}
}

func TestTogglesPersist(t *testing.T) {
	saver := &recordingSaver{}
	s := New(Options{Saver: saver, Language: model.LanguageRU})
	if s.ToggleGrid() {
		t.Fatalf("expected grid off after toggle")
	}
	if s.ToggleSnap() {
		t.Fatalf("expected snap off after toggle")
	}
	if got := s.ToggleLanguage(); got != model.LanguageEN {
		t.Fatalf("expected en, got %s", got)
	}
	if len(saver.saved) != 3 {
		t.Fatalf("expected a save per change, got %d", len(saver.saved))
	}
	last := saver.saved[2]
	if last.GridEnabled || last.SnapToGrid || last.Language != model.LanguageEN {
		t.Fatalf("unexpected saved state: %+v", last)
	}
}

func TestBackgroundsAreExclusive(t *testing.T) {
	s := New(Options{})
	s.SetBackgroundImage("data:image/png;base64,xx")
	s.SetBackgroundHTML("<canvas></canvas>")
	th := s.State().Theme
	if th.BackgroundImage != "" || th.BackgroundHTML != "<canvas></canvas>" {
		t.Fatalf("unexpected theme: %+v", th)
	}
	s.SetBackgroundImage("img")
	th = s.State().Theme
	if th.BackgroundImage != "img" || th.BackgroundHTML != "" {
		t.Fatalf("unexpected theme: %+v", th)
	}
}

func TestAddAndDeleteLinkSyncsRegistry(t *testing.T) {
	reg := &fakeRegistry{failPut: true}
	saver := &recordingSaver{}
	s := New(Options{Saver: saver, Links: reg, NewID: func() string { return "l1" }})

	link := s.AddCustomLink(context.Background(), " Docs ", "https://example.com")
	if link.ID != "l1" || link.Name != "Docs" {
		t.Fatalf("unexpected link: %+v", link)
	}
	if len(s.State().CustomLinks) != 1 || len(saver.saved) != 1 {
		t.Fatalf("expected local update despite registry failure")
	}
	if !s.DeleteCustomLink(context.Background(), "l1") {
		t.Fatalf("expected delete to succeed")
	}
	if s.DeleteCustomLink(context.Background(), "l1") {
		t.Fatalf("expected second delete to be a no-op")
	}
	if len(reg.pushed) != 2 || len(reg.pushed[1]) != 0 {
		t.Fatalf("unexpected pushes: %+v", reg.pushed)
	}
}

func TestLocalLinkEditsLeavePushToCaller(t *testing.T) {
	reg := &fakeRegistry{}
	saver := &recordingSaver{}
	s := New(Options{Saver: saver, Links: reg, NewID: func() string { return "l1" }})

	s.AddLink("Docs", "https://example.com")
	if len(reg.pushed) != 0 || len(saver.saved) != 1 {
		t.Fatalf("expected a save and no push, got %d pushes", len(reg.pushed))
	}
	links := s.State().CustomLinks
	if !s.RemoveLink("l1") || s.RemoveLink("l1") {
		t.Fatalf("expected exactly one removal")
	}
	s.PushLinks(context.Background(), links)
	if len(reg.pushed) != 1 || len(reg.pushed[0]) != 1 || reg.pushed[0][0].ID != "l1" {
		t.Fatalf("expected the given snapshot to be pushed, got %+v", reg.pushed)
	}
}

func TestLoadPrefersNonEmptyRemoteLinks(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	saved := model.DefaultAppState(model.LanguageRU)
	saved.CustomLinks = []model.Link{{ID: "local", Name: "L", URL: "u"}}
	_ = mem.SaveAppState(ctx, saved)

	remote := []model.Link{{ID: "remote", Name: "R", URL: "v"}}
	s := New(Options{Links: &fakeRegistry{remote: remote}})
	if err := s.Load(ctx, mem); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(remote, s.State().CustomLinks); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
	if s.Language() != model.LanguageRU {
		t.Fatalf("expected saved language, got %s", s.Language())
	}

	s = New(Options{Links: &fakeRegistry{}})
	_ = s.Load(ctx, mem)
	if got := s.State().CustomLinks; len(got) != 1 || got[0].ID != "local" {
		t.Fatalf("expected saved links when registry is empty, got %+v", got)
	}

	s = New(Options{Links: &fakeRegistry{failGet: true}})
	if err := s.Load(ctx, mem); err != nil {
		t.Fatalf("registry failure must not fail Load: %v", err)
	}
}

func TestLoadWithoutSavedStateKeepsDefaults(t *testing.T) {
	remote := []model.Link{{ID: "remote"}}
	s := New(Options{Links: &fakeRegistry{remote: remote}})
	if err := s.Load(context.Background(), store.NewMemory()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := s.State()
	if !st.GridEnabled || len(st.CustomLinks) != 1 {
		t.Fatalf("unexpected state: %+v", st)
	}
}
