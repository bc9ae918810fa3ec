// Package links serves and consumes the quick-link registry: a JSON list of
// {id, name, url} objects stored in one file.
package links

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"spatial-notepad/internal/model"
)

const fileName = "links.json"

// Registry is the file-backed link list at <Dir>/links.json.
type Registry struct {
	Dir string

	mu sync.Mutex
}

func NewRegistry(dir string) *Registry {
	return &Registry{Dir: dir}
}

func (r *Registry) Path() string {
	return filepath.Join(r.Dir, fileName)
}

// Load returns the stored links, or an empty list when nothing was stored yet.
func (r *Registry) Load() ([]model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := os.ReadFile(r.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Link{}, nil
		}
		return nil, err
	}
	var out []model.Link
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("links: parse %s: %w", r.Path(), err)
	}
	if out == nil {
		out = []model.Link{}
	}
	return out, nil
}

// Save replaces the stored list with links, pretty-printed.
func (r *Registry) Save(links []model.Link) error {
	if strings.TrimSpace(r.Dir) == "" {
		return errors.New("links: dir is empty")
	}
	if links == nil {
		links = []model.Link{}
	}
	b, err := json.MarshalIndent(links, "", "  ")
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return err
	}
	tmp := r.Path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, r.Path())
}

// Fetch and Push let a Registry stand in for a remote Client when the
// registry lives in the same process.
func (r *Registry) Fetch(context.Context) ([]model.Link, error) { return r.Load() }

func (r *Registry) Push(_ context.Context, links []model.Link) error { return r.Save(links) }
