// Package store persists notepad state. Every save is a full replacement of
// the stored collection, never an incremental diff.
package store

import (
	"context"
	"os"
	"path/filepath"

	"spatial-notepad/internal/model"
)

const (
	dirName        = ".notepad"
	sqliteFileName = "notepad.sqlite"
)

// Persister is the persistence contract consumed by the canvas and the
// preferences service.
type Persister interface {
	SaveNodes(ctx context.Context, nodes []model.Node) error
	LoadNodes(ctx context.Context) ([]model.Node, error)
	SaveEdges(ctx context.Context, edges []model.Edge) error
	LoadEdges(ctx context.Context) ([]model.Edge, error)
	SaveAppState(ctx context.Context, st model.AppState) error
	// LoadAppState returns nil, nil when nothing has been saved yet.
	LoadAppState(ctx context.Context) (*model.AppState, error)
}

// DefaultDir is ~/.notepad.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
