package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"spatial-notepad/internal/model"
)

// Export is the on-disk backup format of a whole notepad.
type Export struct {
	Version  int             `json:"version"`
	Nodes    []model.Node    `json:"nodes"`
	Edges    []model.Edge    `json:"edges"`
	AppState *model.AppState `json:"appState,omitempty"`
}

const exportVersion = 1

// ReadAll collects everything p holds into one Export.
func ReadAll(ctx context.Context, p Persister) (*Export, error) {
	nodes, err := p.LoadNodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := p.LoadEdges(ctx)
	if err != nil {
		return nil, err
	}
	st, err := p.LoadAppState(ctx)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []model.Node{}
	}
	if edges == nil {
		edges = []model.Edge{}
	}
	return &Export{Version: exportVersion, Nodes: nodes, Edges: edges, AppState: st}, nil
}

// WriteAll replaces everything p holds with ex.
func WriteAll(ctx context.Context, p Persister, ex *Export) error {
	if err := p.SaveNodes(ctx, ex.Nodes); err != nil {
		return err
	}
	if err := p.SaveEdges(ctx, ex.Edges); err != nil {
		return err
	}
	if ex.AppState != nil {
		return p.SaveAppState(ctx, *ex.AppState)
	}
	return nil
}

// WriteExportFile writes ex as indented JSON via a temp file and rename.
func WriteExportFile(path string, ex *Export) error {
	b, err := json.MarshalIndent(ex, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ReadExportFile(path string) (*Export, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ex Export
	if err := json.Unmarshal(b, &ex); err != nil {
		return nil, fmt.Errorf("store: read export %s: %w", path, err)
	}
	if ex.Version == 0 {
		ex.Version = exportVersion
	}
	if ex.Version != exportVersion {
		return nil, fmt.Errorf("store: unsupported export version %d", ex.Version)
	}
	return &ex, nil
}
