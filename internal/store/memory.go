package store

import (
	"context"
	"sync"

	"spatial-notepad/internal/model"
)

// Memory is an in-process Persister. It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	nodes    []model.Node
	edges    []model.Edge
	appState *model.AppState
	saves    int
}

var _ Persister = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) SaveNodes(_ context.Context, nodes []model.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = model.CloneNodes(nodes)
	m.saves++
	return nil
}

func (m *Memory) LoadNodes(context.Context) ([]model.Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneNodes(m.nodes), nil
}

func (m *Memory) SaveEdges(_ context.Context, edges []model.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = model.CloneEdges(edges)
	m.saves++
	return nil
}

func (m *Memory) LoadEdges(context.Context) ([]model.Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneEdges(m.edges), nil
}

func (m *Memory) SaveAppState(_ context.Context, st model.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := st.Clone()
	m.appState = &cp
	m.saves++
	return nil
}

func (m *Memory) LoadAppState(context.Context) (*model.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appState == nil {
		return nil, nil
	}
	cp := m.appState.Clone()
	return &cp, nil
}

// Saves counts successful save calls of any kind.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
