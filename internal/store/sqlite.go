package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"spatial-notepad/internal/model"
)

// SQLite stores nodes, edges and app state as JSON rows in <Dir>/notepad.sqlite.
// A connection is opened per call so several processes can share the file.
type SQLite struct {
	Dir string
}

var _ Persister = SQLite{}

func (s SQLite) Path() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// Ensure creates the directory and the schema.
func (s SQLite) Ensure(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

func (s SQLite) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("store: missing dir")
	}
	if err := ensureDir(s.Dir); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path())
	if err != nil {
		return nil, err
	}
	// WAL allows one writer alongside readers; busy_timeout rides out short lock contention.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			parent_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);`,
		`CREATE TABLE IF NOT EXISTS edges (
			id TEXT PRIMARY KEY,
			pos INTEGER NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS app_state (
			id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

// replaceAll clears table and writes every row inside one transaction.
func (s SQLite) replaceAll(ctx context.Context, table string, n int, insert func(tx *sql.Tx, i int, nowMs int64) error) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()
	for i := 0; i < n; i++ {
		if err := insert(tx, i, nowMs); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s SQLite) SaveNodes(ctx context.Context, nodes []model.Node) error {
	err := s.replaceAll(ctx, "nodes", len(nodes), func(tx *sql.Tx, i int, nowMs int64) error {
		n := nodes[i]
		raw, err := json.Marshal(n)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO nodes(id, pos, parent_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			n.ID, i, n.Data.ParentID, string(raw), nowMs)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: save nodes: %w", err)
	}
	return nil
}

func (s SQLite) LoadNodes(ctx context.Context) ([]model.Node, error) {
	return loadRows[model.Node](ctx, s, `SELECT json FROM nodes ORDER BY pos ASC`)
}

func (s SQLite) SaveEdges(ctx context.Context, edges []model.Edge) error {
	err := s.replaceAll(ctx, "edges", len(edges), func(tx *sql.Tx, i int, nowMs int64) error {
		e := edges[i]
		raw, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO edges(id, pos, source, target, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Source, e.Target, string(raw), nowMs)
		return err
	})
	if err != nil {
		return fmt.Errorf("store: save edges: %w", err)
	}
	return nil
}

func (s SQLite) LoadEdges(ctx context.Context) ([]model.Edge, error) {
	return loadRows[model.Edge](ctx, s, `SELECT json FROM edges ORDER BY pos ASC`)
}

const appStateRowID = "main"

func (s SQLite) SaveAppState(ctx context.Context, st model.AppState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `INSERT OR REPLACE INTO app_state(id, json, updated_at_unixms) VALUES(?, ?, ?)`,
		appStateRowID, string(raw), time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("store: save app state: %w", err)
	}
	return nil
}

func (s SQLite) LoadAppState(ctx context.Context) (*model.AppState, error) {
	rows, err := loadRows[model.AppState](ctx, s, `SELECT json FROM app_state WHERE id = '`+appStateRowID+`'`)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func loadRows[T any](ctx context.Context, s SQLite, query string) ([]T, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	out, err := readJSONRows[T](ctx, db, query)
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
