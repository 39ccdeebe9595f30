// Package gridstore caches built navigation grids in SQLite so a rebuild of
// an unchanged build file can skip surface probing.
package gridstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pdrpinto/surfacenav"
)

// Store is a SQLite backed surfacenav.GraphCache.
type Store struct {
	db *sql.DB
}

var _ surfacenav.GraphCache = (*Store)(nil)

// Open opens or creates the database at path. Use ":memory:" for a private
// in-memory store.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS grids (
			key TEXT PRIMARY KEY,
			result_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			grid_key TEXT NOT NULL REFERENCES grids(key) ON DELETE CASCADE,
			i INTEGER NOT NULL,
			j INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			walkable INTEGER NOT NULL,
			dilated INTEGER NOT NULL,
			PRIMARY KEY (grid_key, i, j)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveGraph replaces whatever is stored under key.
func (s *Store) SaveGraph(ctx context.Context, key string, nodes []surfacenav.Node, result surfacenav.BuildResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM grids WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete grid %q: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO grids (key, result_json, created_at) VALUES (?, ?, ?)`,
		key, string(resultJSON), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert grid %q: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (grid_key, i, j, x, y, z, walkable, dilated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, node := range nodes {
		if _, err := stmt.ExecContext(ctx,
			key, node.ID.I, node.ID.J,
			node.Position.X, node.Position.Y, node.Position.Z,
			boolToInt(node.Walkable), boolToInt(node.Dilated),
		); err != nil {
			return fmt.Errorf("insert node %v: %w", node.ID, err)
		}
	}
	return tx.Commit()
}

// LoadGraph returns the nodes stored under key ordered by I and then J.
func (s *Store) LoadGraph(ctx context.Context, key string) ([]surfacenav.Node, surfacenav.BuildResult, bool, error) {
	var result surfacenav.BuildResult
	var resultJSON string
	err := s.db.QueryRowContext(ctx, `SELECT result_json FROM grids WHERE key = ?`, key).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, result, false, nil
	}
	if err != nil {
		return nil, result, false, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, result, false, fmt.Errorf("decode result of %q: %w", key, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i, j, x, y, z, walkable, dilated FROM nodes WHERE grid_key = ? ORDER BY i, j`, key)
	if err != nil {
		return nil, result, false, err
	}
	defer rows.Close()

	nodes := make([]surfacenav.Node, 0, result.NodeCount)
	for rows.Next() {
		var node surfacenav.Node
		var walkable, dilated int
		if err := rows.Scan(&node.ID.I, &node.ID.J, &node.Position.X, &node.Position.Y, &node.Position.Z, &walkable, &dilated); err != nil {
			return nil, result, false, err
		}
		node.Walkable = walkable != 0
		node.Dilated = dilated != 0
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, result, false, err
	}
	return nodes, result, true, nil
}

// Keys lists the stored grid keys, newest first.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM grids ORDER BY created_at DESC, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Delete removes the grid stored under key, if any.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grids WHERE key = ?`, key)
	return err
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
