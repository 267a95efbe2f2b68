// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists routed queries in a local SQLite database so
// they can be listed, inspected, exported and pruned.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/api-router/pkg/types"
)

const (
	dbFile = "history.db"

	// DefaultDir holds history.db when no directory is configured.
	DefaultDir = ".api-router"

	defaultLimit = 20

	// timeLayout is fixed width so created_at sorts and compares as text.
	timeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// ErrNotFound is returned by Get for an unknown ID.
var ErrNotFound = errors.New("route not found")

// Store manages the history SQLite database.
type Store struct {
	db  *sql.DB
	dir string
	now func() time.Time
}

// Open opens or creates dir/history.db and its schema.
func Open(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, dbFile)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			api_used TEXT,
			parameters TEXT,
			results TEXT,
			error TEXT,
			duration_ms INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_api_used ON routes(api_used)`,
		`CREATE INDEX IF NOT EXISTS idx_routes_created_at ON routes(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores r, replacing any row with the same ID. An empty ID is
// given a fresh UUID and a zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, r types.RouteResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	paramsJSON, err := json.Marshal(r.Parameters)
	if err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}
	resultsJSON, err := json.Marshal(r.Results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO routes (id, query, api_used, parameters, results, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Query, string(r.APIUsed), string(paramsJSON), string(resultsJSON),
		r.Error, r.Duration.Milliseconds(), formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting route %s: %w", r.ID, err)
	}
	return nil
}

// ListOptions filters List and Export.
type ListOptions struct {
	// API restricts results to one API.
	API types.APIName

	// Contains is a case-insensitive substring of the query text.
	Contains string

	// Limit caps the number of rows (0 = 20, negative = no limit).
	Limit int

	// Since drops rows created before this time.
	Since time.Time
}

// List returns recorded routes, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.RouteResult, error) {
	var (
		where []string
		args  []any
	)
	if opts.API != "" {
		where = append(where, "api_used = ?")
		args = append(args, string(opts.API))
	}
	if opts.Contains != "" {
		where = append(where, `query LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(opts.Contains)+"%")
	}
	if !opts.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(opts.Since))
	}

	q := `SELECT id, query, api_used, parameters, results, error, duration_ms, created_at FROM routes`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id"

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying routes: %w", err)
	}
	defer rows.Close()

	var results []types.RouteResult
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Get returns the route with id.
func (s *Store) Get(ctx context.Context, id string) (types.RouteResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, query, api_used, parameters, results, error, duration_ms, created_at
		 FROM routes WHERE id = ?`, id)
	r, err := scanRoute(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.RouteResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Prune deletes routes older than olderThan and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `DELETE FROM routes WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("pruning routes: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRoute(sc scanner) (types.RouteResult, error) {
	var (
		r                   types.RouteResult
		api, errText        sql.NullString
		paramsJSON, resJSON sql.NullString
		durationMS          sql.NullInt64
		createdAt           string
	)
	if err := sc.Scan(&r.ID, &r.Query, &api, &paramsJSON, &resJSON, &errText, &durationMS, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning route: %w", err)
	}

	r.APIUsed = types.APIName(api.String)
	r.Error = errText.String
	r.Duration = time.Duration(durationMS.Int64) * time.Millisecond

	if paramsJSON.String != "" && paramsJSON.String != "null" {
		if err := json.Unmarshal([]byte(paramsJSON.String), &r.Parameters); err != nil {
			return r, fmt.Errorf("decoding parameters of %s: %w", r.ID, err)
		}
	}
	if resJSON.String != "" && resJSON.String != "null" {
		if err := json.Unmarshal([]byte(resJSON.String), &r.Results); err != nil {
			return r, fmt.Errorf("decoding results of %s: %w", r.ID, err)
		}
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return r, fmt.Errorf("parsing created_at of %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
