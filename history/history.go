// Package history keeps a SQLite log of every fill and generation run: which
// project, which template, where the output went, and how many changes were
// made. The log is advisory: the bep service records runs best-effort and
// never fails an operation over a history write.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Run kinds.
const (
	KindFill     = "fill"
	KindGenerate = "generate"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

const defaultLimit = 20

// Schema for the runs table. Call Store.Init() or pass to dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	project TEXT NOT NULL DEFAULT '',
	template TEXT NOT NULL DEFAULT '',
	output TEXT NOT NULL DEFAULT '',
	changes INTEGER NOT NULL DEFAULT 0,
	removed INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
`

// Run is one recorded operation.
type Run struct {
	ID        int64
	Kind      string
	Project   string
	Template  string
	Output    string
	Changes   int
	Removed   int
	Status    string
	Detail    string
	CreatedAt time.Time
}

// Store persists runs to a SQLite table.
type Store struct {
	db *sql.DB
}

// NewStore creates a history store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the runs table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// Record inserts a run and returns its row id. A zero CreatedAt is stamped
// with the current time.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	at := r.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (kind, project, template, output, changes, removed, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Kind, r.Project, r.Template, r.Output, r.Changes, r.Removed, r.Status, r.Detail, at.Unix())
	if err != nil {
		return 0, fmt.Errorf("history: record run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	return id, nil
}

// Recent returns the newest runs, newest first. limit <= 0 uses a default
// of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, project, template, output, changes, removed, status, detail, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// Last returns the most recent run of the given kind, or any kind when
// kind is empty. The second return is false when the log is empty.
func (s *Store) Last(ctx context.Context, kind string) (Run, bool, error) {
	query := `
		SELECT id, kind, project, template, output, changes, removed, status, detail, created_at
		FROM runs`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Run{}, false, fmt.Errorf("history: query last: %w", err)
	}
	defer rows.Close()

	runs, err := scanRuns(rows)
	if err != nil {
		return Run{}, false, err
	}
	if len(runs) == 0 {
		return Run{}, false, nil
	}
	return runs[0], true, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var at int64
		if err := rows.Scan(&r.ID, &r.Kind, &r.Project, &r.Template, &r.Output,
			&r.Changes, &r.Removed, &r.Status, &r.Detail, &at); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(at, 0)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}
