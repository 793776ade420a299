// Package history records apply runs in a local sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/dagimg-dot/floww/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	workflow TEXT NOT NULL,
	append_mode INTEGER NOT NULL DEFAULT 0,
	success INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_applied_at ON runs(applied_at DESC);
`

// Run is one recorded apply.
type Run struct {
	ID        string
	Workflow  string
	Append    bool
	Success   bool
	Duration  time.Duration
	AppliedAt time.Time
}

// Repository stores apply runs.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path and ensures the
// schema exists.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Record inserts one finished run and returns its generated ID.
func (r *Repository) Record(workflow string, appendMode, success bool, duration time.Duration) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO runs (id, workflow, append_mode, success, duration_ms, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, workflow, appendMode, success, duration.Milliseconds(), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	log.Debug(log.CatDB, "Recorded apply run", "id", id, "workflow", workflow, "success", success)
	return id, nil
}

// List returns the most recent runs, newest first, up to limit.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(
		`SELECT id, workflow, append_mode, success, duration_ms, applied_at
		 FROM runs ORDER BY applied_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			durationMs int64
		)
		if err := rows.Scan(&run.ID, &run.Workflow, &run.Append, &run.Success, &durationMs, &run.AppliedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
