// Package journal persists run history in a local SQLite database so
// an operator can see what previous invocations did. Journal failures
// are surfaced as warnings by the CLI, never as run failures.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/relctl/relctl/internal/release"
)

// DefaultFile is the journal location relative to the project root.
const DefaultFile = ".relctl/history.db"

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	version TEXT NOT NULL,
	dry_run INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	succeeded INTEGER NOT NULL,
	failed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS run_targets (
	run_id TEXT NOT NULL REFERENCES runs(id),
	name TEXT NOT NULL,
	success INTEGER NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_run_targets_run ON run_targets(run_id);
`

// Run is one recorded orchestrator invocation.
type Run struct {
	ID         string
	Version    string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Failed     int
}

// TargetRecord is one target's outcome within a run.
type TargetRecord struct {
	RunID   string
	Name    string
	Success bool
	Detail  string
}

// Journal wraps the history database.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal database at path, creating parent
// directories as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: initialize schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// Record stores one run and its per-target outcomes atomically.
func (j *Journal) Record(run Run, report release.RunReport) error {
	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (id, version, dry_run, started_at, finished_at, succeeded, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Version, boolInt(run.DryRun),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		report.Succeeded, report.Failed,
	)
	if err != nil {
		return fmt.Errorf("journal: insert run: %w", err)
	}

	for _, res := range report.Results {
		detail := res.Detail
		if detail == "" {
			if ferr := res.Failure(); ferr != nil {
				detail = ferr.Error()
			}
		}
		_, err = tx.Exec(
			`INSERT INTO run_targets (run_id, name, success, detail) VALUES (?, ?, ?, ?)`,
			run.ID, res.Target.Name, boolInt(res.Success), detail,
		)
		if err != nil {
			return fmt.Errorf("journal: insert target: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (j *Journal) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := j.db.Query(
		`SELECT id, version, dry_run, started_at, finished_at, succeeded, failed
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var dryRun int
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Version, &dryRun, &started, &finished, &r.Succeeded, &r.Failed); err != nil {
			return nil, fmt.Errorf("journal: scan run: %w", err)
		}
		r.DryRun = dryRun != 0
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Targets returns the per-target records of one run, in insert order.
func (j *Journal) Targets(runID string) ([]TargetRecord, error) {
	rows, err := j.db.Query(
		`SELECT run_id, name, success, detail FROM run_targets WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: query targets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []TargetRecord
	for rows.Next() {
		var rec TargetRecord
		var success int
		if err := rows.Scan(&rec.RunID, &rec.Name, &success, &rec.Detail); err != nil {
			return nil, fmt.Errorf("journal: scan target: %w", err)
		}
		rec.Success = success != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
