package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome statuses.
const (
	StatusTranscribed = "transcribed"
	StatusFailed      = "failed"
	StatusSkipped     = "skipped"
	// StatusCompleted marks a merge or fetch run that finished.
	StatusCompleted   = "completed"
)

// Run kinds.
const (
	KindTranscribe = "transcribe"
	KindMerge      = "merge"
	KindFetch      = "fetch"
)

// Run is one CLI invocation of a pipeline.
type Run struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	Device     string
	Engine     string
}

// Outcome is the result of processing one file within a run.
type Outcome struct {
	RunID      string
	File       string
	Status     string
	Duration   time.Duration
	Error      string
	RecordedAt time.Time
}

// Store manages history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Transcription workers record outcomes concurrently; one connection
	// serializes writers instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run row. StartedAt defaults to now.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("begin run: id required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, started_at, device, engine) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Kind, formatTime(run.StartedAt), nullableString(run.Device), nullableString(run.Engine),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stamps the run's completion time.
func (s *Store) FinishRun(ctx context.Context, id string, finished time.Time) error {
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET finished_at = ? WHERE id = ?`, formatTime(finished), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// RecordOutcome appends a file outcome. RecordedAt defaults to now.
func (s *Store) RecordOutcome(ctx context.Context, o Outcome) error {
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (run_id, file, status, duration_ms, error, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		o.RunID, o.File, o.Status, o.Duration.Milliseconds(), nullableString(o.Error), formatTime(o.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// RecentOutcomes returns up to limit outcomes, newest first.
func (s *Store) RecentOutcomes(ctx context.Context, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file, status, duration_ms, error, recorded_at
           FROM outcomes ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()
	return scanOutcomes(rows)
}

// LatestByFile returns the most recent outcome for every file seen.
func (s *Store) LatestByFile(ctx context.Context) (map[string]Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.run_id, o.file, o.status, o.duration_ms, o.error, o.recorded_at
           FROM outcomes o
          WHERE o.id = (SELECT MAX(i.id) FROM outcomes i WHERE i.file = o.file)`)
	if err != nil {
		return nil, fmt.Errorf("query latest outcomes: %w", err)
	}
	defer rows.Close()
	list, err := scanOutcomes(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Outcome, len(list))
	for _, o := range list {
		out[o.File] = o
	}
	return out, nil
}

// LastRun returns the most recently started run of kind.
func (s *Store) LastRun(ctx context.Context, kind string) (Run, bool, error) {
	var (
		run                      Run
		started                  string
		finished, device, engine sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, kind, started_at, finished_at, device, engine
           FROM runs WHERE kind = ? ORDER BY started_at DESC LIMIT 1`, kind,
	).Scan(&run.ID, &run.Kind, &started, &finished, &device, &engine)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("query last run: %w", err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	run.Device = device.String
	run.Engine = engine.String
	return run, true, nil
}

func scanOutcomes(rows *sql.Rows) ([]Outcome, error) {
	var out []Outcome
	for rows.Next() {
		var (
			o          Outcome
			durationMS int64
			errText    sql.NullString
			recorded   string
		)
		if err := rows.Scan(&o.RunID, &o.File, &o.Status, &durationMS, &errText, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Duration = time.Duration(durationMS) * time.Millisecond
		o.Error = errText.String
		o.RecordedAt = parseTime(recorded)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
