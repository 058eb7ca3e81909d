package trials

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS trials (
	run_id       TEXT    NOT NULL,
	trial        INTEGER NOT NULL,
	model        TEXT    NOT NULL,
	started_at   TEXT    NOT NULL,
	pass         INTEGER NOT NULL,
	cases_passed INTEGER NOT NULL,
	cases_total  INTEGER NOT NULL,
	setup_error  TEXT    NOT NULL DEFAULT '',
	output       TEXT    NOT NULL,
	PRIMARY KEY (run_id, trial)
);
CREATE INDEX IF NOT EXISTS idx_trials_run ON trials(run_id);
`

// TrialRecord is one persisted grading trial.
type TrialRecord struct {
	RunID       string
	Trial       int
	Model       string
	StartedAt   string // RFC 3339 UTC
	Pass        bool
	CasesPassed int
	CasesTotal  int
	SetupError  string
	Output      string
}

// RunSummary aggregates the trials of one run.
type RunSummary struct {
	RunID   string
	Model   string
	Trials  int
	Passes  int
	Started string
}

// Rate is the fraction of passing trials.
func (s RunSummary) Rate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Passes) / float64(s.Trials)
}

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// Store keeps trial history in SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the trial database at path, creating the
// parent directory if needed.
func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var v int
	err := s.db.QueryRow(`SELECT version FROM schema_version`).Scan(&v)
	if err == sql.ErrNoRows {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", v, schemaVersion)
	}
	return nil
}

// SaveTrial inserts one trial row.
func (s *Store) SaveTrial(rec TrialRecord) error {
	if rec.StartedAt == "" {
		rec.StartedAt = nowUTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO trials (run_id, trial, model, started_at, pass, cases_passed, cases_total, setup_error, output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Trial, rec.Model, rec.StartedAt,
		boolInt(rec.Pass), rec.CasesPassed, rec.CasesTotal, rec.SetupError, rec.Output)
	if err != nil {
		return fmt.Errorf("insert trial %d of run %s: %w", rec.Trial, rec.RunID, err)
	}
	return nil
}

// Trials returns the trials of a run in trial order.
func (s *Store) Trials(runID string) ([]TrialRecord, error) {
	rows, err := s.db.Query(`
		SELECT run_id, trial, model, started_at, pass, cases_passed, cases_total, setup_error, output
		FROM trials WHERE run_id = ? ORDER BY trial`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trials of %s: %w", runID, err)
	}
	defer rows.Close()

	var out []TrialRecord
	for rows.Next() {
		var rec TrialRecord
		var pass int
		if err := rows.Scan(&rec.RunID, &rec.Trial, &rec.Model, &rec.StartedAt,
			&pass, &rec.CasesPassed, &rec.CasesTotal, &rec.SetupError, &rec.Output); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		rec.Pass = pass != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListRuns summarizes all runs, most recent first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT run_id, MIN(model), COUNT(*), SUM(pass), MIN(started_at)
		FROM trials GROUP BY run_id ORDER BY MIN(started_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.Model, &s.Trials, &s.Passes, &s.Started); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
