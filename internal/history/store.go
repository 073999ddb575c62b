// Package history persists executed runs in a per-repository SQLite
// database so past reproduction attempts can be reviewed later.
package history

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"autorepro/internal/errors"
	"autorepro/internal/logging"
	"autorepro/internal/paths"
	"autorepro/internal/runner"
)

// Store provides persistence for run history in a SQLite database
// under the repository's state directory.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Entry is one recorded run
type Entry struct {
	RunID      string `json:"run_id"`
	Cmd        string `json:"cmd"`
	Index      int    `json:"index"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out"`
	StartTS    string `json:"start_ts"`
	DurationMS int64  `json:"duration_ms"`
	RecordedAt string `json:"recorded_at"`
}

// Open opens or creates the history database at .autorepro/history.db
func Open(repoRoot string, logger *logging.Logger) (*Store, error) {
	if _, err := paths.EnsureStateDir(repoRoot); err != nil {
		return nil, err
	}

	dbPath := paths.HistoryDBPath(repoRoot)
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewIOFailure(dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.NewIOFailure(dbPath, err)
		}
	}

	store := &Store{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, errors.NewIOFailure(dbPath, err)
	}
	return store, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			cmd TEXT NOT NULL,
			idx INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			timed_out INTEGER NOT NULL DEFAULT 0,
			start_ts TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// RecordRun inserts one completed run
func (s *Store) RecordRun(record runner.RunRecord) error {
	query := `
		INSERT INTO runs (run_id, cmd, idx, exit_code, timed_out, start_ts, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.conn.Exec(query,
		record.RunID,
		record.Cmd,
		record.Index,
		record.ExitCode,
		boolToInt(record.TimedOut),
		record.StartTS,
		record.DurationMS,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errors.NewIOFailure(s.dbPath, err)
	}

	if s.logger != nil {
		s.logger.Debug("recorded run", map[string]interface{}{
			"run_id":    record.RunID,
			"exit_code": record.ExitCode,
		})
	}
	return nil
}

// ListRecent returns up to limit runs, newest first
func (s *Store) ListRecent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, cmd, idx, exit_code, timed_out, start_ts, duration_ms, recorded_at
		FROM runs
		ORDER BY recorded_at DESC, run_id
		LIMIT ?
	`
	rows, err := s.conn.Query(query, limit)
	if err != nil {
		return nil, errors.NewIOFailure(s.dbPath, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var timedOut int
		if err := rows.Scan(&e.RunID, &e.Cmd, &e.Index, &e.ExitCode, &timedOut, &e.StartTS, &e.DurationMS, &e.RecordedAt); err != nil {
			return nil, errors.NewIOFailure(s.dbPath, err)
		}
		e.TimedOut = timedOut != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIOFailure(s.dbPath, err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
