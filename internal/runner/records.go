package runner

import (
	"encoding/json"
	"os"

	"autorepro/internal/errors"
)

// SchemaVersion tags summary records so downstream bundlers can detect
// incompatible log layouts
const SchemaVersion = 1

// ToolName identifies the writer of a log
const ToolName = "autorepro"

// RunRecord is one JSONL line describing a single attempted run
type RunRecord struct {
	Type       string `json:"type"`
	RunID      string `json:"run_id"`
	Index      int    `json:"index"`
	Cmd        string `json:"cmd"`
	StartTS    string `json:"start_ts"`
	EndTS      string `json:"end_ts"`
	DurationMS int64  `json:"duration_ms"`
	ExitCode   int    `json:"exit_code"`
	TimedOut   bool   `json:"timed_out,omitempty"`
}

// SummaryRecord is the single trailing JSONL line aggregating all runs
type SummaryRecord struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schema_version"`
	Tool          string `json:"tool"`
	Runs          int    `json:"runs"`
	Succeeded     int    `json:"succeeded"`
	Failed        int    `json:"failed"`
	TimedOut      int    `json:"timed_out"`
	DurationMS    int64  `json:"duration_ms"`
}

// appendRecord appends one JSON line to the log. The log is append-only
// and never rewritten or reordered.
func appendRecord(path string, record interface{}) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOFailure(path, err)
	}
	defer f.Close()

	data, err := json.Marshal(record)
	if err != nil {
		return errors.NewReproError(errors.InternalError, "cannot marshal log record", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.NewIOFailure(path, err)
	}
	return nil
}
