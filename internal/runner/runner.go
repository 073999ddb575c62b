// Package runner executes one selected candidate command as a
// subprocess with timeout, environment overlay, tee-to-file, and a
// structured JSONL event log.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"autorepro/internal/errors"
	"autorepro/internal/plan"
)

// TimeoutExitCode is the distinguished exit status of a timed-out run,
// matching the convention of timeout(1)
const TimeoutExitCode = 124

// teeMarkerPrefix delimits each run's section in the tee file so
// concatenated multi-run output stays parseable
const teeMarkerPrefix = "=== autorepro run"

// waitGrace bounds how long Wait may block on the output pipe after
// cancellation. With a non-file Stdout (tee, tests) the pipe stays open
// until every process holding it exits; the process-group kill handles
// that, and this is the backstop if the kill itself fails.
const waitGrace = 2 * time.Second

// Options controls one execution
type Options struct {
	// Timeout terminates the subprocess when exceeded; zero disables it
	Timeout time.Duration
	// Env holds explicit KEY=VALUE overrides (highest precedence)
	Env []string
	// EnvFile names a file of KEY=VALUE lines merged below Env
	EnvFile string
	// TeePath appends each run's combined output to a file
	TeePath string
	// DryRun prints the selected command without spawning a process
	DryRun bool
	// WorkDir is the target repository the subprocess runs in
	WorkDir string
	// LogPath receives JSONL run and summary records; empty disables logging
	LogPath string
	// Stdout receives the command output (defaults to os.Stdout)
	Stdout io.Writer
}

// Result reports the outcome of an Execute call. A non-zero exit code
// is a normal terminal outcome, not an error.
type Result struct {
	Records  []RunRecord
	Summary  SummaryRecord
	ExitCode int
	DryRun   bool
}

// Execute runs the candidate at index. The index must be in range;
// out-of-range selection is a misuse error detected before any side
// effect. Subprocess failure and timeout are recorded faithfully and
// never surface as errors.
func Execute(ctx context.Context, candidates []plan.Candidate, index int, opts Options) (*Result, error) {
	if index < 0 || index >= len(candidates) {
		return nil, errors.NewMisuse("--index %d out of range (0..%d)", index, len(candidates)-1).
			WithHint("run the plan first to see the candidate list")
	}
	cand := candidates[index]

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.DryRun {
		fmt.Fprintln(opts.Stdout, cand.Cmd)
		return &Result{ExitCode: 0, DryRun: true}, nil
	}

	env, err := mergeEnv(os.Environ(), opts.EnvFile, opts.Env)
	if err != nil {
		return nil, err
	}

	record, err := runOnce(ctx, cand.Cmd, index, env, opts)
	if err != nil {
		return nil, err
	}

	summary := SummaryRecord{
		Type:          "summary",
		SchemaVersion: SchemaVersion,
		Tool:          ToolName,
		Runs:          1,
		DurationMS:    record.DurationMS,
	}
	switch {
	case record.TimedOut:
		summary.TimedOut = 1
		summary.Failed = 1
	case record.ExitCode == 0:
		summary.Succeeded = 1
	default:
		summary.Failed = 1
	}

	if opts.LogPath != "" {
		if err := appendRecord(opts.LogPath, record); err != nil {
			return nil, err
		}
		if err := appendRecord(opts.LogPath, summary); err != nil {
			return nil, err
		}
	}

	return &Result{
		Records:  []RunRecord{record},
		Summary:  summary,
		ExitCode: record.ExitCode,
	}, nil
}

func runOnce(ctx context.Context, command string, index int, env []string, opts Options) (RunRecord, error) {
	out := opts.Stdout
	var tee *os.File
	if opts.TeePath != "" {
		f, err := os.OpenFile(opts.TeePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return RunRecord{}, errors.NewIOFailure(opts.TeePath, err)
		}
		defer f.Close()
		tee = f
		out = io.MultiWriter(opts.Stdout, f)
	}

	runCtx := ctx
	cancel := func() {}
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}
	defer cancel()

	start := time.Now()
	if tee != nil {
		fmt.Fprintf(tee, "%s %d: %s @ %s ===\n",
			teeMarkerPrefix, index, command, start.UTC().Format(time.RFC3339))
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = opts.WorkDir
	cmd.Env = env
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = waitGrace
	setRunSysProcAttr(cmd)

	runErr := cmd.Run()
	end := time.Now()
	// A timed-out run is terminated at the deadline; the record reports
	// the deadline, not however long Wait took to unblock afterwards.
	if runCtx.Err() == context.DeadlineExceeded && opts.Timeout > 0 && end.Sub(start) > opts.Timeout {
		end = start.Add(opts.Timeout)
	}

	record := RunRecord{
		Type:       "run",
		RunID:      uuid.NewString(),
		Index:      index,
		Cmd:        command,
		StartTS:    start.UTC().Format(time.RFC3339),
		EndTS:      end.UTC().Format(time.RFC3339),
		DurationMS: end.Sub(start).Milliseconds(),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		record.ExitCode = TimeoutExitCode
		record.TimedOut = true
	case runErr == nil:
		record.ExitCode = 0
	default:
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			record.ExitCode = exitErr.ExitCode()
		} else {
			return RunRecord{}, errors.NewReproError(errors.InternalError, "failed to spawn command", runErr)
		}
	}

	return record, nil
}

// mergeEnv overlays environment sources in order: process env, env-file
// entries, explicit overrides. Later entries win on key collision (the
// subprocess sees the last value for a duplicated key).
func mergeEnv(base []string, envFile string, explicit []string) ([]string, error) {
	merged := append([]string{}, base...)

	if envFile != "" {
		entries, err := parseEnvFile(envFile)
		if err != nil {
			return nil, err
		}
		merged = append(merged, entries...)
	}

	merged = append(merged, explicit...)
	return merged, nil
}

// parseEnvFile reads KEY=VALUE lines, skipping blanks and # comments
func parseEnvFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOFailure(path, err)
	}

	var entries []string
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.Contains(trimmed, "=") {
			return nil, errors.NewMisuse("env file %s line %d is not KEY=VALUE: %q", path, i+1, trimmed)
		}
		entries = append(entries, trimmed)
	}
	return entries, nil
}
