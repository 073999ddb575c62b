package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"autorepro/internal/errors"
	"autorepro/internal/plan"
)

func candidates(cmds ...string) []plan.Candidate {
	out := make([]plan.Candidate, len(cmds))
	for i, c := range cmds {
		out[i] = plan.Candidate{Cmd: c, FinalScore: 3}
	}
	return out
}

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var record map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", scanner.Text(), err)
		}
		lines = append(lines, record)
	}
	return lines
}

func TestExecute_IndexOutOfRange(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "exec.jsonl")

	_, err := Execute(context.Background(), candidates("true"), 100, Options{LogPath: logPath})
	if err == nil {
		t.Fatal("Execute() should reject out-of-range index")
	}
	if !errors.IsMisuse(err) {
		t.Errorf("error should be misuse, got %v", err)
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error must contain 'out of range', got %q", err.Error())
	}

	// Misuse is detected before any side effect
	if _, statErr := os.Stat(logPath); !os.IsNotExist(statErr) {
		t.Errorf("log file must not be created on misuse")
	}
}

func TestExecute_NegativeIndex(t *testing.T) {
	_, err := Execute(context.Background(), candidates("true"), -1, Options{})
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("negative index should be out of range, got %v", err)
	}
}

func TestExecute_DryRun(t *testing.T) {
	var out bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "exec.jsonl")

	result, err := Execute(context.Background(), candidates("echo never-runs"), 0, Options{
		DryRun:  true,
		Stdout:  &out,
		LogPath: logPath,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.ExitCode != 0 || !result.DryRun {
		t.Errorf("dry run result = %+v, want exit 0, DryRun", result)
	}
	if strings.TrimSpace(out.String()) != "echo never-runs" {
		t.Errorf("dry run must print the selected command, got %q", out.String())
	}
	if len(result.Records) != 0 {
		t.Errorf("dry run must not record runs, got %+v", result.Records)
	}
	if _, statErr := os.Stat(logPath); !os.IsNotExist(statErr) {
		t.Errorf("dry run must not write the log")
	}
}

func TestExecute_SuccessWritesRunAndSummary(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "exec.jsonl")
	var out bytes.Buffer

	result, err := Execute(context.Background(), candidates("true", "echo hi"), 1, Options{
		WorkDir: dir,
		LogPath: logPath,
		Stdout:  &out,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
	if !strings.Contains(out.String(), "hi") {
		t.Errorf("command output missing, got %q", out.String())
	}

	lines := readLogLines(t, logPath)
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want exactly one run + one summary", len(lines))
	}

	run, summary := lines[0], lines[1]
	if run["type"] != "run" {
		t.Errorf("first record type = %v, want run", run["type"])
	}
	if run["index"] != float64(1) {
		t.Errorf("run index = %v, want 1", run["index"])
	}
	if run["cmd"] != "echo hi" {
		t.Errorf("run cmd = %v", run["cmd"])
	}
	if run["exit_code"] != float64(0) {
		t.Errorf("run exit_code = %v, want 0", run["exit_code"])
	}
	if run["run_id"] == "" || run["run_id"] == nil {
		t.Errorf("run record must carry a run_id")
	}

	if summary["type"] != "summary" {
		t.Errorf("last record type = %v, want summary", summary["type"])
	}
	if summary["schema_version"] != float64(1) {
		t.Errorf("schema_version = %v, want 1", summary["schema_version"])
	}
	if summary["tool"] != "autorepro" {
		t.Errorf("tool = %v, want autorepro", summary["tool"])
	}
	if summary["runs"] != float64(1) || summary["succeeded"] != float64(1) {
		t.Errorf("summary counts = %v", summary)
	}
}

func TestExecute_FailureIsDataNotError(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "exec.jsonl")

	result, err := Execute(context.Background(), candidates("exit 3"), 0, Options{
		LogPath: logPath,
		Stdout:  &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("a failing command is a normal outcome, got error %v", err)
	}

	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
	if result.Summary.Failed != 1 || result.Summary.Succeeded != 0 {
		t.Errorf("summary = %+v, want failed=1", result.Summary)
	}
}

func TestExecute_Timeout(t *testing.T) {
	start := time.Now()
	result, err := Execute(context.Background(), candidates("sleep 5"), 0, Options{
		Timeout: 100 * time.Millisecond,
		Stdout:  &bytes.Buffer{},
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("a timeout is a failed run, not a runtime crash, got %v", err)
	}

	// The runtime must return at the deadline, not when the child
	// process tree finally lets go of the output pipe.
	if elapsed > 3*time.Second {
		t.Errorf("Execute returned after %v, want prompt return at the 100ms timeout", elapsed)
	}

	if result.ExitCode != TimeoutExitCode {
		t.Errorf("exit code = %d, want %d", result.ExitCode, TimeoutExitCode)
	}
	record := result.Records[0]
	if !record.TimedOut {
		t.Errorf("record must mark the timeout, got %+v", record)
	}
	if record.DurationMS > 1000 {
		t.Errorf("duration_ms = %d, want clamped to the deadline", record.DurationMS)
	}
	if result.Summary.TimedOut != 1 || result.Summary.Failed != 1 {
		t.Errorf("summary = %+v, want timed_out=1 failed=1", result.Summary)
	}
}

func TestExecute_TimeoutKillsDescendants(t *testing.T) {
	// The background child inherits stdout and would hold the pipe
	// open for 5s after the shell dies; the process-group kill must
	// take it down with the shell.
	start := time.Now()
	result, err := Execute(context.Background(), candidates("sleep 5 & sleep 5"), 0, Options{
		Timeout: 100 * time.Millisecond,
		Stdout:  &bytes.Buffer{},
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if elapsed > 3*time.Second {
		t.Errorf("Execute returned after %v, a descendant outlived the timeout", elapsed)
	}
	if result.ExitCode != TimeoutExitCode || !result.Records[0].TimedOut {
		t.Errorf("result = %+v, want timed-out run", result)
	}
}

func TestExecute_EnvOverlayPrecedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "repro.env")
	content := "FROM_FILE=file-value\nSHARED=file-wins\n# comment\n\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	_, err := Execute(context.Background(), candidates("echo $FROM_FILE $SHARED"), 0, Options{
		EnvFile: envFile,
		Env:     []string{"SHARED=cli-wins"},
		Stdout:  &out,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	got := strings.TrimSpace(out.String())
	if got != "file-value cli-wins" {
		t.Errorf("env overlay output = %q, want 'file-value cli-wins' (later source wins)", got)
	}
}

func TestExecute_EnvFileMissing(t *testing.T) {
	_, err := Execute(context.Background(), candidates("true"), 0, Options{
		EnvFile: filepath.Join(t.TempDir(), "absent.env"),
		Stdout:  &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("missing env file must surface as an I/O failure")
	}
	if !strings.Contains(err.Error(), "absent.env") {
		t.Errorf("error must name the offending path, got %q", err.Error())
	}
}

func TestParseEnvFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	if err := os.WriteFile(path, []byte("NOT A PAIR\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := parseEnvFile(path)
	if err == nil {
		t.Fatal("malformed env line should be rejected")
	}
}

func TestExecute_TeeAppendsWithMarkers(t *testing.T) {
	dir := t.TempDir()
	teePath := filepath.Join(dir, "out.log")

	for i, cmd := range []string{"echo first-run", "echo second-run"} {
		_, err := Execute(context.Background(), candidates("echo first-run", "echo second-run"), i, Options{
			TeePath: teePath,
			Stdout:  &bytes.Buffer{},
		})
		if err != nil {
			t.Fatalf("Execute(%q) error = %v", cmd, err)
		}
	}

	data, err := os.ReadFile(teePath)
	if err != nil {
		t.Fatalf("read tee file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "first-run") || !strings.Contains(content, "second-run") {
		t.Errorf("tee must append, not truncate:\n%s", content)
	}
	if got := strings.Count(content, teeMarkerPrefix); got != 2 {
		t.Errorf("tee has %d marker lines, want 2:\n%s", got, content)
	}
}

func TestExecute_LogIsAppendOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "exec.jsonl")

	for i := 0; i < 2; i++ {
		_, err := Execute(context.Background(), candidates("true"), 0, Options{
			LogPath: logPath,
			Stdout:  &bytes.Buffer{},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}

	lines := readLogLines(t, logPath)
	if len(lines) != 4 {
		t.Fatalf("two invocations should leave 4 lines (run+summary each), got %d", len(lines))
	}
	wantTypes := []string{"run", "summary", "run", "summary"}
	for i, want := range wantTypes {
		if lines[i]["type"] != want {
			t.Errorf("line %d type = %v, want %s", i, lines[i]["type"], want)
		}
	}
}

func TestMergeEnv_Order(t *testing.T) {
	merged, err := mergeEnv([]string{"A=process"}, "", []string{"A=explicit"})
	if err != nil {
		t.Fatalf("mergeEnv() error = %v", err)
	}

	// Later entries win: the explicit override must come after the
	// process value in the slice.
	last := ""
	for _, e := range merged {
		if strings.HasPrefix(e, "A=") {
			last = e
		}
	}
	if last != "A=explicit" {
		t.Errorf("explicit override must win, last A entry = %q", last)
	}
}
