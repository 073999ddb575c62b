package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		configured LogLevel
		emit       LogLevel
		wantOutput bool
	}{
		{"debug passes at debug", DebugLevel, DebugLevel, true},
		{"debug dropped at info", InfoLevel, DebugLevel, false},
		{"warn passes at info", InfoLevel, WarnLevel, true},
		{"info dropped at error", ErrorLevel, InfoLevel, false},
		{"error always passes", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Format: HumanFormat, Level: tt.configured, Output: &buf})

			logger.log(tt.emit, "hello", nil)

			got := buf.Len() > 0
			if got != tt.wantOutput {
				t.Errorf("output written = %v, want %v", got, tt.wantOutput)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("scan complete", map[string]interface{}{"detected": 2})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "scan complete" {
		t.Errorf("message = %v, want 'scan complete'", entry["message"])
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok || fields["detected"] != float64(2) {
		t.Errorf("fields = %v, want detected=2", entry["fields"])
	}
}

func TestLogger_HumanFormatSortsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Info("run finished", map[string]interface{}{
		"zeta":  1,
		"alpha": 2,
	})

	out := buf.String()
	if strings.Index(out, "alpha=") > strings.Index(out, "zeta=") {
		t.Errorf("human output should list fields in sorted order, got %q", out)
	}
}

func TestLogger_WithMergesContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})
	derived := base.With(map[string]interface{}{"cmd": "pytest -q", "index": 0})

	derived.Info("starting run", map[string]interface{}{"index": 1})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	fields := entry["fields"].(map[string]interface{})
	if fields["cmd"] != "pytest -q" {
		t.Errorf("derived logger should carry its context, got %v", fields)
	}
	if fields["index"] != float64(1) {
		t.Errorf("per-call fields should win collisions, got %v", fields["index"])
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})
	_ = base.With(map[string]interface{}{"cmd": "npm test -s"})

	base.Info("no context", nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := entry["fields"]; ok {
		t.Errorf("parent logger must stay context-free, got %v", entry["fields"])
	}
}
