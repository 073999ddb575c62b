package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Plan.MinScore != 2 {
		t.Errorf("Plan.MinScore = %d, want 2", cfg.Plan.MinScore)
	}
	if cfg.Plan.MaxCommands != 5 {
		t.Errorf("Plan.MaxCommands = %d, want 5", cfg.Plan.MaxCommands)
	}
	if cfg.Plan.Strict {
		t.Error("strict mode must be off by default")
	}
	if cfg.Output.Format != "md" {
		t.Errorf("Output.Format = %q, want md", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Plan.MinScore != DefaultConfig().Plan.MinScore {
		t.Errorf("missing config file should yield defaults, got %+v", cfg)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `version = 1

[plan]
min_score = 4
max_commands = 3
strict = true

[output]
format = "json"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Plan.MinScore != 4 {
		t.Errorf("Plan.MinScore = %d, want 4", cfg.Plan.MinScore)
	}
	if cfg.Plan.MaxCommands != 3 {
		t.Errorf("Plan.MaxCommands = %d, want 3", cfg.Plan.MaxCommands)
	}
	if !cfg.Plan.Strict {
		t.Error("Plan.Strict should be true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
	// Unset sections keep their defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("AUTOREPRO_PLAN_MIN_SCORE", "7")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Plan.MinScore != 7 {
		t.Errorf("env override ignored, Plan.MinScore = %d, want 7", cfg.Plan.MinScore)
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{
			name:    "bad version",
			content: "version = 9\n",
			wantSub: "version",
		},
		{
			name:    "negative min score",
			content: "version = 1\n[plan]\nmin_score = -1\n",
			wantSub: "min_score",
		},
		{
			name:    "zero max commands",
			content: "version = 1\n[plan]\nmax_commands = 0\n",
			wantSub: "max_commands",
		},
		{
			name:    "unknown format",
			content: "version = 1\n[output]\nformat = \"xml\"\n",
			wantSub: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(dir)
			if err == nil {
				t.Fatal("Load() should reject invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Plan.MinScore = 3
	cfg.Exec.TimeoutSeconds = 60

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Plan.MinScore != 3 {
		t.Errorf("round trip lost Plan.MinScore, got %d", loaded.Plan.MinScore)
	}
	if loaded.Exec.TimeoutSeconds != 60 {
		t.Errorf("round trip lost Exec.TimeoutSeconds, got %d", loaded.Exec.TimeoutSeconds)
	}
}
