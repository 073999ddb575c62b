package main

import (
	"os"
	"path/filepath"
	"testing"

	"autorepro/internal/errors"
)

func TestPlanDescription(t *testing.T) {
	t.Cleanup(func() { planDescFile = "" })

	t.Run("from argument", func(t *testing.T) {
		planDescFile = ""
		got, err := planDescription([]string{"pytest fails"})
		if err != nil || got != "pytest fails" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("empty is allowed", func(t *testing.T) {
		planDescFile = ""
		got, err := planDescription(nil)
		if err != nil || got != "" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "issue.txt")
		if err := os.WriteFile(path, []byte("jest hangs in CI"), 0o644); err != nil {
			t.Fatal(err)
		}
		planDescFile = path
		got, err := planDescription(nil)
		if err != nil || got != "jest hangs in CI" {
			t.Errorf("got %q, %v", got, err)
		}
	})

	t.Run("both sources is misuse", func(t *testing.T) {
		planDescFile = "somewhere.txt"
		_, err := planDescription([]string{"also an argument"})
		if !errors.IsMisuse(err) {
			t.Errorf("want misuse, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		planDescFile = filepath.Join(t.TempDir(), "absent.txt")
		_, err := planDescription(nil)
		if err == nil {
			t.Error("missing description file should fail")
		}
	})
}
