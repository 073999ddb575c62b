package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReproError_Error(t *testing.T) {
	tests := []struct {
		name  string
		err   *ReproError
		want  string
	}{
		{
			name: "without cause",
			err:  NewReproError(Misuse, "index 100 out of range", nil),
			want: "[MISUSE] index 100 out of range",
		},
		{
			name: "with cause",
			err:  NewReproError(IOFailure, "cannot read desc file", fmt.Errorf("permission denied")),
			want: "[IO_FAILURE] cannot read desc file: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReproError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewReproError(IOFailure, "write failed", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is() should find the cause through Unwrap")
	}
}

func TestNewIOFailure_CarriesPath(t *testing.T) {
	err := NewIOFailure("/tmp/missing.txt", fmt.Errorf("no such file"))

	if !strings.Contains(err.Error(), "/tmp/missing.txt") {
		t.Errorf("IOFailure message should contain the offending path, got %q", err.Error())
	}
	details, ok := err.Details.(map[string]string)
	if !ok || details["path"] != "/tmp/missing.txt" {
		t.Errorf("IOFailure details should carry the path, got %v", err.Details)
	}
}

func TestNoCandidateError_ReferencesMinScore(t *testing.T) {
	err := &NoCandidateError{MinScore: 9}

	if !strings.Contains(err.Error(), "min_score=9") {
		t.Errorf("NoCandidateError message should reference the active min_score, got %q", err.Error())
	}
}

func TestIsMisuse(t *testing.T) {
	misuse := NewMisuse("--index %d out of range", 100)
	wrapped := fmt.Errorf("exec: %w", misuse)

	if !IsMisuse(misuse) {
		t.Errorf("IsMisuse() should be true for a Misuse error")
	}
	if !IsMisuse(wrapped) {
		t.Errorf("IsMisuse() should see through wrapping")
	}
	if IsMisuse(NewReproError(IOFailure, "x", nil)) {
		t.Errorf("IsMisuse() should be false for other codes")
	}
}

func TestIsNoCandidate(t *testing.T) {
	nc := &NoCandidateError{MinScore: 2}
	wrapped := fmt.Errorf("plan: %w", nc)

	if !IsNoCandidate(wrapped) {
		t.Errorf("IsNoCandidate() should see through wrapping")
	}
	if IsNoCandidate(NewMisuse("bad format")) {
		t.Errorf("IsNoCandidate() should be false for misuse errors")
	}
}
