// Package paths centralizes the on-disk layout of AutoRepro state.
// Everything the tool writes for a repository lives under <root>/.autorepro.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// StateDirName is the per-repository state directory
const StateDirName = ".autorepro"

// StateDir returns the state directory path for a repository root
func StateDir(repoRoot string) string {
	return filepath.Join(repoRoot, StateDirName)
}

// EnsureStateDir creates the state directory if needed and returns its path
func EnsureStateDir(repoRoot string) (string, error) {
	dir := StateDir(repoRoot)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// HistoryDBPath returns the path of the run-history database
func HistoryDBPath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "history.db")
}

// DefaultExecLogPath returns the default JSONL exec log path
func DefaultExecLogPath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "exec.jsonl")
}

// RulesOverlayPath returns the path of the optional user rule overlay
func RulesOverlayPath(repoRoot string) string {
	return filepath.Join(StateDir(repoRoot), "rules.toml")
}

// NormalizePath normalizes a path by converting backslashes to forward slashes.
// Bundle manifests and scan reasons always use forward slashes.
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// IsWithinRepo checks if a path is within the repository root
func IsWithinRepo(path string, repoRoot string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rootAbs, err := filepath.Abs(repoRoot)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(rootAbs, abs)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
