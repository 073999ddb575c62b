package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"autorepro/internal/config"
	"autorepro/internal/errors"
	"autorepro/internal/logging"
	"autorepro/internal/version"
)

var (
	// repoFlag is the target repository root
	repoFlag string
	// logFormatFlag selects the diagnostic log sink format
	logFormatFlag string
	// logLevelFlag selects the diagnostic log verbosity
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "autorepro",
	Short: "AutoRepro - reproduction plans for bug reports",
	Long: `AutoRepro scans a repository for language and tooling evidence,
ranks candidate reproduction commands against a bug description, and can
execute the selected candidate with timeout, environment overlay, and a
structured run log.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("autorepro version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", ".", "Repository root to operate on")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "human", "Diagnostic log format (human, json)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Diagnostic log level (debug, info, warn, error)")
}

// resolveRepoRoot normalizes the --repo flag to an absolute path
func resolveRepoRoot() (string, error) {
	abs, err := filepath.Abs(repoFlag)
	if err != nil {
		return "", errors.NewIOFailure(repoFlag, err)
	}
	return abs, nil
}

// newLogger builds the diagnostic logger from the global flags
func newLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(logFormatFlag),
		Level:  logging.LogLevel(logLevelFlag),
	})
}

// loadRepoConfig reads the repository's config file, falling back to
// defaults when it is absent
func loadRepoConfig(repoRoot string) (*config.Config, error) {
	return config.Load(repoRoot)
}
