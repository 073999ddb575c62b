package main

import (
	"time"

	"github.com/spf13/cobra"

	"autorepro/internal/history"
	"autorepro/internal/logging"
	"autorepro/internal/paths"
	"autorepro/internal/plan"
	"autorepro/internal/runner"
)

var (
	execIndex   int
	execTimeout int
	execEnv     []string
	execEnvFile string
	execTee     string
	execDryRun  bool
	execLogPath string
	execNoLog   bool
	execStrict  bool
)

var execCmd = &cobra.Command{
	Use:   "exec [description]",
	Short: "Execute one ranked reproduction candidate",
	Long: `Exec re-ranks the candidates for the description and runs the one
selected by --index through 'sh -c'. The process exit status mirrors the
subprocess; a timed-out run exits 124.

Examples:
  autorepro exec "pytest fails on auth" --index 0
  autorepro exec "jest timeout" --index 1 --timeout 120
  autorepro exec "go test flake" --index 0 --env CGO_ENABLED=0 --tee run.log
  autorepro exec "npm test" --index 0 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().IntVar(&execIndex, "index", 0, "Candidate index from the plan to run")
	execCmd.Flags().IntVar(&execTimeout, "timeout", 0, "Seconds before the run is killed (0 disables)")
	execCmd.Flags().StringArrayVar(&execEnv, "env", nil, "Extra KEY=VALUE environment entries (repeatable)")
	execCmd.Flags().StringVar(&execEnvFile, "env-file", "", "File of KEY=VALUE lines merged below --env")
	execCmd.Flags().StringVar(&execTee, "tee", "", "Append combined output to a file")
	execCmd.Flags().BoolVar(&execDryRun, "dry-run", false, "Print the selected command without running it")
	execCmd.Flags().StringVar(&execLogPath, "log", "", "JSONL run log path (default .autorepro/exec.jsonl)")
	execCmd.Flags().BoolVar(&execNoLog, "no-log", false, "Disable the JSONL run log")
	execCmd.Flags().BoolVar(&execStrict, "strict", false, "Fail when no candidate survives filtering")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	description := ""
	if len(args) > 0 {
		description = args[0]
	}

	cfg, err := loadRepoConfig(repoRoot)
	if err != nil {
		return err
	}

	rankCfg := plan.Config{
		MinScore:    cfg.Plan.MinScore,
		MaxCommands: cfg.Plan.MaxCommands,
		Strict:      cfg.Plan.Strict || execStrict,
	}
	_, p, err := scanAndRank(repoRoot, description, rankCfg, logger)
	if err != nil {
		return err
	}

	timeout := time.Duration(execTimeout) * time.Second
	if execTimeout == 0 && cfg.Exec.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Exec.TimeoutSeconds) * time.Second
	}

	logPath := execLogPath
	if logPath == "" {
		logPath = cfg.Exec.LogPath
	}
	if logPath == "" {
		if _, err := paths.EnsureStateDir(repoRoot); err != nil {
			return err
		}
		logPath = paths.DefaultExecLogPath(repoRoot)
	}
	if execNoLog {
		logPath = ""
	}

	if execLogPath != "" {
		warnIfOutsideRepo(logger, repoRoot, "log", execLogPath)
	}
	if execTee != "" {
		warnIfOutsideRepo(logger, repoRoot, "tee", execTee)
	}

	result, err := runner.Execute(cmd.Context(), p.Commands, execIndex, runner.Options{
		Timeout: timeout,
		Env:     execEnv,
		EnvFile: execEnvFile,
		TeePath: execTee,
		DryRun:  execDryRun,
		WorkDir: repoRoot,
		LogPath: logPath,
		Stdout:  cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	if !result.DryRun {
		recordHistory(repoRoot, result, logger)
	}

	execExitCode = result.ExitCode
	return nil
}

// warnIfOutsideRepo flags output paths that land outside the repository.
// The report bundle only collects files under the repo root, so a run log
// or tee file written elsewhere silently drops out of bundles.
func warnIfOutsideRepo(logger *logging.Logger, repoRoot string, flag string, path string) {
	if paths.IsWithinRepo(path, repoRoot) {
		return
	}
	logger.Warn("output path is outside the repository and will not be included in report bundles", map[string]interface{}{
		"flag": flag,
		"path": path,
	})
}

// recordHistory persists the run in the SQLite store. History is an
// observability aid, so failures are logged and swallowed rather than
// masking the run's own outcome.
func recordHistory(repoRoot string, result *runner.Result, logger *logging.Logger) {
	store, err := history.Open(repoRoot, nil)
	if err != nil {
		logger.Warn("cannot open history store", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer store.Close()

	for _, record := range result.Records {
		if err := store.RecordRun(record); err != nil {
			logger.Warn("cannot record run", map[string]interface{}{
				"run_id": record.RunID,
				"error":  err.Error(),
			})
		}
	}
}
