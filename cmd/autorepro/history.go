package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autorepro/internal/errors"
	"autorepro/internal/history"
	"autorepro/internal/output"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed reproduction runs",
	Long: `History lists runs recorded by 'autorepro exec', newest first.

Examples:
  autorepro history
  autorepro history --limit 50 --json`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Emit the history as canonical JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	store, err := history.Open(repoRoot, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.ListRecent(historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		data, err := output.DeterministicEncodeIndented(entries, "  ")
		if err != nil {
			return errors.NewReproError(errors.InternalError, "cannot encode history", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}
	for _, e := range entries {
		status := fmt.Sprintf("exit %d", e.ExitCode)
		if e.TimedOut {
			status = "timed out"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %6dms  %s\n", e.StartTS, status, e.DurationMS, e.Cmd)
	}
	return nil
}
