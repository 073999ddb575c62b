package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autorepro/internal/errors"
	"autorepro/internal/output"
	"autorepro/internal/scan"
)

var (
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Detect languages and tooling evidence in a repository",
	Long: `Scan walks the repository root (three levels deep) looking for
configuration files, lockfiles, source files, and environment markers,
and reports a weighted score per language.

Examples:
  autorepro scan
  autorepro scan --repo ../service --json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit the scan result as canonical JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	result, err := scan.Scan(repoRoot)
	if err != nil {
		return err
	}
	logger.Debug("scan complete", map[string]interface{}{
		"detected": result.Detected,
	})

	if scanJSON {
		data, err := output.DeterministicEncodeIndented(result, "  ")
		if err != nil {
			return errors.NewReproError(errors.InternalError, "cannot encode scan result", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatScanHuman(result))
	return nil
}

func formatScanHuman(result *scan.Result) string {
	var sb strings.Builder
	if len(result.Detected) == 0 {
		sb.WriteString("No languages detected.")
	} else {
		fmt.Fprintf(&sb, "Detected languages in %s:\n", result.Root)
		for _, lang := range result.Detected {
			ls := result.Languages[lang]
			reasons := make([]string, 0, len(ls.Reasons))
			for _, r := range ls.Reasons {
				reasons = append(reasons, fmt.Sprintf("%s:%s", r.Kind, r.Pattern))
			}
			fmt.Fprintf(&sb, "  %-8s score %d (%s)\n", lang, ls.Score, strings.Join(reasons, ", "))
		}
	}
	if len(result.EnvMarkers) > 0 {
		fmt.Fprintf(&sb, "Environment markers: %s", strings.Join(result.EnvMarkers, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
