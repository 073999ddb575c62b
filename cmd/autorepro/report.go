package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autorepro/internal/errors"
	"autorepro/internal/output"
	"autorepro/internal/paths"
	"autorepro/internal/plan"
	"autorepro/internal/render"
	"autorepro/internal/report"
)

var (
	reportOut     string
	reportSummary string
)

var reportCmd = &cobra.Command{
	Use:   "report [description]",
	Short: "Bundle scan, plan, and run log into a shareable zip",
	Long: `Report runs the scan and ranking pipeline and packs the results
(scan.json, plan.json, plan.md, and the exec log if one exists) into a
zip bundle with a manifest.

Examples:
  autorepro report "pytest fails on auth"
  autorepro report --out /tmp/bundle.zip
  autorepro report "jest flake" --summary summary.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", report.DefaultBundleName, "Bundle output path")
	reportCmd.Flags().StringVar(&reportSummary, "summary", "", "Also write a Markdown bundle summary to a file")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
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
	}

	sc, p, err := scanAndRank(repoRoot, description, rankCfg, logger)
	if err != nil {
		return err
	}

	scanJSON, err := output.DeterministicEncodeIndented(sc, "  ")
	if err != nil {
		return errors.NewReproError(errors.InternalError, "cannot encode scan result", err)
	}
	planJSON, err := render.Render(p, render.FormatJSON)
	if err != nil {
		return err
	}
	planMD, err := render.Render(p, render.FormatMarkdown)
	if err != nil {
		return err
	}

	artifacts := []report.Artifact{
		{Name: "scan.json", Body: scanJSON},
		{Name: "plan.json", Body: []byte(planJSON)},
		{Name: "plan.md", Body: []byte(planMD)},
	}
	execLog, err := report.CollectFile(paths.DefaultExecLogPath(repoRoot), "exec.jsonl")
	if err != nil {
		return err
	}
	if execLog != nil {
		artifacts = append(artifacts, *execLog)
	}

	bundler := report.NewBundler(repoRoot, logger)
	manifest, err := bundler.Write(reportOut, artifacts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Bundle written to: %s (%d files)\n", reportOut, len(manifest.Sections)+1)

	if reportSummary != "" {
		var publisher report.Publisher = report.FilePublisher{Path: reportSummary}
		if err := publisher.Publish(report.SummaryBody(manifest)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Summary written to: %s\n", reportSummary)
	}

	return nil
}
