package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autorepro/internal/errors"
	"autorepro/internal/plan"
	"autorepro/internal/render"
)

var (
	planFormat      string
	planOut         string
	planMinScore    int
	planMaxCommands int
	planStrict      bool
	planDescFile    string
)

var planCmd = &cobra.Command{
	Use:   "plan [description]",
	Short: "Rank candidate reproduction commands for a bug description",
	Long: `Plan combines the repository scan with the bug description and
renders a reproduction plan. The description comes from the argument or
from --desc-file.

Examples:
  autorepro plan "pytest fails on the auth module"
  autorepro plan --desc-file issue.txt --format json
  autorepro plan "flaky jest test" --min-score 3 --strict
  autorepro plan "npm test hangs" --out plan.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "", "Output format (md, json); default from config")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write the plan to a file instead of stdout")
	planCmd.Flags().IntVar(&planMinScore, "min-score", 0, "Minimum final score a candidate must reach (0 keeps every candidate)")
	planCmd.Flags().IntVar(&planMaxCommands, "max-commands", 0, "Maximum number of candidates to keep")
	planCmd.Flags().BoolVar(&planStrict, "strict", false, "Fail when no candidate survives filtering")
	planCmd.Flags().StringVar(&planDescFile, "desc-file", "", "Read the bug description from a file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	description, err := planDescription(args)
	if err != nil {
		return err
	}

	cfg, err := loadRepoConfig(repoRoot)
	if err != nil {
		return err
	}

	rankCfg := plan.Config{
		MinScore:    cfg.Plan.MinScore,
		MaxCommands: cfg.Plan.MaxCommands,
		Strict:      cfg.Plan.Strict || planStrict,
	}
	if cmd.Flags().Changed("min-score") {
		rankCfg.MinScore = planMinScore
	}
	if planMaxCommands > 0 {
		rankCfg.MaxCommands = planMaxCommands
	}

	formatName := cfg.Output.Format
	if planFormat != "" {
		formatName = planFormat
	}
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	_, p, err := scanAndRank(repoRoot, description, rankCfg, logger)
	if err != nil {
		return err
	}

	rendered, err := render.Render(p, format)
	if err != nil {
		return err
	}

	if planOut != "" {
		if err := os.WriteFile(planOut, []byte(rendered), 0o644); err != nil {
			return errors.NewIOFailure(planOut, err)
		}
		logger.Info("wrote plan", map[string]interface{}{
			"path":   planOut,
			"format": string(format),
		})
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// planDescription resolves the description from the positional argument
// or --desc-file; supplying both is a misuse
func planDescription(args []string) (string, error) {
	if planDescFile != "" {
		if len(args) > 0 {
			return "", errors.NewMisuse("pass a description argument or --desc-file, not both")
		}
		data, err := os.ReadFile(planDescFile)
		if err != nil {
			return "", errors.NewIOFailure(planDescFile, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return "", nil
}
