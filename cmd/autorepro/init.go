package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autorepro/internal/config"
	"autorepro/internal/devcontainer"
	"autorepro/internal/scan"
)

var (
	initForce        bool
	initDevcontainer bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize autorepro configuration",
	Long: `Creates a default .autorepro.toml at the repository root. With
--devcontainer, also writes a starter .devcontainer/devcontainer.json
whose base image matches the repository's primary detected language.

Examples:
  autorepro init
  autorepro init --devcontainer
  autorepro init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().BoolVar(&initDevcontainer, "devcontainer", false, "Also write a devcontainer definition")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	repoRoot, err := resolveRepoRoot()
	if err != nil {
		return err
	}

	configPath := filepath.Join(repoRoot, config.FileName)
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Idempotent behavior: already initialized is success
		fmt.Fprintf(cmd.OutOrStdout(), "autorepro already initialized.\nConfiguration at: %s\n", configPath)
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'autorepro init --force' to reinitialize.")
	} else {
		if err := config.DefaultConfig().Save(repoRoot); err != nil {
			return err
		}
		logger.Info("wrote default configuration", map[string]interface{}{
			"path": configPath,
		})
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to: %s\n", configPath)
	}

	if initDevcontainer {
		sc, err := scan.Scan(repoRoot)
		if err != nil {
			return err
		}
		primary := ""
		if len(sc.Detected) > 0 {
			primary = sc.Detected[0]
		}

		def := devcontainer.Template(filepath.Base(repoRoot), primary)
		path, err := devcontainer.Write(repoRoot, def, initForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Devcontainer written to: %s (image %s)\n", path, def.Image)
	}

	return nil
}
