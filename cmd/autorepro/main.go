package main

import (
	"os"

	"autorepro/internal/errors"
	"autorepro/internal/logging"
)

// execExitCode carries the subprocess exit status from a live exec run
// so the process can mirror it. Zero for every other command.
var execExitCode int

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.NewLogger(logging.Config{
			Format: logging.Format(logFormatFlag),
			Level:  "error",
		})
		logger.Error("command failed", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(exitCodeFor(err))
	}
	os.Exit(execExitCode)
}

// exitCodeFor maps the error taxonomy to process exit codes: misuse is
// 2, everything else (including a strict-mode empty plan) is 1
func exitCodeFor(err error) int {
	if errors.IsMisuse(err) {
		return 2
	}
	return 1
}
