//go:build windows

package runner

import "os/exec"

// setRunSysProcAttr is a no-op on Windows; WaitDelay alone unblocks
// Wait after cancellation when a descendant keeps the pipe open.
func setRunSysProcAttr(cmd *exec.Cmd) {}
