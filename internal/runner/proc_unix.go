//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// setRunSysProcAttr starts the child in its own process group and kills
// the whole group on cancellation. Killing only the shell would leave
// descendants holding the output pipe and block Wait past the timeout.
func setRunSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
