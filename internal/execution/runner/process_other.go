//go:build !unix

package runner

import "os/exec"

// Process groups are a unix facility; elsewhere only the direct child can
// be signalled.
func setProcessGroup(cmd *exec.Cmd) {}

func signalKill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
