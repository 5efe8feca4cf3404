//go:build linux

// Package procattr configures spawned Gemini CLI processes so they can
// never outlive the server that launched them.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the child in its own process group and arms a parent-death
// signal. On Linux, Pdeathsig delivers SIGTERM to the child if this process
// dies without cleaning up after itself (OOM kill, SIGKILL).
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
