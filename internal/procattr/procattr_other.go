//go:build !linux

// Package procattr configures spawned Gemini CLI processes so they can
// never outlive the server that launched them.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set places the child in its own process group. Pdeathsig is unavailable
// off Linux; the group still lets the supervisor kill the CLI together with
// anything it forked.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
