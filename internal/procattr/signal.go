package procattr

import (
	"os"
	"syscall"
)

// SignalGroup sends sig to the whole process group of p. The negative PID
// makes the kernel deliver to every process in the group, so helpers the
// Gemini CLI forked go down with it.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}

// KillGroup sends SIGKILL to the whole process group of p.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
