package gemini

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/jakvbs/gemini-mcp/internal/procattr"
)

// binPathEnv overrides the Gemini CLI binary when WithCLIPath is not used.
const binPathEnv = "GEMINI_BIN"

// defaultBinName is the Gemini CLI binary resolved on PATH.
const defaultBinName = "gemini"

// processManager owns the Gemini CLI process for one invocation.
// The CLI runs in one-shot mode: no stdin, captured stdout/stderr.
type processManager struct {
	stdout io.ReadCloser
	stderr io.ReadCloser
	cmd    *exec.Cmd
	config invocationConfig
	prompt string
}

// newProcessManager creates a process manager for the given final prompt.
func newProcessManager(prompt string, config invocationConfig) *processManager {
	return &processManager{
		config: config,
		prompt: prompt,
	}
}

// binPath resolves the CLI binary: explicit option, GEMINI_BIN environment
// override, then the literal default.
func (pm *processManager) binPath() string {
	if pm.config.CLIPath != "" {
		return pm.config.CLIPath
	}
	if env := os.Getenv(binPathEnv); env != "" {
		return env
	}
	return defaultBinName
}

// BuildCLIArgs builds the argument vector deterministically.
//
// The CLI is always asked for stream-json output. When resuming, the prompt
// travels via --prompt alongside --resume (the CLI's deprecation notice for
// --prompt is filtered out during classification); otherwise the prompt is
// positional.
func (pm *processManager) BuildCLIArgs() []string {
	args := []string{"-o", "stream-json"}

	if pm.config.Model != "" {
		args = append(args, "--model", pm.config.Model)
	}

	if pm.config.YOLO {
		args = append(args, "--yolo")
	}

	args = append(args, pm.config.AdditionalArgs...)

	if pm.config.SessionID != "" {
		args = append(args, "--prompt", pm.prompt, "--resume", pm.config.SessionID)
	} else {
		args = append(args, pm.prompt)
	}

	return args
}

// Start spawns the CLI process with isolated standard streams.
func (pm *processManager) Start(ctx context.Context) error {
	binPath := pm.binPath()
	pm.cmd = exec.Command(binPath, pm.BuildCLIArgs()...)

	// No stdin: the CLI must never block waiting for interactive input.
	pm.cmd.Stdin = nil

	if len(pm.config.Env) > 0 {
		pm.cmd.Env = os.Environ()
		for k, v := range pm.config.Env {
			pm.cmd.Env = append(pm.cmd.Env, k+"="+v)
		}
	}

	if pm.config.WorkDir != "" {
		pm.cmd.Dir = pm.config.WorkDir
	}

	// Process group + parent-death signal so the CLI is reaped even if the
	// supervisor is abandoned.
	procattr.Set(pm.cmd)

	var err error
	pm.stdout, err = pm.cmd.StdoutPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stdout pipe", Cause: err}
	}

	pm.stderr, err = pm.cmd.StderrPipe()
	if err != nil {
		return &ProcessError{Message: "failed to create stderr pipe", Cause: err}
	}

	if err := pm.cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &CLINotFoundError{Path: binPath, Cause: err}
		}
		return &ProcessError{Message: "failed to spawn gemini command", Cause: err}
	}

	if ctx.Err() != nil {
		pm.Kill()
		return ctx.Err()
	}

	return nil
}

// Wait waits for the CLI to exit and returns its exit error, if any.
// Must only be called after both output pipes are fully drained.
func (pm *processManager) Wait() error {
	return pm.cmd.Wait()
}

// Kill forcibly terminates the CLI and reaps it: SIGTERM to the process
// group, a short grace period, then SIGKILL. It always waits for the exit
// so no zombie is left behind.
func (pm *processManager) Kill() {
	done := make(chan struct{})
	go func() {
		_ = pm.cmd.Wait()
		close(done)
	}()

	if pm.cmd.Process != nil {
		_ = procattr.SignalGroup(pm.cmd.Process, syscall.SIGTERM)
	}

	select {
	case <-done:
		return
	case <-time.After(500 * time.Millisecond):
	}

	if pm.cmd.Process != nil {
		_ = procattr.KillGroup(pm.cmd.Process)
	}

	<-done
}
