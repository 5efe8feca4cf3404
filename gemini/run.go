package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/jakvbs/gemini-mcp/internal/ndjson"
)

// Run executes the Gemini CLI with the given prompt and returns the
// finalized result. It is a single-shot supervisor: one child process, one
// deadline, one composed outcome. The child is always terminated and reaped
// before Run returns.
func Run(ctx context.Context, prompt string, opts ...Option) (*Result, error) {
	config := defaultInvocationConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	log := config.Logger
	if log == nil {
		log = slog.Default()
	}

	timeout := clampTimeout(config.Timeout)

	provider := config.ContextProvider
	if provider == nil {
		provider = fileContextProvider(config.WorkDir, log)
	}
	finalPrompt := preparePrompt(ctx, prompt, provider, log)

	pm := newProcessManager(finalPrompt, config)
	if err := pm.Start(ctx); err != nil {
		return nil, err
	}

	// Race the drain against the deadline. The buffered channel lets an
	// abandoned drain finish without leaking its goroutine.
	drained := make(chan *drainState, 1)
	go func() {
		drained <- drainStreams(pm.stdout, pm.stderr, log)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case state := <-drained:
		return reconcile(pm, state, config)
	case <-ctx.Done():
		pm.Kill()
		return nil, ctx.Err()
	case <-timer.C:
		pm.Kill()
		return nil, &TimeoutError{After: timeout}
	}
}

// clampTimeout applies the deadline bounds: non-positive values fall back
// to the default, values above the ceiling clamp to it.
func clampTimeout(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultTimeout
	case d > MaxTimeout:
		return MaxTimeout
	default:
		return d
	}
}

// drainState is everything accumulated while both streams were drained.
type drainState struct {
	result        *Result
	stderr        stderrCapture
	nonJSON       rawLineCapture
	validJSONSeen bool
}

// streamLine is one line read from a child stream, or a terminal read error.
type streamLine struct {
	err  error
	text string
}

// readLines pumps lines from r into a channel, closing it at end-of-stream.
// A read error is delivered as the final element; it ends only this stream.
func readLines(r io.Reader) <-chan streamLine {
	out := make(chan streamLine)
	go func() {
		defer close(out)
		reader := ndjson.NewReader(r)
		for {
			line, err := reader.ReadLine()
			if err != nil {
				if err != io.EOF {
					out <- streamLine{err: err}
				}
				return
			}
			out <- streamLine{text: string(line)}
		}
	}()
	return out
}

// drainStreams consumes stdout and stderr concurrently until both are
// exhausted. Stdout lines are decoded and classified; undecodable lines are
// captured under a cap. Stderr is captured under a byte cap but drained to
// the end regardless, so the child never blocks on a full pipe.
func drainStreams(stdout, stderr io.Reader, log *slog.Logger) *drainState {
	state := &drainState{result: newResult()}

	stdoutCh := readLines(stdout)
	stderrCh := readLines(stderr)

	for stdoutCh != nil || stderrCh != nil {
		select {
		case line, ok := <-stdoutCh:
			if !ok {
				stdoutCh = nil
				continue
			}
			if line.err != nil {
				log.Warn("failed to read from stdout", "error", line.err)
				stdoutCh = nil
				continue
			}
			state.handleStdoutLine(line.text)
		case line, ok := <-stderrCh:
			if !ok {
				stderrCh = nil
				continue
			}
			if line.err != nil {
				log.Warn("failed to read from stderr", "error", line.err)
				stderrCh = nil
				continue
			}
			state.stderr.Add(line.text)
		}
	}

	return state
}

// handleStdoutLine decodes and classifies one primary-output line.
func (s *drainState) handleStdoutLine(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	var data any
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		s.nonJSON.Add(trimmed)
		return
	}

	s.validJSONSeen = true
	classifyLine(json.RawMessage(trimmed), data, s.result)
}

// reconcile combines the exit status with the accumulated state into the
// final result.
func reconcile(pm *processManager, state *drainState, config invocationConfig) (*Result, error) {
	result := state.result

	err := pm.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		if !state.validJSONSeen && !state.nonJSON.Empty() {
			// A clean exit without a single decodable line is still a
			// protocol failure.
			result.Success = false
			result.extendError(fmt.Sprintf(
				"No valid JSON output received from gemini CLI.\nOutput: %s",
				state.nonJSON.Join()))
		}
	case errors.As(err, &exitErr):
		result.Success = false
		if result.Error == "" {
			result.extendError(fmt.Sprintf(
				"gemini command failed with exit code: %d", exitErr.ExitCode()))
		}
		if captured := state.stderr.String(); captured != "" {
			result.extendError("Stderr: " + captured)
		}
		if !state.nonJSON.Empty() {
			result.extendError("Non-JSON output: " + state.nonJSON.Join())
		}
	default:
		return nil, &ProcessError{Message: "failed to wait for gemini command", Cause: err}
	}

	return finalize(result, config.ReturnAllMessages), nil
}
