package gemini

import (
	"encoding/json"
	"strings"
)

const (
	// maxMessages caps how many decoded events are retained on a Result.
	maxMessages = 10_000
	// maxNonJSONLines caps how many unparsable stdout lines are captured.
	maxNonJSONLines = 1000
	// maxStderrBytes caps how much stderr output is captured.
	maxStderrBytes = 100_000

	stderrTruncationMarker = "\n... (stderr truncated)"

	missingSessionIDError     = "Failed to get `SESSION_ID` from the gemini session."
	missingAgentMessagesError = "Failed to get `agent_messages` from the gemini session."
)

// Result is the accumulated outcome of one CLI invocation.
type Result struct {
	// Success starts true and only ever transitions to false.
	Success bool
	// SessionID is the resume token discovered from the event stream;
	// the last non-empty value wins.
	SessionID string
	// AgentMessages is the newline-joined assistant text.
	AgentMessages string
	// AllMessages holds every decoded event, up to maxMessages.
	AllMessages []json.RawMessage
	// Error is the composed error narrative. It only ever extends.
	Error string
}

// newResult returns a Result in its initial (successful, empty) state.
func newResult() *Result {
	return &Result{Success: true}
}

// extendError appends msg to the error narrative, newline-joined. The
// narrative is never overwritten, only extended.
func (r *Result) extendError(msg string) {
	if msg == "" {
		return
	}
	if r.Error == "" {
		r.Error = msg
		return
	}
	r.Error += "\n" + msg
}

// appendAgentMessage appends assistant text, newline-separated after the
// first append.
func (r *Result) appendAgentMessage(content string) {
	if r.AgentMessages != "" {
		r.AgentMessages += "\n"
	}
	r.AgentMessages += content
}

// finalize enforces the required output fields. It always runs, even on an
// otherwise clean exit: a Result without a session id (or, unless the caller
// asked for all messages and at least one arrived, without assistant text)
// is downgraded to a failure.
func finalize(r *Result, returnAllMessages bool) *Result {
	var missing []string

	if r.SessionID == "" {
		missing = append(missing, missingSessionIDError)
	}

	if r.AgentMessages == "" {
		if !returnAllMessages || len(r.AllMessages) == 0 {
			missing = append(missing, missingAgentMessagesError)
		}
	}

	if len(missing) > 0 {
		r.Success = false
		r.extendError(strings.Join(missing, "\n"))
	}

	return r
}

// stderrCapture accumulates the child's stderr up to a byte cap. Once the
// cap is hit a truncation marker is appended and further input is dropped,
// though callers should keep draining the stream so the child never blocks
// on a full pipe.
type stderrCapture struct {
	buf       strings.Builder
	truncated bool
}

// Add appends one stderr line, newline-joined, respecting the cap.
func (c *stderrCapture) Add(line string) {
	if c.truncated || c.buf.Len() >= maxStderrBytes {
		return
	}
	if c.buf.Len() > 0 {
		c.buf.WriteByte('\n')
	}
	remaining := maxStderrBytes - c.buf.Len()
	if len(line) <= remaining {
		c.buf.WriteString(line)
		return
	}
	c.buf.WriteString(line[:remaining])
	c.buf.WriteString(stderrTruncationMarker)
	c.truncated = true
}

// String returns the captured output.
func (c *stderrCapture) String() string {
	return c.buf.String()
}

// rawLineCapture retains stdout lines that failed JSON decoding, up to a
// count cap. Used only for failure diagnosis.
type rawLineCapture struct {
	lines []string
}

// Add records one unparsable line, respecting the cap.
func (c *rawLineCapture) Add(line string) {
	if len(c.lines) < maxNonJSONLines {
		c.lines = append(c.lines, line)
	}
}

// Empty reports whether anything was captured.
func (c *rawLineCapture) Empty() bool {
	return len(c.lines) == 0
}

// Join returns the captured lines newline-joined.
func (c *rawLineCapture) Join() string {
	return strings.Join(c.lines, "\n")
}
