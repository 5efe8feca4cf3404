package gemini

import (
	"context"
	"log/slog"
	"time"
)

// invocationConfig holds the configuration for a single Run invocation.
// It is built once from options and never mutated afterwards.
type invocationConfig struct {
	Logger            *slog.Logger
	ContextProvider   ContextProvider
	Env               map[string]string
	SessionID         string
	Model             string
	CLIPath           string
	WorkDir           string
	AdditionalArgs    []string
	Timeout           time.Duration
	YOLO              bool
	ReturnAllMessages bool
}

// Option is a functional option for configuring an invocation.
type Option func(*invocationConfig)

// WithSessionID resumes a prior conversation instead of starting a new one.
func WithSessionID(id string) Option {
	return func(c *invocationConfig) {
		c.SessionID = id
	}
}

// WithModel overrides the model the CLI uses.
func WithModel(model string) Option {
	return func(c *invocationConfig) {
		c.Model = model
	}
}

// WithYOLO enables the CLI's auto-approval mode (--yolo).
func WithYOLO() Option {
	return func(c *invocationConfig) {
		c.YOLO = true
	}
}

// WithReturnAllMessages keeps every decoded event on the Result. When set,
// an empty assistant text is not treated as a missing required field as long
// as at least one event was decoded.
func WithReturnAllMessages() Option {
	return func(c *invocationConfig) {
		c.ReturnAllMessages = true
	}
}

// WithAdditionalArgs appends server-configured CLI arguments (escape hatch).
func WithAdditionalArgs(args ...string) Option {
	return func(c *invocationConfig) {
		c.AdditionalArgs = args
	}
}

// WithCLIPath sets a custom CLI binary path. It takes precedence over the
// GEMINI_BIN environment variable and the default "gemini".
func WithCLIPath(path string) Option {
	return func(c *invocationConfig) {
		c.CLIPath = path
	}
}

// WithWorkDir sets the working directory for the CLI process. GEMINI.md
// prompt context is resolved relative to it.
func WithWorkDir(dir string) Option {
	return func(c *invocationConfig) {
		c.WorkDir = dir
	}
}

// WithTimeout sets the invocation deadline. Values outside (0, MaxTimeout]
// are clamped: non-positive falls back to DefaultTimeout, larger values
// clamp to MaxTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *invocationConfig) {
		c.Timeout = d
	}
}

// WithEnv sets additional environment variables for the CLI process.
func WithEnv(env map[string]string) Option {
	return func(c *invocationConfig) {
		c.Env = env
	}
}

// WithLogger sets the logger for diagnostics. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *invocationConfig) {
		c.Logger = log
	}
}

// ContextProvider returns optional text to prepend to the prompt. Returning
// an empty string or an error means "no augmentation"; errors are logged,
// never fatal.
type ContextProvider func(ctx context.Context) (string, error)

// WithContextProvider replaces the default GEMINI.md file lookup.
func WithContextProvider(p ContextProvider) Option {
	return func(c *invocationConfig) {
		c.ContextProvider = p
	}
}

// defaultInvocationConfig returns the default configuration.
func defaultInvocationConfig() invocationConfig {
	return invocationConfig{
		Timeout: DefaultTimeout,
	}
}
