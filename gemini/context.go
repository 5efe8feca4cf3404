package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// contextFileName is the per-project prompt context file.
	contextFileName = "GEMINI.md"
	// maxContextSize caps how large a context file may be before it is
	// ignored entirely.
	maxContextSize = 100_000
)

// fileContextProvider returns a ContextProvider that reads GEMINI.md from
// dir (the current directory when dir is empty). Absence is silent; any
// other problem is logged and treated as "no context".
func fileContextProvider(dir string, log *slog.Logger) ContextProvider {
	return func(ctx context.Context) (string, error) {
		return loadContextFile(filepath.Join(dir, contextFileName), log)
	}
}

// loadContextFile reads a prompt context file, enforcing the size cap and
// rejecting whitespace-only content. It never fails the invocation: every
// error path degrades to an empty result.
func loadContextFile(path string, log *slog.Logger) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("cannot access prompt context file", "path", path, "error", err)
		}
		return "", nil
	}

	if info.Size() > maxContextSize {
		log.Warn("prompt context file too large, ignoring",
			"path", path, "size", info.Size(), "max", maxContextSize)
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("failed to read prompt context file", "path", path, "error", err)
		return "", nil
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		log.Warn("prompt context file is empty, ignoring", "path", path)
		return "", nil
	}

	// Return the content as-is so the file's formatting survives.
	return content, nil
}

// preparePrompt prepends provider-supplied context to the user prompt.
// Provider failures are logged and treated as "no augmentation".
func preparePrompt(ctx context.Context, prompt string, provider ContextProvider, log *slog.Logger) string {
	if provider == nil {
		return prompt
	}
	extra, err := provider(ctx)
	if err != nil {
		log.Warn("prompt context provider failed", "error", err)
		return prompt
	}
	if extra == "" {
		return prompt
	}
	return fmt.Sprintf("%s\n\n%s", extra, prompt)
}
