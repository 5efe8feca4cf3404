// Package gemini supervises one-shot invocations of the Gemini CLI.
//
// Each call to Run spawns the CLI with stream-json output, drains stdout and
// stderr concurrently under a deadline, classifies every JSON line into an
// accumulated Result, and reconciles the exit status into a single composed
// outcome. The CLI is always reaped before Run returns, including on the
// timeout path.
//
// # Quick Start
//
//	result, err := gemini.Run(ctx, "Summarize this repo")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("session=%s\n%s\n", result.SessionID, result.AgentMessages)
//
// # Resuming a conversation
//
//	result, err := gemini.Run(ctx, "Now refactor it",
//	    gemini.WithSessionID(previous.SessionID),
//	)
//
// Server-level configuration (additional CLI arguments, timeout) is loaded
// from gemini-mcp.config.json via LoadServerConfig and injected through
// options; Run itself holds no global state.
package gemini
