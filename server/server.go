// Package server assembles the MCP server that exposes the gemini tool.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jakvbs/gemini-mcp/gemini"
	"github.com/jakvbs/gemini-mcp/mcp"
)

// Version is the server version reported during MCP initialization.
const Version = "0.2.0"

const serverInstructions = "This server provides a gemini tool for AI-driven tasks. " +
	"Use the gemini tool to execute tasks via the Gemini CLI."

const toolDescription = "Invokes the Gemini CLI to execute AI-driven tasks, " +
	"returning structured JSON events and a session identifier for conversation continuity."

// Config holds server-level settings applied to every gemini invocation.
type Config struct {
	Logger            *slog.Logger
	CLIPath           string
	Model             string
	WorkDir           string
	AdditionalArgs    []string
	Timeout           time.Duration
	YOLO              bool
	ReturnAllMessages bool
}

// GeminiArgs are the input parameters of the gemini tool.
type GeminiArgs struct {
	// Prompt is the instruction for the task to send to gemini.
	Prompt string `json:"PROMPT" jsonschema:"required,description=Instruction for the task to send to gemini"`
	// SessionID resumes a prior gemini session when non-empty.
	SessionID string `json:"SESSION_ID,omitempty" jsonschema:"description=Resume the specified session of the gemini; if not provided or empty a new session is started"`
}

// New creates the MCP server with the gemini tool registered.
func New(cfg Config) *mcp.Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	registry := mcp.NewToolRegistry()
	mcp.AddTool(registry, "gemini", toolDescription,
		func(ctx context.Context, args GeminiArgs) (*mcp.ToolCallResult, error) {
			return runGemini(ctx, cfg, log, args)
		})

	return mcp.NewServer(
		mcp.ServerInfo{Name: "gemini-mcp", Version: Version},
		serverInstructions,
		registry,
		log,
	)
}

// runGemini executes one tool call against the Gemini CLI.
func runGemini(ctx context.Context, cfg Config, log *slog.Logger, args GeminiArgs) (*mcp.ToolCallResult, error) {
	if strings.TrimSpace(args.Prompt) == "" {
		return nil, mcp.InvalidParams("PROMPT is required and must be a non-empty, non-whitespace string")
	}

	opts := []gemini.Option{
		gemini.WithLogger(log),
		gemini.WithAdditionalArgs(cfg.AdditionalArgs...),
		gemini.WithTimeout(cfg.Timeout),
	}
	if args.SessionID != "" {
		opts = append(opts, gemini.WithSessionID(args.SessionID))
	}
	if cfg.CLIPath != "" {
		opts = append(opts, gemini.WithCLIPath(cfg.CLIPath))
	}
	if cfg.Model != "" {
		opts = append(opts, gemini.WithModel(cfg.Model))
	}
	if cfg.WorkDir != "" {
		opts = append(opts, gemini.WithWorkDir(cfg.WorkDir))
	}
	if cfg.YOLO {
		opts = append(opts, gemini.WithYOLO())
	}
	if cfg.ReturnAllMessages {
		opts = append(opts, gemini.WithReturnAllMessages())
	}

	result, err := gemini.Run(ctx, args.Prompt, opts...)
	if err != nil {
		return nil, mcp.InternalError(fmt.Sprintf("Failed to execute gemini: %v", err))
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, mcp.InternalError(msg)
	}

	return mcp.TextResult(formatResponse(result, cfg.ReturnAllMessages)), nil
}

// formatResponse renders the tool's text payload.
func formatResponse(result *gemini.Result, includeAll bool) string {
	text := fmt.Sprintf("success: true\nSESSION_ID: %s\nagent_messages: %s",
		result.SessionID, result.AgentMessages)

	if includeAll {
		if encoded, err := json.Marshal(result.AllMessages); err == nil {
			text += "\nall_messages: " + string(encoded)
		}
	}

	return text
}
