// Command gemini-mcp serves the gemini tool over MCP stdio.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jakvbs/gemini-mcp/gemini"
	"github.com/jakvbs/gemini-mcp/server"
)

var (
	configPath        string
	geminiBin         string
	model             string
	workDir           string
	yolo              bool
	returnAllMessages bool
	verbose           bool
)

var rootCmd = &cobra.Command{
	Use:   "gemini-mcp",
	Short: "MCP server wrapping the Gemini CLI",
	Long: `gemini-mcp exposes a single MCP tool that invokes the Gemini CLI,
streams its JSON events, and returns the assistant response together with a
session identifier for conversation continuity.

The server speaks MCP over stdin/stdout; all diagnostics go to stderr.`,
	Version:      server.Version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		slog.SetDefault(log)

		cfg := loadConfig(log)

		srv := server.New(cfg)
		return srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to gemini-mcp.config.json (default: $GEMINI_MCP_CONFIG_PATH, else CWD)")
	rootCmd.Flags().StringVar(&geminiBin, "gemini-bin", "", "Gemini CLI binary (default: $GEMINI_BIN, else \"gemini\")")
	rootCmd.Flags().StringVar(&model, "model", "", "Model override passed to the CLI")
	rootCmd.Flags().StringVar(&workDir, "workdir", "", "Working directory for CLI invocations")
	rootCmd.Flags().BoolVar(&yolo, "yolo", false, "Enable the CLI's auto-approval mode")
	rootCmd.Flags().BoolVar(&returnAllMessages, "return-all-messages", false, "Include every decoded event in tool responses")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a structured logger with the configured verbosity.
// Stdout carries the MCP transport, so logs always go to stderr.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig merges the config file with command-line flags.
func loadConfig(log *slog.Logger) server.Config {
	var fileCfg *gemini.ServerConfig
	if configPath != "" {
		fileCfg = gemini.LoadServerConfig(configPath, log)
	} else {
		fileCfg = gemini.DefaultServerConfig()
	}

	return server.Config{
		Logger:            log,
		CLIPath:           geminiBin,
		Model:             model,
		WorkDir:           workDir,
		AdditionalArgs:    fileCfg.AdditionalArgs,
		Timeout:           fileCfg.Timeout(),
		YOLO:              yolo,
		ReturnAllMessages: returnAllMessages,
	}
}
