package gemini

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout is the invocation deadline when none is configured.
	DefaultTimeout = 600 * time.Second
	// MaxTimeout is the ceiling any configured deadline is clamped to.
	MaxTimeout = 3600 * time.Second

	configPathEnv     = "GEMINI_MCP_CONFIG_PATH"
	defaultConfigFile = "gemini-mcp.config.json"
	yamlConfigFile    = "gemini-mcp.config.yaml"
)

// ServerConfig holds process-wide configuration loaded from
// gemini-mcp.config.json (or its .yaml sibling).
type ServerConfig struct {
	AdditionalArgs []string `json:"additional_args" yaml:"additional_args"`
	TimeoutSecs    int64    `json:"timeout_secs" yaml:"timeout_secs"`
}

// Timeout returns the configured deadline clamped to (0, MaxTimeout],
// falling back to DefaultTimeout when unset or non-positive.
func (c *ServerConfig) Timeout() time.Duration {
	secs := c.TimeoutSecs
	switch {
	case secs > 0 && time.Duration(secs)*time.Second <= MaxTimeout:
		return time.Duration(secs) * time.Second
	case time.Duration(secs)*time.Second > MaxTimeout:
		return MaxTimeout
	default:
		return DefaultTimeout
	}
}

// resolveConfigPath returns the configuration file path: the
// GEMINI_MCP_CONFIG_PATH environment override when set, else the default
// file name in the current working directory. When the default JSON file is
// absent but a YAML sibling exists, the YAML file is used.
func resolveConfigPath() string {
	if envPath := strings.TrimSpace(os.Getenv(configPathEnv)); envPath != "" {
		return envPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		return defaultConfigFile
	}

	jsonPath := filepath.Join(cwd, defaultConfigFile)
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath
	}
	yamlPath := filepath.Join(cwd, yamlConfigFile)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return jsonPath
}

// LoadServerConfig loads the server configuration from path. A missing file
// yields an empty config; a malformed one is logged and treated as empty.
func LoadServerConfig(path string, log *slog.Logger) *ServerConfig {
	if log == nil {
		log = slog.Default()
	}

	cfg := &ServerConfig{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg
	}
	if err != nil {
		log.Warn("failed to read config", "path", path, "error", err)
		return cfg
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		log.Warn("failed to parse config", "path", path, "error", err)
		return &ServerConfig{}
	}

	cfg.AdditionalArgs = cleanArgs(cfg.AdditionalArgs)
	return cfg
}

// cleanArgs trims each argument and drops empties.
func cleanArgs(args []string) []string {
	cleaned := make([]string, 0, len(args))
	for _, a := range args {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

// DefaultServerConfig resolves and loads the server configuration once per
// process and caches it.
var DefaultServerConfig = sync.OnceValue(func() *ServerConfig {
	return LoadServerConfig(resolveConfigPath(), slog.Default())
})
