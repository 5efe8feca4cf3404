package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCLIArgs_Basic(t *testing.T) {
	t.Parallel()
	pm := newProcessManager("test prompt", defaultInvocationConfig())

	args := pm.BuildCLIArgs()

	assert.Equal(t, []string{"-o", "stream-json", "test prompt"}, args)
}

func TestBuildCLIArgs_Resume(t *testing.T) {
	t.Parallel()
	config := defaultInvocationConfig()
	config.SessionID = "abc-123"
	pm := newProcessManager("resume task", config)

	args := pm.BuildCLIArgs()

	assert.Equal(t, []string{
		"-o", "stream-json",
		"--prompt", "resume task",
		"--resume", "abc-123",
	}, args)
}

func TestBuildCLIArgs_AllOptions(t *testing.T) {
	t.Parallel()
	config := defaultInvocationConfig()
	config.Model = "gemini-pro"
	config.YOLO = true
	config.AdditionalArgs = []string{"--sandbox", "--debug"}
	pm := newProcessManager("complex prompt", config)

	args := pm.BuildCLIArgs()

	assert.Equal(t, []string{
		"-o", "stream-json",
		"--model", "gemini-pro",
		"--yolo",
		"--sandbox", "--debug",
		"complex prompt",
	}, args)
}

func TestBinPath_OptionWinsOverEnv(t *testing.T) {
	t.Setenv(binPathEnv, "/env/gemini")

	config := defaultInvocationConfig()
	config.CLIPath = "/opt/gemini"
	pm := newProcessManager("p", config)

	assert.Equal(t, "/opt/gemini", pm.binPath())
}

func TestBinPath_EnvOverride(t *testing.T) {
	t.Setenv(binPathEnv, "/env/gemini")

	pm := newProcessManager("p", defaultInvocationConfig())

	assert.Equal(t, "/env/gemini", pm.binPath())
}

func TestBinPath_Default(t *testing.T) {
	t.Setenv(binPathEnv, "")

	pm := newProcessManager("p", defaultInvocationConfig())

	assert.Equal(t, defaultBinName, pm.binPath())
}
