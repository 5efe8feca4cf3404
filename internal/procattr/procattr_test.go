package procattr

import (
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ConfiguresProcessGroup(t *testing.T) {
	t.Parallel()
	cmd := exec.Command("echo", "test")
	require.Nil(t, cmd.SysProcAttr)

	Set(cmd)

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
}

func TestSignalGroup_NilProcess(t *testing.T) {
	t.Parallel()
	assert.NoError(t, SignalGroup(nil, syscall.SIGTERM))
}

func TestKillGroup_NilProcess(t *testing.T) {
	t.Parallel()
	assert.NoError(t, KillGroup(nil))
}

func TestKillGroup_RunningProcess(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("sleep", "60")
	Set(cmd)
	require.NoError(t, cmd.Start())

	require.NoError(t, KillGroup(cmd.Process))
	_ = cmd.Wait()
}
