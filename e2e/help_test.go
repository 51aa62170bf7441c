//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat(binPath); os.IsNotExist(err) {
		t.Skip("Test binary not found - TestMain may not have run yet")
	}

	// Run directly, not through a PTY, since it exits immediately
	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	assert.Contains(t, output, "Usage:")
	assert.Contains(t, output, "--endpoint")
	assert.Contains(t, output, "exec")
	assert.Contains(t, output, "select")
	assert.Contains(t, output, "config")
}

func TestExecSubcommand(t *testing.T) {
	t.Parallel()
	srv, bodies := recordingServer(t)

	cmd := exec.Command(binPath, "--config", t.TempDir()+"/none.toml", "--endpoint", srv.URL, "exec", "--pretty", "select 1")
	cmd.Dir = t.TempDir()
	out, err := cmd.Output()
	require.NoError(t, err)

	assert.Contains(t, string(out), "\"Name\": \"Ann\"")
	assert.Equal(t, []string{"select 1"}, bodies())
}
