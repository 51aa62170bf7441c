package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestInstallRoutesGlobalLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	restore := Install(New(path, false))

	zap.S().Infow("query submitted", "seq", 3)
	zap.S().Debugw("hidden at info level")
	restore()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "query submitted", entries[0]["msg"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.EqualValues(t, 3, entries[0]["seq"])
	assert.Contains(t, entries[0], "timestamp")
}

func TestDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	l := New(path, true)
	l.Debug("verbose detail")
	require.NoError(t, l.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
}
