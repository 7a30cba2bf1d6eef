package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/penwyp/go-phase-monitor/internal/data/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pressCSV = "time;phase;value\n08:00:00;VAR_StartZeit;1\n"

func TestDownloadToFile(t *testing.T) {
	server := newServer(t)
	server.SetLog("Press", pressCSV)
	path := filepath.Join(t.TempDir(), "press.csv")

	out, _, err := executeCommand(t, server, "download", "Press", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, pressCSV, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging file must be cleaned up")
}

func TestDownloadToStdout(t *testing.T) {
	server := newServer(t)
	server.SetLog("Press", pressCSV)

	out, _, err := executeCommand(t, server, "download", "Press", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, pressCSV, out)
}

func TestDownloadUnknownStation(t *testing.T) {
	server := newServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ghost.csv")

	_, _, err := executeCommand(t, server, "download", "Ghost", "-o", path)
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file on failure")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
