package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usr/lib/systemd/system/pageturner.service")
	require.NoError(t, writeUnit(path, "/usr/bin/pageturner", "/etc/pageturner.conf"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ExecStart=/usr/bin/pageturner run -c /etc/pageturner.conf")
	assert.Contains(t, string(data), "After=bluetooth.service")
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc/pageturner.conf")

	wrote, err := writeDefaultConfig(path, false)
	require.NoError(t, err)
	assert.True(t, wrote)

	require.NoError(t, os.WriteFile(path, []byte("GPIO = \"periph\"\n"), 0644))
	wrote, err = writeDefaultConfig(path, false)
	require.NoError(t, err)
	assert.False(t, wrote, "existing config is kept")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "periph", c.GPIO)

	wrote, err = writeDefaultConfig(path, true)
	require.NoError(t, err)
	assert.True(t, wrote)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configFile, string(data))
}
