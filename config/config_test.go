package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "/etc/yated/secrets.toml")
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, c.Listen)
	assert.Equal(t, DefaultName, c.Name)
	assert.Equal(t, "/etc/yated/secrets.toml", c.Secrets)
	assert.Empty(t, c.Folder)
	assert.Empty(t, c.Worksheet)
	assert.False(t, c.Debug)

	require.Error(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yated.toml")
	contents := `
listen = ":9000"
folder = "1AbCdEfGh"
name = "participants"
worksheet = "Staff"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	c, err := Load(path, "secrets.toml")
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Listen)
	assert.Equal(t, "1AbCdEfGh", c.Folder)
	assert.Equal(t, "participants", c.Name)
	assert.Equal(t, "Staff", c.Worksheet)
	assert.Equal(t, "secrets.toml", c.Secrets)
	require.NoError(t, c.Validate())
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yated.toml")
	require.NoError(t, os.WriteFile(path, []byte(`folder = "from-file"`), 0o600))

	t.Setenv("YATED_FOLDER", "from-env")
	t.Setenv("YATED_DEBUG", "true")

	c, err := Load(path, "secrets.toml")
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.Folder)
	assert.True(t, c.Debug)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yated.toml")
	require.NoError(t, os.WriteFile(path, []byte(`folder = `), 0o600))

	_, err := Load(path, "secrets.toml")
	require.Error(t, err)
}
