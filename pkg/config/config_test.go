package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`theme = "solarized"`+"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "solarized", cfg.Theme)
	assert.Equal(t, config.DefaultConfig().Editor, cfg.Editor)
}

func TestReconfigureBacksUpExistingConfigAndWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`theme = "custom"`+"\n"), 0o644))

	require.NoError(t, config.Reconfigure(path))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "custom")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestReconfigureWithNoExistingConfigJustWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.Reconfigure(path))

	_, err := os.Stat(path + ".bak")
	assert.True(t, os.IsNotExist(err))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadWorkspaceParsesScopeInventory(t *testing.T) {
	dir := t.TempDir()
	doc := `
exclude = ["target"]

[[scope]]
language = "go"
relative_path = "."

[[scope]]
language = "rust"
relative_path = "crates/cli"
handler_id = "rust"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "workspace.toml"), []byte(doc), 0o644))

	ws, err := config.LoadWorkspace(dir)
	require.NoError(t, err)
	require.NotNil(t, ws)
	assert.Equal(t, []string{"target"}, ws.ExcludeGlobs)
	require.Len(t, ws.Scopes, 2)
	assert.Equal(t, config.Scope{Language: "go", RelativePath: "."}, ws.Scopes[0])
	assert.Equal(t, config.Scope{Language: "rust", RelativePath: "crates/cli", HandlerID: "rust"}, ws.Scopes[1])
}

func TestLoadWorkspaceMissingFileReturnsNil(t *testing.T) {
	ws, err := config.LoadWorkspace(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, ws)
}
