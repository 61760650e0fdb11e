package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWorkspaceFirstDirectoryBecomesRoot(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	file := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	root, files, err := resolveWorkspace([]string{file, sub})
	require.NoError(t, err)
	assert.Equal(t, sub, root)
	assert.Equal(t, []string{file}, files)
}

func TestResolveWorkspaceNoDirectoryFallsBackToCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

	root, files, err := resolveWorkspace([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
	assert.Equal(t, []string{a, b}, files)
}

func TestResolveWorkspaceNonexistentPathTreatedAsFile(t *testing.T) {
	dir := t.TempDir()
	newFile := filepath.Join(dir, "new.txt")

	root, files, err := resolveWorkspace([]string{dir, newFile})
	require.NoError(t, err)
	assert.Equal(t, dir, root)
	assert.Equal(t, []string{newFile}, files)
}

func TestResolveWorkspaceEmptyPathsFallsBackToCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, files, err := resolveWorkspace(nil)
	require.NoError(t, err)
	assert.Equal(t, cwd, root)
	assert.Empty(t, files)
}
