package lang_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/config"
	"github.com/kitedit/kite/pkg/lang"
)

func TestFindProjectRootWalksUpToMarker(t *testing.T) {
	dir := t.TempDir()
	goModDir := dir + "/project"
	nested := goModDir + "/src/pkg"
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(goModDir+"/go.mod", []byte("module example\n"), 0o644))

	root, ok := config.FindProjectRoot(nested, []string{"go.mod"})
	assert.True(t, ok)
	assert.Equal(t, goModDir, root)
}

func TestFindProjectRootFailsWithNoMarkerOrGitBoundary(t *testing.T) {
	dir := t.TempDir()
	_, ok := config.FindProjectRoot(dir, []string{"Cargo.toml"})
	assert.False(t, ok)
}

func TestDiscoverScopesFindsGoModRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/go.mod", []byte("module example\n"), 0o644))

	scopes := lang.DiscoverScopes(dir)
	require.Len(t, scopes, 1)
	assert.Equal(t, "go", scopes[0].Language)
	assert.Equal(t, "go", scopes[0].HandlerID)
	assert.Equal(t, ".", scopes[0].RelativePath)
}

func TestDiscoverScopesFindsBothRootMarkersPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/go.mod", []byte("module example\n"), 0o644))
	require.NoError(t, os.WriteFile(dir+"/Cargo.toml", []byte("[package]\n"), 0o644))

	scopes := lang.DiscoverScopes(dir)
	langs := map[string]bool{}
	for _, s := range scopes {
		langs[s.Language] = true
	}
	assert.True(t, langs["go"])
	assert.True(t, langs["rust"])
}

func TestDiscoverScopesEmptyWhenNoMarkerPresent(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, lang.DiscoverScopes(dir))
}
