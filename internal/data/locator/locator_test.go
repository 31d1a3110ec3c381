package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
}

func TestLocateExplicitDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "proj", "sess", "usage.jsonl"))
	writeFile(t, filepath.Join(dir, "proj", "sess", "notes.txt"))
	writeFile(t, filepath.Join(dir, "other", "more.JSONL"))

	l := New([]string{dir}, ClaudeLayout)
	refs, err := l.Locate()
	require.NoError(t, err)
	require.Len(t, refs, 2)
	for _, ref := range refs {
		assert.Equal(t, dir, ref.BaseDir)
	}
}

func TestResolveRootsDeduplicates(t *testing.T) {
	dir := t.TempDir()

	l := New([]string{dir, dir, dir + string(filepath.Separator)}, ClaudeLayout)
	roots, err := l.ResolveRoots()
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestResolveRootsEnvOverride(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	t.Setenv(EnvConfigDir, dirA+","+dirB)

	l := New(nil, ClaudeLayout)
	roots, err := l.ResolveRoots()
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestResolveRootsEnvOverridePartial(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir+",/definitely/not/a/dir")

	l := New(nil, ClaudeLayout)
	roots, err := l.ResolveRoots()
	require.NoError(t, err)
	assert.Len(t, roots, 1)
}

func TestResolveRootsEnvOverrideAllMissing(t *testing.T) {
	t.Setenv(EnvConfigDir, "/definitely/not/a/dir,/also/missing")

	l := New(nil, ClaudeLayout)
	_, err := l.ResolveRoots()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfigDir)
}

func TestResolveRootsExplicitBeatsEnv(t *testing.T) {
	explicit := t.TempDir()
	t.Setenv(EnvConfigDir, "/definitely/not/a/dir")

	l := New([]string{explicit}, ClaudeLayout)
	roots, err := l.ResolveRoots()
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, explicit, roots[0])
}

func TestCodexLayoutEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sess", "rollout.jsonl"))
	t.Setenv(CodexLayout.EnvVar, dir)

	l := New(nil, CodexLayout)
	refs, err := l.Locate()
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestLocateMissingExplicitDir(t *testing.T) {
	l := New([]string{filepath.Join(t.TempDir(), "missing")}, ClaudeLayout)
	refs, err := l.Locate()
	require.NoError(t, err)
	assert.Empty(t, refs)
}
