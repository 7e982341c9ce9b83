package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(t.TempDir())

	v, ok, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	yamlText := "kind: Secret\napiVersion: v1\ndata:\n  username: dXNlcg==\n"

	s := NewFileStore(dir)
	require.NoError(t, s.SetAll(map[string]string{
		KeyYAML:   yamlText,
		KeySecret: `{"kind":"Secret"}`,
	}))
	require.NoError(t, s.Set(KeyTheme, "dark"))

	reopened := NewFileStore(dir)
	for key, want := range map[string]string{
		KeyYAML:   yamlText,
		KeySecret: `{"kind":"Secret"}`,
		KeyTheme:  "dark",
	} {
		got, ok, err := reopened.Get(key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	info, err := os.Stat(reopened.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreDelete(t *testing.T) {
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.SetAll(map[string]string{KeyYAML: "a", KeyTheme: "light"}))
	require.NoError(t, s.Delete(KeyYAML, "never-set"))

	_, ok, err := s.Get(KeyYAML)
	require.NoError(t, err)
	assert.False(t, ok)

	theme, ok, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", theme)
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("- not\n- a map\n"), 0600))

	_, _, err := s.Get(KeyTheme)
	assert.ErrorIs(t, err, ErrCorrupt)

	// writes replace the corrupt file
	require.NoError(t, s.Set(KeyTheme, "dark"))
	theme, ok, err := s.Get(KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set(KeyTheme, "dark"))
	require.NoError(t, s.SetAll(map[string]string{KeyYAML: "x", KeySecret: "{}"}))

	v, ok, err := s.Get(KeyYAML)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	require.NoError(t, s.Delete(KeyYAML))
	_, ok, _ = s.Get(KeyYAML)
	assert.False(t, ok)
}
