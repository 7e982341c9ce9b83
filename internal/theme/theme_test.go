package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/kse/internal/store"
)

type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestDefaultIsLight(t *testing.T) {
	s := store.NewMemoryStore()
	c := New(s)

	assert.Equal(t, Light, c.Mode())
	assert.Equal(t, "☾", c.Assets().Icon)
	assert.Equal(t, "github", c.Assets().Highlight)

	_, ok, _ := s.Get(store.KeyTheme)
	assert.False(t, ok, "default must not be written back")
}

func TestRestoresStoredPreference(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(store.KeyTheme, "dark"))

	c := New(s)
	assert.Equal(t, Dark, c.Mode())
	assert.Equal(t, "☀", c.Assets().Icon)
	assert.Equal(t, "github-dark", c.Assets().Highlight)
}

func TestUnknownStoredPreferenceFallsBack(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(store.KeyTheme, "solarized"))

	assert.Equal(t, Light, New(s).Mode())
}

func TestToggleRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	c := New(s)
	original := c.Assets()

	mode, err := c.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, mode)
	assert.NotEqual(t, original, c.Assets())
	stored, _, _ := s.Get(store.KeyTheme)
	assert.Equal(t, "dark", stored)

	mode, err = c.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, mode)
	assert.Equal(t, original, c.Assets())
	stored, _, _ = s.Get(store.KeyTheme)
	assert.Equal(t, "light", stored)
}

func TestToggleKeepsModeWhenSaveFails(t *testing.T) {
	c := New(failingStore{store.NewMemoryStore()})

	mode, err := c.Toggle()
	assert.Error(t, err)
	assert.Equal(t, Light, mode)
	assert.Equal(t, Light, c.Mode())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, m)

	_, err = ParseMode("Dark")
	assert.Error(t, err)
}
