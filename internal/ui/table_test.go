package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/internal/theme"
	"github.com/vietdv277/kse/pkg/types"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestFieldTable(t *testing.T) {
	fields := []types.Field{
		{Key: "username", Value: "user", Size: 4},
		{Key: "cert", Value: "line1\nline2", Size: 11},
		{Key: "blob", Binary: true, Size: 3},
	}

	out := FieldTable(fields, NewStyles(theme.AssetsFor(theme.Light)), false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "│ KEY      │ VALUE        │ SIZE     │", lines[1])
	assert.Equal(t, "│ username │ user         │ 4 B      │", lines[3])
	assert.Equal(t, `│ cert     │ line1\nline2 │ 11 B     │`, lines[4])
	assert.Equal(t, "│ blob     │ (binary)     │ 3 B      │", lines[5])
	assert.Equal(t, "  3 fields (1 binary, read-only)", lines[7])
}

func TestFieldTableMasked(t *testing.T) {
	fields := []types.Field{{Key: "password", Value: "hunter2", Size: 7}}

	out := FieldTable(fields, NewStyles(theme.AssetsFor(theme.Dark)), true)
	assert.NotContains(t, out, "hunter2")
	assert.Contains(t, out, maskedValue)
}

func TestFieldTableTruncatesLongValues(t *testing.T) {
	long := strings.Repeat("x", maxValueWidth+20)
	out := FieldTable([]types.Field{{Key: "k", Value: long}}, NewStyles(theme.AssetsFor(theme.Light)), false)

	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

func TestHighlightKeepsText(t *testing.T) {
	doc, err := secret.Parse([]byte("kind: Secret\napiVersion: v1\ndata:\n  username: dXNlcg==\n"))
	require.NoError(t, err)
	text, err := doc.Render()
	require.NoError(t, err)

	for _, style := range []string{"github", "github-dark"} {
		out, err := Highlight(text, style)
		require.NoError(t, err)
		assert.Contains(t, out, "dXNlcg==")
		assert.Contains(t, out, "\x1b[", "expected terminal colors for %s", style)
	}
}

func TestBannerShowsToggleIcon(t *testing.T) {
	st := NewStyles(theme.AssetsFor(theme.Dark))
	out := Banner(st, "☀")

	assert.Contains(t, out, "☀ ctrl+t")
	assert.Greater(t, strings.Count(out, "\n"), 2)
}

func TestSecretTable(t *testing.T) {
	secrets := []types.Secret{
		{Name: "db", Type: "Opaque", Keys: 2},
		{Name: "tls", Keys: 1},
	}

	out := SecretTable(secrets, NewStyles(theme.AssetsFor(theme.Light)))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "│ NAME │ TYPE   │ KEYS │ CREATED │", lines[1])
	assert.Equal(t, "│ db   │ Opaque │ 2    │ -       │", lines[3])
	assert.Equal(t, "│ tls  │ -      │ 1    │ -       │", lines[4])
	assert.Equal(t, "  2 secrets", lines[6])
}

func TestProfileTableMarksActive(t *testing.T) {
	profiles := []types.AWSProfile{
		{Name: "default", Region: "eu-west-1", Source: "config"},
		{Name: "prod", Source: "credentials"},
	}

	out := ProfileTable(profiles, "prod", NewStyles(theme.AssetsFor(theme.Dark)))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "│   │ default │ eu-west-1 │ config      │", lines[3])
	assert.Equal(t, "│ ● │ prod    │ -         │ credentials │", lines[4])
}
