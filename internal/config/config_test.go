package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Namespace)
	assert.NotNil(t, cfg.Aliases)
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	cfg := &Config{
		Namespace:  "apps",
		AWSProfile: "prod",
		AWSRegion:  "eu-west-1",
		Aliases:    map[string]string{"db": "aws:/prod/db"},
	}
	require.NoError(t, SaveConfig(dir, cfg))

	info, err := os.Stat(GetConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(GetConfigPath(dir), []byte("namespace: [a"), 0600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestSetAlias(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetAlias(dir, "db", "kube:apps/db-credentials"))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "kube:apps/db-credentials", cfg.ResolveAlias("db"))
	assert.Equal(t, "other", cfg.ResolveAlias("other"))
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		target   string
		provider string
		name     string
	}{
		{"aws:/prod/db", "aws", "/prod/db"},
		{"kube:apps/db", "kube", "apps/db"},
		{"prod/db", "", "prod/db"},
		{"arn:aws:secretsmanager:eu-west-1:1:secret:db", "", "arn:aws:secretsmanager:eu-west-1:1:secret:db"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			provider, name := ParseTarget(tt.target)
			assert.Equal(t, tt.provider, provider)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestSplitNamespaced(t *testing.T) {
	ns, name := SplitNamespaced("apps/db", "default")
	assert.Equal(t, "apps", ns)
	assert.Equal(t, "db", name)

	ns, name = SplitNamespaced("db", "default")
	assert.Equal(t, "default", ns)
	assert.Equal(t, "db", name)
}
