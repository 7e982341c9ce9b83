package aws

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/kse/pkg/types"
)

func TestListProfiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials"), []byte(`
[prod]
aws_access_key_id = AKIA
[default]
aws_access_key_id = AKIB
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte(`
# shared config
[default]
region = eu-west-1
[profile prod]
region = us-east-1
[profile dev]
sso_session = corp
[sso-session corp]
sso_region = eu-west-1
`), 0600))

	profiles, err := ListProfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []types.AWSProfile{
		{Name: "default", Region: "eu-west-1", Source: "credentials"},
		{Name: "dev", Source: "config"},
		{Name: "prod", Region: "us-east-1", Source: "credentials"},
	}, profiles)

	assert.True(t, HasProfile(dir, "dev"))
	assert.False(t, HasProfile(dir, "corp"))
}

func TestListProfilesWithoutFiles(t *testing.T) {
	profiles, err := ListProfiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
