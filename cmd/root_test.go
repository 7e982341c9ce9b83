package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/vietdv277/kse/internal/clipboard"
	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/kube"
	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/internal/ui"
	"github.com/vietdv277/kse/pkg/types"
)

const manifest = `apiVersion: v1
kind: Secret
metadata:
  name: db-credentials
data:
  username: dXNlcg==
  password: cGFzcw==
`

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// resetFlags clears values left over from earlier executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// session runs kse commands against one state directory.
type session struct {
	t   *testing.T
	dir string
}

func newSession(t *testing.T) *session {
	return &session{t: t, dir: t.TempDir()}
}

func (s *session) run(args ...string) (string, error) {
	return s.stdin("", args...)
}

func (s *session) stdin(in string, args ...string) (string, error) {
	return execute(s.t, in, append([]string{"--state-dir", s.dir}, args...)...)
}

func (s *session) preview() string {
	s.t.Helper()
	out, err := s.run("show", "--plain")
	require.NoError(s.t, err)
	return out
}

func TestLoadAndShow(t *testing.T) {
	s := newSession(t)
	path := filepath.Join(t.TempDir(), "secret.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0600))

	out, err := s.run("load", path)
	require.NoError(t, err)
	assert.Equal(t, "Loaded secret db-credentials (2 fields)\n", out)

	assert.Equal(t, manifest, s.preview())

	out, err = s.run("fields")
	require.NoError(t, err)
	assert.Contains(t, out, "│ username │ user  │ 4 B      │")
	assert.Contains(t, out, "  2 fields")
}

func TestLoadFromStdin(t *testing.T) {
	s := newSession(t)

	_, err := s.stdin(manifest, "load", "-")
	require.NoError(t, err)
	assert.Equal(t, manifest, s.preview())
}

func TestLoadRejectsConfigMap(t *testing.T) {
	s := newSession(t)
	_, err := s.stdin(manifest, "load", "-")
	require.NoError(t, err)

	_, err = s.stdin("apiVersion: v1\nkind: ConfigMap\n", "load", "-")
	assert.ErrorIs(t, err, secret.ErrNotSecret)

	_, err = s.stdin("data: [unclosed", "load", "-")
	assert.ErrorIs(t, err, secret.ErrParse)

	assert.Equal(t, manifest, s.preview())
}

func TestSetEncodesValue(t *testing.T) {
	s := newSession(t)
	_, err := s.stdin(manifest, "load", "-")
	require.NoError(t, err)

	out, err := s.run("set", "username", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Updated data.username\n", out)
	assert.Contains(t, s.preview(), "username: YWRtaW4=\n")

	_, err = s.stdin("line1\nline2\n", "set", "password", "--stdin")
	require.NoError(t, err)
	assert.Contains(t, s.preview(), "password: bGluZTEKbGluZTIK\n")

	_, err = s.run("set", "missing", "x")
	assert.ErrorIs(t, err, secret.ErrUnknownField)

	_, err = s.run("set", "username")
	assert.Error(t, err)
}

func TestCommandsNeedADocument(t *testing.T) {
	s := newSession(t)

	for _, args := range [][]string{{"show"}, {"fields"}, {"copy"}, {"download"}, {"apply"}, {"set", "k", "v"}} {
		_, err := s.run(args...)
		assert.ErrorIs(t, err, editor.ErrNoDocument, "kse %s", strings.Join(args, " "))
	}
}

func TestCopyAndDownload(t *testing.T) {
	clip := &clipboard.Memory{}
	clipboardWriter = clip
	t.Cleanup(func() { clipboardWriter = clipboard.System{} })

	s := newSession(t)
	_, err := s.stdin(manifest, "load", "-")
	require.NoError(t, err)

	out, err := s.run("copy")
	require.NoError(t, err)
	assert.Equal(t, ui.MsgCopied+"\n", out)
	assert.Equal(t, manifest, clip.Text)

	dir := t.TempDir()
	out, err = s.run("download", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, ui.MsgDownloaded)

	data, err := os.ReadFile(filepath.Join(dir, editor.DownloadName))
	require.NoError(t, err)
	assert.Equal(t, manifest, string(data))
}

func TestThemeCommand(t *testing.T) {
	s := newSession(t)

	out, err := s.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light ☾\n", out)

	out, err = s.run("theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark ☀\n", out)

	out, err = s.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark ☀\n", out)

	out, err = s.run("theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light ☾\n", out)

	_, err = s.run("theme", "sepia")
	assert.Error(t, err)
}

func TestResetKeepsTheme(t *testing.T) {
	s := newSession(t)
	_, err := s.stdin(manifest, "load", "-")
	require.NoError(t, err)
	_, err = s.run("theme", "dark")
	require.NoError(t, err)

	_, err = s.run("reset")
	require.NoError(t, err)

	_, err = s.run("show")
	assert.ErrorIs(t, err, editor.ErrNoDocument)

	out, err := s.run("theme")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark ☀\n", out)
}

func TestStatus(t *testing.T) {
	s := newSession(t)

	out, err := s.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret:    (none)")
	assert.Contains(t, out, "Cluster namespace: default")

	_, err = s.stdin(manifest, "load", "-")
	require.NoError(t, err)
	out, err = s.run("status", "-n", "apps")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret:    db-credentials")
	assert.Contains(t, out, "Fields:    2")
	assert.Contains(t, out, "Cluster namespace: apps")
}

func fakeCluster(t *testing.T, objects ...*corev1.Secret) *fake.Clientset {
	t.Helper()
	clientset := fake.NewSimpleClientset()
	for _, obj := range objects {
		_, err := clientset.CoreV1().Secrets(obj.Namespace).Create(context.Background(), obj, metav1.CreateOptions{})
		require.NoError(t, err)
	}

	newKubeClient = func(_, namespace string) (*kube.Client, error) {
		return &kube.Client{ClientSet: clientset, Namespace: namespace}, nil
	}
	t.Cleanup(func() { newKubeClient = kube.NewClient })
	return clientset
}

func clusterSecret() *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "db", Namespace: "apps"},
		Type:       corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			"username": []byte("user"),
			"password": []byte("pass"),
		},
	}
}

func TestPullAndApply(t *testing.T) {
	clientset := fakeCluster(t, clusterSecret())
	s := newSession(t)

	out, err := s.run("pull", "apps/db")
	require.NoError(t, err)
	assert.Equal(t, "Pulled db from kubernetes (2 fields)\n", out)

	_, err = s.run("set", "password", "rotated")
	require.NoError(t, err)

	out, err = s.run("apply")
	require.NoError(t, err)
	assert.Equal(t, "secret/db updated in apps (2 keys)\n", out)

	got, err := clientset.CoreV1().Secrets("apps").Get(context.Background(), "db", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("rotated"), got.Data["password"])

	out, err = s.run("apply", "-n", "staging")
	require.NoError(t, err)
	assert.Equal(t, "secret/db created in staging (2 keys)\n", out)
}

func TestPullUsesNamespaceFlag(t *testing.T) {
	fakeCluster(t, clusterSecret())
	s := newSession(t)

	_, err := s.run("pull", "db")
	assert.Error(t, err)

	_, err = s.run("pull", "db", "-n", "apps")
	require.NoError(t, err)
}

func TestPullWithSelector(t *testing.T) {
	fakeCluster(t, clusterSecret())

	var offered []types.Secret
	selectSecret = func(secrets []types.Secret, _ ui.Styles) (*types.Secret, error) {
		offered = secrets
		return &secrets[0], nil
	}
	t.Cleanup(func() { selectSecret = ui.SelectSecret })

	s := newSession(t)
	_, err := s.run("pull", "-n", "apps")
	require.NoError(t, err)
	require.Len(t, offered, 1)
	assert.Contains(t, s.preview(), "name: db\n")
}

func TestPullThroughAlias(t *testing.T) {
	fakeCluster(t, clusterSecret())
	s := newSession(t)

	out, err := s.run("alias", "prod-db", "kube:apps/db")
	require.NoError(t, err)
	assert.Equal(t, "Alias prod-db -> kube:apps/db\n", out)

	out, err = s.run("alias")
	require.NoError(t, err)
	assert.Contains(t, out, "prod-db")

	_, err = s.run("pull", "prod-db")
	require.NoError(t, err)
	assert.Contains(t, s.preview(), "namespace: apps\n")
}

func TestList(t *testing.T) {
	fakeCluster(t, clusterSecret())
	s := newSession(t)

	out, err := s.run("list", "-n", "apps")
	require.NoError(t, err)
	assert.Contains(t, out, "│ db   │ Opaque │ 2    │")

	out, err = s.run("list", "-n", "empty")
	require.NoError(t, err)
	assert.Equal(t, "No secrets found\n", out)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}
