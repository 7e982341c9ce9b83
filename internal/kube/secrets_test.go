package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/pkg/provider"
)

func newFakeClient(objects ...*corev1.Secret) *Client {
	clientset := fake.NewSimpleClientset()
	for _, obj := range objects {
		_, _ = clientset.CoreV1().Secrets(obj.Namespace).Create(context.Background(), obj, metav1.CreateOptions{})
	}
	return &Client{ClientSet: clientset, Namespace: "apps"}
}

func dbSecret() *corev1.Secret {
	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "db",
			Namespace: "apps",
			Labels:    map[string]string{"app": "web"},
		},
		Type: corev1.SecretTypeOpaque,
		Data: map[string][]byte{
			"username": []byte("user"),
			"password": []byte("pass"),
		},
	}
}

func TestPull(t *testing.T) {
	client := newFakeClient(dbSecret())

	out, err := client.Pull(context.Background(), "", "db")
	require.NoError(t, err)
	assert.Equal(t, `apiVersion: v1
kind: Secret
metadata:
  name: db
  namespace: apps
  labels:
    app: web
type: Opaque
data:
  password: cGFzcw==
  username: dXNlcg==
`, string(out))

	doc, err := secret.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "db", doc.Name())
}

func TestFetchNamespacedRef(t *testing.T) {
	other := dbSecret()
	other.Namespace = "billing"
	client := newFakeClient(other)

	_, err := client.Fetch(context.Background(), "db")
	assert.ErrorIs(t, err, provider.ErrNotFound)

	out, err := client.Fetch(context.Background(), "billing/db")
	require.NoError(t, err)
	assert.Contains(t, string(out), "namespace: billing\n")
}

func TestApplyCreates(t *testing.T) {
	client := newFakeClient()
	manifest := []byte("apiVersion: v1\nkind: Secret\nmetadata:\n  name: api\ndata:\n  token: dG9r\n")

	result, err := client.Publish(context.Background(), "", manifest)
	require.NoError(t, err)
	assert.Equal(t, "created", result.Action)
	assert.Equal(t, "apps", result.Namespace)
	assert.Equal(t, 1, result.Keys)

	got, err := client.ClientSet.CoreV1().Secrets("apps").Get(context.Background(), "api", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, []byte("tok"), got.Data["token"])
}

func TestApplyUpdates(t *testing.T) {
	client := newFakeClient(dbSecret())
	doc, err := secret.Parse([]byte(`apiVersion: v1
kind: Secret
metadata:
  name: db
  namespace: apps
  annotations:
    owner: team-a
data:
  username: YWRtaW4
`))
	require.NoError(t, err)

	result, err := client.Apply(context.Background(), "", "", doc)
	require.NoError(t, err)
	assert.Equal(t, "updated", result.Action)

	got, err := client.ClientSet.CoreV1().Secrets("apps").Get(context.Background(), "db", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"username": []byte("admin")}, got.Data)
	assert.Equal(t, "team-a", got.Annotations["owner"])
	assert.Empty(t, got.Labels)
	assert.Equal(t, corev1.SecretTypeOpaque, got.Type)
}

func TestApplyOverridesTarget(t *testing.T) {
	client := newFakeClient()
	manifest := []byte("apiVersion: v1\nkind: Secret\nmetadata:\n  name: api\n  namespace: apps\n")

	result, err := client.Publish(context.Background(), "staging/api-copy", manifest)
	require.NoError(t, err)
	assert.Equal(t, "staging", result.Namespace)
	assert.Equal(t, "api-copy", result.Name)
}

func TestApplyRequiresName(t *testing.T) {
	client := newFakeClient()

	_, err := client.Publish(context.Background(), "", []byte("apiVersion: v1\nkind: Secret\n"))
	assert.ErrorIs(t, err, ErrNoName)

	_, err = client.Publish(context.Background(), "", []byte("kind: ConfigMap\napiVersion: v1\n"))
	assert.ErrorIs(t, err, secret.ErrNotSecret)
}

func TestToSecretKeepsStringDataAndType(t *testing.T) {
	doc, err := secret.Parse([]byte(`apiVersion: v1
kind: Secret
metadata:
  name: tls
type: kubernetes.io/tls
stringData:
  note: plain
data:
  tls.crt: Y3J0
`))
	require.NoError(t, err)

	s, err := ToSecret(doc)
	require.NoError(t, err)
	assert.Equal(t, "tls", s.Name)
	assert.Equal(t, corev1.SecretTypeTLS, s.Type)
	assert.Equal(t, "plain", s.StringData["note"])
	assert.Equal(t, []byte("crt"), s.Data["tls.crt"])
}

func TestList(t *testing.T) {
	api := dbSecret()
	api.Name = "api"
	client := newFakeClient(dbSecret(), api)

	secrets, err := client.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, "api", secrets[0].Name)
	assert.Equal(t, "db", secrets[1].Name)
	assert.Equal(t, 2, secrets[1].Keys)
	assert.Equal(t, "Opaque", secrets[1].Type)

	secrets, err = client.List(context.Background(), "billing")
	require.NoError(t, err)
	assert.Empty(t, secrets)
}
