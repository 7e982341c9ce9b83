package kube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/vietdv277/kse/internal/config"
	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/pkg/provider"
	"github.com/vietdv277/kse/pkg/types"
)

// ErrNoName indicates a manifest without metadata.name and no name given.
var ErrNoName = errors.New("secret has no name")

// manifest fixes the key order of a pulled Secret.
type manifest struct {
	APIVersion string            `yaml:"apiVersion"`
	Kind       string            `yaml:"kind"`
	Metadata   manifestMeta      `yaml:"metadata"`
	Immutable  *bool             `yaml:"immutable,omitempty"`
	Type       string            `yaml:"type,omitempty"`
	Data       map[string]string `yaml:"data,omitempty"`
}

type manifestMeta struct {
	Name        string            `yaml:"name"`
	Namespace   string            `yaml:"namespace,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// Fetch implements provider.Source. ref is "[namespace/]name".
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ns, name := config.SplitNamespaced(ref, c.namespace(""))
	return c.Pull(ctx, ns, name)
}

// List returns the Secrets in namespace sorted by name.
func (c *Client) List(ctx context.Context, namespace string) ([]types.Secret, error) {
	list, err := c.ClientSet.CoreV1().Secrets(c.namespace(namespace)).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list secrets: %w", err)
	}

	secrets := make([]types.Secret, 0, len(list.Items))
	for i := range list.Items {
		s := &list.Items[i]
		secrets = append(secrets, types.Secret{
			Name:      s.Name,
			ARN:       string(s.UID),
			Namespace: s.Namespace,
			Type:      string(s.Type),
			Keys:      len(s.Data),
			UpdatedAt: s.CreationTimestamp.Time,
			Provider:  "kubernetes",
		})
	}
	sort.Slice(secrets, func(i, j int) bool { return secrets[i].Name < secrets[j].Name })
	return secrets, nil
}

// Pull retrieves a Secret and renders it as a manifest.
func (c *Client) Pull(ctx context.Context, namespace, name string) ([]byte, error) {
	namespace = c.namespace(namespace)
	s, err := c.ClientSet.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, fmt.Errorf("%w: secret %s/%s", provider.ErrNotFound, namespace, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	return Manifest(s)
}

// Manifest renders the user-facing part of s: identity, labels,
// annotations, type and data. Server-managed metadata is left out.
func Manifest(s *corev1.Secret) ([]byte, error) {
	m := manifest{
		APIVersion: "v1",
		Kind:       secret.Kind,
		Metadata: manifestMeta{
			Name:        s.Name,
			Namespace:   s.Namespace,
			Labels:      s.Labels,
			Annotations: s.Annotations,
		},
		Immutable: s.Immutable,
		Type:      string(s.Type),
	}
	if len(s.Data) > 0 {
		m.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			m.Data[k] = secret.Encode(string(v))
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to render secret: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to render secret: %w", err)
	}
	return buf.Bytes(), nil
}

// Publish implements provider.Publisher. ref is "[namespace/]name" and
// overrides the manifest's own; an empty ref keeps them.
func (c *Client) Publish(ctx context.Context, ref string, text []byte) (*types.Secret, error) {
	doc, err := secret.Parse(text)
	if err != nil {
		return nil, err
	}
	ns, name := config.SplitNamespaced(ref, "")
	return c.Apply(ctx, ns, name, doc)
}

// Apply creates the Secret described by doc, or updates the data, type,
// labels and annotations of the existing one.
func (c *Client) Apply(ctx context.Context, namespace, name string, doc *secret.Document) (*types.Secret, error) {
	obj, err := ToSecret(doc)
	if err != nil {
		return nil, err
	}
	if name != "" {
		obj.Name = name
	}
	if obj.Name == "" {
		return nil, ErrNoName
	}
	if namespace == "" {
		namespace = obj.Namespace
	}
	obj.Namespace = c.namespace(namespace)

	secrets := c.ClientSet.CoreV1().Secrets(obj.Namespace)
	existing, err := secrets.Get(ctx, obj.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		created, err := secrets.Create(ctx, obj, metav1.CreateOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create secret: %w", err)
		}
		return describe(created, "created"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	existing.Data = obj.Data
	existing.StringData = obj.StringData
	existing.Labels = obj.Labels
	existing.Annotations = obj.Annotations
	if obj.Type != "" {
		existing.Type = obj.Type
	}

	updated, err := secrets.Update(ctx, existing, metav1.UpdateOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to update secret: %w", err)
	}
	return describe(updated, "updated"), nil
}

// ToSecret converts doc into a core/v1 Secret. Data values go through the
// same forgiving base64 decoder as the editor.
func ToSecret(doc *secret.Document) (*corev1.Secret, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	// Data shadows the embedded field so the strict JSON base64 decoder
	// never sees it.
	var wire struct {
		corev1.Secret
		Data any `json:"data"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("invalid secret manifest: %w", err)
	}

	s := wire.Secret
	s.ResourceVersion = ""
	s.UID = ""
	s.CreationTimestamp = metav1.Time{}
	s.ManagedFields = nil

	if keys := doc.Keys(); len(keys) > 0 {
		s.Data = make(map[string][]byte, len(keys))
		for _, key := range keys {
			value, _ := doc.Value(key)
			b, err := secret.Decode(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", secret.ErrMalformedBase64, key)
			}
			s.Data[key] = b
		}
	}
	return &s, nil
}

func describe(s *corev1.Secret, action string) *types.Secret {
	return &types.Secret{
		Name:      s.Name,
		ARN:       string(s.UID),
		Namespace: s.Namespace,
		Type:      string(s.Type),
		Keys:      len(s.Data),
		UpdatedAt: time.Now(),
		Provider:  "kubernetes",
		Action:    action,
		Raw:       s,
	}
}
