package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smTypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/vietdv277/kse/internal/kube"
	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/pkg/provider"
	"github.com/vietdv277/kse/pkg/types"
)

// ErrNoName indicates neither the caller nor the manifest named a target.
var ErrNoName = errors.New("no secret name given")

// ErrEmptyParameter indicates a data value SSM cannot store.
var ErrEmptyParameter = errors.New("SSM parameters cannot be empty")

// PlainValueKey holds a Secrets Manager string that is not a JSON object.
const PlainValueKey = "value"

// Names starting with / are stored in SSM Parameter Store, one SecureString
// parameter per key under that path. Other names go to Secrets Manager.
func isSSMPath(name string) bool {
	return strings.HasPrefix(name, "/")
}

// Publish implements provider.Publisher. Every data key of manifest is
// written as decoded text; binary keys are refused.
func (c *Client) Publish(ctx context.Context, name string, manifest []byte) (*types.Secret, error) {
	doc, err := secret.Parse(manifest)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = doc.Name()
	}
	if name == "" {
		return nil, ErrNoName
	}

	values := make(map[string]string)
	for _, f := range doc.Fields() {
		if f.Binary {
			return nil, fmt.Errorf("%w: %s", secret.ErrBinaryField, f.Key)
		}
		values[f.Key] = f.Value
	}

	if isSSMPath(name) {
		return c.putParameters(ctx, name, values)
	}
	return c.putSecret(ctx, name, values)
}

func (c *Client) putParameters(ctx context.Context, prefix string, values map[string]string) (*types.Secret, error) {
	keys := sortedKeys(values)
	for _, key := range keys {
		if values[key] == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyParameter, key)
		}
	}
	for _, key := range keys {
		value := values[key]
		_, err := c.SSM.PutParameter(ctx, &ssm.PutParameterInput{
			Name:      strPtr(path.Join(prefix, key)),
			Value:     &value,
			Type:      ssmTypes.ParameterTypeSecureString,
			Overwrite: boolPtr(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to put SSM parameter %s: %w", key, err)
		}
	}

	return &types.Secret{
		Name:      prefix,
		Keys:      len(keys),
		UpdatedAt: time.Now(),
		Provider:  "aws",
		Action:    "updated",
	}, nil
}

func (c *Client) putSecret(ctx context.Context, name string, values map[string]string) (*types.Secret, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode secret: %w", err)
	}
	body := string(payload)

	result := &types.Secret{
		Name:      name,
		Keys:      len(values),
		UpdatedAt: time.Now(),
		Provider:  "aws",
	}

	// Try to update existing secret first
	out, err := c.SecretsManager.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     &name,
		SecretString: &body,
	})
	if err == nil {
		result.ARN = deref(out.ARN)
		result.Action = "updated"
		return result, nil
	}

	var notFound *smTypes.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("failed to update secret: %w", err)
	}

	created, err := c.SecretsManager.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         &name,
		SecretString: &body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create secret: %w", err)
	}
	result.ARN = deref(created.ARN)
	result.Action = "created"
	return result, nil
}

// Get returns the decoded key/value pairs stored under name
func (c *Client) Get(ctx context.Context, name string) (*types.SecretValue, error) {
	if isSSMPath(name) {
		return c.getParameters(ctx, name)
	}
	return c.getSecret(ctx, name)
}

func (c *Client) getParameters(ctx context.Context, prefix string) (*types.SecretValue, error) {
	paginator := ssm.NewGetParametersByPathPaginator(c.SSM, &ssm.GetParametersByPathInput{
		Path:           &prefix,
		WithDecryption: boolPtr(true),
	})

	sv := &types.SecretValue{
		Secret: types.Secret{Name: prefix, Provider: "aws"},
		Values: make(map[string]string),
	}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get SSM parameters: %w", err)
		}
		for _, param := range page.Parameters {
			sv.Values[path.Base(deref(param.Name))] = deref(param.Value)
			if param.LastModifiedDate != nil && param.LastModifiedDate.After(sv.UpdatedAt) {
				sv.UpdatedAt = *param.LastModifiedDate
			}
		}
	}
	if len(sv.Values) == 0 {
		return nil, fmt.Errorf("%w: no SSM parameters under %s", provider.ErrNotFound, prefix)
	}
	sv.Keys = len(sv.Values)
	return sv, nil
}

func (c *Client) getSecret(ctx context.Context, name string) (*types.SecretValue, error) {
	output, err := c.SecretsManager.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	var notFound *smTypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return nil, fmt.Errorf("%w: secret %s", provider.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}

	values := splitSecretString(deref(output.SecretString))

	return &types.SecretValue{
		Secret: types.Secret{
			Name:      deref(output.Name),
			ARN:       deref(output.ARN),
			Keys:      len(values),
			Provider:  "aws",
			UpdatedAt: safeTime(output.CreatedDate),
		},
		Values:  values,
		Version: deref(output.VersionId),
	}, nil
}

// splitSecretString turns a JSON object into its key/value pairs. Non-string
// values keep their JSON text; a string that is not an object becomes a
// single "value" key.
func splitSecretString(s string) map[string]string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return map[string]string{PlainValueKey: s}
	}

	values := make(map[string]string, len(obj))
	for k, raw := range obj {
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			values[k] = str
			continue
		}
		values[k] = string(raw)
	}
	return values
}

// Fetch implements provider.Source: it reads name and builds a Secret
// manifest holding its values.
func (c *Client) Fetch(ctx context.Context, name string) ([]byte, error) {
	sv, err := c.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return Manifest(sv)
}

// Manifest builds an Opaque Secret manifest from sv. The Kubernetes name is
// derived from the last segment of the AWS name.
func Manifest(sv *types.SecretValue) ([]byte, error) {
	data := make(map[string][]byte, len(sv.Values))
	for k, v := range sv.Values {
		data[k] = []byte(v)
	}

	annotations := map[string]string{"kse/source": "aws:" + sv.Name}
	if sv.Version != "" {
		annotations["kse/version"] = sv.Version
	}

	return kube.Manifest(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:        kubeName(sv.Name),
			Annotations: annotations,
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	})
}

var invalidNameChars = regexp.MustCompile(`[^a-z0-9.-]+`)

// kubeName maps an AWS secret name or ARN to a DNS subdomain name.
func kubeName(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	name = path.Base(strings.TrimSuffix(name, "/"))
	name = invalidNameChars.ReplaceAllString(strings.ToLower(name), "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "imported"
	}
	return name
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func safeTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
