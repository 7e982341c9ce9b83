package types

import "time"

// Field is the decoded view of a single Secret data entry
type Field struct {
	Key    string `json:"key"`    // Key in the Secret's data map
	Value  string `json:"value"`  // Decoded text, empty when Binary
	Binary bool   `json:"binary"` // Decoded bytes are not UTF-8 text; read-only
	Size   int    `json:"size"`   // Decoded length in bytes
}

// Secret represents a secret stored outside the manifest (cluster, AWS)
type Secret struct {
	Name      string    `json:"name"`       // Secret name or path
	ARN       string    `json:"arn"`        // Provider-specific identifier
	Namespace string    `json:"namespace"`  // Kubernetes namespace, if any
	Type      string    `json:"type"`       // Kubernetes Secret type, if any
	Keys      int       `json:"keys"`       // Number of data keys written or read
	UpdatedAt time.Time `json:"updated_at"` // Last update time
	Provider  string    `json:"provider"`   // kubernetes, aws
	Action    string    `json:"action"`     // created, updated

	// Raw holds the original API response
	Raw interface{} `json:"-"`
}

// SecretValue represents a secret with its decoded key/value pairs
type SecretValue struct {
	Secret
	Values  map[string]string `json:"values"`  // Decoded values by key
	Version string            `json:"version"` // Version identifier
}
