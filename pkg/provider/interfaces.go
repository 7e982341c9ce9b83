package provider

import (
	"context"
	"errors"

	"github.com/vietdv277/kse/pkg/types"
)

// Common errors
var (
	ErrNotSupported  = errors.New("feature not supported by this provider")
	ErrNotFound      = errors.New("resource not found")
	ErrNotConfigured = errors.New("provider not configured")
)

// Source reads a secret from a backend and returns it as a Secret
// manifest that can be loaded into the editor.
type Source interface {
	// Name returns the provider identifier ("kubernetes", "aws")
	Name() string

	// Fetch returns the manifest for ref
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Publisher writes the data of a Secret manifest to a backend.
type Publisher interface {
	// Name returns the provider identifier ("kubernetes", "aws")
	Name() string

	// Publish creates or updates ref from manifest and describes what was written
	Publish(ctx context.Context, ref string, manifest []byte) (*types.Secret, error)
}

// Backend is implemented by providers that can do both.
type Backend interface {
	Source
	Publisher
}
