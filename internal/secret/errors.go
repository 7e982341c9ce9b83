package secret

import "errors"

// Load errors. A load that fails with any of these leaves the caller's
// current document untouched.
var (
	// ErrParse indicates the input is not a single valid YAML document.
	ErrParse = errors.New("failed to parse YAML")

	// ErrNotSecret indicates valid YAML that is not a v1 Kubernetes Secret.
	ErrNotSecret = errors.New("not a valid Kubernetes Secret")

	// ErrMalformedBase64 indicates a data value that is not valid base64.
	ErrMalformedBase64 = errors.New("data value is not valid base64")
)

// Edit errors.
var (
	// ErrUnknownField indicates an edit for a key that is not in data.
	ErrUnknownField = errors.New("unknown data key")

	// ErrBinaryField indicates an edit for a key whose value is not text.
	ErrBinaryField = errors.New("data value is binary and cannot be edited as text")
)
