package ui

import (
	"errors"

	"github.com/vietdv277/kse/internal/clipboard"
	"github.com/vietdv277/kse/internal/editor"
	"github.com/vietdv277/kse/internal/secret"
)

// Status line messages
const (
	MsgCopied       = "YAML copied to clipboard!"
	MsgDownloaded   = "YAML downloaded!"
	MsgNotSecret    = "This YAML is not a valid Kubernetes Secret."
	MsgParseFailed  = "Failed to parse YAML."
	MsgNoDocument   = "Load a Secret first (ctrl+o)."
	MsgNoClipboard  = "No clipboard available on this system."
	MsgReadOnly     = "This field cannot be edited here."
	MsgThemeChanged = "Theme: "
)

// Alert maps an error to the status line text shown for it.
func Alert(err error) string {
	switch {
	case errors.Is(err, secret.ErrParse):
		return MsgParseFailed
	case errors.Is(err, secret.ErrNotSecret), errors.Is(err, secret.ErrMalformedBase64):
		return MsgNotSecret + " " + err.Error()
	case errors.Is(err, editor.ErrNoDocument):
		return MsgNoDocument
	case errors.Is(err, clipboard.ErrUnavailable):
		return MsgNoClipboard
	case errors.Is(err, secret.ErrBinaryField):
		return MsgReadOnly
	default:
		return err.Error()
	}
}
