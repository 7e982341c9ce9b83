// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable indicates no clipboard mechanism exists on this system
// (for example a headless Linux host without xclip, xsel or wl-copy).
var ErrUnavailable = errors.New("clipboard is not available")

// Writer receives copied text.
type Writer interface {
	WriteText(text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// WriteText implements Writer.
func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// Memory records the last copied text. It backs tests and headless runs.
type Memory struct {
	Text string
	Err  error
}

// WriteText implements Writer.
func (m *Memory) WriteText(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Text = text
	return nil
}
