// Package editor owns the editing session: the current Secret document,
// its rendered preview, and the persisted snapshot of both.
//
// Every mutation renders and persists before it becomes visible, so the
// document in memory and the one in the store never disagree. A mutation
// that fails (bad input, store error) leaves the session unchanged.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vietdv277/kse/internal/clipboard"
	"github.com/vietdv277/kse/internal/logging"
	"github.com/vietdv277/kse/internal/secret"
	"github.com/vietdv277/kse/internal/store"
	"github.com/vietdv277/kse/internal/theme"
	"github.com/vietdv277/kse/pkg/types"
)

// DownloadName is the file name written by Download.
const DownloadName = "secret.yaml"

// ErrNoDocument indicates an operation that needs a loaded secret.
var ErrNoDocument = errors.New("no secret loaded")

// Controller is the editing session.
type Controller struct {
	store     store.Store
	theme     *theme.Controller
	clipboard clipboard.Writer
	log       logging.Logger

	doc     *secret.Document
	preview string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClipboard sets the clipboard used by Copy.
func WithClipboard(w clipboard.Writer) Option {
	return func(c *Controller) {
		c.clipboard = w
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New creates a Controller over s and restores the persisted session.
func New(s store.Store, opts ...Option) *Controller {
	c := &Controller{
		store:     s,
		clipboard: clipboard.System{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.theme = theme.New(s)
	c.hydrate()
	return c
}

// hydrate restores the last preview and document. A stored document that
// cannot be parsed is reported and dropped; startup always succeeds.
func (c *Controller) hydrate() {
	if text, ok, err := c.store.Get(store.KeyYAML); err != nil {
		c.log.Warnf("could not read saved state: %v", err)
		return
	} else if ok {
		c.preview = text
	}

	structured, ok, err := c.store.Get(store.KeySecret)
	if err != nil || !ok {
		return
	}

	doc, err := secret.ParseStructured([]byte(structured))
	if err != nil {
		c.log.Warnf("ignoring saved secret: %v", err)
		return
	}

	// Nothing changed since the save, so the store is not rewritten.
	preview, err := doc.Render()
	if err != nil {
		c.log.Warnf("could not restore saved secret: %v", err)
		return
	}
	c.doc = doc
	c.preview = preview
	c.log.Debugf("restored secret %q with %d fields", doc.Name(), len(doc.Keys()))
}

// Load parses text as a Secret manifest and replaces the current
// document. On any error the session is unchanged.
func (c *Controller) Load(text []byte) error {
	doc, err := secret.Parse(text)
	if err != nil {
		return err
	}
	if err := c.commit(doc); err != nil {
		return err
	}
	c.log.Infof("loaded secret %q with %d fields", doc.Name(), len(doc.Keys()))
	return nil
}

// LoadFile reads path and loads it.
func (c *Controller) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return c.Load(data)
}

// Edit sets the decoded text of a data key.
func (c *Controller) Edit(key, text string) error {
	if c.doc == nil {
		return ErrNoDocument
	}
	next := c.doc.Clone()
	if err := next.Set(key, text); err != nil {
		return err
	}
	if err := c.commit(next); err != nil {
		return err
	}
	c.log.Debugf("updated data.%s", key)
	return nil
}

// commit renders and persists doc, then makes it current.
func (c *Controller) commit(doc *secret.Document) error {
	preview, err := doc.Render()
	if err != nil {
		return err
	}
	structured, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize secret: %w", err)
	}
	if err := c.store.SetAll(map[string]string{
		store.KeyYAML:   preview,
		store.KeySecret: string(structured),
	}); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	c.doc = doc
	c.preview = preview
	return nil
}

// Reset forgets the current document and its persisted snapshot. The
// theme preference is kept.
func (c *Controller) Reset() error {
	if err := c.store.Delete(store.KeyYAML, store.KeySecret); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	c.doc = nil
	c.preview = ""
	return nil
}

// HasDocument reports whether a secret is loaded.
func (c *Controller) HasDocument() bool {
	return c.doc != nil
}

// Document returns a copy of the current document, or nil.
func (c *Controller) Document() *secret.Document {
	if c.doc == nil {
		return nil
	}
	return c.doc.Clone()
}

// Fields returns the decoded data fields of the current document.
func (c *Controller) Fields() []types.Field {
	if c.doc == nil {
		return nil
	}
	return c.doc.Fields()
}

// Preview returns the last rendered YAML text.
func (c *Controller) Preview() string {
	return c.preview
}

// Theme returns the theme controller.
func (c *Controller) Theme() *theme.Controller {
	return c.theme
}

// ToggleTheme flips the theme and persists the preference.
func (c *Controller) ToggleTheme() (theme.Mode, error) {
	mode, err := c.theme.Toggle()
	if err != nil {
		return mode, err
	}
	c.log.Debugf("theme set to %s", mode)
	return mode, nil
}

// Copy places the preview text on the clipboard.
func (c *Controller) Copy() error {
	if c.preview == "" {
		return ErrNoDocument
	}
	return c.clipboard.WriteText(c.preview)
}

// Download writes the preview text to dir/secret.yaml and returns the
// path written.
func (c *Controller) Download(dir string) (string, error) {
	if c.preview == "" {
		return "", ErrNoDocument
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, DownloadName)
	if err := os.WriteFile(path, []byte(c.preview), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	c.log.Infof("wrote %s", path)
	return path, nil
}
