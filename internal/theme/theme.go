// Package theme holds the light/dark presentation state and the assets
// each mode selects.
package theme

import (
	"fmt"

	"github.com/vietdv277/kse/internal/store"
)

// Mode is a presentation theme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Default is used when no preference has been stored.
const Default = Light

// Palette holds lipgloss color codes (ANSI 256).
type Palette struct {
	Foreground string
	Muted      string
	Hint       string
	Accent     string
	Label      string
	Border     string
	Success    string
	Error      string
}

// Assets are the presentation identifiers selected by a mode.
type Assets struct {
	Icon      string // toggle glyph, shows the mode a toggle switches to
	Highlight string // chroma style for the YAML preview
	Logo      string // color of the banner logo
	Palette   Palette
}

var assets = map[Mode]Assets{
	Light: {
		Icon:      "☾",
		Highlight: "github",
		Logo:      "24",
		Palette: Palette{
			Foreground: "235",
			Muted:      "245",
			Hint:       "242",
			Accent:     "25",
			Label:      "130",
			Border:     "250",
			Success:    "28",
			Error:      "160",
		},
	},
	Dark: {
		Icon:      "☀",
		Highlight: "github-dark",
		Logo:      "255",
		Palette: Palette{
			Foreground: "252",
			Muted:      "240",
			Hint:       "245",
			Accent:     "81",
			Label:      "214",
			Border:     "240",
			Success:    "82",
			Error:      "196",
		},
	},
}

// AssetsFor returns the assets of m; unknown modes get the default's.
func AssetsFor(m Mode) Assets {
	if a, ok := assets[m]; ok {
		return a
	}
	return assets[Default]
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown theme %q (want %q or %q)", s, Light, Dark)
}

// Controller tracks the current mode and persists every change.
type Controller struct {
	store store.Store
	mode  Mode
}

// New restores the stored preference. A missing or unreadable preference
// yields the default mode and is not written back.
func New(s store.Store) *Controller {
	c := &Controller{store: s, mode: Default}
	if v, ok, err := s.Get(store.KeyTheme); err == nil && ok {
		if m, err := ParseMode(v); err == nil {
			c.mode = m
		}
	}
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Assets returns the assets of the current mode.
func (c *Controller) Assets() Assets {
	return AssetsFor(c.mode)
}

// Toggle flips between light and dark.
func (c *Controller) Toggle() (Mode, error) {
	next := Dark
	if c.mode == Dark {
		next = Light
	}
	if err := c.Set(next); err != nil {
		return c.mode, err
	}
	return next, nil
}

// Set persists m and makes it current. The mode is unchanged when the
// store write fails.
func (c *Controller) Set(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	if err := c.store.Set(store.KeyTheme, string(m)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	c.mode = m
	return nil
}
