package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/kse/internal/theme"
)

// Box drawing characters
const (
	TopLeft     = "╭"
	TopRight    = "╮"
	BottomLeft  = "╰"
	BottomRight = "╯"
	Horizontal  = "─"
	Vertical    = "│"
	LeftT       = "├"
	RightT      = "┤"
	TopT        = "┬"
	BottomT     = "┴"
	Cross       = "┼"
)

// Styles are the lipgloss styles of one theme mode
type Styles struct {
	Border  lipgloss.Style
	Header  lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Hint    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Logo    lipgloss.Style
}

// NewStyles builds the styles for a set of theme assets
func NewStyles(a theme.Assets) Styles {
	p := a.Palette
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return Styles{
		Border:  color(p.Border),
		Header:  color(p.Foreground).Bold(true),
		Key:     color(p.Label),
		Value:   color(p.Foreground),
		Accent:  color(p.Accent),
		Muted:   color(p.Muted),
		Hint:    color(p.Hint),
		Success: color(p.Success),
		Error:   color(p.Error).Bold(true),
		Logo:    color(a.Logo).Bold(true),
	}
}

// padRight pads a string to the specified display width using runewidth
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw > width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-sw)
}

// rule returns a horizontal border of width cells between two corners
func rule(st Styles, left, mid, right string, widths []int) string {
	var sb strings.Builder
	sb.WriteString(left)
	for i, w := range widths {
		sb.WriteString(strings.Repeat(Horizontal, w+2))
		if i < len(widths)-1 {
			sb.WriteString(mid)
		}
	}
	sb.WriteString(right)
	return st.Border.Render(sb.String())
}
