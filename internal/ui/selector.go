package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/kse/pkg/types"
)

const (
	listHeight = 8
	minWidth   = 60
	maxWidth   = 120
	// Fixed column widths
	colWidthKeys = 6
	colWidthType = 28
)

// ErrCancelled is returned when the user leaves a selector without choosing.
var ErrCancelled = errors.New("selection cancelled")

// SelectorModel is the bubbletea model for picking a Secret from a list
type SelectorModel struct {
	secrets      []types.Secret
	filtered     []types.Secret
	styles       Styles
	cursor       int
	offset       int // for scrolling
	search       string
	selected     *types.Secret
	quitting     bool
	cancelled    bool
	termWidth    int
	contentWidth int
	colWidths    []int // [Name, Type, Keys]
}

// NewSelectorModel creates a new selector model
func NewSelectorModel(secrets []types.Secret, st Styles) SelectorModel {
	m := SelectorModel{
		secrets:   secrets,
		filtered:  secrets,
		styles:    st,
		termWidth: 80,
	}
	m.calculateWidths()
	return m
}

// calculateWidths computes responsive column widths based on terminal size
func (m *SelectorModel) calculateWidths() {
	m.contentWidth = min(max(m.termWidth-2, minWidth), maxWidth)

	// cursor(3) + name + spacing(2) + type + spacing(2) + keys
	nameWidth := max(m.contentWidth-3-2-colWidthType-2-colWidthKeys, 10)
	m.colWidths = []int{nameWidth, colWidthType, colWidthKeys}
}

// Init implements tea.Model
func (m SelectorModel) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model
func (m SelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.calculateWidths()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			if len(m.filtered) > 0 {
				m.selected = &m.filtered[m.cursor]
				m.quitting = true
				return m, tea.Quit
			}

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}

		case tea.KeyDown:
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				if m.cursor >= m.offset+listHeight {
					m.offset = m.cursor - listHeight + 1
				}
			}

		case tea.KeyBackspace:
			if len(m.search) > 0 {
				r := []rune(m.search)
				m.search = string(r[:len(r)-1])
				m.filter()
			}

		case tea.KeyRunes:
			m.search += string(msg.Runes)
			m.filter()
		}
	}

	return m, nil
}

// filter narrows the list to names or types containing the search text
func (m *SelectorModel) filter() {
	if m.search == "" {
		m.filtered = m.secrets
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, s := range m.secrets {
			if strings.Contains(strings.ToLower(s.Name), query) ||
				strings.Contains(strings.ToLower(s.Type), query) {
				m.filtered = append(m.filtered, s)
			}
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	m.offset = 0
}

// View implements tea.Model
func (m SelectorModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.styles
	w := m.contentWidth
	var sb strings.Builder

	line := func(s string) {
		sb.WriteString(st.Border.Render(Vertical))
		sb.WriteString(s)
		sb.WriteString(st.Border.Render(Vertical))
		sb.WriteString("\n")
	}

	sb.WriteString(st.Border.Render(TopLeft + strings.Repeat(Horizontal, w) + TopRight))
	sb.WriteString("\n")

	line(st.Accent.Render(padRight(" > "+m.search, w)))
	line(strings.Repeat(" ", w))

	end := min(m.offset+listHeight, len(m.filtered))
	for i := m.offset; i < end; i++ {
		line(m.renderRow(i))
	}
	for i := max(end-m.offset, 0); i < listHeight; i++ {
		if i == 0 && len(m.filtered) == 0 {
			line(st.Muted.Render(padRight("   No secrets found", w)))
			continue
		}
		line(strings.Repeat(" ", w))
	}

	sb.WriteString(st.Border.Render(BottomLeft + strings.Repeat(Horizontal, w) + BottomRight))
	sb.WriteString("\n")

	countInfo := fmt.Sprintf("  %d/%d secrets", len(m.filtered), len(m.secrets))
	hints := "[Enter:select] [Esc:cancel]"
	padding := w + 2 - runewidth.StringWidth(countInfo) - runewidth.StringWidth(hints)
	sb.WriteString(countInfo)
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}
	sb.WriteString(st.Hint.Render(hints))
	sb.WriteString("\n")

	return sb.String()
}

func (m SelectorModel) renderRow(idx int) string {
	s := m.filtered[idx]
	st := m.styles

	cursor := "   "
	if idx == m.cursor {
		cursor = st.Accent.Render(" > ")
	}

	var sb strings.Builder
	sb.WriteString(cursor)
	sb.WriteString(st.Key.Render(padRight(s.Name, m.colWidths[0])))
	sb.WriteString("  ")
	sb.WriteString(st.Muted.Render(padRight(s.Type, m.colWidths[1])))
	sb.WriteString("  ")
	sb.WriteString(st.Value.Render(padRight(fmt.Sprintf("%d keys", s.Keys), m.colWidths[2])))

	plain := 3 + m.colWidths[0] + 2 + m.colWidths[1] + 2 + m.colWidths[2]
	if plain < m.contentWidth {
		sb.WriteString(strings.Repeat(" ", m.contentWidth-plain))
	}
	return sb.String()
}

// Selected returns the chosen secret, or nil.
func (m SelectorModel) Selected() *types.Secret {
	return m.selected
}

// SelectSecret runs the interactive selector and returns the chosen secret
func SelectSecret(secrets []types.Secret, st Styles) (*types.Secret, error) {
	if len(secrets) == 0 {
		return nil, fmt.Errorf("no secrets available")
	}

	p := tea.NewProgram(NewSelectorModel(secrets, st))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running selector: %w", err)
	}

	result := finalModel.(SelectorModel)
	if result.cancelled || result.selected == nil {
		return nil, ErrCancelled
	}
	return result.selected, nil
}
