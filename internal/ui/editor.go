package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/kse/internal/editor"
)

const (
	previewMinHeight = 6
	maxLabelWidth    = 24
	helpText         = "tab/shift+tab: field • ctrl+o: open • ctrl+y: copy • ctrl+s: download • ctrl+t: theme • esc: quit"
)

// EditorModel is the interactive Secret editor: one input per data field
// and a live YAML preview. Every change to a field goes through the
// controller before the next message is handled.
type EditorModel struct {
	ctrl        *editor.Controller
	downloadDir string

	keys     []string
	inputs   []textinput.Model
	readOnly []bool
	focus    int

	prompt    textinput.Model
	prompting bool

	preview viewport.Model
	styles  Styles

	status    string
	statusErr bool

	width    int
	height   int
	quitting bool
}

// NewEditorModel creates the editor over ctrl. Downloads go to downloadDir.
func NewEditorModel(ctrl *editor.Controller, downloadDir string) EditorModel {
	m := EditorModel{
		ctrl:        ctrl,
		downloadDir: downloadDir,
		width:       80,
		height:      24,
	}

	m.prompt = textinput.New()
	m.prompt.Prompt = "Open: "
	m.prompt.Placeholder = "path/to/secret.yaml"

	m.preview = viewport.New(m.width-2, previewMinHeight)
	m.applyTheme()
	m.rebuildFields()
	m.layout()
	return m
}

// Init implements tea.Model
func (m EditorModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.WindowSize())
}

// Update implements tea.Model
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyCtrlT:
			mode, err := m.ctrl.ToggleTheme()
			if err != nil {
				m.setError(err)
				return m, nil
			}
			m.applyTheme()
			m.setStatus(MsgThemeChanged + string(mode))
			return m, nil

		case tea.KeyCtrlY:
			if err := m.ctrl.Copy(); err != nil {
				m.setError(err)
			} else {
				m.setStatus(MsgCopied)
			}
			return m, nil

		case tea.KeyCtrlS:
			path, err := m.ctrl.Download(m.downloadDir)
			if err != nil {
				m.setError(err)
			} else {
				m.setStatus(MsgDownloaded + " " + path)
			}
			return m, nil

		case tea.KeyCtrlO:
			m.prompting = true
			m.prompt.SetValue("")
			return m, m.prompt.Focus()

		case tea.KeyTab:
			return m, m.moveFocus(1)

		case tea.KeyShiftTab:
			return m, m.moveFocus(-1)

		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}

		return m.updateField(msg)
	}

	// cursor blink and other internal messages
	var cmds []tea.Cmd
	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	}
	if len(m.inputs) > 0 {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m EditorModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil

	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		path := expandHome(strings.TrimSpace(m.prompt.Value()))
		if path == "" {
			return m, nil
		}
		if err := m.ctrl.LoadFile(path); err != nil {
			m.setError(err)
			return m, nil
		}
		cmd := m.rebuildFields()
		m.layout()
		m.setStatus(fmt.Sprintf("Loaded %s", filepath.Base(path)))
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m EditorModel) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}

	i := m.focus
	if m.readOnly[i] {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
			m.setStatusError(MsgReadOnly)
		}
		return m, nil
	}

	before := m.inputs[i].Value()
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	after := m.inputs[i].Value()
	if after == before {
		return m, cmd
	}

	if err := m.ctrl.Edit(m.keys[i], after); err != nil {
		m.inputs[i].SetValue(before)
		m.setError(err)
		return m, cmd
	}
	m.status = ""
	m.refreshPreview()
	return m, cmd
}

// rebuildFields discards the inputs and creates one per field of the
// current document.
func (m *EditorModel) rebuildFields() tea.Cmd {
	fields := m.ctrl.Fields()

	m.keys = make([]string, len(fields))
	m.inputs = make([]textinput.Model, len(fields))
	m.readOnly = make([]bool, len(fields))
	m.focus = 0

	first := -1
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 0

		switch {
		case f.Binary:
			ti.Placeholder = fmt.Sprintf("(binary, %d bytes)", f.Size)
			m.readOnly[i] = true
		case strings.ContainsAny(f.Value, "\n\r\t"):
			// textinput would flatten these characters
			ti.SetValue(displayValue(f, false))
			m.readOnly[i] = true
		default:
			ti.SetValue(f.Value)
			if first < 0 {
				first = i
			}
		}

		m.keys[i] = f.Key
		m.inputs[i] = ti
	}
	m.styleInputs()
	m.refreshPreview()

	if first < 0 {
		return nil
	}
	m.focus = first
	return m.inputs[first].Focus()
}

func (m *EditorModel) moveFocus(delta int) tea.Cmd {
	n := len(m.inputs)
	if n == 0 {
		return nil
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + n) % n
	return m.inputs[m.focus].Focus()
}

func (m *EditorModel) applyTheme() {
	m.styles = NewStyles(m.ctrl.Theme().Assets())
	m.prompt.PromptStyle = m.styles.Accent
	m.prompt.TextStyle = m.styles.Value
	m.prompt.PlaceholderStyle = m.styles.Muted
	m.styleInputs()
	m.refreshPreview()
}

func (m *EditorModel) styleInputs() {
	for i := range m.inputs {
		m.inputs[i].TextStyle = m.styles.Value
		m.inputs[i].PlaceholderStyle = m.styles.Muted
		if m.readOnly[i] {
			m.inputs[i].TextStyle = m.styles.Muted
		}
	}
}

func (m *EditorModel) refreshPreview() {
	text := m.ctrl.Preview()
	if text == "" {
		m.preview.SetContent(m.styles.Muted.Render("No secret loaded. Press ctrl+o to open a manifest."))
		return
	}
	highlighted, err := Highlight(text, m.ctrl.Theme().Assets().Highlight)
	if err != nil {
		highlighted = text
	}
	m.preview.SetContent(highlighted)
}

// layout sizes the inputs and preview to the terminal.
func (m *EditorModel) layout() {
	labelWidth := m.labelWidth()
	inputWidth := max(m.width-labelWidth-6, 10)
	for i := range m.inputs {
		m.inputs[i].Width = inputWidth
	}
	m.prompt.Width = max(m.width-10, 10)

	// banner(5) + blank + fields + blank + preview border(2) + status + help
	used := 5 + 1 + max(len(m.inputs), 1) + 1 + 2 + 1 + 1
	if m.prompting {
		used++
	}
	m.preview.Width = max(m.width-2, 10)
	m.preview.Height = max(m.height-used, previewMinHeight)
}

func (m EditorModel) labelWidth() int {
	w := 8
	for _, k := range m.keys {
		w = max(w, runewidth.StringWidth(k))
	}
	return min(w, maxLabelWidth)
}

func (m *EditorModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *EditorModel) setStatusError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *EditorModel) setError(err error) {
	m.setStatusError(Alert(err))
}

// View implements tea.Model
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Banner(m.styles, m.ctrl.Theme().Assets().Icon))
	sb.WriteString("\n")

	labelWidth := m.labelWidth()
	switch {
	case !m.ctrl.HasDocument():
		sb.WriteString(m.styles.Muted.Render("  No fields yet."))
		sb.WriteString("\n")
	case len(m.inputs) == 0:
		sb.WriteString(m.styles.Muted.Render("  This Secret has no data fields."))
		sb.WriteString("\n")
	}
	for i := range m.inputs {
		marker := "  "
		if i == m.focus {
			marker = m.styles.Accent.Render("> ")
		}
		sb.WriteString(marker)
		sb.WriteString(m.styles.Key.Render(padRight(m.keys[i], labelWidth)))
		sb.WriteString("  ")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Border.GetForeground())
	sb.WriteString(box.Render(m.preview.View()))
	sb.WriteString("\n")

	if m.prompting {
		sb.WriteString(m.prompt.View())
		sb.WriteString("\n")
	}

	switch {
	case m.status == "":
		sb.WriteString("\n")
	case m.statusErr:
		sb.WriteString(m.styles.Error.Render(m.status) + "\n")
	default:
		sb.WriteString(m.styles.Success.Render(m.status) + "\n")
	}
	sb.WriteString(m.styles.Hint.Render(helpText))

	return sb.String()
}

// Status returns the status line text and whether it reports an error.
func (m EditorModel) Status() (string, bool) {
	return m.status, m.statusErr
}

// FocusedKey returns the data key of the focused input, or "".
func (m EditorModel) FocusedKey() string {
	if len(m.keys) == 0 {
		return ""
	}
	return m.keys[m.focus]
}

// Value returns the text shown for key.
func (m EditorModel) Value(key string) (string, bool) {
	for i, k := range m.keys {
		if k == key {
			return m.inputs[i].Value(), true
		}
	}
	return "", false
}

// RunEditor runs the editor full screen until the user quits.
func RunEditor(ctrl *editor.Controller, downloadDir string) error {
	p := tea.NewProgram(NewEditorModel(ctrl, downloadDir), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running editor: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
