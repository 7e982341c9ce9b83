package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/kse/pkg/types"
)

// Column width caps
const (
	maxKeyWidth   = 32
	maxValueWidth = 60
	sizeWidth     = 8
)

const maskedValue = "••••••••"

// FieldTable renders fields in a styled box table. With mask set, text
// values are hidden.
func FieldTable(fields []types.Field, st Styles, mask bool) string {
	headers := []string{"KEY", "VALUE", "SIZE"}

	values := make([]string, len(fields))
	widths := []int{runewidth.StringWidth(headers[0]), runewidth.StringWidth(headers[1]), sizeWidth}
	for i, f := range fields {
		values[i] = displayValue(f, mask)
		widths[0] = max(widths[0], min(runewidth.StringWidth(f.Key), maxKeyWidth))
		widths[1] = max(widths[1], min(runewidth.StringWidth(values[i]), maxValueWidth))
	}

	var sb strings.Builder

	sb.WriteString(rule(st, TopLeft, TopT, TopRight, widths))
	sb.WriteString("\n")

	sb.WriteString(st.Border.Render(Vertical))
	for i, h := range headers {
		sb.WriteString(st.Header.Render(" " + padRight(h, widths[i]) + " "))
		sb.WriteString(st.Border.Render(Vertical))
	}
	sb.WriteString("\n")

	sb.WriteString(rule(st, LeftT, Cross, RightT, widths))
	sb.WriteString("\n")

	binary := 0
	for i, f := range fields {
		valueStyle := st.Value
		if f.Binary {
			valueStyle = st.Muted
			binary++
		}
		cells := []struct {
			text  string
			style lipgloss.Style
		}{
			{f.Key, st.Key},
			{values[i], valueStyle},
			{fmt.Sprintf("%d B", f.Size), st.Muted},
		}

		sb.WriteString(st.Border.Render(Vertical))
		for j, c := range cells {
			sb.WriteString(c.style.Render(" " + padRight(c.text, widths[j]) + " "))
			sb.WriteString(st.Border.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule(st, BottomLeft, BottomT, BottomRight, widths))
	sb.WriteString("\n")

	summary := fmt.Sprintf("  %d fields", len(fields))
	if binary > 0 {
		summary += st.Muted.Render(fmt.Sprintf(" (%d binary, read-only)", binary))
	}
	sb.WriteString(summary)
	sb.WriteString("\n")

	return sb.String()
}

// PrintFieldTable writes FieldTable to w
func PrintFieldTable(w io.Writer, fields []types.Field, st Styles, mask bool) {
	fmt.Fprint(w, FieldTable(fields, st, mask))
}

func displayValue(f types.Field, mask bool) string {
	switch {
	case f.Binary:
		return "(binary)"
	case mask:
		return maskedValue
	default:
		// keep one line per field
		return strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(f.Value)
	}
}
