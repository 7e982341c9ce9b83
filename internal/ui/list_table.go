package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/kse/pkg/types"
)

type cell struct {
	text  string
	style lipgloss.Style
}

// boxTable renders headers and rows in a box sized to the content.
func boxTable(st Styles, headers []string, rows [][]cell) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], min(runewidth.StringWidth(c.text), maxValueWidth))
		}
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

	for _, row := range rows {
		sb.WriteString(st.Border.Render(Vertical))
		for i, c := range row {
			sb.WriteString(c.style.Render(" " + padRight(c.text, widths[i]) + " "))
			sb.WriteString(st.Border.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule(st, BottomLeft, BottomT, BottomRight, widths))
	sb.WriteString("\n")
	return sb.String()
}

// SecretTable renders Secrets listed from a cluster or AWS.
func SecretTable(secrets []types.Secret, st Styles) string {
	rows := make([][]cell, 0, len(secrets))
	for _, s := range secrets {
		updated := "-"
		if !s.UpdatedAt.IsZero() {
			updated = s.UpdatedAt.Format("2006-01-02 15:04")
		}
		typ := s.Type
		if typ == "" {
			typ = "-"
		}
		rows = append(rows, []cell{
			{s.Name, st.Key},
			{typ, st.Muted},
			{fmt.Sprintf("%d", s.Keys), st.Value},
			{updated, st.Muted},
		})
	}

	var sb strings.Builder
	sb.WriteString(boxTable(st, []string{"NAME", "TYPE", "KEYS", "CREATED"}, rows))
	sb.WriteString(fmt.Sprintf("  %d secrets\n", len(secrets)))
	return sb.String()
}

// ProfileTable renders AWS profiles, marking the active one.
func ProfileTable(profiles []types.AWSProfile, active string, st Styles) string {
	rows := make([][]cell, 0, len(profiles))
	for _, p := range profiles {
		marker, nameStyle := "", st.Key
		if p.Name == active {
			marker, nameStyle = "●", st.Success
		}
		region := p.Region
		if region == "" {
			region = "-"
		}
		rows = append(rows, []cell{
			{marker, st.Success},
			{p.Name, nameStyle},
			{region, st.Muted},
			{p.Source, st.Muted},
		})
	}

	var sb strings.Builder
	sb.WriteString(boxTable(st, []string{"", "NAME", "REGION", "SOURCE"}, rows))
	sb.WriteString(fmt.Sprintf("  %d profiles\n", len(profiles)))
	return sb.String()
}

// PrintSecretTable writes SecretTable to w
func PrintSecretTable(w io.Writer, secrets []types.Secret, st Styles) {
	fmt.Fprint(w, SecretTable(secrets, st))
}

// PrintProfileTable writes ProfileTable to w
func PrintProfileTable(w io.Writer, profiles []types.AWSProfile, active string, st Styles) {
	fmt.Fprint(w, ProfileTable(profiles, active, st))
}
