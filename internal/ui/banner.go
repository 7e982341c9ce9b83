package ui

import (
	"strings"

	"github.com/common-nighthawk/go-figure"
)

const (
	bannerText = "kse"
	bannerFont = "small"
)

// Banner renders the logo in the theme's logo color, followed by the
// theme toggle icon.
func Banner(st Styles, icon string) string {
	lines := figure.NewFigure(bannerText, bannerFont, true).Slicify()

	var sb strings.Builder
	first := true
	for _, line := range lines {
		line = strings.TrimRight(line, " ")
		if line == "" {
			continue
		}
		sb.WriteString(st.Logo.Render(line))
		if first {
			sb.WriteString("   " + st.Hint.Render(icon+" ctrl+t"))
			first = false
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
