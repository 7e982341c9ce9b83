package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// Highlight colors YAML text for a 256-color terminal with the named chroma
// style. Unknown styles fall back to chroma's default.
func Highlight(text, style string) (string, error) {
	var sb strings.Builder
	if err := quick.Highlight(&sb, text, "yaml", "terminal256", style); err != nil {
		return "", err
	}
	return sb.String(), nil
}
