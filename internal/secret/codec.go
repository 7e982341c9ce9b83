package secret

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// Encode returns the padded standard base64 form of text.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode decodes a base64 data value. ASCII whitespace is ignored and
// trailing padding is optional, so values wrapped by other tools or
// written without '=' still decode. The URL-safe alphabet is accepted too.
func Decode(value string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, value)

	if len(clean)%4 == 0 {
		clean = strings.TrimSuffix(clean, "=")
		clean = strings.TrimSuffix(clean, "=")
	}

	b, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil && strings.ContainsAny(clean, "-_") {
		if b, urlErr := base64.RawURLEncoding.DecodeString(clean); urlErr == nil {
			return b, nil
		}
	}
	return b, err
}

// DecodeText decodes a base64 data value and reports whether the result is
// valid UTF-8 text.
func DecodeText(value string) (string, bool, error) {
	b, err := Decode(value)
	if err != nil {
		return "", false, err
	}
	return string(b), utf8.Valid(b), nil
}
