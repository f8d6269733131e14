// File: pkg/export/decode.go
package export

import (
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
)

// decodeText turns raw file bytes into text. A leading UTF-8 byte order mark
// is dropped and invalid sequences become U+FFFD, so binary files never fail.
func decodeText(raw []byte) string {
	decoded, err := xunicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}

// trimTrailingSpace removes trailing whitespace, including line breaks.
func trimTrailingSpace(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// languageTag derives a language hint from a file name: the lowercase
// extension without its dot. Dot files without another dot have no extension.
func languageTag(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	idx := strings.LastIndexByte(trimmed, '.')
	if idx < 0 {
		return ""
	}
	return strings.ToLower(trimmed[idx+1:])
}
