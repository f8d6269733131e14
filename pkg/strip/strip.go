// Package strip removes source comments from file contents before export.
package strip

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedLanguage is returned when no comment syntax is known for a language tag.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Stripper removes comments from text written in the language identified by
// lang (a lowercase file extension without the dot). Implementations return
// an error rather than a partially stripped result.
type Stripper interface {
	Strip(text, lang string) (string, error)
}

// Identity leaves text untouched.
type Identity struct{}

// Strip returns text unchanged.
func (Identity) Strip(text, _ string) (string, error) {
	return text, nil
}

// syntax describes the comment and string delimiters of a language family.
type syntax struct {
	line    []string    // line comment markers
	block   [][2]string // block comment open/close pairs
	quotes  string      // string literal delimiters that may contain comment markers
	escapes bool        // whether backslash escapes apply inside strings
}

var (
	cFamily = syntax{
		line:    []string{"//"},
		block:   [][2]string{{"/*", "*/"}},
		quotes:  "\"'`",
		escapes: true,
	}
	hashFamily = syntax{
		line:    []string{"#"},
		quotes:  "\"'",
		escapes: true,
	}
	markupFamily = syntax{
		block: [][2]string{{"<!--", "-->"}},
	}
	cssFamily = syntax{
		block:   [][2]string{{"/*", "*/"}},
		quotes:  "\"'",
		escapes: true,
	}
	sqlFamily = syntax{
		line:   []string{"--"},
		block:  [][2]string{{"/*", "*/"}},
		quotes: "'\"",
	}
	haskellFamily = syntax{
		line:    []string{"--"},
		block:   [][2]string{{"{-", "-}"}},
		quotes:  "\"",
		escapes: true,
	}
	hclFamily = syntax{
		line:    []string{"#", "//"},
		block:   [][2]string{{"/*", "*/"}},
		quotes:  "\"",
		escapes: true,
	}
	luaFamily = syntax{
		line:    []string{"--"},
		block:   [][2]string{{"--[[", "]]"}},
		quotes:  "\"'",
		escapes: true,
	}
)

// languages maps file extensions to comment syntax.
var languages = map[string]syntax{
	"js": cFamily, "jsx": cFamily, "mjs": cFamily, "cjs": cFamily,
	"ts": cFamily, "tsx": cFamily, "go": cFamily, "c": cFamily,
	"h": cFamily, "cc": cFamily, "cpp": cFamily, "hpp": cFamily,
	"cs": cFamily, "java": cFamily, "kt": cFamily, "kts": cFamily,
	"scala": cFamily, "swift": cFamily, "rs": cFamily, "dart": cFamily,
	"php": cFamily, "groovy": cFamily, "gradle": cFamily, "proto": cFamily,
	"less": cFamily, "scss": cFamily, "sass": cFamily,

	"py": hashFamily, "rb": hashFamily, "sh": hashFamily, "bash": hashFamily,
	"zsh": hashFamily, "pl": hashFamily, "r": hashFamily, "yaml": hashFamily,
	"yml": hashFamily, "toml": hashFamily, "coffee": hashFamily,
	"mk": hashFamily,

	"html": markupFamily, "htm": markupFamily, "xml": markupFamily,
	"svg": markupFamily, "vue": markupFamily, "md": markupFamily,

	"css": cssFamily,

	"sql": sqlFamily,

	"hs": haskellFamily, "lhs": haskellFamily,

	"tf": hclFamily, "tfvars": hclFamily, "hcl": hclFamily,

	"lua": luaFamily,
}

// Syntax strips comments using per-language delimiters. Line breaks inside
// removed comments are preserved so line numbers stay stable.
type Syntax struct{}

// NewSyntax returns the default Stripper.
func NewSyntax() Syntax {
	return Syntax{}
}

// Supported reports whether lang has a known comment syntax.
func Supported(lang string) bool {
	_, ok := languages[strings.ToLower(lang)]
	return ok
}

// Strip removes comments from text. Unknown languages yield ErrUnsupportedLanguage.
func (Syntax) Strip(text, lang string) (string, error) {
	syn, ok := languages[strings.ToLower(lang)]
	if !ok {
		return "", fmt.Errorf("strip comments for %q: %w", lang, ErrUnsupportedLanguage)
	}
	return syn.strip(text), nil
}

func (s syntax) strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]

		if strings.IndexByte(s.quotes, c) >= 0 {
			end := s.skipString(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}

		// Block markers are checked first so "--[[" wins over "--".
		if open, closing, ok := s.blockAt(text, i); ok {
			end := strings.Index(text[i+len(open):], closing)
			if end < 0 {
				keepNewlines(&b, text[i:])
				break
			}
			stop := i + len(open) + end + len(closing)
			keepNewlines(&b, text[i:stop])
			i = stop
			continue
		}

		if s.lineAt(text, i) {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				break
			}
			i += end
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

func (s syntax) blockAt(text string, i int) (string, string, bool) {
	for _, pair := range s.block {
		if strings.HasPrefix(text[i:], pair[0]) {
			return pair[0], pair[1], true
		}
	}
	return "", "", false
}

func (s syntax) lineAt(text string, i int) bool {
	for _, marker := range s.line {
		if strings.HasPrefix(text[i:], marker) {
			return true
		}
	}
	return false
}

// skipString returns the index just past the string literal starting at i.
// Unterminated single-line literals end at the line break.
func (s syntax) skipString(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch {
		case s.escapes && text[j] == '\\':
			j++
		case text[j] == quote:
			return j + 1
		case text[j] == '\n' && quote != '`':
			return j
		}
	}
	return len(text)
}

func keepNewlines(b *strings.Builder, removed string) {
	b.WriteString(strings.Repeat("\n", strings.Count(removed, "\n")))
}
