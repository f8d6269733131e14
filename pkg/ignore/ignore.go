package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// Rule encapsulates a compiled gitignore pattern together with
// metadata about the pattern's origin.
type Rule struct {
	Pattern gitignore.Pattern // Compiled gitignore pattern.
	Negate  bool              // Indicates if the pattern is a negation (starts with '!').
	Line    string            // Original pattern line.
	LineNo  int               // Position of the rule in the set (1-based).
}

// ExcludeSet is an ordered collection of gitignore-style exclusion rules.
// Later rules override earlier ones; a negated rule un-excludes a path
// excluded by an earlier rule.
type ExcludeSet struct {
	rules  []*Rule
	logger *zap.Logger
}

// NewExcludeSet initializes an empty ExcludeSet. A nil logger is replaced by a no-op logger.
func NewExcludeSet(logger *zap.Logger) *ExcludeSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExcludeSet{
		rules:  []*Rule{},
		logger: logger,
	}
}

// CompileLines compiles a set of pattern lines and appends them to the set.
// Blank lines and comments are skipped; any other line is accepted as-is.
func (es *ExcludeSet) CompileLines(lines ...string) {
	for _, line := range lines {
		trimmed, ok := cleanPatternLine(line)
		if !ok {
			continue
		}
		rule := &Rule{
			Pattern: gitignore.ParsePattern(trimmed, nil),
			Negate:  strings.HasPrefix(trimmed, "!"),
			Line:    trimmed,
			LineNo:  len(es.rules) + 1,
		}
		es.rules = append(es.rules, rule)
		es.logger.Debug("Compiled exclusion pattern",
			zap.Int("lineNo", rule.LineNo),
			zap.String("pattern", rule.Line),
			zap.Bool("negate", rule.Negate))
	}
}

// CompileFile reads a pattern file and appends its lines to the set.
// A missing file is not an error.
func (es *ExcludeSet) CompileFile(filePath string) error {
	lines, err := readPatternFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			es.logger.Debug("Exclusion file does not exist and will be skipped", zap.String("filePath", filePath))
			return nil
		}
		es.logger.Error("Failed to read exclusion file", zap.String("filePath", filePath), zap.Error(err))
		return err
	}
	before := len(es.rules)
	es.CompileLines(lines...)
	es.logger.Debug("Compiled exclusion file",
		zap.String("filePath", filePath),
		zap.Int("patternCount", len(es.rules)-before))
	return nil
}

// Len returns the number of compiled rules.
func (es *ExcludeSet) Len() int {
	return len(es.rules)
}

// Rules returns the compiled rules in evaluation order.
func (es *ExcludeSet) Rules() []*Rule {
	out := make([]*Rule, len(es.rules))
	copy(out, es.rules)
	return out
}

// Excluded reports whether relPath is excluded by the set.
func (es *ExcludeSet) Excluded(relPath string, isDir bool) bool {
	excluded, _ := es.MatchWithPattern(relPath, isDir)
	return excluded
}

// MatchWithPattern reports whether relPath is excluded and returns the rule
// that decided it, or nil when no rule matched.
func (es *ExcludeSet) MatchWithPattern(relPath string, isDir bool) (bool, *Rule) {
	parts := splitPath(relPath)
	if len(parts) == 0 {
		return false, nil
	}

	// Last matching rule wins, so evaluate back to front.
	for i := len(es.rules) - 1; i >= 0; i-- {
		switch es.rules[i].Pattern.Match(parts, isDir) {
		case gitignore.Exclude:
			return true, es.rules[i]
		case gitignore.Include:
			return false, es.rules[i]
		}
	}
	return false, nil
}

// cleanPatternLine strips line endings and trailing whitespace and reports
// whether the line carries a pattern.
func cleanPatternLine(line string) (string, bool) {
	trimmed := strings.TrimRight(line, " \t\r\n")
	if strings.TrimSpace(trimmed) == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return trimmed, true
}

// readPatternFile reads a newline-separated pattern file.
func readPatternFile(filePath string) ([]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(content), "\n"), nil
}

// NormalizePath converts OS-specific separators to forward slashes and drops
// leading "./" and trailing slashes.
func NormalizePath(path string) string {
	path = filepath.ToSlash(path)
	path = strings.TrimPrefix(path, "./")
	return strings.TrimRight(path, "/")
}

func splitPath(relPath string) []string {
	normalized := NormalizePath(relPath)
	if normalized == "" || normalized == "." {
		return nil
	}
	return strings.Split(normalized, "/")
}
