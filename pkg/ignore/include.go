package ignore

import (
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// dirSuffix marks an inclusion pattern that selects everything below a directory.
const dirSuffix = "/**"

// IncludeSet is an allow-list of glob patterns. A path is included when any
// pattern matches it; an empty set includes every path.
type IncludeSet struct {
	patterns []string
	logger   *zap.Logger
}

// NewIncludeSet initializes an empty IncludeSet. A nil logger is replaced by a no-op logger.
func NewIncludeSet(logger *zap.Logger) *IncludeSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncludeSet{logger: logger}
}

// CompileLines appends trimmed, non-blank patterns to the set. Malformed
// globs are kept; they simply never match.
func (is *IncludeSet) CompileLines(lines ...string) {
	for _, line := range lines {
		p := strings.TrimSpace(line)
		if p == "" {
			continue
		}
		if !strings.HasSuffix(p, dirSuffix) && !doublestar.ValidatePattern(p) {
			is.logger.Debug("Inclusion pattern is malformed and will never match", zap.String("pattern", p))
		}
		is.patterns = append(is.patterns, p)
	}
}

// CompileFile reads an inclusion file and appends its patterns. A missing file is not an error.
func (is *IncludeSet) CompileFile(filePath string) error {
	lines, err := readPatternFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			is.logger.Debug("Inclusion file does not exist and will be skipped", zap.String("filePath", filePath))
			return nil
		}
		is.logger.Error("Failed to read inclusion file", zap.String("filePath", filePath), zap.Error(err))
		return err
	}
	is.CompileLines(lines...)
	return nil
}

// Len returns the number of patterns.
func (is *IncludeSet) Len() int {
	return len(is.patterns)
}

// Patterns returns the patterns in load order.
func (is *IncludeSet) Patterns() []string {
	out := make([]string, len(is.patterns))
	copy(out, is.patterns)
	return out
}

// Included reports whether relPath matches any pattern. With no patterns
// every path is included.
func (is *IncludeSet) Included(relPath string) bool {
	if len(is.patterns) == 0 {
		return true
	}
	normalized := NormalizePath(relPath)
	for _, p := range is.patterns {
		if matchInclude(p, normalized) {
			return true
		}
	}
	return false
}

// matchInclude applies one inclusion pattern. "dir/**" matches the directory
// itself and, as a plain prefix on "dir/", everything below it; patterns
// without a slash match the base name.
func matchInclude(pattern, relPath string) bool {
	if strings.HasSuffix(pattern, dirSuffix) {
		dir := strings.TrimSuffix(pattern, dirSuffix)
		return relPath == dir || strings.HasPrefix(relPath, dir+"/")
	}
	if ok, _ := doublestar.Match(pattern, relPath); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, path.Base(relPath))
		return ok
	}
	return false
}
