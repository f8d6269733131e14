package ignore

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultExcludes are always appended after user and global patterns, so they
// can only be lifted by a later negation.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".vscode",
	"dist",
	"out",
	"*.vsix",
}

// LoadExcludes builds the exclusion set in precedence order: global rules,
// then the rules file (if it exists), then DefaultExcludes.
func LoadExcludes(global []string, filePath string, logger *zap.Logger) (*ExcludeSet, error) {
	es := NewExcludeSet(logger)
	es.CompileLines(global...)
	if filePath != "" {
		if err := es.CompileFile(filePath); err != nil {
			return nil, fmt.Errorf("failed to load exclusion rules: %w", err)
		}
	}
	es.CompileLines(DefaultExcludes...)
	return es, nil
}

// LoadIncludes builds the inclusion set from global rules followed by the
// rules file (if it exists).
func LoadIncludes(global []string, filePath string, logger *zap.Logger) (*IncludeSet, error) {
	is := NewIncludeSet(logger)
	is.CompileLines(global...)
	if filePath != "" {
		if err := is.CompileFile(filePath); err != nil {
			return nil, fmt.Errorf("failed to load inclusion rules: %w", err)
		}
	}
	return is, nil
}
