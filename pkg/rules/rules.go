// Package rules creates and extends pattern files such as .export-ignore.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Mode selects how Write treats an existing file.
type Mode int

const (
	// Overwrite replaces the file contents.
	Overwrite Mode = iota
	// Append adds patterns after the existing contents.
	Append
)

func (m Mode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case Append:
		return "append"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseList splits comma-separated input into trimmed patterns, dropping empty items.
func ParseList(input string) []string {
	var patterns []string
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		patterns = append(patterns, item)
	}
	return patterns
}

// Write stores patterns in path, one per line, each followed by a newline.
func Write(path string, patterns []string, mode Mode, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns to write to %s", path)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if mode == Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		logger.Error("Failed to open pattern file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if mode == Append {
		if err := ensureTrailingNewline(f, path); err != nil {
			return err
		}
	}

	if _, err := f.WriteString(strings.Join(patterns, "\n") + "\n"); err != nil {
		logger.Error("Failed to write pattern file", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Debug("Wrote pattern file",
		zap.String("file", path),
		zap.Stringer("mode", mode),
		zap.Int("patternCount", len(patterns)))
	return f.Close()
}

// ensureTrailingNewline keeps appended patterns from joining the last existing line.
func ensureTrailingNewline(f *os.File, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// SeedFromGitignore returns the non-blank lines of root/.gitignore, or nil
// when there is no such file.
func SeedFromGitignore(root string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
