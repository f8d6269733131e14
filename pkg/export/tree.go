// File: pkg/export/tree.go
package export

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// treeIndent is the indentation added per directory level.
const treeIndent = "  "

// treeEntry is a directory entry with its symlink-resolved kind.
type treeEntry struct {
	name  string
	path  string
	isDir bool
}

// RenderStructure produces an indented listing of the entries the policy
// visits. Within each directory, sub-directories come first and entries are
// ordered case-insensitively by name. Directories are written as "name/".
//
// The walk keeps its own visited set and checks ctx between entries; it
// shares nothing with a Traverser.
func RenderStructure(ctx context.Context, root string, policy *Policy, logger *zap.Logger) (string, []Diagnostic, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absRoot, err := checkRoot(root)
	if err != nil {
		return "", nil, err
	}

	tr := &treeRenderer{
		root:    absRoot,
		policy:  policy,
		logger:  logger,
		visited: make(map[string]struct{}),
	}
	if err := tr.renderDir(ctx, absRoot, ""); err != nil {
		return "", tr.diagnostics, err
	}
	return tr.out.String(), tr.diagnostics, nil
}

type treeRenderer struct {
	root        string
	policy      *Policy
	logger      *zap.Logger
	visited     map[string]struct{}
	out         strings.Builder
	diagnostics []Diagnostic
}

func (tr *treeRenderer) renderDir(ctx context.Context, dir, prefix string) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		tr.diagnose("stat", dir, err)
		return nil
	}
	if _, seen := tr.visited[canonical]; seen {
		tr.logger.Debug("Directory already listed in tree", zap.String("directory", dir))
		return nil
	}
	tr.visited[canonical] = struct{}{}

	entries, err := tr.readEntries(dir)
	if err != nil {
		tr.diagnose("list", dir, err)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath := relativePath(tr.root, entry.path)
		if !tr.policy.Decide(relPath, entry.isDir).Visit {
			tr.logger.Debug("Skipping excluded entry in tree", zap.String("path", relPath))
			continue
		}

		if entry.isDir {
			tr.out.WriteString(prefix + entry.name + "/\n")
			if err := tr.renderDir(ctx, entry.path, prefix+treeIndent); err != nil {
				return err
			}
			continue
		}
		tr.out.WriteString(prefix + entry.name + "\n")
	}
	return nil
}

// readEntries lists dir sorted directories first, then by lowercase name.
func (tr *treeRenderer) readEntries(dir string) ([]treeEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]treeEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entryPath := filepath.Join(dir, de.Name())
		isDir, _, err := entryKind(de, entryPath)
		if err != nil {
			// Dangling links are still listed, as plain entries.
			tr.logger.Debug("Cannot resolve entry type", zap.String("path", entryPath), zap.Error(err))
		}
		entries = append(entries, treeEntry{name: de.Name(), path: entryPath, isDir: isDir})
	}

	// Sort entries: directories first, then case-insensitive by name.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].isDir != entries[j].isDir {
			return entries[i].isDir
		}
		li, lj := strings.ToLower(entries[i].name), strings.ToLower(entries[j].name)
		if li != lj {
			return li < lj
		}
		return entries[i].name < entries[j].name
	})
	return entries, nil
}

func (tr *treeRenderer) diagnose(op, dir string, err error) {
	relPath := relativePath(tr.root, dir)
	tr.logger.Warn("Failed to read directory for tree structure",
		zap.String("op", op),
		zap.String("directory", relPath),
		zap.Error(err))
	tr.diagnostics = append(tr.diagnostics, Diagnostic{Op: op, Path: relPath, Err: err})
}
