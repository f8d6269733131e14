// File: pkg/export/traversal.go
package export

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"direxport/pkg/ignore"
	"direxport/pkg/strip"

	"go.uber.org/zap"
)

// traversalState is owned by exactly one walk.
type traversalState struct {
	visited     map[string]struct{} // canonical absolute paths of entered directories
	blocks      []RenderedBlock
	diagnostics []Diagnostic
}

func newTraversalState() *traversalState {
	return &traversalState{visited: make(map[string]struct{})}
}

// enter records dir as visited and reports whether it was new.
func (st *traversalState) enter(canonical string) bool {
	if _, seen := st.visited[canonical]; seen {
		return false
	}
	st.visited[canonical] = struct{}{}
	return true
}

// Traverser walks a directory tree depth-first and renders every selected file.
type Traverser struct {
	root     string
	policy   *Policy
	renderer fileRenderer
	logger   *zap.Logger
}

// NewTraverser creates a traverser rooted at root. A nil stripper leaves
// contents untouched; a nil logger is replaced by a no-op logger.
func NewTraverser(root string, policy *Policy, stripper strip.Stripper, logger *zap.Logger) *Traverser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Traverser{
		root:     root,
		policy:   policy,
		renderer: fileRenderer{stripper: stripper, logger: logger},
		logger:   logger,
	}
}

// Walk traverses the tree and calls visit for every rendered file, in the
// order entries come back from the directory listings. Recoverable failures
// are returned as diagnostics. If ctx is canceled the walk stops before the
// next entry and returns the context error; whatever was visited so far must
// be discarded by the caller.
func (t *Traverser) Walk(ctx context.Context, visit func(RenderedBlock)) ([]Diagnostic, error) {
	st, err := t.run(ctx, visit)
	if st == nil {
		return nil, err
	}
	return st.diagnostics, err
}

// Collect walks the tree and returns the rendered blocks in traversal order.
// On cancellation no blocks are returned.
func (t *Traverser) Collect(ctx context.Context) ([]RenderedBlock, []Diagnostic, error) {
	st, err := t.run(ctx, nil)
	if st == nil {
		return nil, nil, err
	}
	if err != nil {
		return nil, st.diagnostics, err
	}
	return st.blocks, st.diagnostics, nil
}

// run performs one walk with fresh state. The state is nil only when the
// root precondition fails.
func (t *Traverser) run(ctx context.Context, visit func(RenderedBlock)) (*traversalState, error) {
	absRoot, err := checkRoot(t.root)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("Starting traversal", zap.String("root", absRoot))
	st := newTraversalState()
	if err := t.walkDir(ctx, st, absRoot, absRoot, visit); err != nil {
		return st, err
	}
	t.logger.Debug("Completed traversal",
		zap.Int("files", len(st.blocks)),
		zap.Int("directories", len(st.visited)),
		zap.Int("diagnostics", len(st.diagnostics)))
	return st, nil
}

func (t *Traverser) walkDir(ctx context.Context, st *traversalState, absRoot, dir string, visit func(RenderedBlock)) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.diagnose(st, "stat", relativePath(absRoot, dir), err)
		return nil
	}
	if !st.enter(canonical) {
		t.logger.Warn("Skipping already processed directory",
			zap.String("directory", dir),
			zap.String("canonical", canonical))
		return nil
	}

	entries, err := readDirUnsorted(dir)
	if err != nil {
		t.diagnose(st, "list", relativePath(absRoot, dir), err)
		return nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			t.logger.Debug("Walk canceled", zap.String("directory", dir))
			return err
		}

		entryPath := filepath.Join(dir, entry.Name())
		relPath := relativePath(absRoot, entryPath)

		isDir, isFile, err := entryKind(entry, entryPath)
		if err != nil {
			t.diagnose(st, "stat", relPath, err)
			continue
		}

		decision := t.policy.Decide(relPath, isDir)
		if !decision.Visit {
			t.logger.Debug("Skipping excluded entry", zap.String("path", relPath))
			continue
		}

		if isDir {
			if err := t.walkDir(ctx, st, absRoot, entryPath, visit); err != nil {
				return err
			}
			continue
		}

		if !isFile || !decision.Include {
			continue
		}

		block, warning, err := t.renderer.render(entryPath, relPath, entry.Name())
		if err != nil {
			t.diagnose(st, "read", relPath, err)
			continue
		}
		if warning != nil {
			st.diagnostics = append(st.diagnostics, *warning)
		}
		st.blocks = append(st.blocks, block)
		if visit != nil {
			visit(block)
		}
	}
	return nil
}

func (t *Traverser) diagnose(st *traversalState, op, relPath string, err error) {
	t.logger.Warn("Skipping unreadable entry",
		zap.String("op", op),
		zap.String("path", relPath),
		zap.Error(err))
	st.diagnostics = append(st.diagnostics, Diagnostic{Op: op, Path: relPath, Err: err})
}

// checkRoot resolves root to an absolute directory path.
func checkRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: no root directory given", ErrRootNotFound)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRootNotFound, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, absRoot)
	}
	return absRoot, nil
}

// readDirUnsorted lists dir in the order the filesystem returns entries.
func readDirUnsorted(dir string) ([]fs.DirEntry, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadDir(-1)
}

// entryKind classifies an entry, following symbolic links to their target.
func entryKind(entry fs.DirEntry, entryPath string) (isDir, isFile bool, err error) {
	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		info, statErr := os.Stat(entryPath)
		if statErr != nil {
			return false, false, statErr
		}
		mode = info.Mode().Type()
	}
	return mode.IsDir(), mode.IsRegular(), nil
}

// relativePath returns path relative to root with forward slashes.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return ignore.NormalizePath(rel)
}
