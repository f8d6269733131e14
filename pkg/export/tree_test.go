package export

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStructure_Ordering(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"c.txt":     "",
		"A.txt":     "",
		"b.md":      "",
		"B/z.txt":   "",
		"a/x.txt":   "",
		"a/Y/":      "",
		"a/b.go":    "",
		"a/Y/q.txt": "",
	})

	tree, diags, err := RenderStructure(context.Background(), root, newPolicy(nil, nil), nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, strings.Join([]string{
		"a/",
		"  Y/",
		"    q.txt",
		"  b.go",
		"  x.txt",
		"B/",
		"  z.txt",
		"A.txt",
		"b.md",
		"c.txt",
	}, "\n")+"\n", tree)
}

func TestRenderStructure_UsesVisitDecision(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/guide.md":     "",
		"node_modules/x.js": "",
		"notes.txt":         "",
		"README.md":         "",
	})

	// Entries that are merely not allow-listed are still listed; excluded
	// entries that are not allow-listed are dropped.
	policy := newPolicy([]string{"node_modules", "*.txt"}, []string{"*.md"})
	tree, _, err := RenderStructure(context.Background(), root, policy, nil)
	require.NoError(t, err)
	assert.Equal(t, "docs/\n  guide.md\nREADME.md\n", tree)
}

func TestRenderStructure_IndependentOfTraversalOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"b/1.txt": "", "a.txt": "", "C/": ""})

	first, _, err := RenderStructure(context.Background(), root, newPolicy(nil, nil), nil)
	require.NoError(t, err)
	second, _, err := RenderStructure(context.Background(), root, newPolicy(nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "b/\n  1.txt\nC/\na.txt\n", first)
}

func TestRenderStructure_RoundTrip(t *testing.T) {
	root := t.TempDir()
	layout := map[string]string{
		"cmd/tool/main.go":     "",
		"cmd/tool/flags.go":    "",
		"pkg/export/run.go":    "",
		"pkg/export/tree.go":   "",
		"pkg/ignore/ignore.go": "",
		"pkg/README":           "",
		"go.mod":               "",
		"docs/design/notes.md": "",
		"docs/design/empty/":   "",
	}
	writeTree(t, root, layout)

	tree, _, err := RenderStructure(context.Background(), root, newPolicy(nil, nil), nil)
	require.NoError(t, err)

	var want []string
	for name := range layout {
		parts := strings.Split(strings.TrimSuffix(name, "/"), "/")
		for i := 1; i < len(parts); i++ {
			want = append(want, strings.Join(parts[:i], "/")+"/")
		}
		want = append(want, name)
	}
	assert.ElementsMatch(t, dedupe(want), parseTree(t, tree))
}

func TestRenderStructure_SymlinkLoop(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/x.txt": ""})
	if err := os.Symlink("..", filepath.Join(root, "a", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	tree, _, err := RenderStructure(context.Background(), root, newPolicy(nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "a/\n  loop/\n  x.txt\n", tree)
}

func TestRenderStructure_CanceledAndMissingRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := RenderStructure(ctx, root, newPolicy(nil, nil), nil)
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = RenderStructure(context.Background(), filepath.Join(root, "missing"), newPolicy(nil, nil), nil)
	require.ErrorIs(t, err, ErrRootNotFound)
}

// parseTree rebuilds relative paths from indentation. Directories keep their
// trailing slash.
func parseTree(t *testing.T, tree string) []string {
	t.Helper()
	var (
		stack []string
		paths []string
	)
	for _, line := range strings.Split(strings.TrimSuffix(tree, "\n"), "\n") {
		name := strings.TrimLeft(line, " ")
		depth := (len(line) - len(name)) / len(treeIndent)
		require.LessOrEqual(t, depth, len(stack), "indentation jumps more than one level: %q", line)
		stack = stack[:depth]
		paths = append(paths, strings.Join(append(append([]string{}, stack...), name), ""))
		if strings.HasSuffix(name, "/") {
			stack = append(stack, name)
		}
	}
	return paths
}

func dedupe(in []string) []string {
	sort.Strings(in)
	out := in[:0]
	for _, s := range in {
		if len(out) == 0 || s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
