package export

import (
	"os"
	"path/filepath"
	"testing"

	"direxport/pkg/ignore"

	"github.com/stretchr/testify/require"
)

// writeTree creates files under root. Keys ending in "/" create empty directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o750))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
}

// newPolicy compiles exclusion and inclusion lines without defaults.
func newPolicy(excludes, includes []string) *Policy {
	es := ignore.NewExcludeSet(nil)
	es.CompileLines(excludes...)
	is := ignore.NewIncludeSet(nil)
	is.CompileLines(includes...)
	return NewPolicy(es, is)
}

func blockPaths(blocks []RenderedBlock) []string {
	paths := make([]string, 0, len(blocks))
	for _, b := range blocks {
		paths = append(paths, b.Path)
	}
	return paths
}
