package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "export.md")

	require.NoError(t, WriteOutput(out, []byte("first"), nil))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	require.NoError(t, WriteOutput(out, []byte("second"), nil))
	got, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp or lock files left next to the output")
	assert.Equal(t, "export.md", entries[0].Name())
}

func TestWriteOutput_MissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "export.md")
	err := WriteOutput(out, []byte("x"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create temp file")
}

func TestWriteOutput_ConcurrentWriters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "export.md")

	var wg sync.WaitGroup
	payloads := make([]string, 8)
	for i := range payloads {
		payloads[i] = strings.Repeat(fmt.Sprintf("writer-%d\n", i), 512)
	}
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, WriteOutput(out, []byte(p), nil))
		}(p)
	}
	wg.Wait()

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(got), "the file holds exactly one writer's document")
}

func TestOutputDirMissing(t *testing.T) {
	dir := t.TempDir()

	parent, missing := OutputDirMissing(filepath.Join(dir, "export.md"))
	assert.Equal(t, dir, parent)
	assert.False(t, missing)

	parent, missing = OutputDirMissing(filepath.Join(dir, "a", "b", "export.md"))
	assert.Equal(t, filepath.Join(dir, "a", "b"), parent)
	assert.True(t, missing)

	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, missing = OutputDirMissing(filepath.Join(file, "export.md"))
	assert.True(t, missing, "a file in place of the directory counts as missing")
}

func TestEnsureDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirectory(target, nil))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureDirectory(target, nil), "existing directory is fine")
}

func TestLockPathFor(t *testing.T) {
	a := lockPathFor("/tmp/x/export.md")
	assert.Equal(t, a, lockPathFor("/tmp/x/export.md"))
	assert.NotEqual(t, a, lockPathFor("/tmp/y/export.md"))
	assert.Equal(t, os.TempDir(), filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "direxport-"))
}

func TestResolveOutputPath(t *testing.T) {
	root := t.TempDir()

	got, err := ResolveOutputPath(root, "export.md")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "export.md"), got)

	abs := filepath.Join(t.TempDir(), "elsewhere.md")
	got, err = ResolveOutputPath(root, abs)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	_, err = ResolveOutputPath(root, "")
	require.Error(t, err)
}
