package export

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectedFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":        "package main",
		"util.go":        "package main // helpers",
		"secret.env":     "TOKEN=1",
		"notes.txt":      "notes",
		".export-ignore": "*.env\n",
	})
	return root
}

func TestRunSelected_KeepsInputOrder(t *testing.T) {
	root := selectedFixture(t)

	res, err := RunSelected(context.Background(), SelectedOptions{
		Root:        root,
		Files:       []string{filepath.Join(root, "util.go"), filepath.Join(root, "main.go"), filepath.Join(root, "notes.txt")},
		IgnoreFile:  ".export-ignore",
		IncludeFile: ".export-include",
		MaxWorkers:  2,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"# Selected Files Content\n\n"+
			"## util.go\n\n```go\npackage main // helpers\n```\n\n"+
			"## main.go\n\n```go\npackage main\n```\n\n"+
			"## notes.txt\n\n```txt\nnotes\n```\n\n",
		string(res.Document))
	assert.Equal(t, 3, res.Files)
}

func TestRunSelected_ConfirmLeftOutFiles(t *testing.T) {
	root := selectedFixture(t)
	files := []string{filepath.Join(root, "main.go"), filepath.Join(root, "notes.txt")}

	var asked []string
	res, err := RunSelected(context.Background(), SelectedOptions{
		Root:          root,
		Files:         files,
		GlobalInclude: []string{"*.go"},
		Confirm: func(relPath string) (bool, error) {
			asked = append(asked, relPath)
			return false, nil
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, asked)
	assert.Equal(t, []string{"main.go"}, blockPaths(mustBlocks(t, res)))

	res, err = RunSelected(context.Background(), SelectedOptions{
		Root:          root,
		Files:         files,
		GlobalInclude: []string{"*.go"},
		Confirm:       func(string) (bool, error) { return true, nil },
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
}

func TestRunSelected_AllowIgnored(t *testing.T) {
	root := selectedFixture(t)
	secret := filepath.Join(root, "secret.env")
	// Inclusion rules make the exclusion effective.
	opts := SelectedOptions{
		Root:          root,
		Files:         []string{secret},
		IgnoreFile:    ".export-ignore",
		GlobalInclude: []string{"*.env"},
	}

	res, err := RunSelected(context.Background(), opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Files, "nil Confirm drops excluded files")

	opts.AllowIgnored = true
	res, err = RunSelected(context.Background(), opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.Contains(t, string(res.Document), "## secret.env\n\n```env\nTOKEN=1\n```")
}

func TestRunSelected_ConfirmError(t *testing.T) {
	root := selectedFixture(t)
	boom := errors.New("no terminal")

	res, err := RunSelected(context.Background(), SelectedOptions{
		Root:          root,
		Files:         []string{filepath.Join(root, "notes.txt")},
		GlobalInclude: []string{"*.go"},
		Confirm:       func(string) (bool, error) { return false, boom },
	}, nil)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, res)
}

func TestRunSelected_MissingFileIsDiagnostic(t *testing.T) {
	root := selectedFixture(t)

	res, err := RunSelected(context.Background(), SelectedOptions{
		Root:  root,
		Files: []string{filepath.Join(root, "gone.go"), filepath.Join(root, "main.go")},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "read", res.Diagnostics[0].Op)
	assert.Equal(t, "gone.go", res.Diagnostics[0].Path)
}

func TestRunSelected_StructureAndComments(t *testing.T) {
	root := selectedFixture(t)

	res, err := RunSelected(context.Background(), SelectedOptions{
		Root:             root,
		Files:            []string{filepath.Join(root, "util.go")},
		IncludeStructure: true,
		RemoveComments:   true,
	}, nil)
	require.NoError(t, err)
	doc := string(res.Document)
	assert.True(t, strings.HasPrefix(doc, "# Project Structure\n\n```\n"))
	assert.Contains(t, doc, "# Selected Files Content\n\n## util.go\n\n```go\npackage main\n```")
}

func TestRunSelected_Canceled(t *testing.T) {
	root := selectedFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunSelected(ctx, SelectedOptions{Root: root, Files: []string{filepath.Join(root, "main.go")}}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

// mustBlocks recovers the block paths from a rendered document.
func mustBlocks(t *testing.T, res *Result) []RenderedBlock {
	t.Helper()
	require.NotNil(t, res)
	var blocks []RenderedBlock
	for _, line := range strings.Split(string(res.Document), "\n") {
		if path, ok := strings.CutPrefix(line, "## "); ok {
			blocks = append(blocks, RenderedBlock{Path: path})
		}
	}
	return blocks
}
