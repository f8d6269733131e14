package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")

	cfg, err := Load(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Nil(t, cfg.IncludeProjectStructure, "structure is asked for by default")
	assert.Empty(t, cfg.Source)
}

func TestLoad_JSONMergesOverDefaults(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")
	dir := t.TempDir()
	path := write(t, dir, "exportconfig.json", `{
		"output": "out/snapshot.md",
		"removeComments": true,
		"includeProjectStructure": false,
		"globalIncludeRules": ["*.go"]
	}`)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, ".export-ignore", cfg.IgnoreFile)
	assert.Equal(t, ".export-include", cfg.IncludeList)
	assert.Equal(t, "out/snapshot.md", cfg.Output)
	assert.True(t, cfg.RemoveComments)
	require.NotNil(t, cfg.IncludeProjectStructure)
	assert.False(t, *cfg.IncludeProjectStructure)
	assert.Equal(t, []string{"*.go"}, cfg.GlobalIncludeRules)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")
	dir := t.TempDir()
	write(t, dir, "exportconfig.yaml", `
ignoreFile: .myignore
includeProjectStructure: true
allowIgnoredOnTabsExport: true
description: Overview of the project
globalIgnoreRules:
  - "*.log"
  - tmp/
`)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, ".myignore", cfg.IgnoreFile)
	assert.Equal(t, "export.md", cfg.Output)
	require.NotNil(t, cfg.IncludeProjectStructure)
	assert.True(t, *cfg.IncludeProjectStructure)
	assert.True(t, cfg.AllowIgnoredOnTabsExport)
	assert.Equal(t, "Overview of the project", cfg.Description)
	assert.Equal(t, []string{"*.log", "tmp/"}, cfg.GlobalIgnoreRules)
}

func TestLoad_JSONTakesPrecedence(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")
	dir := t.TempDir()
	write(t, dir, "exportconfig.json", `{"output": "from-json.md"}`)
	write(t, dir, "exportconfig.yml", "output: from-yaml.md\n")

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-json.md", cfg.Output)
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv(GlobalIgnoreEnv, "")
	dir := t.TempDir()
	write(t, dir, "exportconfig.json", `{"output": `)

	_, err := Load(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: failed to parse")
}

func TestLoad_GlobalIgnoreEnv(t *testing.T) {
	dir := t.TempDir()
	global := write(t, t.TempDir(), "global-ignore", "*.tmp\n\n# keep comments\r\nbuild/\n")
	t.Setenv(GlobalIgnoreEnv, global)
	write(t, dir, "exportconfig.json", `{"globalIgnoreRules": ["*.log"]}`)

	cfg, err := Load(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.tmp", "# keep comments", "build/", "*.log"}, cfg.GlobalIgnoreRules)

	t.Setenv(GlobalIgnoreEnv, filepath.Join(dir, "missing"))
	_, err = Load(dir, nil)
	require.Error(t, err)
}
