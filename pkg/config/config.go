// Package config loads per-directory export settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// GlobalIgnoreEnv names an optional file whose patterns are prepended to the
// global exclusion rules.
const GlobalIgnoreEnv = "DIREXPORT_GLOBAL_IGNORE"

// File names searched for in the export root, in order.
var FileNames = []string{"exportconfig.json", "exportconfig.yaml", "exportconfig.yml"}

// Config holds export settings. Fields absent from the config file keep
// their defaults.
type Config struct {
	IgnoreFile               string   `json:"ignoreFile" yaml:"ignoreFile"`
	IncludeList              string   `json:"includeList" yaml:"includeList"`
	Output                   string   `json:"output" yaml:"output"`
	RemoveComments           bool     `json:"removeComments" yaml:"removeComments"`
	AllowIgnoredOnTabsExport bool     `json:"allowIgnoredOnTabsExport" yaml:"allowIgnoredOnTabsExport"`
	IncludeProjectStructure  *bool    `json:"includeProjectStructure,omitempty" yaml:"includeProjectStructure,omitempty"` // nil means ask
	Description              string   `json:"description,omitempty" yaml:"description,omitempty"`
	GlobalIgnoreRules        []string `json:"globalIgnoreRules,omitempty" yaml:"globalIgnoreRules,omitempty"`
	GlobalIncludeRules       []string `json:"globalIncludeRules,omitempty" yaml:"globalIncludeRules,omitempty"`

	// Source is the file the settings were read from; empty when only defaults apply.
	Source string `json:"-" yaml:"-"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		IgnoreFile:  ".export-ignore",
		IncludeList: ".export-include",
		Output:      "export.md",
	}
}

// Load reads the first config file found in root over the defaults, then
// applies the global ignore file named by GlobalIgnoreEnv.
func Load(root string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Default()
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := decode(name, data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
		cfg.Source = path
		logger.Debug("Loaded config file", zap.String("file", path))
		break
	}

	if globalFile := os.Getenv(GlobalIgnoreEnv); globalFile != "" {
		lines, err := readLines(globalFile)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read global ignore file %s: %w", globalFile, err)
		}
		cfg.GlobalIgnoreRules = append(lines, cfg.GlobalIgnoreRules...)
		logger.Debug("Loaded global ignore file",
			zap.String("file", globalFile),
			zap.Int("patternCount", len(lines)))
	}

	return cfg, nil
}

// decode merges data into cfg. Keys missing from data leave cfg untouched.
func decode(name string, data []byte, cfg *Config) error {
	if strings.HasSuffix(name, ".json") {
		return json.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}
