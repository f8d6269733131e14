package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"direxport/pkg/config"
	"direxport/pkg/export"
	"direxport/pkg/prompt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// session holds what every command resolves before doing its work.
type session struct {
	root     string
	cfg      *config.Config
	prompter prompt.Prompter
}

func newSession(cmd *cobra.Command) (*session, error) {
	rootFlag, err := cmd.Flags().GetString("root")
	if err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return nil, fmt.Errorf("error reading flags: %w", err)
	}

	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", export.ErrRootNotFound, root)
	}
	cfg, err := config.Load(root, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("Using config file", zap.String("file", cfg.Source))
	}
	return &session{root: root, cfg: cfg, prompter: newPrompter(yes)}, nil
}

// resolveStructure turns the --structure flag and the configured value into
// a decision, asking when neither settles it.
func (s *session) resolveStructure(flag string) (bool, error) {
	switch flag {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	case "ask":
	case "":
		if s.cfg.IncludeProjectStructure != nil {
			return *s.cfg.IncludeProjectStructure, nil
		}
	default:
		return false, fmt.Errorf("invalid --structure value %q: want yes, no or ask", flag)
	}

	include, err := s.prompter.Confirm("Include project structure at the top of the file?", false)
	if errors.Is(err, prompt.ErrNotInteractive) {
		return false, fmt.Errorf("%w (pass --structure yes|no)", err)
	}
	return include, err
}

// outputPath resolves the output file and makes sure its directory exists,
// asking before creating it.
func (s *session) outputPath(output string) (string, error) {
	path, err := export.ResolveOutputPath(s.root, output)
	if err != nil {
		return "", err
	}
	dir, missing := export.OutputDirMissing(path)
	if !missing {
		return path, nil
	}

	create, err := s.prompter.Confirm(fmt.Sprintf("Output directory %s does not exist. Create it?", dir), false)
	if err != nil {
		return "", fmt.Errorf("error ensuring output path: %w", err)
	}
	if !create {
		return "", fmt.Errorf("output directory %s does not exist and was not created", dir)
	}
	if err := export.EnsureDirectory(dir, logger); err != nil {
		return "", fmt.Errorf("error ensuring output path: %w", err)
	}
	return path, nil
}

// report prints recovered failures and the success line.
func report(cmd *cobra.Command, res *export.Result, what, outputPath string) {
	printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
	successColor.Fprintf(cmd.OutOrStdout(), "%s exported to %s\n", what, outputPath)
	logger.Debug("Export summary", zap.Int("files", res.Files), zap.Int("diagnostics", len(res.Diagnostics)))
}

func printDiagnostics(w io.Writer, diags []export.Diagnostic) {
	for _, d := range diags {
		warnColor.Fprintf(w, "warning: %s\n", d.String())
	}
}

// errCanceled is returned when Ctrl-C stops an export before anything is written.
var errCanceled = errors.New("export canceled")
