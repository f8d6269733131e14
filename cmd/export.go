// File: cmd/export.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"direxport/pkg/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newExportCommand represents the export command.
// It exports the whole directory tree selected by the rule files.
func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the directory into a single Markdown file",
		Long: `Export every file selected by the exclusion file (gitignore syntax) and the
inclusion file (glob patterns) into one Markdown document. Settings come from
exportconfig.json or exportconfig.yaml in the root; flags override them.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Output file, relative to the root (default from config: export.md)")
	cmd.Flags().String("structure", "", "Include the project structure: yes, no or ask")
	cmd.Flags().Bool("remove-comments", false, "Strip source comments from exported files")
	cmd.Flags().StringArray("ignore", nil, "Extra exclusion pattern (repeatable)")
	cmd.Flags().StringArray("include", nil, "Extra inclusion pattern (repeatable)")
	cmd.Flags().String("description", "", "Text, or a file under the root, placed at the top of the output")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	output := s.cfg.Output
	if flags.Changed("output") {
		if output, err = flags.GetString("output"); err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
	}
	outputPath, err := s.outputPath(output)
	if err != nil {
		return err
	}

	structureFlag, err := flags.GetString("structure")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	includeStructure, err := s.resolveStructure(structureFlag)
	if err != nil {
		return err
	}

	removeComments := s.cfg.RemoveComments
	if flags.Changed("remove-comments") {
		if removeComments, err = flags.GetBool("remove-comments"); err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
	}
	description := s.cfg.Description
	if flags.Changed("description") {
		if description, err = flags.GetString("description"); err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
	}
	extraIgnore, err := flags.GetStringArray("ignore")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	extraInclude, err := flags.GetStringArray("include")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := export.Run(ctx, export.Options{
		Root:             s.root,
		IgnoreFile:       s.cfg.IgnoreFile,
		IncludeFile:      s.cfg.IncludeList,
		GlobalIgnore:     append(append([]string{}, s.cfg.GlobalIgnoreRules...), extraIgnore...),
		GlobalInclude:    append(append([]string{}, s.cfg.GlobalIncludeRules...), extraInclude...),
		Description:      description,
		IncludeStructure: includeStructure,
		RemoveComments:   removeComments,
	}, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errCanceled
		}
		return fmt.Errorf("error exporting files: %w", err)
	}

	if err := export.WriteOutput(outputPath, res.Document, logger); err != nil {
		return fmt.Errorf("error exporting files: %w", err)
	}
	logger.Info("Export written", zap.String("file", outputPath), zap.Int("files", res.Files))
	report(cmd, res, "Files", outputPath)
	return nil
}
