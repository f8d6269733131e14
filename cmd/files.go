package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"direxport/pkg/export"

	"github.com/spf13/cobra"
)

// selectedOutput is used when the config does not name an output file.
const selectedOutput = "selected-files-export.md"

func newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files <path>...",
		Short: "Export the given files into a single Markdown file",
		Long: `Export an explicit list of files, in the order given. Files that the rule
files would leave out are exported only after confirmation, unless
allowIgnoredOnTabsExport is set (excluded files only) or --yes is passed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFiles,
	}

	cmd.Flags().StringP("output", "o", "", "Output file, relative to the root (default from config)")
	cmd.Flags().String("structure", "", "Include the project structure: yes, no or ask")
	cmd.Flags().Bool("remove-comments", false, "Strip source comments from exported files")
	cmd.Flags().Bool("allow-ignored", false, "Export excluded files without asking")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent file reads (default: number of CPUs)")
	return cmd
}

func runFiles(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()

	output := s.cfg.Output
	if output == "" {
		output = selectedOutput
	}
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
	allowIgnored := s.cfg.AllowIgnoredOnTabsExport
	if flags.Changed("allow-ignored") {
		if allowIgnored, err = flags.GetBool("allow-ignored"); err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
	}
	workers, err := flags.GetInt("workers")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := export.RunSelected(ctx, export.SelectedOptions{
		Root:             s.root,
		Files:            args,
		IgnoreFile:       s.cfg.IgnoreFile,
		IncludeFile:      s.cfg.IncludeList,
		GlobalIgnore:     s.cfg.GlobalIgnoreRules,
		GlobalInclude:    s.cfg.GlobalIncludeRules,
		IncludeStructure: includeStructure,
		RemoveComments:   removeComments,
		AllowIgnored:     allowIgnored,
		MaxWorkers:       workers,
		Confirm: func(relPath string) (bool, error) {
			return s.prompter.Confirm(relPath+" is ignored or not included. Include it anyway?", false)
		},
	}, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errCanceled
		}
		return fmt.Errorf("error exporting selected files: %w", err)
	}

	if err := export.WriteOutput(outputPath, res.Document, logger); err != nil {
		return fmt.Errorf("error exporting selected files: %w", err)
	}
	report(cmd, res, "Selected files", outputPath)
	return nil
}
