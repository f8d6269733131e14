package cmd

import (
	"direxport/pkg/logging"
	"direxport/pkg/prompt"
	"direxport/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// logger is replaced by the configured logger before any command runs.
var logger = zap.NewNop()

// newPrompter returns the Prompter used by commands. With yes set every
// confirmation is answered yes and every input keeps its default.
var newPrompter = func(yes bool) prompt.Prompter {
	if yes {
		return &prompt.Static{ConfirmAnswer: true}
	}
	return prompt.NewTerminal()
}

// RootCmd is the base command when called without any subcommands.
var RootCmd = NewRootCommand()

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "direxport",
		Short: "Direxport exports a directory into a single Markdown file",
		Long: `Direxport walks a directory, applies gitignore-style exclusion rules and glob
inclusion rules, and writes an optional project tree followed by the contents
of every selected file into one Markdown document.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return err
			}
			if err := logging.Setup(debug, "direxport", version.Version); err != nil {
				return err
			}
			logger = logging.Logger
			return nil
		},
	}

	root.PersistentFlags().Bool("debug", false, "Enable development logging")
	root.PersistentFlags().StringP("root", "r", ".", "Directory to export")
	root.PersistentFlags().BoolP("yes", "y", false, "Answer yes to every question")

	root.AddCommand(newExportCommand(), newFilesCommand(), newInitIgnoreCommand(), newInitIncludeCommand(), newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
