package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"direxport/pkg/prompt"
	"direxport/pkg/rules"

	"github.com/spf13/cobra"
)

const (
	choiceAppend    = "Append"
	choiceOverwrite = "Overwrite"
	choiceCancel    = "Cancel"
)

func newInitIgnoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-ignore [pattern]...",
		Short: "Create or extend the exclusion file",
		Long: `Create the exclusion file (gitignore syntax). Patterns come from the arguments
or are asked for as a comma-separated list, prefilled from .gitignore.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, true)
		},
	}
	addInitFlags(cmd)
	return cmd
}

func newInitIncludeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init-include [pattern]...",
		Short: "Create or extend the inclusion file",
		Long: `Create the inclusion file (glob patterns, "dir/**" for whole directories).
Patterns come from the arguments or are asked for as a comma-separated list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, false)
		},
	}
	addInitFlags(cmd)
	return cmd
}

func addInitFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("append", false, "Append to an existing file without asking")
	cmd.Flags().Bool("overwrite", false, "Overwrite an existing file without asking")
}

func runInit(cmd *cobra.Command, args []string, exclusion bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	appendFlag, err := cmd.Flags().GetBool("append")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	overwriteFlag, err := cmd.Flags().GetBool("overwrite")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	if appendFlag && overwriteFlag {
		return fmt.Errorf("--append and --overwrite are mutually exclusive")
	}

	name, kind := s.cfg.IncludeList, "include"
	if exclusion {
		name, kind = s.cfg.IgnoreFile, "ignore"
	}
	if name == "" {
		return fmt.Errorf("no %s file configured", kind)
	}
	path := resolvePatternFile(s.root, name)

	mode := rules.Overwrite
	if _, statErr := os.Stat(path); statErr == nil {
		switch {
		case appendFlag:
			mode = rules.Append
		case overwriteFlag:
		default:
			choice, err := s.prompter.Choose(name+" already exists. What would you like to do?",
				[]string{choiceAppend, choiceOverwrite, choiceCancel})
			if errors.Is(err, prompt.ErrCanceled) || choice == choiceCancel {
				return nil
			}
			if err != nil {
				return err
			}
			if choice == choiceAppend {
				mode = rules.Append
			}
		}
	}

	input := strings.Join(args, ",")
	if input == "" {
		def := ""
		if exclusion && mode == rules.Overwrite {
			seed, err := rules.SeedFromGitignore(s.root)
			if err != nil {
				return err
			}
			def = strings.Join(seed, ", ")
		}
		input, err = s.prompter.Input(fmt.Sprintf("Enter patterns to %s (separate via comma)", kind), def)
		if errors.Is(err, prompt.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	patterns := rules.ParseList(input)
	if len(patterns) == 0 {
		return fmt.Errorf("no patterns given for %s", name)
	}
	if err := rules.Write(path, patterns, mode, logger); err != nil {
		return fmt.Errorf("error creating %s: %w", name, err)
	}

	verb := "created"
	if mode == rules.Append {
		verb = "updated"
	}
	successColor.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, verb)
	return nil
}

// resolvePatternFile places relative rule file names under root.
func resolvePatternFile(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}
