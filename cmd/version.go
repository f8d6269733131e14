// File: cmd/version.go
package cmd

import (
	"fmt"

	"direxport/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCommand represents the version command.
// The --short flag prints the version number only.
func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of direxport",
		Long:  `Display the version, commit, build time and platform of the direxport binary.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		},
	}

	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return cmd
}
