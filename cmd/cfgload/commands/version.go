package commands

import (
	"fmt"

	"github.com/sonemaro/cfgload/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand(opts *Options) *cobra.Command {
	var showFull bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showFull {
				fmt.Fprintln(cmd.OutOrStdout(), version.FullVersion())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showFull, "full", "f", false,
		"show full version information")

	return cmd
}
