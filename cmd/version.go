package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/vk-album-grabber/internal/version"
)

// newVersionCmd builds the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
