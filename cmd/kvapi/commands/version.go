package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi"
	"github.com/erraggy/kvapi/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the kvapi version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verbose {
				cliutil.Writef(cmd.OutOrStdout(), "%s", kvapi.BuildInfo())
				return nil
			}
			cliutil.Writef(cmd.OutOrStdout(), "kvapi version %s (%s)\n", kvapi.Version(), kvapi.GoVersion())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print full build information")
	return cmd
}
