package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi/internal/mcpserver"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		Long: `Mcp serves the validate, inspect and generate tools over the Model Context
Protocol on stdin and stdout. Defaults are read from KVAPI_MCP_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.Run(cmd.Context())
		},
	}
}
