// Package commands provides the cobra commands of the kvapi CLI.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi/internal/cliutil"
)

// app is the state shared by every command once the root's persistent
// flags have been resolved.
type app struct {
	cfg Config
	log *slog.Logger
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		cliutil.Writef(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the kvapi command tree.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig(), log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	root := &cobra.Command{
		Use:   "kvapi",
		Short: "Generate Go API clients from kvapi descriptions",
		Long: `kvapi compiles an API description (a name, a base URL, headers and a
dictionary of "endpoint": ResultType entries) into a Go package with one
type per endpoint tree node and Get/Post methods on every endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Precedence: flag > KVAPI_* environment > default.
			if err := a.cfg.applyEnv(cmd); err != nil {
				return err
			}
			if err := a.cfg.validate(); err != nil {
				return err
			}
			a.log = newLogger(cmd.ErrOrStderr(), a.cfg.level())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error (env KVAPI_LOG_LEVEL)")

	root.AddCommand(newGenerateCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newMCPCmd())
	root.AddCommand(newVersionCmd())
	return root
}
