// Command kvapi compiles kvapi API descriptions into Go client packages.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/kvapi/cmd/kvapi/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
