package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/erraggy/kvapi/generator"
)

// watchDebounce collapses the burst of events an editor produces on save.
const watchDebounce = 100 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <description>",
		Short: "Regenerate a client whenever its description changes",
		Long: `Watch generates the client once and then again every time the description
file is written, until interrupted. Generation errors are logged and the
previous output is left in place.`,
		Example: `  kvapi watch -o ./binance binance.kv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == StdinFilePath {
				return fmt.Errorf("watch needs a description file, not stdin")
			}
			return a.runWatch(cmd.Context(), cmd.ErrOrStderr(), args[0])
		},
	}
	addGenerateFlags(cmd.Flags(), &a.cfg)
	return cmd
}

// runWatch blocks until ctx is done. The directory of path is watched
// rather than the file itself so that editors replacing the file on save
// are seen too.
func (a *app) runWatch(ctx context.Context, w io.Writer, path string) error {
	opts, err := a.cfg.generatorOptions(a.log)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	regenerate := func() {
		res, err := generator.GenerateWithOptions(append(slices.Clone(opts), generator.WithFilePath(path))...)
		if res != nil {
			printIssues(w, path, res)
		}
		switch {
		case err != nil:
			a.log.Error("generation failed", "source", path, "err", err)
		case !res.Success:
			a.log.Error("generation failed", "source", path, "critical", res.CriticalCount)
		default:
			if err := a.writeResult(w, path, res); err != nil {
				a.log.Error("write failed", "source", path, "err", err)
			}
		}
	}
	regenerate()
	a.log.Info("watching", "source", path)

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			a.log.Debug("description changed", "source", path, "op", event.Op.String())
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			fire = debounce.C
		case <-fire:
			fire = nil
			regenerate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warn("error watching description", "source", path, "err", err)
		}
	}
}
