/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/core"
	"github.com/cristianoliveira/appwish/internal/wishlist"
	"github.com/spf13/cobra"
)

type watchClient interface {
	Watch(ctx context.Context, opts core.WatchOptions, started func(next time.Time)) error
}

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(client watchClient) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}

	var nowFlag bool
	var quietFlag bool

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Check prices on a schedule until interrupted",
		Long: `appwish watch - Check prices on a schedule until interrupted

USAGE:
    appwish watch [OPTIONS]

OPTIONS:
    --now       Check every price once before waiting
    --quiet     Do not print wishlist events
    -h, --help  Show this help

Prices are checked every update_frequency_hours while auto_update is on.
Due notifications are delivered every minute. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			opts := core.WatchOptions{RefreshNow: nowFlag}
			if !quietFlag {
				opts.OnEvent = func(e wishlist.Event) { printEvent(out, e) }
			}
			return client.Watch(cmd.Context(), opts, func(next time.Time) {
				if next.IsZero() {
					colors.Info("Watching; automatic price checks are off")
					return
				}
				colors.Info("Watching; next price check at " + next.Local().Format("Jan 2 15:04"))
			})
		},
	}

	watchCmd.Flags().BoolVar(&nowFlag, "now", false, "Check every price once before waiting")
	watchCmd.Flags().BoolVar(&quietFlag, "quiet", false, "Do not print wishlist events")
	return watchCmd
}

func printEvent(w io.Writer, e wishlist.Event) {
	switch e.Kind {
	case wishlist.EventRefreshStarted:
		_, _ = fmt.Fprintf(w, "%s checking prices\n", time.Now().Format("15:04:05"))
	case wishlist.EventProgress:
		_, _ = fmt.Fprintf(w, "  %3.0f%%\n", e.Progress*100)
	case wishlist.EventRefreshed:
		_, _ = fmt.Fprintf(w, "%s prices checked\n", time.Now().Format("15:04:05"))
	}
}

var watchCmd = NewWatchCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(watchCmd)
}
