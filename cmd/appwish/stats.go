/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/core"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/spf13/cobra"
)

type statsClient interface {
	Stats(ctx context.Context) (core.Stats, error)
	ResetStats(ctx context.Context) error
}

// NewStatsCmd creates the stats command with explicit dependencies.
func NewStatsCmd(client statsClient) *cobra.Command {
	if client == nil {
		panic("NewStatsCmd: client dependency cannot be nil")
	}

	var resetFlag bool
	var forceFlag bool

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show savings statistics",
		Long: `appwish stats - Show savings statistics

USAGE:
    appwish stats [--reset [--force]]

Drops seen and total saved count every drop that met the threshold since
the statistics were last reset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resetFlag {
				if !forceFlag && os.Getenv("CI") == "" &&
					!confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Reset lifetime statistics? (y/N): ") {
					colors.Info("Operation cancelled")
					return nil
				}
				if err := client.ResetStats(cmd.Context()); err != nil {
					return fmt.Errorf("stats: reset: %w", err)
				}
				colors.Success("Statistics reset")
				return nil
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), format.RenderStats(stats.Settings, stats.Summary, stats.Settings.Currency, time.Now()))
			return err
		},
	}

	statsCmd.Flags().BoolVar(&resetFlag, "reset", false, "Zero the lifetime statistics")
	statsCmd.Flags().BoolVar(&forceFlag, "force", false, "Reset without confirmation")
	return statsCmd
}

var statsCmd = NewStatsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(statsCmd)
}
