/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/spf13/cobra"
)

type showClient interface {
	GetApp(ctx context.Context, id int64) (domain.TrackedApp, error)
}

// NewShowCmd creates the show command with explicit dependencies.
func NewShowCmd(client showClient) *cobra.Command {
	if client == nil {
		panic("NewShowCmd: client dependency cannot be nil")
	}

	var jsonFlag bool
	var widthFlag int

	showCmd := &cobra.Command{
		Use:   "show <link-or-id>",
		Short: "Show one tracked app with its price history",
		Long: `appwish show - Show one tracked app with its price history

USAGE:
    appwish show [OPTIONS] <link-or-id>

OPTIONS:
    --json          Print the stored record as JSON
    --width <n>     Card width
    -h, --help      Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppRef(args[0])
			if err != nil {
				return err
			}
			tracked, err := client.GetApp(cmd.Context(), id)
			if err != nil {
				return err
			}
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tracked)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), format.RenderCard(tracked, widthFlag, time.Now()))
			return err
		},
	}

	showCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the stored record as JSON")
	showCmd.Flags().IntVar(&widthFlag, "width", 0, "Card width")

	return showCmd
}

var showCmd = NewShowCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(showCmd)
}
