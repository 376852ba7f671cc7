/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/app"
	"github.com/spf13/cobra"
)

// NewRefreshCmd creates the refresh command with explicit dependencies.
func NewRefreshCmd(client app.RefreshClient) *cobra.Command {
	if client == nil {
		panic("NewRefreshCmd: client dependency cannot be nil")
	}
	useCase := app.NewRefreshUseCase(client)

	return &cobra.Command{
		Use:   "refresh [link-or-id]",
		Short: "Check current prices",
		Long: `appwish refresh - Check current prices

USAGE:
    appwish refresh [link-or-id]

Without an argument every tracked app is checked, one request at a time.
Drops that meet the threshold are counted and notified; several drops in
one run produce a single summary notification.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return useCase.All(cmd.Context(), cmd.OutOrStdout())
			}
			id, err := parseAppRef(args[0])
			if err != nil {
				return err
			}
			return useCase.One(cmd.Context(), id, cmd.OutOrStdout())
		},
	}
}

var refreshCmd = NewRefreshCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(refreshCmd)
}
