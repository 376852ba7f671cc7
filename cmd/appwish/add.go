/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/app"
	"github.com/spf13/cobra"
)

// NewAddCmd creates the add command with explicit dependencies.
func NewAddCmd(client app.AddClient) *cobra.Command {
	if client == nil {
		panic("NewAddCmd: client dependency cannot be nil")
	}
	useCase := app.NewAddUseCase(client)

	return &cobra.Command{
		Use:   "add <link-or-id>...",
		Short: "Add apps to the wishlist",
		Long: `appwish add - Add apps to the wishlist

USAGE:
    appwish add <link-or-id>...

Accepts App Store links, appwish:// deep links and numeric app ids. Several
apps can be given at once, separated by spaces or commas; they are looked up
in a single request.

EXAMPLES:
    appwish add https://apps.apple.com/us/app/things-3/id904237743
    appwish add 904237743 1091189122`,
		Args: requireArgs(1, "add <link-or-id>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return useCase.Execute(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}

var addCmd = NewAddCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(addCmd)
}
