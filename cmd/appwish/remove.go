/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/spf13/cobra"
)

type removeClient interface {
	GetApp(ctx context.Context, id int64) (domain.TrackedApp, error)
	RemoveApp(ctx context.Context, id int64) error
}

// NewRemoveCmd creates the remove command with explicit dependencies.
func NewRemoveCmd(client removeClient) *cobra.Command {
	if client == nil {
		panic("NewRemoveCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:     "remove <link-or-id>...",
		Aliases: []string{"rm"},
		Short:   "Stop tracking apps",
		Long: `appwish remove - Stop tracking apps

USAGE:
    appwish remove <link-or-id>...

Pending and delivered notifications for the app are cleared. A pre-remove
hook that fails in abort mode keeps the app on the list.`,
		Args: requireArgs(1, "remove <link-or-id>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseAppRef(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			for _, id := range ids {
				tracked, err := client.GetApp(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("remove %d: %w", id, err)
				}
				if err := client.RemoveApp(cmd.Context(), id); err != nil {
					return err
				}
				colors.Success("Removed " + tracked.Name)
			}
			return nil
		},
	}
}

var removeCmd = NewRemoveCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(removeCmd)
}
