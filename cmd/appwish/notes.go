/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/spf13/cobra"
)

type notesClient interface {
	SetNotes(ctx context.Context, id int64, notes string) (domain.TrackedApp, error)
}

// NewNotesCmd creates the notes command with explicit dependencies.
func NewNotesCmd(client notesClient) *cobra.Command {
	if client == nil {
		panic("NewNotesCmd: client dependency cannot be nil")
	}

	var clearFlag bool

	notesCmd := &cobra.Command{
		Use:   "notes <link-or-id> [text...]",
		Short: "Set or clear the notes of an app",
		Long: `appwish notes - Set or clear the notes of an app

USAGE:
    appwish notes <link-or-id> <text>...
    appwish notes --clear <link-or-id>`,
		Args: requireArgs(1, "notes <link-or-id> [text...]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppRef(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" && !clearFlag {
				return fmt.Errorf("%w: notes text is empty; use --clear to remove notes", domain.ErrInvalidInput)
			}
			if clearFlag {
				text = ""
			}
			tracked, err := client.SetNotes(cmd.Context(), id, text)
			if err != nil {
				return err
			}
			if text == "" {
				colors.Success("Cleared notes for " + tracked.Name)
			} else {
				colors.Success("Saved notes for " + tracked.Name)
			}
			return nil
		},
	}

	notesCmd.Flags().BoolVar(&clearFlag, "clear", false, "Remove the notes")
	return notesCmd
}

var notesCmd = NewNotesCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(notesCmd)
}
