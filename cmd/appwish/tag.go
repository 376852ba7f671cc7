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

type tagClient interface {
	AddTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error)
	RemoveTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error)
}

// NewTagCmd creates the tag command with explicit dependencies.
func NewTagCmd(client tagClient) *cobra.Command {
	if client == nil {
		panic("NewTagCmd: client dependency cannot be nil")
	}

	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove tags",
		Long: `appwish tag - Add or remove tags

USAGE:
    appwish tag add <link-or-id> <tag>...
    appwish tag remove <link-or-id> <tag>...

Tags are kept sorted. "appwish list --tag" matches them ignoring case.`,
	}

	tagCmd.AddCommand(newTagSubCmd("add", "Add tags to an app", client.AddTags))
	tagCmd.AddCommand(newTagSubCmd("remove", "Remove tags from an app", client.RemoveTags))
	return tagCmd
}

type tagFunc func(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error)

func newTagSubCmd(name, short string, fn tagFunc) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <link-or-id> <tag>...",
		Short: short,
		Args:  requireArgs(2, "tag "+name+" <link-or-id> <tag>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAppRef(args[0])
			if err != nil {
				return err
			}
			tracked, err := fn(cmd.Context(), id, args[1:]...)
			if err != nil {
				return err
			}
			tags := "none"
			if len(tracked.Tags) > 0 {
				tags = strings.Join(tracked.Tags, ", ")
			}
			colors.Success(fmt.Sprintf("%s tags: %s", tracked.Name, tags))
			return nil
		},
	}
}

var tagCmd = NewTagCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(tagCmd)
}
