/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/spf13/cobra"
)

type notificationsClient interface {
	Notifications(ctx context.Context) (pending, delivered []notification.Notification, err error)
	DeliverNotifications(ctx context.Context) ([]notification.Notification, error)
	CancelNotification(ctx context.Context, appID int64) error
	CancelAllNotifications(ctx context.Context) error
	RequestPermission(ctx context.Context) (bool, error)
}

// NewNotificationsCmd creates the notifications command with explicit dependencies.
func NewNotificationsCmd(client notificationsClient) *cobra.Command {
	if client == nil {
		panic("NewNotificationsCmd: client dependency cannot be nil")
	}

	notificationsCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Inspect and manage price drop notifications",
		Long: `appwish notifications - Inspect and manage price drop notifications

USAGE:
    appwish notifications <subcommand>

SUBCOMMANDS:
    list          Show pending and delivered notifications
    deliver       Deliver notifications that are due and run price-drop hooks
    cancel        Remove the notifications of one app, or all with --all
    permission    Ask for notification permission`,
	}

	notificationsCmd.AddCommand(newNotificationsListCmd(client))
	notificationsCmd.AddCommand(newNotificationsDeliverCmd(client))
	notificationsCmd.AddCommand(newNotificationsCancelCmd(client))
	notificationsCmd.AddCommand(newNotificationsPermissionCmd(client))
	return notificationsCmd
}

func newNotificationsListCmd(client notificationsClient) *cobra.Command {
	var jsonFlag bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Show pending and delivered notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pending, delivered, err := client.Notifications(cmd.Context())
			if err != nil {
				return fmt.Errorf("notifications: %w", err)
			}
			all := append(pending, delivered...)
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}
			if len(all) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n", colors.Blue, "No notifications", colors.Reset)
				return nil
			}
			tf := format.NewTableFormatter()
			tf.EnableColors = !noColor() && format.IsTerminal(cmd.OutOrStdout())
			tf.Style = config.Get("table_format", format.TableStyleRounded)
			return tf.FormatNotifications(all, cmd.OutOrStdout())
		},
	}
	listCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print notifications as JSON")
	return listCmd
}

func newNotificationsDeliverCmd(client notificationsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "deliver",
		Short: "Deliver notifications that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			delivered, err := client.DeliverNotifications(cmd.Context())
			for _, n := range delivered {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s\n    %s\n", colors.Green, n.Title, colors.Reset, n.Body)
			}
			if err != nil {
				return err
			}
			if len(delivered) == 0 {
				colors.Info("Nothing to deliver")
			}
			return nil
		},
	}
}

func newNotificationsCancelCmd(client notificationsClient) *cobra.Command {
	var allFlag bool
	cancelCmd := &cobra.Command{
		Use:   "cancel [link-or-id]",
		Short: "Remove price drop notifications",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case allFlag && len(args) == 0:
				if err := client.CancelAllNotifications(cmd.Context()); err != nil {
					return err
				}
				colors.Success("Removed all price drop notifications")
				return nil
			case !allFlag && len(args) == 1:
				id, err := parseAppRef(args[0])
				if err != nil {
					return err
				}
				if err := client.CancelNotification(cmd.Context(), id); err != nil {
					return err
				}
				colors.Success(fmt.Sprintf("Removed notifications for app %d", id))
				return nil
			}
			return fmt.Errorf("%w: give an app or --all, not both", domain.ErrInvalidInput)
		},
	}
	cancelCmd.Flags().BoolVar(&allFlag, "all", false, "Remove every price drop notification")
	return cancelCmd
}

func newNotificationsPermissionCmd(client notificationsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "permission",
		Short: "Ask for notification permission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			granted, err := client.RequestPermission(cmd.Context())
			if err != nil {
				return err
			}
			if !granted {
				return domain.ErrPermissionDenied
			}
			colors.Success("Notifications are allowed")
			return nil
		},
	}
}

var notificationsCmd = NewNotificationsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(notificationsCmd)
}
