/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/app"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/spf13/cobra"
)

var (
	settingsCommandLong = `Manage preferences.

USAGE:
    appwish settings <subcommand>

SUBCOMMANDS:
    show     Display current settings
    set      Change one setting
    reset    Reset settings to defaults (statistics are kept)

SETTINGS:
    ` + strings.Join(settings.Names(), "\n    ") + `

EXAMPLES:
    # Only notify for drops of 25% or more
    appwish settings set drop_threshold 25

    # Check prices every 6 hours while "appwish watch" runs
    appwish settings set update_frequency_hours 6

    # Reset settings without confirmation
    appwish settings reset --force`
	resetCommandLong = `Reset preferences to defaults. Statistics are kept.

USAGE:
    appwish settings reset [OPTIONS]

OPTIONS:
    --force    Reset without confirmation
    -h, --help Show this help`
	showCommandLong = `Display current settings.

USAGE:
    appwish settings show [--json]`
	setCommandLong = `Change one setting. The value is validated and saved immediately.

USAGE:
    appwish settings set <name> <value>

VALUES:
    drop_threshold           5 to 50 in steps of 5 (a trailing % is accepted)
    update_frequency_hours   6, 12, 24 or 72
    sort_order               discount_desc, price_asc, price_desc, name_asc,
                             date_added_desc, developer_asc
    region                   two-letter store country code
    currency                 three-letter currency code
    others                   true or false`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client app.SettingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}
	useCase := app.NewSettingsUseCase(client)

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage preferences",
		Long:  settingsCommandLong,
	}

	settingsCmd.AddCommand(newShowSettingsCmd(useCase))
	settingsCmd.AddCommand(newSetSettingCmd(useCase))
	settingsCmd.AddCommand(newResetSettingsCmd(useCase))

	return settingsCmd
}

func newShowSettingsCmd(useCase *app.SettingsUseCase) *cobra.Command {
	var jsonFlag bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Long:  showCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return useCase.Show(cmd.Context(), jsonFlag, cmd.OutOrStdout())
		},
	}
	showCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print settings as JSON")
	return showCmd
}

func newSetSettingCmd(useCase *app.SettingsUseCase) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change one setting",
		Long:  setCommandLong,
		Args:  requireArgs(2, "settings set <name> <value>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return useCase.Set(cmd.Context(), args[0], strings.Join(args[1:], " "))
		},
	}
}

func newResetSettingsCmd(useCase *app.SettingsUseCase) *cobra.Command {
	var resetForce bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Long:  resetCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return useCase.Reset(cmd.Context(), app.ResetSettingsInput{
				Force:  resetForce,
				GetEnv: os.Getenv,
				ConfirmFn: func() bool {
					return confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to reset all settings to defaults? (y/N): ")
				},
			})
		},
	}
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Reset without confirmation")
	return resetCmd
}

var settingsCmd = NewSettingsCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
