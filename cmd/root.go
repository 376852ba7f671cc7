/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/hooks"
	"github.com/cristianoliveira/appwish/internal/logging"
	"github.com/cristianoliveira/appwish/internal/version"
	"github.com/spf13/cobra"
)

var debugFlag bool

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "appwish",
	Short:         "Track App Store prices and get told when they drop.",
	Long:          `Track App Store prices and get told when they drop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(debugFlag || config.GetBool("debug", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
		}
		if err := hooks.Init(); err != nil {
			colors.Debug(err.Error())
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		hooks.WaitForPendingHooks()
		_ = logging.ShutdownGlobal()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	// Set version for use in help output
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug and structured log output")

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		PrintHelp(cmd, cmd.OutOrStdout())
	})
}

// PrintHelp writes the top-level help with commands in a fixed order.
func PrintHelp(cmd *cobra.Command, w io.Writer) {
	commandOrder := []string{
		"add",
		"search",
		"list",
		"show",
		"remove",
		"refresh",
		"notes",
		"tag",
		"notifications",
		"settings",
		"stats",
		"watch",
		"migrate",
		"help",
		"version",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %s%-16s%s %s", colors.Cyan, found.Name(), colors.Reset, found.Short))
	}

	versionStr := cmd.Version
	if versionStr == "" {
		versionStr = "0.0.0"
	}

	helpText := fmt.Sprintf(`%sappwish v%s%s

Track App Store prices and get told when they drop.

%sUSAGE:%s
    appwish [COMMAND] [OPTIONS]

%sCOMMANDS:%s
%s

%sOPTIONS:%s
    --debug         Print debug and structured log output
    -h, --help      Show help message
`, colors.Blue, versionStr, colors.Reset, colors.Blue, colors.Reset, colors.Blue, colors.Reset,
		strings.Join(cmdLines, "\n"), colors.Blue, colors.Reset)
	_, _ = fmt.Fprint(w, helpText)
}
