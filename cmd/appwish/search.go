/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/spf13/cobra"
)

type searchClient interface {
	SearchCatalog(ctx context.Context, term string, limit int) ([]domain.CatalogItem, error)
}

// NewSearchCmd creates the search command with explicit dependencies.
func NewSearchCmd(client searchClient) *cobra.Command {
	if client == nil {
		panic("NewSearchCmd: client dependency cannot be nil")
	}

	var limitFlag int
	var jsonFlag bool

	searchCmd := &cobra.Command{
		Use:   "search <term>...",
		Short: "Search the App Store",
		Long: `appwish search - Search the App Store for apps

USAGE:
    appwish search [OPTIONS] <term>...

OPTIONS:
    --limit <n>     Maximum number of results (default: search_limit from config)
    --json          Print results as JSON
    -h, --help      Show this help

Use the id column with "appwish add" to start tracking an app.`,
		Args: requireArgs(1, "search <term>..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.TrimSpace(strings.Join(args, " "))
			items, err := client.SearchCatalog(cmd.Context(), term, limitFlag)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No apps found for %q\n", term)
				return nil
			}
			tf := format.NewTableFormatter()
			tf.EnableColors = !noColor() && format.IsTerminal(cmd.OutOrStdout())
			tf.Style = config.Get("table_format", format.TableStyleRounded)
			return tf.FormatCatalogItems(items, cmd.OutOrStdout())
		},
	}

	searchCmd.Flags().IntVar(&limitFlag, "limit", 0, "Maximum number of results")
	searchCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print results as JSON")

	return searchCmd
}

var searchCmd = NewSearchCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(searchCmd)
}
