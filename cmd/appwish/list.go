/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/app"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/cristianoliveira/appwish/internal/search"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client app.ListClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}
	useCase := app.NewListUseCase(client)

	var (
		onSaleFlag   bool
		hideFreeFlag bool
		tagFlag      string
		searchFlag   string
		modeFlag     string
		sortFlag     string
		formatFlag   string
		jsonFlag     bool
		widthFlag    int
		noColorFlag  bool
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked apps",
		Long: fmt.Sprintf(`appwish list - List tracked apps

USAGE:
    appwish list [OPTIONS]

OPTIONS:
    --on-sale           Only apps below their original price
    --hide-free         Hide apps that are currently free
    --tag <tag>         Only apps with this tag
    --search <text>     Match name, developer, category, tags or notes
    --search-mode <m>   One of: %s (default: search_mode setting)
    --sort <order>      One of: %s
    --format <format>   One of: %s (default: table)
    --json              Same as --format=json
    --width <n>         Table width (default: terminal width)
    --no-color          Disable colors
    -h, --help          Show this help

Without --on-sale or --hide-free the saved display settings apply.`, strings.Join(search.Modes(), ", "), sortOrderNames(), formatterNames()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.ListOptions{
				Tag:        strings.TrimSpace(tagFlag),
				Query:      strings.TrimSpace(searchFlag),
				SearchMode: modeFlag,
				Sort:       sortFlag,
				Format:     formatFlag,
				Width:      widthFlag,
				NoColor:    noColorFlag || noColor(),
				TableStyle: config.Get("table_format", format.TableStyleRounded),
			}
			if opts.SearchMode == "" {
				opts.SearchMode = config.Get("search_mode", search.ModeSubstring)
			}
			if jsonFlag {
				opts.Format = string(format.FormatterTypeJSON)
			}
			if cmd.Flags().Changed("on-sale") {
				opts.OnSale = &onSaleFlag
			}
			if cmd.Flags().Changed("hide-free") {
				opts.HideFree = &hideFreeFlag
			}
			return useCase.Execute(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	listCmd.Flags().BoolVar(&onSaleFlag, "on-sale", false, "Only apps below their original price")
	listCmd.Flags().BoolVar(&hideFreeFlag, "hide-free", false, "Hide apps that are currently free")
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only apps with this tag")
	listCmd.Flags().StringVar(&searchFlag, "search", "", "Match name, developer, category, tags or notes")
	listCmd.Flags().StringVar(&modeFlag, "search-mode", "", "Query strategy: substring, token or regex")
	listCmd.Flags().StringVar(&sortFlag, "sort", "", "Sort order (default: saved setting)")
	listCmd.Flags().StringVar(&formatFlag, "format", "", "Output format")
	listCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the wishlist as JSON")
	listCmd.Flags().IntVar(&widthFlag, "width", 0, "Table width")
	listCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colors")

	return listCmd
}

func sortOrderNames() string {
	names := make([]string, len(domain.SortOrders))
	for i, o := range domain.SortOrders {
		names[i] = o.String()
	}
	return strings.Join(names, ", ")
}

func formatterNames() string {
	names := make([]string, len(format.FormatterTypes))
	for i, t := range format.FormatterTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

var listCmd = NewListCmd(coreClient)

func init() {
	cmd.RootCmd.AddCommand(listCmd)
}
