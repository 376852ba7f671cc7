package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/format"
	"github.com/cristianoliveira/appwish/internal/search"
	"github.com/cristianoliveira/appwish/internal/settings"
)

// ListClient defines dependencies required to list the wishlist.
type ListClient interface {
	ListApps(ctx context.Context, f domain.Filter, order domain.SortOrder) ([]domain.TrackedApp, error)
	LoadSettings(ctx context.Context) (settings.Settings, error)
}

// ListOptions holds the list filters after flag parsing. Nil booleans fall
// back to the saved display settings.
type ListOptions struct {
	OnSale   *bool
	HideFree *bool
	Tag      string
	Query    string
	// SearchMode picks the query strategy: substring, token or regex.
	SearchMode string
	Sort       string
	Format     string
	Width      int
	NoColor    bool
	TableStyle string
}

// ListUseCase coordinates list behavior.
type ListUseCase struct {
	client ListClient
}

// NewListUseCase creates a new list use-case.
func NewListUseCase(client ListClient) *ListUseCase {
	if client == nil {
		panic("NewListUseCase: client dependency cannot be nil")
	}
	return &ListUseCase{client: client}
}

// Execute prints the wishlist according to opts.
func (u *ListUseCase) Execute(ctx context.Context, opts ListOptions, w io.Writer) error {
	formatterType := format.FormatterTypeTable
	if opts.Format != "" {
		var err error
		if formatterType, err = format.ParseFormatterType(opts.Format); err != nil {
			return err
		}
	}
	var order domain.SortOrder
	if opts.Sort != "" {
		var err error
		if order, err = domain.ParseSortOrder(opts.Sort); err != nil {
			return err
		}
	}

	current, err := u.client.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("list: load settings: %w", err)
	}
	filter := current.Filter()
	if opts.OnSale != nil {
		filter.OnSaleOnly = *opts.OnSale
	}
	if opts.HideFree != nil {
		filter.HideFree = *opts.HideFree
	}
	filter.Tag = opts.Tag
	filter.Query = opts.Query
	if filter.Query != "" {
		provider, err := search.New(opts.SearchMode)
		if err != nil {
			return err
		}
		if rp, ok := provider.(*search.RegexProvider); ok {
			if _, err := rp.Compile(filter.Query); err != nil {
				return fmt.Errorf("%w: invalid pattern: %v", domain.ErrInvalidInput, err)
			}
		}
		filter.Matcher = provider
	}

	apps, err := u.client.ListApps(ctx, filter, order)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	if len(apps) == 0 && formatterType != format.FormatterTypeJSON && filter.Active() {
		_, _ = fmt.Fprintf(w, "%s%s%s\n", colors.Blue, "No apps match the current filters", colors.Reset)
		return nil
	}

	formatter := format.NewFormatter(formatterType)
	if tf, ok := formatter.(*format.TableFormatter); ok {
		tf.Width = opts.Width
		tf.EnableColors = !opts.NoColor && format.IsTerminal(w)
		tf.Style = opts.TableStyle
	}
	return formatter.FormatApps(apps, w)
}
