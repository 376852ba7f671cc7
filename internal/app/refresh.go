package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// RefreshClient defines dependencies required to check prices.
type RefreshClient interface {
	RefreshApp(ctx context.Context, id int64) (*domain.TrackedApp, error)
	RefreshAll(ctx context.Context) (*wishlist.RefreshReport, error)
	GetApp(ctx context.Context, id int64) (domain.TrackedApp, error)
}

// RefreshUseCase coordinates price checks.
type RefreshUseCase struct {
	client RefreshClient
}

// NewRefreshUseCase creates a new refresh use-case.
func NewRefreshUseCase(client RefreshClient) *RefreshUseCase {
	if client == nil {
		panic("NewRefreshUseCase: client dependency cannot be nil")
	}
	return &RefreshUseCase{client: client}
}

// One checks a single app and prints the outcome.
func (u *RefreshUseCase) One(ctx context.Context, id int64, w io.Writer) error {
	before, err := u.client.GetApp(ctx, id)
	if err != nil {
		return err
	}
	updated, err := u.client.RefreshApp(ctx, id)
	if err != nil {
		return err
	}
	if updated == nil {
		_, _ = fmt.Fprintf(w, "%s: no change (%s)\n", before.Name, domain.DisplayPrice(before.CurrentPrice, before.Currency))
		return nil
	}
	printChange(w, domain.PriceChange{App: *updated, OldPrice: before.CurrentPrice, NewPrice: updated.CurrentPrice})
	return nil
}

// All checks every app and prints a report. A partial failure is reported
// and is not an error; a run where every lookup failed is.
func (u *RefreshUseCase) All(ctx context.Context, w io.Writer) error {
	report, err := u.client.RefreshAll(ctx)
	if errors.Is(err, domain.ErrUpdateInProgress) {
		colors.Warning("A price check is already running")
		return nil
	}
	if report == nil {
		return err
	}

	for _, change := range report.Changes {
		printChange(w, change)
	}
	for _, failure := range report.Failures {
		colors.Warning(fmt.Sprintf("app %d: %v", failure.AppID, failure.Err))
	}
	_, _ = fmt.Fprintf(w, "Checked %d apps: %d changed, %d drops, %d failed\n",
		report.Checked, len(report.Changes), len(report.Drops), len(report.Failures))

	if err != nil {
		return err
	}
	if report.Checked == 0 && len(report.Failures) > 0 {
		return fmt.Errorf("refresh: every lookup failed: %w", report.Failures[0].Err)
	}
	return nil
}

func printChange(w io.Writer, c domain.PriceChange) {
	color, verb := colors.Yellow, "went up"
	if c.IsDrop() {
		color, verb = colors.Green, "dropped"
	}
	_, _ = fmt.Fprintf(w, "%s%s%s %s: %s -> %s", color, c.App.Name, colors.Reset, verb,
		domain.DisplayPrice(c.OldPrice, c.App.Currency), domain.DisplayPrice(c.NewPrice, c.App.Currency))
	if c.IsDrop() {
		_, _ = fmt.Fprintf(w, " (-%.0f%%)", c.DropPercent())
	}
	_, _ = fmt.Fprintln(w)
}
