// Package app holds the command use cases. Each one takes a narrow client
// interface so the commands can be tested without real services.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
)

// AddClient defines dependencies required to add apps.
type AddClient interface {
	AddApp(ctx context.Context, ref string) (domain.TrackedApp, error)
	AddApps(ctx context.Context, refs []string) ([]domain.TrackedApp, []int64, error)
}

// AddUseCase coordinates adding apps to the wishlist.
type AddUseCase struct {
	client AddClient
}

// NewAddUseCase creates a new add use-case.
func NewAddUseCase(client AddClient) *AddUseCase {
	if client == nil {
		panic("NewAddUseCase: client dependency cannot be nil")
	}
	return &AddUseCase{client: client}
}

// Execute adds one app per ref. A single ref goes through a plain lookup;
// several refs share one batched lookup.
func (u *AddUseCase) Execute(ctx context.Context, refs []string, w io.Writer) error {
	refs = cleanRefs(refs)
	switch len(refs) {
	case 0:
		return fmt.Errorf("%w: add requires an App Store link or app id", domain.ErrInvalidInput)
	case 1:
		app, err := u.client.AddApp(ctx, refs[0])
		if err != nil {
			return err
		}
		printAdded(w, app)
		return nil
	}

	added, missing, err := u.client.AddApps(ctx, refs)
	for _, app := range added {
		printAdded(w, app)
	}
	if err != nil {
		return err
	}
	for _, id := range missing {
		colors.Warning(fmt.Sprintf("app %d was not found in the catalog", id))
	}
	if len(added) == 0 && len(missing) == 0 {
		colors.Info("All apps are already on your wishlist")
	}
	return nil
}

func printAdded(w io.Writer, app domain.TrackedApp) {
	_, _ = fmt.Fprintf(w, "%s%s%s added at %s\n", colors.Green, app.Name, colors.Reset, domain.DisplayPrice(app.CurrentPrice, app.Currency))
}

// cleanRefs splits comma separated refs and drops blanks.
func cleanRefs(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
