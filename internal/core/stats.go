package core

import (
	"context"

	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// Stats is what the stats command shows.
type Stats struct {
	Settings settings.Settings
	Summary  wishlist.Summary
}

// Stats gathers lifetime statistics and the current wishlist summary.
func (c *Core) Stats(ctx context.Context) (Stats, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Settings: svc.Settings.Get(), Summary: svc.Wishlist.Summary()}, nil
}
