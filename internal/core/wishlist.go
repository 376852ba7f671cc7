package core

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/appwish/internal/appurl"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// AddApp adds the app a store URL, deep link or bare id points at.
func (c *Core) AddApp(ctx context.Context, ref string) (domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return svc.Wishlist.AddFromURL(ctx, ref)
}

// AddApps resolves every ref first and then adds them with one batched
// lookup. Refs that do not resolve fail the whole call before any request.
func (c *Core) AddApps(ctx context.Context, refs []string) ([]domain.TrackedApp, []int64, error) {
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		id, err := appurl.Resolve(ref)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc.Wishlist.AddMany(ctx, ids)
}

// SearchCatalog searches the catalog in the configured region. A
// non-positive limit takes search_limit from the configuration.
func (c *Core) SearchCatalog(ctx context.Context, term string, limit int) ([]domain.CatalogItem, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = config.GetInt("search_limit", 25)
	}
	return svc.Catalog.Search(ctx, term, svc.Settings.Region(), limit)
}

// ListApps returns the filtered wishlist. An empty order uses the saved
// sort order.
func (c *Core) ListApps(ctx context.Context, f domain.Filter, order domain.SortOrder) ([]domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	if order == "" {
		order = svc.Settings.Get().SortOrder
	}
	return svc.Wishlist.Filtered(f, order), nil
}

// GetApp returns one tracked app.
func (c *Core) GetApp(ctx context.Context, id int64) (domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return svc.Wishlist.Get(id)
}

// RemoveApp stops tracking id.
func (c *Core) RemoveApp(ctx context.Context, id int64) error {
	svc, err := c.Services(ctx)
	if err != nil {
		return err
	}
	return svc.Wishlist.Remove(ctx, id)
}

// RefreshApp checks one price. The returned app is nil when nothing changed.
func (c *Core) RefreshApp(ctx context.Context, id int64) (*domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Wishlist.RefreshOne(ctx, id)
}

// RefreshAll checks every price and delivers notifications that became due.
func (c *Core) RefreshAll(ctx context.Context) (*wishlist.RefreshReport, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	report, err := svc.Wishlist.RefreshAll(ctx)
	if err != nil {
		return report, err
	}
	if _, err := svc.Notifier.Deliver(ctx); err != nil {
		return report, fmt.Errorf("refresh: deliver notifications: %w", err)
	}
	return report, nil
}

// SetNotes replaces the notes of id.
func (c *Core) SetNotes(ctx context.Context, id int64, notes string) (domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return svc.Wishlist.SetNotes(ctx, id, notes)
}

// AddTags tags id.
func (c *Core) AddTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return svc.Wishlist.AddTags(ctx, id, tags...)
}

// RemoveTags untags id.
func (c *Core) RemoveTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return svc.Wishlist.RemoveTags(ctx, id, tags...)
}

// Summary returns the wishlist counts.
func (c *Core) Summary(ctx context.Context) (wishlist.Summary, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return wishlist.Summary{}, err
	}
	return svc.Wishlist.Summary(), nil
}
