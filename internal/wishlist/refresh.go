package wishlist

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/hooks"
	"github.com/google/uuid"
)

// ItemError is a per-app failure inside a batch refresh.
type ItemError struct {
	AppID int64
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("app %d: %v", e.AppID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// RefreshReport summarizes one batch refresh.
type RefreshReport struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Checked  int
	// Changes holds every price change, up or down.
	Changes []domain.PriceChange
	// Drops holds the changes that met the drop threshold.
	Drops    []domain.PriceChange
	Failures []ItemError
}

// RefreshOne checks the current price of id. It returns nil when the price is
// unchanged (only the last-checked time moves) and the updated app otherwise.
// A drop meeting the threshold is counted in the statistics and notified.
func (st *Store) RefreshOne(ctx context.Context, id int64) (*domain.TrackedApp, error) {
	if !st.Contains(id) {
		return nil, fmt.Errorf("%w: app %d is not on the wishlist", domain.ErrNotFound, id)
	}
	item, err := st.catalog.Lookup(ctx, id, st.settings.Region())
	if err != nil {
		return nil, fmt.Errorf("refresh app %d: %w", id, err)
	}

	st.mu.Lock()
	next := cloneAll(st.apps)
	change, changed, ok, err := apply(next, item, st.now())
	if !ok {
		st.mu.Unlock()
		return nil, fmt.Errorf("%w: app %d was removed during refresh", domain.ErrNotFound, id)
	}
	if err != nil {
		st.mu.Unlock()
		return nil, fmt.Errorf("refresh %w", err)
	}
	if err := st.persist(ctx, next); err != nil {
		st.mu.Unlock()
		return nil, err
	}
	st.apps = next
	st.mu.Unlock()

	st.events.publish(Event{Kind: EventUpdated, AppID: id})
	if !changed {
		return nil, nil
	}
	colors.StructuredInfo("wishlist", "refresh_one", "price_changed", nil, appLogID(id), map[string]any{
		"old_price": change.OldPrice.String(),
		"new_price": change.NewPrice.String(),
	})
	if domain.MeetsThreshold(change.OldPrice, change.NewPrice, st.settings.DropThreshold()) {
		st.recordDrop(ctx, change)
		if st.notifier != nil {
			if err := st.notifier.NotifyDrop(ctx, change.App, change.OldPrice, change.NewPrice); err != nil {
				colors.StructuredWarn("wishlist", "refresh_one", "notify_failed", err, appLogID(id), nil)
			}
		}
	}
	updated := change.App
	return &updated, nil
}

// RefreshAll checks every app in stored order. Only one batch runs at a time;
// a second call fails with ErrUpdateInProgress. A failing app is recorded in
// the report and the batch moves on. The collection is saved once at the end.
func (st *Store) RefreshAll(ctx context.Context) (*RefreshReport, error) {
	if !st.refreshing.CompareAndSwap(false, true) {
		return nil, domain.ErrUpdateInProgress
	}
	defer st.refreshing.Store(false)

	report := &RefreshReport{RunID: uuid.NewString(), Started: st.now()}
	st.setProgress(0)
	st.events.publish(Event{Kind: EventRefreshStarted, RunID: report.RunID})

	st.mu.RLock()
	ids := make([]int64, len(st.apps))
	for i, a := range st.apps {
		ids[i] = a.ID
	}
	st.mu.RUnlock()

	colors.StructuredInfo("wishlist", "refresh_all", "started", nil, report.RunID, map[string]any{"apps": len(ids)})
	region := st.settings.Region()
	threshold := st.settings.DropThreshold()
	dirty := false

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			if dirty {
				if serr := st.saveCurrent(context.WithoutCancel(ctx)); serr != nil {
					colors.StructuredError("wishlist", "refresh_all", "save_failed", serr, report.RunID, nil)
				}
			}
			report.Finished = st.now()
			return report, fmt.Errorf("refresh all: %w", err)
		}
		item, err := st.catalog.Lookup(ctx, id, region)
		if err != nil {
			report.Failures = append(report.Failures, ItemError{AppID: id, Err: err})
			colors.StructuredWarn("wishlist", "refresh_all", "item_failed", err, appLogID(id), map[string]any{"run_id": report.RunID})
		} else {
			st.mu.Lock()
			change, changed, ok, err := apply(st.apps, item, st.now())
			st.mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, ItemError{AppID: id, Err: err})
				colors.StructuredWarn("wishlist", "refresh_all", "item_failed", err, appLogID(id), map[string]any{"run_id": report.RunID})
			} else if ok {
				dirty = true
				report.Checked++
				if changed {
					report.Changes = append(report.Changes, change)
					if domain.MeetsThreshold(change.OldPrice, change.NewPrice, threshold) {
						report.Drops = append(report.Drops, change)
					}
				}
			}
		}
		progress := float64(i+1) / float64(len(ids))
		st.setProgress(progress)
		st.events.publish(Event{Kind: EventProgress, Progress: progress, RunID: report.RunID})
	}
	if len(ids) == 0 {
		st.setProgress(1)
	}

	if dirty {
		if err := st.saveCurrent(ctx); err != nil {
			return report, fmt.Errorf("refresh all: %w", err)
		}
	}
	report.Finished = st.now()

	for _, drop := range report.Drops {
		st.recordDrop(ctx, drop)
	}
	if st.stats != nil {
		if err := st.stats.SetLastBatchAt(ctx, report.Finished); err != nil {
			colors.StructuredWarn("wishlist", "refresh_all", "stats_failed", err, report.RunID, nil)
		}
	}
	if st.notifier != nil && len(report.Drops) > 0 {
		if err := st.notifier.NotifyBatch(ctx, report.Drops); err != nil {
			colors.StructuredWarn("wishlist", "refresh_all", "notify_failed", err, report.RunID, nil)
		}
	}

	colors.StructuredInfo("wishlist", "refresh_all", "completed", nil, report.RunID, map[string]any{
		"checked":          report.Checked,
		"changes":          len(report.Changes),
		"drops":            len(report.Drops),
		"failures":         len(report.Failures),
		"duration_seconds": report.Finished.Sub(report.Started).Seconds(),
	})
	st.events.publish(Event{Kind: EventRefreshed, RunID: report.RunID})
	if err := st.runHook(hooks.PostRefresh,
		"REFRESH_RUN_ID="+report.RunID,
		"CHECKED="+strconv.Itoa(report.Checked),
		"CHANGES="+strconv.Itoa(len(report.Changes)),
		"DROPS="+strconv.Itoa(len(report.Drops)),
		"FAILURES="+strconv.Itoa(len(report.Failures)),
	); err != nil {
		colors.StructuredWarn("wishlist", "refresh_all", "hook_failed", err, report.RunID, nil)
	}
	return report, nil
}

// saveCurrent persists the in-memory collection.
func (st *Store) saveCurrent(ctx context.Context) error {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.persist(ctx, st.apps)
}

func (st *Store) recordDrop(ctx context.Context, change domain.PriceChange) {
	if st.stats == nil {
		return
	}
	if err := st.stats.RecordDrop(ctx, change.Savings()); err != nil {
		colors.StructuredWarn("wishlist", "record_drop", "failed", err, appLogID(change.App.ID), nil)
	}
}

// apply records item's price on the matching entry of apps in place. ok is
// false when the app is no longer in the list. A rejected price leaves the
// entry unchanged.
func apply(apps []domain.TrackedApp, item domain.CatalogItem, now time.Time) (change domain.PriceChange, changed, ok bool, err error) {
	for i := range apps {
		if apps[i].ID != item.ID {
			continue
		}
		old := apps[i].CurrentPrice
		changed, err = apps[i].RecordPrice(item.Price, item.FormattedPrice, now)
		if err != nil {
			return domain.PriceChange{}, false, true, fmt.Errorf("app %d: %w", item.ID, err)
		}
		apps[i].ApplyMetadata(item)
		return domain.PriceChange{App: apps[i].Clone(), OldPrice: old, NewPrice: item.Price}, changed, true, nil
	}
	return domain.PriceChange{}, false, false, nil
}
