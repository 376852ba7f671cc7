// Package notify turns detected price drops into local notifications.
// At most one notification per app is active at a time, and batch summaries
// share one identifier so a new batch supersedes the previous one.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/formatter"
	"github.com/cristianoliveira/appwish/internal/hooks"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/shopspring/decimal"
)

// Dispatcher schedules price drop notifications on a center.
type Dispatcher struct {
	center   ports.NotificationCenter
	settings ports.SettingsReader
	now      func() time.Time
	runHook  func(hookPoint string, envVars ...string) error
	preset   formatter.Preset

	mu      sync.Mutex
	asked   bool
	granted bool
}

var _ ports.Notifier = (*Dispatcher)(nil)

// New returns a dispatcher posting to center and reading preferences from
// settings.
func New(center ports.NotificationCenter, settings ports.SettingsReader) *Dispatcher {
	if center == nil {
		panic("notify.New: center cannot be nil")
	}
	if settings == nil {
		panic("notify.New: settings cannot be nil")
	}
	return &Dispatcher{
		center:   center,
		settings: settings,
		now:      time.Now,
		runHook:  hooks.Run,
		preset:   fallback,
	}
}

// SetFormat selects the notification text preset by name.
func (d *Dispatcher) SetFormat(name string) error {
	preset, err := formatter.NewPresetRegistry().Get(name)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	d.mu.Lock()
	d.preset = *preset
	d.mu.Unlock()
	return nil
}

func (d *Dispatcher) currentPreset() formatter.Preset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.preset
}

// RequestPermission asks the center once; later calls return the cached
// answer. A failed prompt is not cached.
func (d *Dispatcher) RequestPermission(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.asked {
		return d.granted, nil
	}
	granted, err := d.center.Authorize(ctx)
	if err != nil {
		return false, fmt.Errorf("request notification permission: %w", err)
	}
	d.asked = true
	d.granted = granted
	colors.StructuredInfo("notify", "authorize", "completed", nil, "", map[string]any{"granted": granted})
	return granted, nil
}

// allowed reports whether notifications may be posted right now.
func (d *Dispatcher) allowed(ctx context.Context) (bool, error) {
	if !d.settings.NotificationsEnabled() {
		return false, nil
	}
	return d.RequestPermission(ctx)
}

// NotifyDrop posts a drop notification for app, replacing any earlier one.
// It is a no-op when notifications are off, permission was denied or the drop
// does not meet the current threshold.
func (d *Dispatcher) NotifyDrop(ctx context.Context, app domain.TrackedApp, oldPrice, newPrice decimal.Decimal) error {
	ok, err := d.allowed(ctx)
	if err != nil || !ok {
		return err
	}
	if !domain.MeetsThreshold(oldPrice, newPrice, d.settings.DropThreshold()) {
		colors.StructuredDebug("notify", "drop", "below_threshold", nil, notification.IdentifierForApp(app.ID), nil)
		return nil
	}
	return d.replace(ctx, dropNotification(d.currentPreset(), app, oldPrice, newPrice, d.now()))
}

// NotifyBatch posts one drop notification when exactly one drop qualifies and
// a single summary when several do.
func (d *Dispatcher) NotifyBatch(ctx context.Context, drops []domain.PriceChange) error {
	ok, err := d.allowed(ctx)
	if err != nil || !ok {
		return err
	}
	threshold := d.settings.DropThreshold()
	qualifying := make([]domain.PriceChange, 0, len(drops))
	for _, c := range drops {
		if domain.MeetsThreshold(c.OldPrice, c.NewPrice, threshold) {
			qualifying = append(qualifying, c)
		}
	}
	switch len(qualifying) {
	case 0:
		return nil
	case 1:
		c := qualifying[0]
		return d.NotifyDrop(ctx, c.App, c.OldPrice, c.NewPrice)
	}
	return d.replace(ctx, summaryNotification(d.currentPreset(), qualifying, d.now()))
}

// Cancel removes pending and delivered notifications for appID.
func (d *Dispatcher) Cancel(ctx context.Context, appID int64) error {
	return d.remove(ctx, notification.IdentifierForApp(appID))
}

// CancelAll removes every price drop notification, summaries included.
func (d *Dispatcher) CancelAll(ctx context.Context) error {
	pending, err := d.center.Pending(ctx)
	if err != nil {
		return fmt.Errorf("cancel notifications: %w", err)
	}
	delivered, err := d.center.Delivered(ctx)
	if err != nil {
		return fmt.Errorf("cancel notifications: %w", err)
	}
	var ids []string
	for _, n := range append(pending, delivered...) {
		if notification.IsPriceDrop(n.Identifier) {
			ids = append(ids, n.Identifier)
		}
	}
	return d.remove(ctx, ids...)
}

// Deliver moves due notifications to delivered and runs the price-drop hooks
// for each. Hook failures are reported after all notifications are handled.
// Nothing is delivered while notifications are disabled.
func (d *Dispatcher) Deliver(ctx context.Context) ([]notification.Notification, error) {
	if !d.settings.NotificationsEnabled() {
		return nil, nil
	}
	delivered, err := d.center.Deliver(ctx, d.now())
	if err != nil {
		return nil, fmt.Errorf("deliver notifications: %w", err)
	}
	var hookErrs []error
	for _, n := range delivered {
		colors.StructuredInfo("notify", "deliver", "delivered", nil, n.Identifier, map[string]any{"title": n.Title})
		if err := d.runHook(hooks.PriceDrop, n.HookEnv()...); err != nil {
			colors.StructuredWarn("notify", "deliver", "hook_failed", err, n.Identifier, nil)
			hookErrs = append(hookErrs, fmt.Errorf("%s: %w", n.Identifier, err))
		}
	}
	return delivered, errors.Join(hookErrs...)
}

func (d *Dispatcher) replace(ctx context.Context, n notification.Notification) error {
	if err := d.remove(ctx, n.Identifier); err != nil {
		return err
	}
	if err := d.center.Add(ctx, n); err != nil {
		return fmt.Errorf("schedule notification %s: %w", n.Identifier, err)
	}
	colors.StructuredInfo("notify", "schedule", "pending", nil, n.Identifier, map[string]any{"kind": string(n.Payload.Kind)})
	return nil
}

func (d *Dispatcher) remove(ctx context.Context, identifiers ...string) error {
	if len(identifiers) == 0 {
		return nil
	}
	if err := d.center.RemovePending(ctx, identifiers...); err != nil {
		return fmt.Errorf("remove pending notifications: %w", err)
	}
	if err := d.center.RemoveDelivered(ctx, identifiers...); err != nil {
		return fmt.Errorf("remove delivered notifications: %w", err)
	}
	return nil
}
