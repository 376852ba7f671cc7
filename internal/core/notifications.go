package core

import (
	"context"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// Notifications returns pending and delivered notifications.
func (c *Core) Notifications(ctx context.Context) (pending, delivered []notification.Notification, err error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, nil, err
	}
	if pending, err = svc.Center.Pending(ctx); err != nil {
		return nil, nil, err
	}
	if delivered, err = svc.Center.Delivered(ctx); err != nil {
		return nil, nil, err
	}
	return pending, delivered, nil
}

// DeliverNotifications delivers every pending notification that is due.
func (c *Core) DeliverNotifications(ctx context.Context) ([]notification.Notification, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	return svc.Notifier.Deliver(ctx)
}

// CancelNotification removes the notifications of one app.
func (c *Core) CancelNotification(ctx context.Context, appID int64) error {
	svc, err := c.Services(ctx)
	if err != nil {
		return err
	}
	return svc.Notifier.Cancel(ctx, appID)
}

// CancelAllNotifications removes every price drop notification.
func (c *Core) CancelAllNotifications(ctx context.Context) error {
	svc, err := c.Services(ctx)
	if err != nil {
		return err
	}
	return svc.Notifier.CancelAll(ctx)
}

// RequestPermission asks for notification permission.
func (c *Core) RequestPermission(ctx context.Context) (bool, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return false, err
	}
	return svc.Notifier.RequestPermission(ctx)
}

// WatchOptions configures Watch.
type WatchOptions struct {
	// RefreshNow runs one refresh before waiting for the schedule.
	RefreshNow bool
	// OnEvent receives wishlist events while watching.
	OnEvent func(wishlist.Event)
}

// Watch runs the scheduler until ctx is done. It returns the time of the
// next scheduled refresh through started, once the runner is up.
func (c *Core) Watch(ctx context.Context, opts WatchOptions, started func(next time.Time)) error {
	svc, err := c.Services(ctx)
	if err != nil {
		return err
	}

	if opts.OnEvent != nil {
		events, unsubscribe := svc.Wishlist.Subscribe()
		defer unsubscribe()
		go func() {
			for e := range events {
				opts.OnEvent(e)
			}
		}()
	}

	if err := svc.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer svc.Scheduler.Stop()
	colors.StructuredInfo("core", "watch", "started", nil, "", map[string]any{"spec": svc.Scheduler.RefreshSpec()})

	if opts.RefreshNow {
		if _, err := svc.Scheduler.RunOnce(ctx); err != nil {
			colors.Warning("initial refresh failed: " + err.Error())
		}
	}
	if started != nil {
		started(svc.Scheduler.NextRefresh())
	}

	<-ctx.Done()
	colors.StructuredInfo("core", "watch", "stopped", nil, "", nil)
	return nil
}
