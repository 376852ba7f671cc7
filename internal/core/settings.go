package core

import (
	"context"

	"github.com/cristianoliveira/appwish/internal/settings"
)

// LoadSettings returns the current settings snapshot.
func (c *Core) LoadSettings(ctx context.Context) (settings.Settings, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	return svc.Settings.Get(), nil
}

// SetSetting validates and saves one named setting and returns the result.
func (c *Core) SetSetting(ctx context.Context, name, value string) (settings.Settings, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	wasEnabled := svc.Settings.Get().NotificationsEnabled
	if err := svc.Settings.Set(ctx, name, value); err != nil {
		return settings.Settings{}, err
	}
	if wasEnabled && !svc.Settings.Get().NotificationsEnabled {
		if err := svc.Notifier.CancelAll(ctx); err != nil {
			return svc.Settings.Get(), err
		}
	}
	if err := svc.Scheduler.Reschedule(); err != nil {
		return svc.Settings.Get(), err
	}
	return svc.Settings.Get(), nil
}

// ResetSettings restores default preferences. Statistics are kept.
func (c *Core) ResetSettings(ctx context.Context) (settings.Settings, error) {
	svc, err := c.Services(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := svc.Settings.Reset(ctx); err != nil {
		return settings.Settings{}, err
	}
	return svc.Settings.Get(), nil
}

// ResetStats zeroes the lifetime statistics.
func (c *Core) ResetStats(ctx context.Context) error {
	svc, err := c.Services(ctx)
	if err != nil {
		return err
	}
	return svc.Settings.ResetStats(ctx)
}
