// Package ports defines application boundary interfaces used by core services.
package ports

import (
	"context"
	"time"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/shopspring/decimal"
)

// Catalog defines the catalog lookups used by the wishlist.
type Catalog interface {
	Lookup(ctx context.Context, id int64, region string) (domain.CatalogItem, error)
	LookupMany(ctx context.Context, ids []int64, region string) ([]domain.CatalogItem, error)
	Search(ctx context.Context, term, region string, limit int) ([]domain.CatalogItem, error)
}

// KVStore is a flat key-value namespace.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// NotificationCenter stands in for the OS notification service.
type NotificationCenter interface {
	Authorize(ctx context.Context) (bool, error)
	Add(ctx context.Context, n notification.Notification) error
	RemovePending(ctx context.Context, identifiers ...string) error
	RemoveDelivered(ctx context.Context, identifiers ...string) error
	Pending(ctx context.Context) ([]notification.Notification, error)
	Delivered(ctx context.Context) ([]notification.Notification, error)
	Deliver(ctx context.Context, now time.Time) ([]notification.Notification, error)
}

// Notifier is what the wishlist needs from the notification dispatcher.
type Notifier interface {
	NotifyDrop(ctx context.Context, app domain.TrackedApp, oldPrice, newPrice decimal.Decimal) error
	NotifyBatch(ctx context.Context, drops []domain.PriceChange) error
	Cancel(ctx context.Context, appID int64) error
}

// SettingsReader exposes the settings the refresh workflow consults.
type SettingsReader interface {
	DropThreshold() int
	NotificationsEnabled() bool
	Region() string
}

// StatsRecorder accumulates lifetime statistics.
type StatsRecorder interface {
	RecordDrop(ctx context.Context, savings decimal.Decimal) error
	SetLastBatchAt(ctx context.Context, at time.Time) error
}
