// Package settings owns the user preferences and lifetime statistics, each
// persisted as an individual key in the key-value store.
package settings

import (
	"time"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/shopspring/decimal"
)

// Storage keys.
const (
	KeyNotificationsEnabled = "settings.notifications_enabled"
	KeyDropThreshold        = "settings.drop_threshold"
	KeyAutoUpdate           = "settings.auto_update"
	KeyUpdateFrequency      = "settings.update_frequency_hours"
	KeySortOrder            = "settings.sort_order"
	KeyShowOnSaleOnly       = "settings.show_on_sale_only"
	KeyHideFree             = "settings.hide_free"
	KeyRegion               = "settings.region"
	KeyCurrency             = "settings.currency"

	KeyDropsDetected = "stats.drops_detected"
	KeyTotalSaved    = "stats.total_saved"
	KeyLastBatchAt   = "wishlist.last_batch_at"
)

// Threshold bounds in percent.
const (
	MinDropThreshold  = 5
	MaxDropThreshold  = 50
	DropThresholdStep = 5
)

// UpdateFrequencies are the allowed auto-update intervals in hours.
var UpdateFrequencies = []int{6, 12, 24, 72}

// Settings is a snapshot of preferences and statistics.
type Settings struct {
	NotificationsEnabled bool
	DropThreshold        int
	AutoUpdate           bool
	UpdateFrequencyHours int
	SortOrder            domain.SortOrder
	ShowOnSaleOnly       bool
	HideFree             bool
	Region               string
	Currency             string

	DropsDetected int64
	TotalSaved    decimal.Decimal
	LastBatchAt   time.Time
}

// Defaults returns the documented default settings with zeroed statistics.
func Defaults() Settings {
	return Settings{
		NotificationsEnabled: true,
		DropThreshold:        10,
		AutoUpdate:           true,
		UpdateFrequencyHours: 12,
		SortOrder:            domain.DefaultSortOrder,
		Region:               "us",
		Currency:             "USD",
		TotalSaved:           decimal.Zero,
	}
}

// UpdateInterval is UpdateFrequencyHours as a duration.
func (s Settings) UpdateInterval() time.Duration {
	return time.Duration(s.UpdateFrequencyHours) * time.Hour
}

// Filter returns the display filter the settings describe.
func (s Settings) Filter() domain.Filter {
	return domain.Filter{OnSaleOnly: s.ShowOnSaleOnly, HideFree: s.HideFree}
}
