// Package domain holds the wishlist entities and the pure rules around them:
// price history, discount math, sorting and filtering.
package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxPriceHistory is the number of price points kept per app.
const MaxPriceHistory = 30

var hundred = decimal.NewFromInt(100)

// PricePoint is a single observed price.
type PricePoint struct {
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
	Formatted string          `json:"formatted,omitempty"`
}

// CatalogItem is one decoded record from the app catalog.
type CatalogItem struct {
	ID             int64
	Name           string
	Developer      string
	Price          decimal.Decimal
	Currency       string
	FormattedPrice string
	IconURL        string
	StoreURL       string
	BundleID       string
	Category       string
	Version        string
	SizeBytes      int64
	Rating         float64
	RatingCount    int64
	ContentRating  string
	ReleaseDate    time.Time
	Description    string
	Screenshots    []string
	Devices        []string
}

// TrackedApp is an app on the wishlist.
type TrackedApp struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Developer     string          `json:"developer"`
	IconURL       string          `json:"iconUrl,omitempty"`
	StoreURL      string          `json:"storeUrl,omitempty"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Currency      string          `json:"currency"`
	DateAdded     time.Time       `json:"dateAdded"`
	LastChecked   time.Time       `json:"lastChecked"`
	Notes         string          `json:"notes"`
	Tags          []string        `json:"tags"`
	PriceHistory  []PricePoint    `json:"priceHistory"`

	BundleID      string    `json:"bundleId,omitempty"`
	Category      string    `json:"category,omitempty"`
	Version       string    `json:"version,omitempty"`
	SizeBytes     int64     `json:"sizeBytes,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	RatingCount   int64     `json:"ratingCount,omitempty"`
	ContentRating string    `json:"contentRating,omitempty"`
	ReleaseDate   time.Time `json:"releaseDate,omitempty"`
	Description   string    `json:"description,omitempty"`
	Screenshots   []string  `json:"screenshots,omitempty"`
}

// NewTrackedApp starts tracking a catalog item. The original price is the
// price at this moment and the history is seeded with it.
func NewTrackedApp(item CatalogItem, now time.Time) (TrackedApp, error) {
	if item.ID <= 0 {
		return TrackedApp{}, fmt.Errorf("%w: app id must be positive, got %d", ErrInvalidInput, item.ID)
	}
	if item.Price.IsNegative() {
		return TrackedApp{}, fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	now = now.UTC()
	app := TrackedApp{
		ID:            item.ID,
		Name:          item.Name,
		Developer:     item.Developer,
		IconURL:       item.IconURL,
		StoreURL:      item.StoreURL,
		CurrentPrice:  item.Price,
		OriginalPrice: item.Price,
		Currency:      item.Currency,
		DateAdded:     now,
		LastChecked:   now,
		Tags:          []string{},
		PriceHistory:  []PricePoint{{Price: item.Price, Timestamp: now, Formatted: item.FormattedPrice}},
	}
	app.ApplyMetadata(item)
	return app, nil
}

// ApplyMetadata copies descriptive catalog fields. Prices and identity are
// left untouched.
func (a *TrackedApp) ApplyMetadata(item CatalogItem) {
	if item.Name != "" {
		a.Name = item.Name
	}
	if item.Developer != "" {
		a.Developer = item.Developer
	}
	if item.IconURL != "" {
		a.IconURL = item.IconURL
	}
	if item.StoreURL != "" {
		a.StoreURL = item.StoreURL
	}
	if a.Currency == "" {
		a.Currency = item.Currency
	}
	a.BundleID = item.BundleID
	a.Category = item.Category
	a.Version = item.Version
	a.SizeBytes = item.SizeBytes
	a.Rating = item.Rating
	a.RatingCount = item.RatingCount
	a.ContentRating = item.ContentRating
	a.ReleaseDate = item.ReleaseDate
	a.Description = item.Description
	if len(item.Screenshots) > 0 {
		a.Screenshots = append([]string(nil), item.Screenshots...)
	}
}

// RecordPrice applies a freshly observed price. It reports whether the price
// changed; an unchanged price only moves LastChecked. A negative price is
// rejected and leaves the app untouched.
func (a *TrackedApp) RecordPrice(price decimal.Decimal, formatted string, now time.Time) (bool, error) {
	if price.IsNegative() {
		return false, fmt.Errorf("%w: price cannot be negative, got %s", ErrInvalidInput, price)
	}
	now = now.UTC()
	a.LastChecked = now
	if price.Equal(a.CurrentPrice) {
		return false, nil
	}
	if n := len(a.PriceHistory); n > 0 && now.Before(a.PriceHistory[n-1].Timestamp) {
		now = a.PriceHistory[n-1].Timestamp
		a.LastChecked = now
	}
	a.CurrentPrice = price
	a.PriceHistory = append(a.PriceHistory, PricePoint{Price: price, Timestamp: now, Formatted: formatted})
	if over := len(a.PriceHistory) - MaxPriceHistory; over > 0 {
		a.PriceHistory = append([]PricePoint(nil), a.PriceHistory[over:]...)
	}
	return true, nil
}

// IsOnSale reports whether the app costs less than when it was added.
func (a TrackedApp) IsOnSale() bool {
	return a.CurrentPrice.LessThan(a.OriginalPrice)
}

// IsFree reports whether the current price is zero.
func (a TrackedApp) IsFree() bool {
	return a.CurrentPrice.IsZero()
}

// Savings is original minus current, never negative.
func (a TrackedApp) Savings() decimal.Decimal {
	if !a.IsOnSale() {
		return decimal.Zero
	}
	return a.OriginalPrice.Sub(a.CurrentPrice)
}

// DiscountPercent is the discount from the original price in percent,
// rounded to two decimals.
func (a TrackedApp) DiscountPercent() float64 {
	return DropPercent(a.OriginalPrice, a.CurrentPrice)
}

// DropPercent returns (from-to)/from*100 rounded to two decimals, or 0 when
// the price did not fall or from is zero.
func DropPercent(from, to decimal.Decimal) float64 {
	if !from.IsPositive() || !to.LessThan(from) {
		return 0
	}
	return from.Sub(to).Div(from).Mul(hundred).Round(2).InexactFloat64()
}

// MeetsThreshold reports whether a change from old to new is a drop of at
// least threshold percent.
func MeetsThreshold(old, new decimal.Decimal, threshold int) bool {
	pct := DropPercent(old, new)
	return pct > 0 && pct >= float64(threshold)
}

// SetTags replaces the tag set. Tags are trimmed, de-duplicated and sorted.
func (a *TrackedApp) SetTags(tags []string) {
	a.Tags = normalizeTags(tags)
}

// AddTags adds tags to the set.
func (a *TrackedApp) AddTags(tags ...string) {
	a.Tags = normalizeTags(append(append([]string(nil), a.Tags...), tags...))
}

// RemoveTags removes tags from the set, ignoring unknown ones.
func (a *TrackedApp) RemoveTags(tags ...string) {
	drop := make(map[string]bool, len(tags))
	for _, t := range tags {
		drop[strings.TrimSpace(t)] = true
	}
	kept := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		if !drop[t] {
			kept = append(kept, t)
		}
	}
	a.Tags = kept
}

// HasTag reports whether tag is in the set.
func (a TrackedApp) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Normalize restores defaults on a decoded app: non-nil tags and a seeded
// price history.
func (a *TrackedApp) Normalize() {
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if len(a.PriceHistory) == 0 {
		ts := a.DateAdded
		if ts.IsZero() {
			ts = a.LastChecked
		}
		a.PriceHistory = []PricePoint{{Price: a.CurrentPrice, Timestamp: ts}}
	}
	sort.SliceStable(a.PriceHistory, func(i, j int) bool {
		return a.PriceHistory[i].Timestamp.Before(a.PriceHistory[j].Timestamp)
	})
	if over := len(a.PriceHistory) - MaxPriceHistory; over > 0 {
		a.PriceHistory = append([]PricePoint(nil), a.PriceHistory[over:]...)
	}
}

// Validate checks the invariants of a stored app.
func (a TrackedApp) Validate() error {
	if a.ID <= 0 {
		return fmt.Errorf("%w: app id must be positive, got %d", ErrInvalidInput, a.ID)
	}
	if a.CurrentPrice.IsNegative() || a.OriginalPrice.IsNegative() {
		return fmt.Errorf("%w: prices cannot be negative", ErrInvalidInput)
	}
	if len(a.PriceHistory) == 0 {
		return fmt.Errorf("%w: price history cannot be empty", ErrInvalidInput)
	}
	return nil
}

// Clone returns a deep copy.
func (a TrackedApp) Clone() TrackedApp {
	c := a
	c.Tags = append([]string{}, a.Tags...)
	c.PriceHistory = append([]PricePoint(nil), a.PriceHistory...)
	if a.Screenshots != nil {
		c.Screenshots = append([]string(nil), a.Screenshots...)
	}
	return c
}

// PriceChange describes a price difference found by a refresh.
type PriceChange struct {
	App      TrackedApp
	OldPrice decimal.Decimal
	NewPrice decimal.Decimal
}

// IsDrop reports whether the price went down.
func (c PriceChange) IsDrop() bool {
	return c.NewPrice.LessThan(c.OldPrice)
}

// Savings is the amount the price fell by, zero for increases.
func (c PriceChange) Savings() decimal.Decimal {
	if !c.IsDrop() {
		return decimal.Zero
	}
	return c.OldPrice.Sub(c.NewPrice)
}

// DropPercent is the size of the drop in percent.
func (c PriceChange) DropPercent() float64 {
	return DropPercent(c.OldPrice, c.NewPrice)
}
