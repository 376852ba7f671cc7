package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects how the wishlist is ordered.
type SortOrder string

const (
	SortDiscountDesc  SortOrder = "discount_desc"
	SortPriceAsc      SortOrder = "price_asc"
	SortPriceDesc     SortOrder = "price_desc"
	SortNameAsc       SortOrder = "name_asc"
	SortDateAddedDesc SortOrder = "date_added_desc"
	SortDeveloperAsc  SortOrder = "developer_asc"
)

// DefaultSortOrder is used when nothing else is configured.
const DefaultSortOrder = SortDateAddedDesc

// SortOrders lists every valid order.
var SortOrders = []SortOrder{
	SortDiscountDesc, SortPriceAsc, SortPriceDesc,
	SortNameAsc, SortDateAddedDesc, SortDeveloperAsc,
}

// IsValid checks if the sort order is known.
func (s SortOrder) IsValid() bool {
	for _, o := range SortOrders {
		if s == o {
			return true
		}
	}
	return false
}

// String returns the string representation of the sort order.
func (s SortOrder) String() string {
	return string(s)
}

// ParseSortOrder accepts the order names case-insensitively, with dashes or
// underscores.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !o.IsValid() {
		return "", fmt.Errorf("%w: unknown sort order %q", ErrInvalidInput, s)
	}
	return o, nil
}

// SortApps returns a sorted copy. Ties keep their stored order.
func SortApps(apps []TrackedApp, order SortOrder) []TrackedApp {
	out := append([]TrackedApp(nil), apps...)
	if !order.IsValid() {
		order = DefaultSortOrder
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortDiscountDesc:
			return a.DiscountPercent() > b.DiscountPercent()
		case SortPriceAsc:
			return a.CurrentPrice.LessThan(b.CurrentPrice)
		case SortPriceDesc:
			return a.CurrentPrice.GreaterThan(b.CurrentPrice)
		case SortNameAsc:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case SortDeveloperAsc:
			return strings.ToLower(a.Developer) < strings.ToLower(b.Developer)
		default:
			return a.DateAdded.After(b.DateAdded)
		}
	})
	return out
}
