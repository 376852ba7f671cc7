// Package notification defines the local notifications raised for price drops.
package notification

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// IdentifierPrefix starts every per-app identifier.
	IdentifierPrefix = "price_drop_"
	// SummaryIdentifier is the single identifier shared by batch summaries.
	SummaryIdentifier = IdentifierPrefix + "summary"
)

// State is the lifecycle state of a notification.
type State string

const (
	StatePending   State = "pending"
	StateDelivered State = "delivered"
)

// Kind tells a drop from a summary.
type Kind string

const (
	KindDrop    Kind = "drop"
	KindSummary Kind = "summary"
)

// Payload is the structured data attached to a notification so a tap can be
// routed back to the app.
type Payload struct {
	Kind            Kind            `json:"kind"`
	AppID           int64           `json:"appId,omitempty"`
	OldPrice        decimal.Decimal `json:"oldPrice"`
	NewPrice        decimal.Decimal `json:"newPrice"`
	Savings         decimal.Decimal `json:"savings"`
	DiscountPercent float64         `json:"discountPercent,omitempty"`
	Count           int             `json:"count,omitempty"`
	TotalSavings    decimal.Decimal `json:"totalSavings"`
	AppIDs          []int64         `json:"appIds,omitempty"`
}

// Notification is one scheduled or delivered notification.
type Notification struct {
	Identifier  string
	Title       string
	Body        string
	Payload     Payload
	State       State
	ScheduledAt time.Time
	DeliveredAt time.Time
}

// IdentifierForApp returns price_drop_<id>.
func IdentifierForApp(appID int64) string {
	return IdentifierPrefix + strconv.FormatInt(appID, 10)
}

// AppIDFromIdentifier parses the app id back out of a per-app identifier.
func AppIDFromIdentifier(identifier string) (int64, bool) {
	if identifier == SummaryIdentifier || !strings.HasPrefix(identifier, IdentifierPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(identifier, IdentifierPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IsPriceDrop reports whether identifier belongs to this application.
func IsPriceDrop(identifier string) bool {
	return strings.HasPrefix(identifier, IdentifierPrefix)
}

// HookEnv renders the notification as hook environment variables.
func (n Notification) HookEnv() []string {
	env := []string{
		"NOTIFICATION_ID=" + n.Identifier,
		"KIND=" + string(n.Payload.Kind),
		"TITLE=" + n.Title,
		"BODY=" + n.Body,
		"STATE=" + string(n.State),
	}
	switch n.Payload.Kind {
	case KindDrop:
		env = append(env,
			fmt.Sprintf("APP_ID=%d", n.Payload.AppID),
			"OLD_PRICE="+n.Payload.OldPrice.StringFixed(2),
			"NEW_PRICE="+n.Payload.NewPrice.StringFixed(2),
			"SAVINGS="+n.Payload.Savings.StringFixed(2),
			fmt.Sprintf("DISCOUNT_PERCENT=%.2f", n.Payload.DiscountPercent),
		)
	case KindSummary:
		env = append(env,
			fmt.Sprintf("COUNT=%d", n.Payload.Count),
			"TOTAL_SAVINGS="+n.Payload.TotalSavings.StringFixed(2),
		)
	}
	return env
}
