package notify

import (
	"fmt"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/formatter"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/shopspring/decimal"
)

var (
	engine   = formatter.NewTemplateEngine()
	fallback = mustPreset(formatter.DefaultPreset)
)

func mustPreset(name string) formatter.Preset {
	p, err := formatter.NewPresetRegistry().Get(name)
	if err != nil {
		panic(err)
	}
	return *p
}

// render substitutes ctx into the preset templates picked by pick. A preset
// that fails to render falls back to the default one.
func render(preset formatter.Preset, pick func(formatter.Preset) (string, string), ctx formatter.VariableContext) (string, string) {
	title, body := pick(preset)
	t, terr := engine.Substitute(title, ctx)
	b, berr := engine.Substitute(body, ctx)
	if terr == nil && berr == nil {
		return t, b
	}
	colors.Warning(fmt.Sprintf("notification format %s: %v", preset.Name, errorsOr(terr, berr)))
	title, body = pick(fallback)
	t, _ = engine.Substitute(title, ctx)
	b, _ = engine.Substitute(body, ctx)
	return t, b
}

func errorsOr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}

func dropTemplates(p formatter.Preset) (string, string)    { return p.DropTitle, p.DropBody }
func summaryTemplates(p formatter.Preset) (string, string) { return p.SummaryTitle, p.SummaryBody }

func dropNotification(preset formatter.Preset, app domain.TrackedApp, oldPrice, newPrice decimal.Decimal, now time.Time) notification.Notification {
	percent := domain.DropPercent(oldPrice, newPrice)
	title, body := render(preset, dropTemplates, formatter.VariableContext{
		AppName:   app.Name,
		Developer: app.Developer,
		OldPrice:  domain.FormatPrice(oldPrice, app.Currency),
		NewPrice:  domain.DisplayPrice(newPrice, app.Currency),
		Savings:   domain.FormatPrice(oldPrice.Sub(newPrice), app.Currency),
		Percent:   percent,
	})
	return notification.Notification{
		Identifier: notification.IdentifierForApp(app.ID),
		Title:      title,
		Body:       body,
		Payload: notification.Payload{
			Kind:            notification.KindDrop,
			AppID:           app.ID,
			OldPrice:        oldPrice,
			NewPrice:        newPrice,
			Savings:         oldPrice.Sub(newPrice),
			DiscountPercent: percent,
		},
		State:       notification.StatePending,
		ScheduledAt: now,
	}
}

func summaryNotification(preset formatter.Preset, drops []domain.PriceChange, now time.Time) notification.Notification {
	total := decimal.Zero
	ids := make([]int64, 0, len(drops))
	names := make([]string, 0, len(drops))
	currency := drops[0].App.Currency
	for _, c := range drops {
		total = total.Add(c.Savings())
		ids = append(ids, c.App.ID)
		names = append(names, c.App.Name)
		if c.App.Currency != currency {
			currency = ""
		}
	}
	title, body := render(preset, summaryTemplates, formatter.VariableContext{
		Count:        len(drops),
		TotalSavings: domain.FormatPrice(total, currency),
		AppNames:     names,
	})
	return notification.Notification{
		Identifier: notification.SummaryIdentifier,
		Title:      title,
		Body:       body,
		Payload: notification.Payload{
			Kind:         notification.KindSummary,
			Count:        len(drops),
			TotalSavings: total,
			AppIDs:       ids,
		},
		State:       notification.StatePending,
		ScheduledAt: now,
	}
}
