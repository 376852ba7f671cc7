package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// cardHistory is how many recent price points a card shows.
const cardHistory = 10

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ansiColorNumber(colors.Blue))).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	saleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red)))
)

// RenderCard renders the detail view of one app.
func RenderCard(app domain.TrackedApp, width int, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(app.Name))
	if app.Developer != "" {
		b.WriteString(labelStyle.Render("  by " + app.Developer))
	}
	b.WriteString("\n\n")

	price := domain.DisplayPrice(app.CurrentPrice, app.Currency)
	if app.IsOnSale() {
		b.WriteString(saleStyle.Render(price))
		b.WriteString(fmt.Sprintf("  was %s, %.2f%% off, save %s",
			domain.FormatPrice(app.OriginalPrice, app.Currency),
			app.DiscountPercent(),
			domain.FormatPrice(app.Savings(), app.Currency)))
	} else {
		b.WriteString(price)
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("ID", fmt.Sprint(app.ID))
	field("Category", app.Category)
	field("Version", app.Version)
	if app.SizeBytes > 0 {
		field("Size", humanBytes(app.SizeBytes))
	}
	if app.RatingCount > 0 {
		field("Rating", fmt.Sprintf("%.1f (%d ratings)", app.Rating, app.RatingCount))
	}
	field("Age", app.ContentRating)
	field("Added", app.DateAdded.Local().Format("2006-01-02"))
	field("Checked", RelativeTime(app.LastChecked, now))
	field("Tags", strings.Join(app.Tags, ", "))
	field("Notes", app.Notes)
	field("Store", app.StoreURL)

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Price history"))
	b.WriteString("\n")
	history := app.PriceHistory
	if len(history) > cardHistory {
		history = history[len(history)-cardHistory:]
	}
	for i, pt := range history {
		marker := " "
		if i > 0 || len(history) < len(app.PriceHistory) {
			var prev domain.PricePoint
			if i > 0 {
				prev = history[i-1]
			} else {
				prev = app.PriceHistory[len(app.PriceHistory)-len(history)-1]
			}
			switch {
			case pt.Price.LessThan(prev.Price):
				marker = saleStyle.Render("▼")
			case pt.Price.GreaterThan(prev.Price):
				marker = upStyle.Render("▲")
			}
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker, pt.Timestamp.Local().Format("2006-01-02 15:04"), domain.DisplayPrice(pt.Price, app.Currency)))
	}

	style := cardStyle
	if width > 0 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderStats renders lifetime statistics next to the current list summary.
func RenderStats(s settings.Settings, sum wishlist.Summary, currency string, now time.Time) string {
	lastBatch := "never"
	if !s.LastBatchAt.IsZero() {
		lastBatch = RelativeTime(s.LastBatchAt, now)
	}
	rows := [][2]string{
		{"Tracked apps", fmt.Sprint(sum.Count)},
		{"On sale", fmt.Sprint(sum.OnSale)},
		{"Free", fmt.Sprint(sum.Free)},
		{"Savings now", domain.FormatPrice(sum.PotentialSavings, currency)},
		{"Drops seen", fmt.Sprint(s.DropsDetected)},
		{"Total saved", domain.FormatPrice(s.TotalSaved, currency)},
		{"Last update", lastBatch},
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Wishlist statistics"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-13s", r[0])))
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// ansiColorNumber extracts the color number from an escape like "\033[0;34m".
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	i := strings.LastIndex(ansi, ";")
	if i == -1 {
		return ""
	}
	return ansi[i+1 : len(ansi)-1]
}
