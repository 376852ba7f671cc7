package format

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

const (
	minTableWidth = 60
	minNameWidth  = 12
	maxNameWidth  = 40
)

// TableFormatter renders apps in a rounded table that adapts its name column
// to the terminal width.
type TableFormatter struct {
	// Width overrides terminal detection when positive.
	Width int
	// EnableColors toggles ANSI colors for sale prices.
	EnableColors bool
	// Now is used for the relative "Checked" column.
	Now func() time.Time
	// Style is one of TableStyles; empty means rounded.
	Style string
}

// Table styles accepted by the table_format setting.
const (
	TableStyleRounded = "rounded"
	TableStyleDefault = "default"
	TableStyleMinimal = "minimal"
)

// TableStyles lists the accepted table styles.
var TableStyles = []string{TableStyleRounded, TableStyleDefault, TableStyleMinimal}

func tableStyle(name string) table.Style {
	switch name {
	case TableStyleDefault:
		return table.StyleDefault
	case TableStyleMinimal:
		return table.StyleLight
	default:
		return table.StyleRounded
	}
}

// NewTableFormatter returns a formatter with colors on and width detected
// from the output.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{EnableColors: true, Now: time.Now}
}

func (f *TableFormatter) newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(tableStyle(f.Style))
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.DrawBorder = f.Style != TableStyleMinimal
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

// FormatApps writes the wishlist table followed by a one-line total.
func (f *TableFormatter) FormatApps(apps []domain.TrackedApp, w io.Writer) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "Your wishlist is empty.")
		return err
	}
	tw := f.newWriter(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Developer", "Price", "Was", "Off", "Tags", "Checked"})

	nameWidth := f.nameWidth(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: nameWidth, Transformer: truncTransformer(nameWidth)},
		{Number: 3, WidthMax: nameWidth / 2, Transformer: truncTransformer(nameWidth / 2)},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, WidthMax: 20, Transformer: truncTransformer(20)},
	})

	savings := domain.FormatPrice(totalSavings(apps), commonCurrency(apps))
	now := f.now()
	for _, a := range apps {
		price := domain.DisplayPrice(a.CurrentPrice, a.Currency)
		was, off := "", ""
		if a.IsOnSale() {
			price = f.color(price, text.FgGreen)
			was = domain.FormatPrice(a.OriginalPrice, a.Currency)
			off = fmt.Sprintf("%.0f%%", a.DiscountPercent())
		}
		tw.AppendRow(table.Row{
			a.ID,
			a.Name,
			a.Developer,
			price,
			was,
			off,
			strings.Join(a.Tags, ", "),
			RelativeTime(a.LastChecked, now),
		})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d apps", len(apps)), "", "", "", "", "", "save " + savings})
	tw.Render()
	return nil
}

// FormatCatalogItems renders search results.
func (f *TableFormatter) FormatCatalogItems(items []domain.CatalogItem, w io.Writer) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No apps found.")
		return err
	}
	tw := f.newWriter(w)
	tw.AppendHeader(table.Row{"ID", "Name", "Developer", "Price", "Rating", "Category"})
	nameWidth := f.nameWidth(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: nameWidth, Transformer: truncTransformer(nameWidth)},
		{Number: 3, WidthMax: nameWidth / 2, Transformer: truncTransformer(nameWidth / 2)},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, it := range items {
		rating := ""
		if it.RatingCount > 0 {
			rating = fmt.Sprintf("%.1f (%d)", it.Rating, it.RatingCount)
		}
		tw.AppendRow(table.Row{it.ID, it.Name, it.Developer, domain.DisplayPrice(it.Price, it.Currency), rating, it.Category})
	}
	tw.Render()
	return nil
}

// FormatNotifications renders pending or delivered notifications.
func (f *TableFormatter) FormatNotifications(ns []notification.Notification, w io.Writer) error {
	if len(ns) == 0 {
		_, err := fmt.Fprintln(w, "No notifications.")
		return err
	}
	tw := f.newWriter(w)
	tw.AppendHeader(table.Row{"Identifier", "State", "Title", "Body", "Scheduled"})
	bodyWidth := f.nameWidth(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: bodyWidth, Transformer: truncTransformer(bodyWidth)},
	})
	now := f.now()
	for _, n := range ns {
		state := string(n.State)
		if n.State == notification.StatePending {
			state = f.color(state, text.FgYellow)
		}
		tw.AppendRow(table.Row{n.Identifier, state, n.Title, n.Body, RelativeTime(n.ScheduledAt, now)})
	}
	tw.Render()
	return nil
}

func (f *TableFormatter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

// nameWidth splits the terminal width left after the fixed columns.
func (f *TableFormatter) nameWidth(w io.Writer) int {
	width := f.Width
	if width <= 0 {
		width = detectTerminalWidth(w)
	}
	if width <= 0 {
		return maxNameWidth
	}
	if width < minTableWidth {
		width = minTableWidth
	}
	// id, prices, discount, tags and checked take roughly 70 columns
	n := (width - 70) * 2 / 3
	if n < minNameWidth {
		return minNameWidth
	}
	if n > maxNameWidth {
		return maxNameWidth
	}
	return n
}

func (f *TableFormatter) color(s string, c text.Color) string {
	if !f.EnableColors {
		return s
	}
	return text.Colors{c}.Sprint(s)
}

// detectTerminalWidth returns the width of w when it is a terminal, -1
// otherwise.
func detectTerminalWidth(w io.Writer) int {
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil {
			return width
		}
	}
	return -1
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

func truncTransformer(max int) text.Transformer {
	return func(val interface{}) string {
		return truncateRunes(fmt.Sprint(val), max)
	}
}

// truncateRunes shortens s to max runes, ending in an ellipsis.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	var b strings.Builder
	count := 0
	for _, r := range s {
		if count >= max-1 {
			break
		}
		b.WriteRune(r)
		count++
	}
	b.WriteRune('…')
	return b.String()
}

// RelativeTime renders t relative to now, e.g. "5m ago" or "3d ago".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	switch {
	case d < 0:
		return "in " + shortDuration(-d)
	case d < time.Minute:
		return "just now"
	}
	return shortDuration(d) + " ago"
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return strconv.Itoa(int(d.Seconds())) + "s"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h"
	}
	return strconv.Itoa(int(d.Hours()/24)) + "d"
}

func totalSavings(apps []domain.TrackedApp) decimal.Decimal {
	total := decimal.Zero
	for _, a := range apps {
		total = total.Add(a.Savings())
	}
	return total
}

// commonCurrency returns the shared currency, or "" for a mixed list.
func commonCurrency(apps []domain.TrackedApp) string {
	if len(apps) == 0 {
		return ""
	}
	c := apps[0].Currency
	for _, a := range apps[1:] {
		if a.Currency != c {
			return ""
		}
	}
	return c
}
