package domain

import "strings"

// Filter holds the display filters applied to the wishlist.
type Filter struct {
	OnSaleOnly bool
	HideFree   bool
	Tag        string
	Query      string
	// Matcher overrides Matches for Query when set.
	Matcher Matcher
}

// Matcher matches an app against a free-text query.
type Matcher interface {
	Match(app TrackedApp, query string) bool
}

// Active reports whether any filter would hide apps.
func (f Filter) Active() bool {
	return f.OnSaleOnly || f.HideFree || f.Tag != "" || f.Query != ""
}

// Apply returns the apps that pass every filter, keeping their order.
func (f Filter) Apply(apps []TrackedApp) []TrackedApp {
	out := make([]TrackedApp, 0, len(apps))
	for _, app := range apps {
		if f.OnSaleOnly && !app.IsOnSale() {
			continue
		}
		if f.HideFree && app.IsFree() {
			continue
		}
		if f.Tag != "" && !app.HasTag(f.Tag) {
			continue
		}
		if f.Query != "" && !f.match(app) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func (f Filter) match(app TrackedApp) bool {
	if f.Matcher != nil {
		return f.Matcher.Match(app, f.Query)
	}
	return Matches(app, f.Query)
}

// Matches reports whether query occurs, case-insensitively, in the app's
// name, developer, category, tags or notes. An empty query matches all.
func Matches(app TrackedApp, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := append([]string{app.Name, app.Developer, app.Category, app.Notes}, app.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
