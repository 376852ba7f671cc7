// Package search provides the query strategies used to filter the wishlist.
// Every strategy implements Provider, so the list command and the core
// facade can swap substring, token or regex matching without changing the
// filter code in domain.
package search

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/internal/domain"
)

// Provider matches a tracked app against a search query.
type Provider interface {
	// Match returns true if the app matches the query. An empty query matches.
	Match(app domain.TrackedApp, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Searchable fields.
const (
	FieldName      = "name"
	FieldDeveloper = "developer"
	FieldCategory  = "category"
	FieldNotes     = "notes"
	FieldTags      = "tags"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case
	Fields          []string // Fields to search in
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldName, FieldDeveloper, FieldCategory, FieldNotes, FieldTags},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Provider modes accepted by New.
const (
	ModeSubstring = "substring"
	ModeToken     = "token"
	ModeRegex     = "regex"
)

// Modes lists the accepted provider names.
func Modes() []string {
	return []string{ModeSubstring, ModeToken, ModeRegex}
}

// New returns the provider registered under mode. An empty mode selects
// substring matching.
func New(mode string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeSubstring:
		return NewSubstringProvider(opts...), nil
	case ModeToken:
		return NewTokenProvider(opts...), nil
	case ModeRegex:
		return NewRegexProvider(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown search mode %q (want one of %s)",
			domain.ErrInvalidInput, mode, strings.Join(Modes(), ", "))
	}
}

// fieldValues returns the non-empty values of field on app.
func fieldValues(app domain.TrackedApp, field string) []string {
	switch field {
	case FieldName:
		return nonEmpty(app.Name)
	case FieldDeveloper:
		return nonEmpty(app.Developer)
	case FieldCategory:
		return nonEmpty(app.Category)
	case FieldNotes:
		return nonEmpty(app.Notes)
	case FieldTags:
		return nonEmpty(app.Tags...)
	}
	return nil
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
