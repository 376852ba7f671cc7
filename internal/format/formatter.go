// Package format renders the wishlist and notifications for the CLI.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/appwish/internal/domain"
)

// Formatter renders a list of tracked apps.
type Formatter interface {
	FormatApps(apps []domain.TrackedApp, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable renders a bordered table sized to the terminal.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeSimple prints one line per app with id, price and name.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeCompact prints only app names.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON prints the versioned wishlist export.
	FormatterTypeJSON FormatterType = "json"
)

// FormatterTypes lists the accepted --format values.
var FormatterTypes = []FormatterType{FormatterTypeTable, FormatterTypeSimple, FormatterTypeCompact, FormatterTypeJSON}

// ParseFormatterType validates a --format value.
func ParseFormatterType(s string) (FormatterType, error) {
	t := FormatterType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FormatterTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, s)
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeSimple:
		return simpleFormatter{}
	case FormatterTypeCompact:
		return compactFormatter{}
	case FormatterTypeJSON:
		return jsonFormatter{}
	default:
		return NewTableFormatter()
	}
}
