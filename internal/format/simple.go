package format

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

type simpleFormatter struct{}

func (simpleFormatter) FormatApps(apps []domain.TrackedApp, w io.Writer) error {
	for _, a := range apps {
		line := fmt.Sprintf("%d\t%s\t%s", a.ID, domain.DisplayPrice(a.CurrentPrice, a.Currency), a.Name)
		if a.IsOnSale() {
			line += fmt.Sprintf("\t(-%.0f%%)", a.DiscountPercent())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type compactFormatter struct{}

func (compactFormatter) FormatApps(apps []domain.TrackedApp, w io.Writer) error {
	for _, a := range apps {
		if _, err := fmt.Fprintln(w, a.Name); err != nil {
			return err
		}
	}
	return nil
}

type jsonFormatter struct{}

func (jsonFormatter) FormatApps(apps []domain.TrackedApp, w io.Writer) error {
	data, err := wishlist.Encode(apps)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
