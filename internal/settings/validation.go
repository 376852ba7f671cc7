package settings

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/appwish/internal/domain"
)

func validateDropThreshold(v int) error {
	if v < MinDropThreshold || v > MaxDropThreshold || v%DropThresholdStep != 0 {
		return fmt.Errorf("%w: drop threshold must be between %d and %d in steps of %d, got %d",
			domain.ErrInvalidInput, MinDropThreshold, MaxDropThreshold, DropThresholdStep, v)
	}
	return nil
}

func validateUpdateFrequency(v int) error {
	for _, f := range UpdateFrequencies {
		if v == f {
			return nil
		}
	}
	return fmt.Errorf("%w: update frequency must be one of %v hours, got %d", domain.ErrInvalidInput, UpdateFrequencies, v)
}

func normalizeRegion(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if len(v) != 2 || !isLetters(v) {
		return "", fmt.Errorf("%w: region must be a two-letter country code, got %q", domain.ErrInvalidInput, v)
	}
	return v, nil
}

func normalizeCurrency(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len(v) != 3 || !isLetters(strings.ToLower(v)) {
		return "", fmt.Errorf("%w: currency must be a three-letter code, got %q", domain.ErrInvalidInput, v)
	}
	return v, nil
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
