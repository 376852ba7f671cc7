package search

import (
	"strings"

	"github.com/cristianoliveira/appwish/internal/domain"
)

// TokenProvider provides token-based search.
// The query is split into whitespace-separated tokens and each token must
// match at least one field (AND logic).
// Special tokens: "sale" (only apps on sale), "free" and "paid".
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{
		opts: applyOptions(opts),
	}
}

// Match returns true if all text tokens match at least one field and the
// app passes every special token.
func (p *TokenProvider) Match(app domain.TrackedApp, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	var saleFilter, freeFilter, paidFilter bool
	textTokens := make([]string, 0, len(tokens))
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "sale":
			saleFilter = true
		case "free":
			freeFilter = true
		case "paid":
			paidFilter = true
		default:
			if p.opts.CaseInsensitive {
				token = strings.ToLower(token)
			}
			textTokens = append(textTokens, token)
		}
	}

	// free and paid together contradict each other; ignore both
	if freeFilter && paidFilter {
		freeFilter, paidFilter = false, false
	}
	if saleFilter && !app.IsOnSale() {
		return false
	}
	if freeFilter && !app.IsFree() {
		return false
	}
	if paidFilter && app.IsFree() {
		return false
	}

	for _, token := range textTokens {
		if !p.matchToken(app, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(app domain.TrackedApp, token string) bool {
	for _, field := range p.opts.Fields {
		for _, value := range fieldValues(app, field) {
			if p.opts.CaseInsensitive {
				value = strings.ToLower(value)
			}
			if strings.Contains(value, token) {
				return true
			}
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return ModeToken
}
