package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VariableContext contains the values a template can reference. Prices are
// already formatted for display.
type VariableContext struct {
	AppName   string
	Developer string
	OldPrice  string
	NewPrice  string
	Savings   string
	Percent   float64

	Count        int
	TotalSavings string
	AppNames     []string
}

// VariableResolver resolves template variables to their values.
type VariableResolver interface {
	// Resolve returns the string value for a given variable name and context.
	Resolve(varName string, ctx VariableContext) (string, error)
}

type variableResolver struct{}

// NewVariableResolver creates a new variable resolver instance.
func NewVariableResolver() VariableResolver {
	return &variableResolver{}
}

var variables = map[string]func(VariableContext) string{
	"app-name":      func(c VariableContext) string { return c.AppName },
	"developer":     func(c VariableContext) string { return c.Developer },
	"old-price":     func(c VariableContext) string { return c.OldPrice },
	"new-price":     func(c VariableContext) string { return c.NewPrice },
	"savings":       func(c VariableContext) string { return c.Savings },
	"percent":       func(c VariableContext) string { return strconv.FormatFloat(c.Percent, 'f', 0, 64) },
	"count":         func(c VariableContext) string { return strconv.Itoa(c.Count) },
	"total-savings": func(c VariableContext) string { return c.TotalSavings },
	"app-list":      func(c VariableContext) string { return strings.Join(c.AppNames, ", ") },
}

// Variables lists every variable name a template may use, sorted.
func Variables() []string {
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the string value for a variable from the context.
func (vr *variableResolver) Resolve(varName string, ctx VariableContext) (string, error) {
	fn, ok := variables[varName]
	if !ok {
		return "", fmt.Errorf("unknown variable: %s (available: %s)", varName, strings.Join(Variables(), ", "))
	}
	return fn(ctx), nil
}
