package formatter

import (
	"fmt"
	"strings"
)

// DefaultPreset is the preset used when none is configured.
const DefaultPreset = "default"

// Preset holds the templates for one notification style.
type Preset struct {
	Name         string
	DropTitle    string
	DropBody     string
	SummaryTitle string
	SummaryBody  string
	Description  string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (*Preset, error)

	// List returns all available presets.
	List() []Preset

	// Register adds a new preset.
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a new preset registry with all default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{
		presets: make(map[string]Preset),
	}
	for _, preset := range defaultPresets {
		_ = registry.Register(preset)
	}
	return registry
}

var defaultPresets = []Preset{
	{
		Name:         DefaultPreset,
		DropTitle:    "Price Drop: ${app-name}",
		DropBody:     "Now ${new-price} (was ${old-price}). ${percent}% off!",
		SummaryTitle: "${count} Price Drops",
		SummaryBody:  "${count} apps on your wishlist dropped in price. Save up to ${total-savings}.",
		Description:  "Title with the app name, body with both prices",
	},
	{
		Name:         "compact",
		DropTitle:    "${app-name} -${percent}%",
		DropBody:     "${new-price}",
		SummaryTitle: "${count} drops",
		SummaryBody:  "Save ${total-savings}",
		Description:  "Short text for small notification banners",
	},
	{
		Name:         "detailed",
		DropTitle:    "Price Drop: ${app-name} by ${developer}",
		DropBody:     "Now ${new-price} (was ${old-price}). You save ${savings}, ${percent}% off.",
		SummaryTitle: "${count} Price Drops",
		SummaryBody:  "${app-list} dropped in price. Save up to ${total-savings}.",
		Description:  "Names the developer and every app in a batch",
	},
}

// Get returns a preset by name, or an error if not found.
func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &preset, nil
}

// List returns all available presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.DropTitle == "" || preset.SummaryTitle == "" {
		return fmt.Errorf("preset %s: titles cannot be empty", preset.Name)
	}

	engine := NewTemplateEngine()
	for _, tmpl := range []string{preset.DropTitle, preset.DropBody, preset.SummaryTitle, preset.SummaryBody} {
		vars, err := engine.Parse(tmpl)
		if err != nil {
			return fmt.Errorf("preset %s: %w", preset.Name, err)
		}
		for _, v := range vars {
			if _, ok := variables[v]; !ok {
				return fmt.Errorf("preset %s: unknown variable: %s", preset.Name, v)
			}
		}
	}

	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

// Names returns the registered preset names in order.
func Names(registry PresetRegistry) []string {
	presets := registry.List()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
