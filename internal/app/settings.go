package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/settings"
)

// SettingsClient defines dependencies required by settings commands.
type SettingsClient interface {
	LoadSettings(ctx context.Context) (settings.Settings, error)
	SetSetting(ctx context.Context, name, value string) (settings.Settings, error)
	ResetSettings(ctx context.Context) (settings.Settings, error)
}

// SettingsUseCase coordinates settings command behavior.
type SettingsUseCase struct {
	client SettingsClient
}

// NewSettingsUseCase creates a settings use-case.
func NewSettingsUseCase(client SettingsClient) *SettingsUseCase {
	if client == nil {
		panic("NewSettingsUseCase: client dependency cannot be nil")
	}

	return &SettingsUseCase{client: client}
}

// ResetSettingsInput contains reset options and environment adapters.
type ResetSettingsInput struct {
	Force     bool
	GetEnv    func(string) string
	ConfirmFn func() bool
}

// Reset executes settings reset behavior.
func (u *SettingsUseCase) Reset(ctx context.Context, input ResetSettingsInput) error {
	getEnv := input.GetEnv
	if getEnv == nil {
		getEnv = func(string) string { return "" }
	}

	if !input.Force && getEnv("CI") == "" {
		if input.ConfirmFn != nil && !input.ConfirmFn() {
			colors.Info("Operation cancelled")
			return nil
		}
	}

	if _, err := u.client.ResetSettings(ctx); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	colors.Success("Settings reset to defaults")
	return nil
}

// settingsView is the JSON shape of `settings show --json`.
type settingsView struct {
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DropThreshold        int    `json:"dropThreshold"`
	AutoUpdate           bool   `json:"autoUpdate"`
	UpdateFrequencyHours int    `json:"updateFrequencyHours"`
	SortOrder            string `json:"sortOrder"`
	ShowOnSaleOnly       bool   `json:"showOnSaleOnly"`
	HideFree             bool   `json:"hideFree"`
	Region               string `json:"region"`
	Currency             string `json:"currency"`
	DropsDetected        int64  `json:"dropsDetected"`
	TotalSaved           string `json:"totalSaved"`
	LastBatchAt          string `json:"lastBatchAt,omitempty"`
}

func newSettingsView(s settings.Settings) settingsView {
	v := settingsView{
		NotificationsEnabled: s.NotificationsEnabled,
		DropThreshold:        s.DropThreshold,
		AutoUpdate:           s.AutoUpdate,
		UpdateFrequencyHours: s.UpdateFrequencyHours,
		SortOrder:            s.SortOrder.String(),
		ShowOnSaleOnly:       s.ShowOnSaleOnly,
		HideFree:             s.HideFree,
		Region:               s.Region,
		Currency:             s.Currency,
		DropsDetected:        s.DropsDetected,
		TotalSaved:           s.TotalSaved.StringFixed(2),
	}
	if !s.LastBatchAt.IsZero() {
		v.LastBatchAt = s.LastBatchAt.Format(time.RFC3339)
	}
	return v
}

// Show writes the current settings, as JSON or as name = value lines.
func (u *SettingsUseCase) Show(ctx context.Context, asJSON bool, w io.Writer) error {
	current, err := u.client.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(newSettingsView(current), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, _ = fmt.Fprintln(w, strings.TrimSpace(string(data)))
		return nil
	}

	for _, name := range settings.Names() {
		value, _ := settings.ValueOf(current, name)
		_, _ = fmt.Fprintf(w, "%-24s %s\n", name, value)
	}
	return nil
}

// Set saves one setting and echoes the stored value.
func (u *SettingsUseCase) Set(ctx context.Context, name, value string) error {
	updated, err := u.client.SetSetting(ctx, name, value)
	if err != nil {
		return err
	}
	stored, _ := settings.ValueOf(updated, name)
	colors.Success(fmt.Sprintf("%s = %s", name, stored))
	return nil
}
