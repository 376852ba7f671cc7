package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/cristianoliveira/appwish/internal/storage"
	"github.com/shopspring/decimal"
)

// field binds a user-facing setting name to its storage key and codec.
type field struct {
	key string
	get func(Settings) string
	set func(*Settings, string) error
}

var fields = map[string]field{
	"notifications_enabled": {
		key: KeyNotificationsEnabled,
		get: func(s Settings) string { return strconv.FormatBool(s.NotificationsEnabled) },
		set: func(s *Settings, v string) error { return parseBool(v, &s.NotificationsEnabled) },
	},
	"drop_threshold": {
		key: KeyDropThreshold,
		get: func(s Settings) string { return strconv.Itoa(s.DropThreshold) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(v, "%")))
			if err != nil {
				return fmt.Errorf("%w: drop threshold must be a number, got %q", domain.ErrInvalidInput, v)
			}
			if err := validateDropThreshold(n); err != nil {
				return err
			}
			s.DropThreshold = n
			return nil
		},
	},
	"auto_update": {
		key: KeyAutoUpdate,
		get: func(s Settings) string { return strconv.FormatBool(s.AutoUpdate) },
		set: func(s *Settings, v string) error { return parseBool(v, &s.AutoUpdate) },
	},
	"update_frequency_hours": {
		key: KeyUpdateFrequency,
		get: func(s Settings) string { return strconv.Itoa(s.UpdateFrequencyHours) },
		set: func(s *Settings, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(v, "h")))
			if err != nil {
				return fmt.Errorf("%w: update frequency must be a number of hours, got %q", domain.ErrInvalidInput, v)
			}
			if err := validateUpdateFrequency(n); err != nil {
				return err
			}
			s.UpdateFrequencyHours = n
			return nil
		},
	},
	"sort_order": {
		key: KeySortOrder,
		get: func(s Settings) string { return s.SortOrder.String() },
		set: func(s *Settings, v string) error {
			o, err := domain.ParseSortOrder(v)
			if err != nil {
				return err
			}
			s.SortOrder = o
			return nil
		},
	},
	"show_on_sale_only": {
		key: KeyShowOnSaleOnly,
		get: func(s Settings) string { return strconv.FormatBool(s.ShowOnSaleOnly) },
		set: func(s *Settings, v string) error { return parseBool(v, &s.ShowOnSaleOnly) },
	},
	"hide_free": {
		key: KeyHideFree,
		get: func(s Settings) string { return strconv.FormatBool(s.HideFree) },
		set: func(s *Settings, v string) error { return parseBool(v, &s.HideFree) },
	},
	"region": {
		key: KeyRegion,
		get: func(s Settings) string { return s.Region },
		set: func(s *Settings, v string) error {
			r, err := normalizeRegion(v)
			if err != nil {
				return err
			}
			s.Region = r
			return nil
		},
	},
	"currency": {
		key: KeyCurrency,
		get: func(s Settings) string { return s.Currency },
		set: func(s *Settings, v string) error {
			c, err := normalizeCurrency(v)
			if err != nil {
				return err
			}
			s.Currency = c
			return nil
		},
	},
}

func parseBool(v string, dst *bool) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%w: expected true or false, got %q", domain.ErrInvalidInput, v)
	}
	return nil
}

// Names lists the user-settable setting names in order.
func Names() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store is the single owner of the settings. Every setter persists
// synchronously before returning.
type Store struct {
	mu sync.RWMutex
	kv ports.KVStore
	s  Settings
}

var (
	_ ports.SettingsReader = (*Store)(nil)
	_ ports.StatsRecorder  = (*Store)(nil)
)

// Load reads persisted values, falling back to defaults for keys that are
// missing or hold invalid values.
func Load(ctx context.Context, kv ports.KVStore) (*Store, error) {
	st := &Store{kv: kv, s: Defaults()}
	for _, name := range Names() {
		f := fields[name]
		raw, err := kv.Get(ctx, f.key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("settings: load %s: %w", name, err)
		}
		if err := f.set(&st.s, string(raw)); err != nil {
			colors.Warning(fmt.Sprintf("ignoring stored %s: %v", name, err))
		}
	}

	if raw, err := kv.Get(ctx, KeyDropsDetected); err == nil {
		if n, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil && n >= 0 {
			st.s.DropsDetected = n
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("settings: load drops detected: %w", err)
	}
	if raw, err := kv.Get(ctx, KeyTotalSaved); err == nil {
		if d, perr := decimal.NewFromString(string(raw)); perr == nil && !d.IsNegative() {
			st.s.TotalSaved = d
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("settings: load total saved: %w", err)
	}
	if raw, err := kv.Get(ctx, KeyLastBatchAt); err == nil {
		if t, perr := time.Parse(time.RFC3339Nano, string(raw)); perr == nil {
			st.s.LastBatchAt = t
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("settings: load last batch: %w", err)
	}
	return st, nil
}

// Get returns a snapshot of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Value returns the string form of a named setting.
func (st *Store) Value(name string) (string, error) {
	return ValueOf(st.Get(), name)
}

// ValueOf returns the string form of a named setting in s.
func ValueOf(s Settings, name string) (string, error) {
	f, ok := fields[canonicalName(name)]
	if !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, name)
	}
	return f.get(s), nil
}

// canonicalName accepts "Drop-Threshold" for "drop_threshold".
func canonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// Set validates and persists a named setting from its string form.
func (st *Store) Set(ctx context.Context, name, value string) error {
	f, ok := fields[canonicalName(name)]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q (known: %s)", domain.ErrInvalidInput, name, strings.Join(Names(), ", "))
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.s
	if err := f.set(&next, value); err != nil {
		return err
	}
	if err := st.kv.Set(ctx, f.key, []byte(f.get(next))); err != nil {
		return fmt.Errorf("settings: save %s: %w", name, err)
	}
	st.s = next
	return nil
}

// Reset restores every preference to its default. Statistics are kept.
func (st *Store) Reset(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := Defaults()
	next.DropsDetected = st.s.DropsDetected
	next.TotalSaved = st.s.TotalSaved
	next.LastBatchAt = st.s.LastBatchAt
	values := make(map[string][]byte, len(fields))
	for _, f := range fields {
		values[f.key] = []byte(f.get(next))
	}
	if err := st.kv.SetMany(ctx, values); err != nil {
		return fmt.Errorf("settings: reset: %w", err)
	}
	st.s = next
	return nil
}

// DropThreshold implements ports.SettingsReader.
func (st *Store) DropThreshold() int { return st.Get().DropThreshold }

// NotificationsEnabled implements ports.SettingsReader.
func (st *Store) NotificationsEnabled() bool { return st.Get().NotificationsEnabled }

// Region implements ports.SettingsReader.
func (st *Store) Region() string { return st.Get().Region }

// RecordDrop counts one detected drop and adds its savings to the total.
func (st *Store) RecordDrop(ctx context.Context, savings decimal.Decimal) error {
	if savings.IsNegative() {
		return fmt.Errorf("%w: savings cannot be negative", domain.ErrInvalidInput)
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	drops := st.s.DropsDetected + 1
	total := st.s.TotalSaved.Add(savings)
	if err := st.kv.SetMany(ctx, map[string][]byte{
		KeyDropsDetected: []byte(strconv.FormatInt(drops, 10)),
		KeyTotalSaved:    []byte(total.String()),
	}); err != nil {
		return fmt.Errorf("settings: record drop: %w", err)
	}
	st.s.DropsDetected = drops
	st.s.TotalSaved = total
	return nil
}

// SetLastBatchAt records when the last batch refresh finished.
func (st *Store) SetLastBatchAt(ctx context.Context, at time.Time) error {
	at = at.UTC()
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.kv.Set(ctx, KeyLastBatchAt, []byte(at.Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("settings: save last batch: %w", err)
	}
	st.s.LastBatchAt = at
	return nil
}

// ResetStats zeroes the lifetime statistics.
func (st *Store) ResetStats(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if err := st.kv.SetMany(ctx, map[string][]byte{
		KeyDropsDetected: []byte("0"),
		KeyTotalSaved:    []byte("0"),
	}); err != nil {
		return fmt.Errorf("settings: reset stats: %w", err)
	}
	st.s.DropsDetected = 0
	st.s.TotalSaved = decimal.Zero
	return nil
}
