// Package wishlist owns the tracked app collection: CRUD, the batch price
// refresh and the read-only views over the list. Every mutation writes the
// whole collection back to the key-value store before it becomes visible.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cristianoliveira/appwish/internal/appurl"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/hooks"
	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/cristianoliveira/appwish/internal/storage"
	"github.com/shopspring/decimal"
)

// Options wires a Store to its collaborators. KV, Catalog and Settings are
// required; a nil Stats or Notifier disables that side effect.
type Options struct {
	KV       ports.KVStore
	Catalog  ports.Catalog
	Settings ports.SettingsReader
	Stats    ports.StatsRecorder
	Notifier ports.Notifier
	Now      func() time.Time
	RunHook  func(hookPoint string, envVars ...string) error
}

// Store is the single owner of the tracked app collection.
type Store struct {
	mu   sync.RWMutex
	apps []domain.TrackedApp

	kv       ports.KVStore
	catalog  ports.Catalog
	settings ports.SettingsReader
	stats    ports.StatsRecorder
	notifier ports.Notifier
	now      func() time.Time
	runHook  func(hookPoint string, envVars ...string) error

	refreshing atomic.Bool
	progress   atomic.Uint64
	events     broker
}

// Open loads the persisted collection, migrating older schema versions.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.KV == nil || opts.Catalog == nil || opts.Settings == nil {
		return nil, fmt.Errorf("%w: wishlist needs a key-value store, a catalog and settings", domain.ErrInvalidInput)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunHook == nil {
		opts.RunHook = hooks.Run
	}
	st := &Store{
		kv:       opts.KV,
		catalog:  opts.Catalog,
		settings: opts.Settings,
		stats:    opts.Stats,
		notifier: opts.Notifier,
		now:      opts.Now,
		runHook:  opts.RunHook,
	}

	raw, err := opts.KV.Get(ctx, KeyApps)
	if errors.Is(err, storage.ErrKeyNotFound) {
		st.apps = []domain.TrackedApp{}
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	apps, migrated, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	st.apps = apps
	if migrated {
		if err := st.persist(ctx, apps); err != nil {
			return nil, fmt.Errorf("migrate wishlist: %w", err)
		}
		colors.StructuredInfo("wishlist", "migrate", "completed", nil, "", map[string]any{
			"schema_version": SchemaVersion,
			"apps":           len(apps),
		})
	}
	return st, nil
}

// Subscribe returns a channel of change events and a func that closes it.
func (st *Store) Subscribe() (<-chan Event, func()) {
	return st.events.subscribe()
}

func (st *Store) persist(ctx context.Context, apps []domain.TrackedApp) error {
	data, err := Encode(apps)
	if err != nil {
		return err
	}
	if err := st.kv.Set(ctx, KeyApps, data); err != nil {
		return fmt.Errorf("save wishlist: %w", err)
	}
	return nil
}

func (st *Store) indexOf(id int64) int {
	for i := range st.apps {
		if st.apps[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(apps []domain.TrackedApp) []domain.TrackedApp {
	out := make([]domain.TrackedApp, len(apps))
	for i := range apps {
		out[i] = apps[i].Clone()
	}
	return out
}

func appLogID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Add starts tracking item, then runs one best-effort price check.
func (st *Store) Add(ctx context.Context, item domain.CatalogItem) (domain.TrackedApp, error) {
	app, err := st.insert(ctx, item)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	if updated, err := st.RefreshOne(ctx, app.ID); err != nil {
		colors.StructuredWarn("wishlist", "add", "price_check_failed", err, appLogID(app.ID), nil)
	} else if updated != nil {
		app = *updated
	} else if current, err := st.Get(app.ID); err == nil {
		app = current
	}
	return app, nil
}

func (st *Store) insert(ctx context.Context, item domain.CatalogItem) (domain.TrackedApp, error) {
	app, err := domain.NewTrackedApp(item, st.now())
	if err != nil {
		return domain.TrackedApp{}, err
	}

	st.mu.Lock()
	if st.indexOf(app.ID) >= 0 {
		st.mu.Unlock()
		return domain.TrackedApp{}, fmt.Errorf("%w: app %d is already on the wishlist", domain.ErrAlreadyExists, app.ID)
	}
	next := append(cloneAll(st.apps), app)
	if err := st.persist(ctx, next); err != nil {
		st.mu.Unlock()
		return domain.TrackedApp{}, err
	}
	st.apps = next
	st.mu.Unlock()

	colors.StructuredInfo("wishlist", "add", "completed", nil, appLogID(app.ID), map[string]any{
		"name":  app.Name,
		"price": app.CurrentPrice.String(),
	})
	st.events.publish(Event{Kind: EventAdded, AppID: app.ID})
	if err := st.runHook(hooks.PostAdd, appEnv(app)...); err != nil {
		colors.StructuredWarn("wishlist", "add", "hook_failed", err, appLogID(app.ID), nil)
	}
	return app.Clone(), nil
}

// AddFromURL resolves an App Store URL, looks the app up and adds it.
func (st *Store) AddFromURL(ctx context.Context, raw string) (domain.TrackedApp, error) {
	id, err := appurl.Resolve(raw)
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return st.AddByID(ctx, id)
}

// AddByID looks an app up by catalog id and adds it.
func (st *Store) AddByID(ctx context.Context, id int64) (domain.TrackedApp, error) {
	if st.Contains(id) {
		return domain.TrackedApp{}, fmt.Errorf("%w: app %d is already on the wishlist", domain.ErrAlreadyExists, id)
	}
	item, err := st.catalog.Lookup(ctx, id, st.settings.Region())
	if err != nil {
		return domain.TrackedApp{}, err
	}
	return st.Add(ctx, item)
}

// AddMany looks several ids up in one catalog round trip and adds those not
// yet tracked. The lookup doubles as the price check. Ids the catalog does
// not know are reported in missing.
func (st *Store) AddMany(ctx context.Context, ids []int64) (added []domain.TrackedApp, missing []int64, err error) {
	var wanted []int64
	for _, id := range ids {
		if !st.Contains(id) {
			wanted = append(wanted, id)
		}
	}
	items, err := st.catalog.LookupMany(ctx, wanted, st.settings.Region())
	if err != nil {
		return nil, nil, err
	}
	found := make(map[int64]bool, len(items))
	for _, item := range items {
		found[item.ID] = true
		app, err := st.insert(ctx, item)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return added, nil, err
		}
		added = append(added, app)
	}
	for _, id := range wanted {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return added, missing, nil
}

// Remove stops tracking id and cancels its notifications.
func (st *Store) Remove(ctx context.Context, id int64) error {
	app, err := st.Get(id)
	if err != nil {
		return err
	}
	if err := st.runHook(hooks.PreRemove, appEnv(app)...); err != nil {
		return fmt.Errorf("remove app %d: pre-remove hook: %w", id, err)
	}

	st.mu.Lock()
	i := st.indexOf(id)
	if i < 0 {
		st.mu.Unlock()
		return fmt.Errorf("%w: app %d is not on the wishlist", domain.ErrNotFound, id)
	}
	next := make([]domain.TrackedApp, 0, len(st.apps)-1)
	next = append(next, st.apps[:i]...)
	next = append(next, st.apps[i+1:]...)
	if err := st.persist(ctx, next); err != nil {
		st.mu.Unlock()
		return err
	}
	st.apps = next
	st.mu.Unlock()

	if st.notifier != nil {
		if err := st.notifier.Cancel(ctx, id); err != nil {
			colors.StructuredWarn("wishlist", "remove", "cancel_failed", err, appLogID(id), nil)
		}
	}

	colors.StructuredInfo("wishlist", "remove", "completed", nil, appLogID(id), nil)
	st.events.publish(Event{Kind: EventRemoved, AppID: id})
	return nil
}

// Update replaces the stored app with the same id. The original price and
// the date added are kept from the stored entry.
func (st *Store) Update(ctx context.Context, app domain.TrackedApp) error {
	app = app.Clone()
	app.Normalize()
	if err := app.Validate(); err != nil {
		return err
	}
	_, err := st.modify(ctx, app.ID, func(stored *domain.TrackedApp) {
		app.OriginalPrice = stored.OriginalPrice
		app.DateAdded = stored.DateAdded
		*stored = app
	})
	return err
}

// SetNotes replaces the notes of id.
func (st *Store) SetNotes(ctx context.Context, id int64, notes string) (domain.TrackedApp, error) {
	return st.modify(ctx, id, func(a *domain.TrackedApp) { a.Notes = notes })
}

// AddTags adds tags to id.
func (st *Store) AddTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	return st.modify(ctx, id, func(a *domain.TrackedApp) { a.AddTags(tags...) })
}

// RemoveTags removes tags from id.
func (st *Store) RemoveTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	return st.modify(ctx, id, func(a *domain.TrackedApp) { a.RemoveTags(tags...) })
}

func (st *Store) modify(ctx context.Context, id int64, fn func(*domain.TrackedApp)) (domain.TrackedApp, error) {
	st.mu.Lock()
	i := st.indexOf(id)
	if i < 0 {
		st.mu.Unlock()
		return domain.TrackedApp{}, fmt.Errorf("%w: app %d is not on the wishlist", domain.ErrNotFound, id)
	}
	next := cloneAll(st.apps)
	fn(&next[i])
	if err := st.persist(ctx, next); err != nil {
		st.mu.Unlock()
		return domain.TrackedApp{}, err
	}
	st.apps = next
	updated := next[i].Clone()
	st.mu.Unlock()

	st.events.publish(Event{Kind: EventUpdated, AppID: id})
	return updated, nil
}

// Get returns a copy of the app with id.
func (st *Store) Get(id int64) (domain.TrackedApp, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if i := st.indexOf(id); i >= 0 {
		return st.apps[i].Clone(), nil
	}
	return domain.TrackedApp{}, fmt.Errorf("%w: app %d is not on the wishlist", domain.ErrNotFound, id)
}

// Contains reports whether id is tracked.
func (st *Store) Contains(id int64) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.indexOf(id) >= 0
}

// Len returns the number of tracked apps.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.apps)
}

// All returns every app in stored order.
func (st *Store) All() []domain.TrackedApp {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return cloneAll(st.apps)
}

// OnSale returns the apps below their original price.
func (st *Store) OnSale() []domain.TrackedApp {
	return domain.Filter{OnSaleOnly: true}.Apply(st.All())
}

// Search matches query against name, developer, category, tags and notes.
func (st *Store) Search(query string) []domain.TrackedApp {
	return domain.Filter{Query: query}.Apply(st.All())
}

// SortedBy returns every app in the given order.
func (st *Store) SortedBy(order domain.SortOrder) []domain.TrackedApp {
	return domain.SortApps(st.All(), order)
}

// Filtered applies a display filter, then sorts.
func (st *Store) Filtered(f domain.Filter, order domain.SortOrder) []domain.TrackedApp {
	return domain.SortApps(f.Apply(st.All()), order)
}

// Summary aggregates the current list.
type Summary struct {
	Count            int
	OnSale           int
	Free             int
	PotentialSavings decimal.Decimal
	LastChecked      time.Time
}

// Summary computes counts and the savings available right now.
func (st *Store) Summary() Summary {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s := Summary{Count: len(st.apps), PotentialSavings: decimal.Zero}
	for _, a := range st.apps {
		if a.IsOnSale() {
			s.OnSale++
			s.PotentialSavings = s.PotentialSavings.Add(a.Savings())
		}
		if a.IsFree() {
			s.Free++
		}
		if a.LastChecked.After(s.LastChecked) {
			s.LastChecked = a.LastChecked
		}
	}
	return s
}

// IsRefreshing reports whether a batch refresh is running.
func (st *Store) IsRefreshing() bool {
	return st.refreshing.Load()
}

// Progress is the completed fraction of the running or last batch refresh.
func (st *Store) Progress() float64 {
	return math.Float64frombits(st.progress.Load())
}

func (st *Store) setProgress(p float64) {
	st.progress.Store(math.Float64bits(p))
}

func appEnv(app domain.TrackedApp) []string {
	return []string{
		"APP_ID=" + appLogID(app.ID),
		"APP_NAME=" + app.Name,
		"DEVELOPER=" + app.Developer,
		"CURRENT_PRICE=" + app.CurrentPrice.StringFixed(2),
		"ORIGINAL_PRICE=" + app.OriginalPrice.StringFixed(2),
		"CURRENCY=" + app.Currency,
	}
}
