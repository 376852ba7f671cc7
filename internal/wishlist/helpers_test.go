package wishlist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/appwish/internal/catalog"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notify"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func p(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(id int64, name, price string) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Name: name, Developer: "Dev " + name, Price: p(price), Currency: "USD", Category: "Utilities"}
}

// fakeCatalog serves items from a map. block, when set, holds every Lookup
// until it is closed.
type fakeCatalog struct {
	mu      sync.Mutex
	items   map[int64]domain.CatalogItem
	fail    map[int64]error
	lookups []int64
	block   chan struct{}
	started chan struct{}
}

func newFakeCatalog(items ...domain.CatalogItem) *fakeCatalog {
	c := &fakeCatalog{items: map[int64]domain.CatalogItem{}, fail: map[int64]error{}}
	for _, it := range items {
		c.items[it.ID] = it
	}
	return c
}

func (c *fakeCatalog) setPrice(id int64, price string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it := c.items[id]
	it.Price = p(price)
	c.items[id] = it
}

func (c *fakeCatalog) Lookup(ctx context.Context, id int64, region string) (domain.CatalogItem, error) {
	c.mu.Lock()
	c.lookups = append(c.lookups, id)
	block, started := c.block, c.started
	c.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail[id]; err != nil {
		return domain.CatalogItem{}, err
	}
	it, ok := c.items[id]
	if !ok {
		return domain.CatalogItem{}, catalog.ErrNotFound
	}
	return it, nil
}

func (c *fakeCatalog) LookupMany(ctx context.Context, ids []int64, region string) ([]domain.CatalogItem, error) {
	var out []domain.CatalogItem
	for _, id := range ids {
		c.mu.Lock()
		it, ok := c.items[id]
		c.mu.Unlock()
		if ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Search(ctx context.Context, term, region string, limit int) ([]domain.CatalogItem, error) {
	return nil, nil
}

func (c *fakeCatalog) lookupCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lookups)
}

type hookRecorder struct {
	mu    sync.Mutex
	calls map[string][][]string
	fail  map[string]error
}

func (h *hookRecorder) run(point string, env ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.calls == nil {
		h.calls = map[string][][]string{}
	}
	h.calls[point] = append(h.calls[point], env)
	return h.fail[point]
}

func (h *hookRecorder) count(point string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls[point])
}

type fixture struct {
	store    *Store
	kv       *storage.MemoryStore
	catalog  *fakeCatalog
	settings *settings.Store
	center   *notify.MemoryCenter
	hooks    *hookRecorder
	clock    *time.Time
}

func newFixture(t *testing.T, items ...domain.CatalogItem) *fixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	set, err := settings.Load(ctx, kv)
	require.NoError(t, err)
	center := notify.NewMemoryCenter(true)
	clock := t0
	f := &fixture{kv: kv, catalog: newFakeCatalog(items...), settings: set, center: center, hooks: &hookRecorder{}, clock: &clock}
	f.store = f.open(t)
	return f
}

func (f *fixture) open(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), Options{
		KV:       f.kv,
		Catalog:  f.catalog,
		Settings: f.settings,
		Stats:    f.settings,
		Notifier: notify.New(f.center, f.settings),
		Now:      func() time.Time { return *f.clock },
		RunHook:  f.hooks.run,
	})
	require.NoError(t, err)
	return st
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f *fixture) add(t *testing.T, id int64) domain.TrackedApp {
	t.Helper()
	app, err := f.store.AddByID(context.Background(), id)
	require.NoError(t, err)
	return app
}

func (f *fixture) pendingIDs(t *testing.T) []string {
	t.Helper()
	pending, err := f.center.Pending(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(pending))
	for _, n := range pending {
		ids = append(ids, n.Identifier)
	}
	return ids
}
