// Package core wires the storage, settings, catalog, notification and
// wishlist services into one client the commands talk to.
package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/catalog"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/formatter"
	"github.com/cristianoliveira/appwish/internal/notify"
	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/cristianoliveira/appwish/internal/scheduler"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/storage"
	"github.com/cristianoliveira/appwish/internal/storage/sqlite"
	"github.com/cristianoliveira/appwish/internal/version"
	"github.com/cristianoliveira/appwish/internal/wishlist"
)

// Options overrides collaborators. Nil fields are built from configuration.
type Options struct {
	KV      storage.Store
	Catalog ports.Catalog
	Center  ports.NotificationCenter
	Now     func() time.Time
	RunHook func(hookPoint string, envVars ...string) error
}

// Services holds the wired services of one process.
type Services struct {
	KV        storage.Store
	Settings  *settings.Store
	Catalog   ports.Catalog
	Center    ports.NotificationCenter
	Notifier  *notify.Dispatcher
	Wishlist  *wishlist.Store
	Scheduler *scheduler.Scheduler
}

// Core builds its services on first use, after the root command has loaded
// configuration.
type Core struct {
	opts Options

	once sync.Once
	svc  *Services
	err  error
}

// NewCore creates a core client. Nothing is opened until a method needs it.
func NewCore(opts Options) *Core {
	return &Core{opts: opts}
}

// Services opens and wires every service once.
func (c *Core) Services(ctx context.Context) (*Services, error) {
	c.once.Do(func() {
		c.svc, c.err = build(ctx, c.opts)
		if c.err != nil {
			colors.StructuredError("core", "open", "failed", c.err, "", nil)
		}
	})
	return c.svc, c.err
}

// Close releases the storage backend if it was opened.
func (c *Core) Close() error {
	if c.svc == nil {
		return nil
	}
	if c.svc.Scheduler != nil {
		c.svc.Scheduler.Stop()
	}
	return c.svc.KV.Close()
}

// Version returns the build version.
func (c *Core) Version() string {
	return version.String()
}

func build(ctx context.Context, opts Options) (*Services, error) {
	kv := opts.KV
	if kv == nil {
		var err error
		kv, err = storage.NewFromConfig()
		if err != nil {
			return nil, fmt.Errorf("core: open storage: %w", err)
		}
	}

	st, err := settings.Load(ctx, kv)
	if err != nil {
		return nil, errors.Join(err, kv.Close())
	}

	cat := opts.Catalog
	if cat == nil {
		cat = newCatalogFromConfig()
	}

	center := opts.Center
	if center == nil {
		center = newCenterFromConfig(kv)
	}

	dispatcher := notify.New(center, st)
	if err := dispatcher.SetFormat(config.Get("notification_format", formatter.DefaultPreset)); err != nil {
		colors.Warning(fmt.Sprintf("notification_format: %v; using %s", err, formatter.DefaultPreset))
	}
	wl, err := wishlist.Open(ctx, wishlist.Options{
		KV:       kv,
		Catalog:  cat,
		Settings: st,
		Stats:    st,
		Notifier: dispatcher,
		Now:      opts.Now,
		RunHook:  opts.RunHook,
	})
	if err != nil {
		return nil, errors.Join(err, kv.Close())
	}

	return &Services{
		KV:        kv,
		Settings:  st,
		Catalog:   cat,
		Center:    center,
		Notifier:  dispatcher,
		Wishlist:  wl,
		Scheduler: scheduler.New(wl, dispatcher, st),
	}, nil
}

func newCatalogFromConfig() *catalog.Client {
	interval := time.Duration(config.GetInt("catalog_min_interval_ms", int(catalog.DefaultMinInterval/time.Millisecond))) * time.Millisecond
	return catalog.New(catalog.Options{
		BaseURL:         config.Get("catalog_base_url", catalog.DefaultBaseURL),
		RequestTimeout:  config.GetDuration("catalog_request_timeout", catalog.DefaultRequestTimeout),
		ResourceTimeout: config.GetDuration("catalog_resource_timeout", catalog.DefaultResourceTimeout),
		Gate:            catalog.NewGate(interval),
		UserAgent:       version.UserAgent(),
	})
}

// newCenterFromConfig keeps notifications next to the rest of the state when
// the backend is SQLite and in memory otherwise.
func newCenterFromConfig(kv storage.Store) ports.NotificationCenter {
	granted := config.Get("notification_authorization", "granted") == "granted"
	if db, ok := kv.(*sqlite.SQLiteStorage); ok {
		return sqlite.NewCenter(db, granted)
	}
	return notify.NewMemoryCenter(granted)
}
