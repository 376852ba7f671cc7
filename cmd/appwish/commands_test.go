package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/core"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/storage/sqlite"
	"github.com/cristianoliveira/appwish/internal/wishlist"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	apps    map[int64]domain.TrackedApp
	removed []int64
	notes   map[int64]string

	cancelled    []int64
	cancelledAll bool
	granted      bool
	pending      []notification.Notification
	delivered    []notification.Notification

	watchOpts core.WatchOptions
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		apps: map[int64]domain.TrackedApp{
			904237743: {ID: 904237743, Name: "Things 3", Currency: "USD", CurrentPrice: decimal.RequireFromString("9.99"), OriginalPrice: decimal.RequireFromString("9.99")},
		},
		notes:   map[int64]string{},
		granted: true,
	}
}

func (f *fakeClient) GetApp(ctx context.Context, id int64) (domain.TrackedApp, error) {
	app, ok := f.apps[id]
	if !ok {
		return domain.TrackedApp{}, domain.ErrNotFound
	}
	return app, nil
}

func (f *fakeClient) RemoveApp(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeClient) SetNotes(ctx context.Context, id int64, notes string) (domain.TrackedApp, error) {
	f.notes[id] = notes
	return f.GetApp(ctx, id)
}

func (f *fakeClient) AddTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	app, err := f.GetApp(ctx, id)
	if err != nil {
		return app, err
	}
	app.AddTags(tags...)
	f.apps[id] = app
	return app, nil
}

func (f *fakeClient) RemoveTags(ctx context.Context, id int64, tags ...string) (domain.TrackedApp, error) {
	app, err := f.GetApp(ctx, id)
	if err != nil {
		return app, err
	}
	app.RemoveTags(tags...)
	f.apps[id] = app
	return app, nil
}

func (f *fakeClient) Notifications(ctx context.Context) ([]notification.Notification, []notification.Notification, error) {
	return f.pending, f.delivered, nil
}

func (f *fakeClient) DeliverNotifications(ctx context.Context) ([]notification.Notification, error) {
	out := f.pending
	f.delivered, f.pending = append(f.delivered, f.pending...), nil
	return out, nil
}

func (f *fakeClient) CancelNotification(ctx context.Context, appID int64) error {
	f.cancelled = append(f.cancelled, appID)
	return nil
}

func (f *fakeClient) CancelAllNotifications(ctx context.Context) error {
	f.cancelledAll = true
	return nil
}

func (f *fakeClient) RequestPermission(ctx context.Context) (bool, error) {
	return f.granted, nil
}

func (f *fakeClient) SearchCatalog(ctx context.Context, term string, limit int) ([]domain.CatalogItem, error) {
	if term == "things" {
		return []domain.CatalogItem{{ID: 904237743, Name: "Things 3", Currency: "USD", Price: decimal.RequireFromString("9.99")}}, nil
	}
	return nil, nil
}

func (f *fakeClient) Stats(ctx context.Context) (core.Stats, error) {
	return core.Stats{Settings: settings.Defaults(), Summary: wishlist.Summary{Count: 1}}, nil
}

func (f *fakeClient) ResetStats(ctx context.Context) error { return nil }

func (f *fakeClient) Watch(ctx context.Context, opts core.WatchOptions, started func(time.Time)) error {
	f.watchOpts = opts
	started(time.Time{})
	return nil
}

func (f *fakeClient) Version() string { return "1.2.3" }

func captureColors(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &out, &errOut
}

func execute(c *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetIn(strings.NewReader(""))
	c.SetArgs(args)
	c.SetContext(context.Background())
	err := c.Execute()
	return out.String(), err
}

func TestConstructorsPanicOnNilClient(t *testing.T) {
	tests := map[string]func(){
		"add":           func() { NewAddCmd(nil) },
		"search":        func() { NewSearchCmd(nil) },
		"list":          func() { NewListCmd(nil) },
		"show":          func() { NewShowCmd(nil) },
		"remove":        func() { NewRemoveCmd(nil) },
		"refresh":       func() { NewRefreshCmd(nil) },
		"notes":         func() { NewNotesCmd(nil) },
		"tag":           func() { NewTagCmd(nil) },
		"settings":      func() { NewSettingsCmd(nil) },
		"stats":         func() { NewStatsCmd(nil) },
		"notifications": func() { NewNotificationsCmd(nil) },
		"watch":         func() { NewWatchCmd(nil) },
		"version":       func() { NewVersionCmd(nil) },
		"migrate":       func() { NewMigrateCmd(migrateRunner{}) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, fn)
		})
	}
}

func TestRootRegistersEveryCommand(t *testing.T) {
	for _, name := range []string{"add", "search", "list", "show", "remove", "refresh", "notes", "tag", "notifications", "settings", "stats", "watch", "migrate", "version"} {
		found, _, err := cmd.RootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

func TestPrintHelpKeepsCommandOrder(t *testing.T) {
	var buf bytes.Buffer
	cmd.PrintHelp(cmd.RootCmd, &buf)
	out := buf.String()

	assert.Contains(t, out, "USAGE:")
	add := strings.Index(out, "add")
	list := strings.Index(out, "list")
	version := strings.LastIndex(out, "version")
	assert.True(t, add >= 0 && add < list && list < version, out)
}

func TestAddRequiresArgument(t *testing.T) {
	_, err := execute(NewAddCmd(&stubAddClient{}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubAddClient struct{ refs []string }

func (s *stubAddClient) AddApp(ctx context.Context, ref string) (domain.TrackedApp, error) {
	s.refs = append(s.refs, ref)
	return domain.TrackedApp{ID: 1, Name: "Things 3", CurrentPrice: decimal.Zero}, nil
}

func (s *stubAddClient) AddApps(ctx context.Context, refs []string) ([]domain.TrackedApp, []int64, error) {
	s.refs = append(s.refs, refs...)
	return nil, nil, nil
}

func TestAddPrintsAddedApp(t *testing.T) {
	client := &stubAddClient{}
	out, err := execute(NewAddCmd(client), "https://apps.apple.com/us/app/things-3/id904237743")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://apps.apple.com/us/app/things-3/id904237743"}, client.refs)
	assert.Contains(t, out, "Things 3")
	assert.Contains(t, out, "Free")
}

func TestSearch(t *testing.T) {
	client := newFakeClient()

	out, err := execute(NewSearchCmd(client), "--json", "things")
	require.NoError(t, err)
	assert.Contains(t, out, `"Name": "Things 3"`)

	out, err = execute(NewSearchCmd(client), "nothing", "here")
	require.NoError(t, err)
	assert.Contains(t, out, `No apps found for "nothing here"`)
}

func TestShow(t *testing.T) {
	client := newFakeClient()

	out, err := execute(NewShowCmd(client), "904237743")
	require.NoError(t, err)
	assert.Contains(t, out, "Things 3")

	out, err = execute(NewShowCmd(client), "--json", "appwish://app/904237743")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": 904237743`)

	_, err = execute(NewShowCmd(client), "123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove(t *testing.T) {
	stdout, _ := captureColors(t)
	client := newFakeClient()

	_, err := execute(NewRemoveCmd(client), "904237743", "not-a-link")
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Empty(t, client.removed, "nothing is removed when any ref is invalid")

	_, err = execute(NewRemoveCmd(client), "https://apps.apple.com/app/id904237743")
	require.NoError(t, err)
	assert.Equal(t, []int64{904237743}, client.removed)
	assert.Contains(t, stdout.String(), "Removed Things 3")
}

func TestNotes(t *testing.T) {
	captureColors(t)
	client := newFakeClient()

	_, err := execute(NewNotesCmd(client), "904237743")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(NewNotesCmd(client), "904237743", "wait", "for", "sale")
	require.NoError(t, err)
	assert.Equal(t, "wait for sale", client.notes[904237743])

	_, err = execute(NewNotesCmd(client), "--clear", "904237743")
	require.NoError(t, err)
	assert.Equal(t, "", client.notes[904237743])
}

func TestTag(t *testing.T) {
	stdout, _ := captureColors(t)
	client := newFakeClient()

	_, err := execute(NewTagCmd(client), "add", "904237743", "productivity", "mac")
	require.NoError(t, err)
	assert.Equal(t, []string{"mac", "productivity"}, client.apps[904237743].Tags)
	assert.Contains(t, stdout.String(), "Things 3 tags: mac, productivity")

	_, err = execute(NewTagCmd(client), "remove", "904237743", "mac")
	require.NoError(t, err)
	assert.Equal(t, []string{"productivity"}, client.apps[904237743].Tags)

	_, err = execute(NewTagCmd(client), "add", "904237743")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNotificationsCancel(t *testing.T) {
	captureColors(t)
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		wantIDs []int64
		wantAll bool
	}{
		{name: "one app", args: []string{"cancel", "904237743"}, wantIDs: []int64{904237743}},
		{name: "all", args: []string{"cancel", "--all"}, wantAll: true},
		{name: "neither", args: []string{"cancel"}, wantErr: true},
		{name: "both", args: []string{"cancel", "--all", "1"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			_, err := execute(NewNotificationsCmd(client), tt.args...)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, client.cancelled)
			assert.Equal(t, tt.wantAll, client.cancelledAll)
		})
	}
}

func TestNotificationsListAndDeliver(t *testing.T) {
	captureColors(t)
	client := newFakeClient()
	client.pending = []notification.Notification{{
		Identifier:  notification.IdentifierForApp(904237743),
		Title:       "Price Drop: Things 3",
		Body:        "Now $1.99 (was $4.99). 60% off!",
		State:       notification.StatePending,
		ScheduledAt: time.Now(),
	}}

	out, err := execute(NewNotificationsCmd(client), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Price Drop: Things 3")

	out, err = execute(NewNotificationsCmd(client), "deliver")
	require.NoError(t, err)
	assert.Contains(t, out, "60% off!")
	assert.Len(t, client.delivered, 1)
}

func TestNotificationsPermissionDenied(t *testing.T) {
	client := newFakeClient()
	client.granted = false
	_, err := execute(NewNotificationsCmd(client), "permission")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestStats(t *testing.T) {
	out, err := execute(NewStatsCmd(newFakeClient()))
	require.NoError(t, err)
	assert.Contains(t, out, "Tracked apps")
}

func TestWatchPassesOptions(t *testing.T) {
	stdout, _ := captureColors(t)
	client := newFakeClient()

	_, err := execute(NewWatchCmd(client), "--now", "--quiet")
	require.NoError(t, err)
	assert.True(t, client.watchOpts.RefreshNow)
	assert.Nil(t, client.watchOpts.OnEvent)
	assert.Contains(t, stdout.String(), "automatic price checks are off")
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, wishlist.Event{Kind: wishlist.EventProgress, Progress: 0.5})
	printEvent(&buf, wishlist.Event{Kind: wishlist.EventAdded})
	assert.Equal(t, "   50%\n", buf.String())
}

func TestMigrate(t *testing.T) {
	var got sqlite.MigrationOptions
	var rolledBack []string
	runner := migrateRunner{
		migrate: func(opts sqlite.MigrationOptions) (sqlite.MigrationStats, error) {
			got = opts
			return sqlite.MigrationStats{TotalKeys: 3, MigratedKeys: 2, SkippedKeys: 1, Warnings: []string{"unknown key"}}, nil
		},
		rollback: func(filePath, sqlitePath, backupPath string) error {
			rolledBack = []string{filePath, sqlitePath, backupPath}
			return nil
		},
		stateDir: func() string { return "/state" },
	}

	out, err := execute(NewMigrateCmd(runner), "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, sqlite.MigrationOptions{
		FilePath:   "/state/appwish.json",
		SQLitePath: "/state/appwish.db",
		BackupPath: "/state/appwish.json.sqlite-migration.bak",
		DryRun:     true,
	}, got)
	assert.Contains(t, out, "total=3 migrated=2 skipped=1")
	assert.Contains(t, out, "warning: unknown key")

	_, err = execute(NewMigrateCmd(runner), "--rollback")
	require.NoError(t, err)
	assert.Equal(t, []string{"/state/appwish.json", "/state/appwish.db", "/state/appwish.json.sqlite-migration.bak"}, rolledBack)

	_, err = execute(NewMigrateCmd(runner), "--rollback", "--dry-run")
	assert.Error(t, err)

	runner.stateDir = func() string { return "" }
	_, err = execute(NewMigrateCmd(runner))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(NewVersionCmd(newFakeClient()))
	require.NoError(t, err)
	assert.Equal(t, "appwish version 1.2.3\n", out)
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false, "yes": true}
	for input, want := range tests {
		var out bytes.Buffer
		assert.Equal(t, want, confirm(strings.NewReader(input), &out, "? "), "input %q", input)
		assert.Equal(t, "? ", out.String())
	}
}

func TestRunExitCodes(t *testing.T) {
	_, stderr := captureColors(t)

	assert.Equal(t, 0, run([]string{"version"}, func() error { return nil }))
	assert.Equal(t, 1, run([]string{"show", "1"}, func() error { return domain.ErrNotFound }))
	assert.Contains(t, stderr.String(), "That app is not on your wishlist.")
	assert.Equal(t, 1, run(nil, func() error { return errors.New("boom") }))
}
