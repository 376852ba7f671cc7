package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/search"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/wishlist"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func p(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tracked(id int64, name, original, current string) domain.TrackedApp {
	return domain.TrackedApp{
		ID:            id,
		Name:          name,
		Currency:      "USD",
		OriginalPrice: p(original),
		CurrentPrice:  p(current),
		DateAdded:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func captureColors(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &out, &errOut
}

type fakeClient struct {
	apps     []domain.TrackedApp
	settings settings.Settings

	addedRefs [][]string
	missing   []int64
	addErr    error

	lastFilter domain.Filter
	lastOrder  domain.SortOrder

	refreshed *domain.TrackedApp
	report    *wishlist.RefreshReport
	reportErr error

	setCalls   [][2]string
	setErr     error
	resetCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{settings: settings.Defaults()}
}

func (f *fakeClient) AddApp(ctx context.Context, ref string) (domain.TrackedApp, error) {
	f.addedRefs = append(f.addedRefs, []string{ref})
	if f.addErr != nil {
		return domain.TrackedApp{}, f.addErr
	}
	return tracked(1, "Things 3", "9.99", "9.99"), nil
}

func (f *fakeClient) AddApps(ctx context.Context, refs []string) ([]domain.TrackedApp, []int64, error) {
	f.addedRefs = append(f.addedRefs, refs)
	return []domain.TrackedApp{tracked(1, "Things 3", "9.99", "9.99")}, f.missing, f.addErr
}

func (f *fakeClient) ListApps(ctx context.Context, filter domain.Filter, order domain.SortOrder) ([]domain.TrackedApp, error) {
	f.lastFilter, f.lastOrder = filter, order
	return filter.Apply(f.apps), nil
}

func (f *fakeClient) LoadSettings(ctx context.Context) (settings.Settings, error) {
	return f.settings, nil
}

func (f *fakeClient) SetSetting(ctx context.Context, name, value string) (settings.Settings, error) {
	f.setCalls = append(f.setCalls, [2]string{name, value})
	if f.setErr != nil {
		return settings.Settings{}, f.setErr
	}
	f.settings.DropThreshold = 20
	return f.settings, nil
}

func (f *fakeClient) ResetSettings(ctx context.Context) (settings.Settings, error) {
	f.resetCalls++
	return settings.Defaults(), nil
}

func (f *fakeClient) GetApp(ctx context.Context, id int64) (domain.TrackedApp, error) {
	for _, a := range f.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.TrackedApp{}, domain.ErrNotFound
}

func (f *fakeClient) RefreshApp(ctx context.Context, id int64) (*domain.TrackedApp, error) {
	return f.refreshed, nil
}

func (f *fakeClient) RefreshAll(ctx context.Context) (*wishlist.RefreshReport, error) {
	return f.report, f.reportErr
}

func TestUseCasesPanicOnNilClient(t *testing.T) {
	assert.Panics(t, func() { NewAddUseCase(nil) })
	assert.Panics(t, func() { NewListUseCase(nil) })
	assert.Panics(t, func() { NewRefreshUseCase(nil) })
	assert.Panics(t, func() { NewSettingsUseCase(nil) })
}

func TestAddSingleRef(t *testing.T) {
	client := newFakeClient()
	var out bytes.Buffer

	require.NoError(t, NewAddUseCase(client).Execute(context.Background(), []string{" 904237743 "}, &out))
	assert.Equal(t, [][]string{{"904237743"}}, client.addedRefs)
	assert.Contains(t, out.String(), "Things 3")
	assert.Contains(t, out.String(), "$9.99")
}

func TestAddManyRefsBatches(t *testing.T) {
	client := newFakeClient()
	client.missing = []int64{42}
	_, errOut := captureColors(t)
	var out bytes.Buffer

	require.NoError(t, NewAddUseCase(client).Execute(context.Background(), []string{"1,2", "42"}, &out))
	assert.Equal(t, [][]string{{"1", "2", "42"}}, client.addedRefs)
	assert.Contains(t, errOut.String(), "app 42 was not found")
}

func TestAddRequiresRef(t *testing.T) {
	err := NewAddUseCase(newFakeClient()).Execute(context.Background(), []string{" ", ","}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddPropagatesError(t *testing.T) {
	client := newFakeClient()
	client.addErr = domain.ErrAlreadyExists
	err := NewAddUseCase(client).Execute(context.Background(), []string{"1"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestListFlagsOverrideSettings(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name     string
		saved    settings.Settings
		opts     ListOptions
		expected domain.Filter
	}{
		{
			name:     "saved filters apply",
			saved:    settings.Settings{ShowOnSaleOnly: true, HideFree: true},
			opts:     ListOptions{},
			expected: domain.Filter{OnSaleOnly: true, HideFree: true},
		},
		{
			name:     "flags win",
			saved:    settings.Settings{ShowOnSaleOnly: true, HideFree: true},
			opts:     ListOptions{OnSale: &no, HideFree: &no, Tag: "games"},
			expected: domain.Filter{Tag: "games"},
		},
		{
			name:     "flags enable",
			opts:     ListOptions{OnSale: &yes, Query: "things"},
			expected: domain.Filter{OnSaleOnly: true, Query: "things"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.settings = tt.saved
			tt.opts.Format = "simple"
			require.NoError(t, NewListUseCase(client).Execute(context.Background(), tt.opts, &bytes.Buffer{}))
			got := client.lastFilter
			if tt.expected.Query != "" {
				require.NotNil(t, got.Matcher)
			}
			got.Matcher = nil
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestListSearchModes(t *testing.T) {
	tests := []struct {
		mode    string
		query   string
		want    string
		wantErr bool
	}{
		{mode: "", query: "things", want: search.ModeSubstring},
		{mode: "token", query: "things sale", want: search.ModeToken},
		{mode: "regex", query: "^Things", want: search.ModeRegex},
		{mode: "regex", query: "([", wantErr: true},
		{mode: "fuzzy", query: "things", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mode+" "+tt.query, func(t *testing.T) {
			client := newFakeClient()
			err := NewListUseCase(client).Execute(context.Background(),
				ListOptions{Query: tt.query, SearchMode: tt.mode, Format: "simple"}, &bytes.Buffer{})
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			provider, ok := client.lastFilter.Matcher.(search.Provider)
			require.True(t, ok)
			assert.Equal(t, tt.want, provider.Name())
		})
	}
}

func TestListSimpleFormat(t *testing.T) {
	client := newFakeClient()
	client.apps = []domain.TrackedApp{tracked(1, "Things 3", "9.99", "4.99")}
	var out bytes.Buffer

	require.NoError(t, NewListUseCase(client).Execute(context.Background(), ListOptions{Format: "simple", Sort: "price_asc"}, &out))
	assert.Equal(t, domain.SortPriceAsc, client.lastOrder)
	assert.Contains(t, out.String(), "Things 3")
}

func TestListRejectsBadOptions(t *testing.T) {
	uc := NewListUseCase(newFakeClient())
	assert.ErrorIs(t, uc.Execute(context.Background(), ListOptions{Format: "xml"}, &bytes.Buffer{}), domain.ErrInvalidInput)
	assert.Error(t, uc.Execute(context.Background(), ListOptions{Sort: "random"}, &bytes.Buffer{}))
}

func TestListNoMatches(t *testing.T) {
	yes := true
	client := newFakeClient()
	client.apps = []domain.TrackedApp{tracked(1, "Things 3", "9.99", "9.99")}
	var out bytes.Buffer

	require.NoError(t, NewListUseCase(client).Execute(context.Background(), ListOptions{OnSale: &yes}, &out))
	assert.Contains(t, out.String(), "No apps match the current filters")
}

func TestRefreshOne(t *testing.T) {
	client := newFakeClient()
	client.apps = []domain.TrackedApp{tracked(1, "Things 3", "4.99", "4.99")}
	uc := NewRefreshUseCase(client)

	var out bytes.Buffer
	require.NoError(t, uc.One(context.Background(), 1, &out))
	assert.Contains(t, out.String(), "no change")

	updated := tracked(1, "Things 3", "4.99", "1.99")
	client.refreshed = &updated
	out.Reset()
	require.NoError(t, uc.One(context.Background(), 1, &out))
	assert.Contains(t, out.String(), "dropped")
	assert.Contains(t, out.String(), "$4.99 -> $1.99")
	assert.Contains(t, out.String(), "(-60%)")

	assert.ErrorIs(t, uc.One(context.Background(), 7, &out), domain.ErrNotFound)
}

func TestRefreshAllReports(t *testing.T) {
	app := tracked(1, "Things 3", "4.99", "1.99")
	drop := domain.PriceChange{App: app, OldPrice: p("4.99"), NewPrice: p("1.99")}
	failure := wishlist.ItemError{AppID: 2, Err: errors.New("boom")}

	tests := []struct {
		name    string
		report  *wishlist.RefreshReport
		err     error
		wantErr bool
		wantOut string
	}{
		{
			name:    "partial failure is not an error",
			report:  &wishlist.RefreshReport{Checked: 1, Changes: []domain.PriceChange{drop}, Drops: []domain.PriceChange{drop}, Failures: []wishlist.ItemError{failure}},
			wantOut: "Checked 1 apps: 1 changed, 1 drops, 1 failed",
		},
		{
			name:    "every lookup failed",
			report:  &wishlist.RefreshReport{Failures: []wishlist.ItemError{failure}},
			wantErr: true,
			wantOut: "Checked 0 apps",
		},
		{
			name: "already running",
			err:  domain.ErrUpdateInProgress,
		},
		{
			name:    "canceled run",
			report:  &wishlist.RefreshReport{},
			err:     context.Canceled,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureColors(t)
			client := newFakeClient()
			client.report, client.reportErr = tt.report, tt.err
			var out bytes.Buffer

			err := NewRefreshUseCase(client).All(context.Background(), &out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestSettingsReset(t *testing.T) {
	tests := []struct {
		name      string
		input     ResetSettingsInput
		wantReset bool
	}{
		{name: "declined", input: ResetSettingsInput{ConfirmFn: func() bool { return false }}},
		{name: "confirmed", input: ResetSettingsInput{ConfirmFn: func() bool { return true }}, wantReset: true},
		{name: "forced", input: ResetSettingsInput{Force: true, ConfirmFn: func() bool { return false }}, wantReset: true},
		{
			name: "ci skips prompt",
			input: ResetSettingsInput{
				GetEnv:    func(k string) string { return map[string]string{"CI": "1"}[k] },
				ConfirmFn: func() bool { return false },
			},
			wantReset: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captureColors(t)
			client := newFakeClient()
			require.NoError(t, NewSettingsUseCase(client).Reset(context.Background(), tt.input))
			assert.Equal(t, tt.wantReset, client.resetCalls == 1)
		})
	}
}

func TestSettingsShow(t *testing.T) {
	client := newFakeClient()
	uc := NewSettingsUseCase(client)

	var out bytes.Buffer
	require.NoError(t, uc.Show(context.Background(), false, &out))
	assert.Contains(t, out.String(), "drop_threshold")
	assert.Contains(t, out.String(), "10")

	out.Reset()
	require.NoError(t, uc.Show(context.Background(), true, &out))
	assert.Contains(t, out.String(), `"dropThreshold": 10`)
	assert.Contains(t, out.String(), `"totalSaved": "0.00"`)
	assert.NotContains(t, out.String(), "lastBatchAt")
}

func TestSettingsSet(t *testing.T) {
	out, _ := captureColors(t)
	client := newFakeClient()
	uc := NewSettingsUseCase(client)

	require.NoError(t, uc.Set(context.Background(), "drop_threshold", "20%"))
	assert.Equal(t, [][2]string{{"drop_threshold", "20%"}}, client.setCalls)
	assert.Contains(t, out.String(), "drop_threshold = 20")

	client.setErr = domain.ErrInvalidInput
	assert.ErrorIs(t, uc.Set(context.Background(), "drop_threshold", "3"), domain.ErrInvalidInput)
}
