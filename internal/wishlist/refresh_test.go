package wishlist

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/hooks"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshOneUnchangedPrice(t *testing.T) {
	f := newFixture(t, item(1, "A", "4.99"))
	before := f.add(t, 1)
	f.advance(time.Hour)

	updated, err := f.store.RefreshOne(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, updated)

	after, err := f.store.Get(1)
	require.NoError(t, err)
	assert.True(t, after.CurrentPrice.Equal(before.CurrentPrice))
	assert.Equal(t, before.PriceHistory, after.PriceHistory)
	assert.Equal(t, t0.Add(time.Hour), after.LastChecked)
}

func TestRefreshOneDropScenario(t *testing.T) {
	f := newFixture(t, item(1, "Things 3", "4.99"))
	f.add(t, 1)
	f.catalog.setPrice(1, "1.99")
	f.advance(time.Hour)

	updated, err := f.store.RefreshOne(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.CurrentPrice.Equal(p("1.99")))
	assert.True(t, updated.OriginalPrice.Equal(p("4.99")))
	assert.InDelta(t, 60.12, updated.DiscountPercent(), 0.001)
	require.Len(t, updated.PriceHistory, 2)
	assert.True(t, updated.PriceHistory[1].Price.Equal(p("1.99")))

	assert.Equal(t, []string{"price_drop_1"}, f.pendingIDs(t))
	s := f.settings.Get()
	assert.Equal(t, int64(1), s.DropsDetected)
	assert.True(t, s.TotalSaved.Equal(p("3.00")))
}

func TestRefreshOneBelowThresholdDoesNotNotify(t *testing.T) {
	f := newFixture(t, item(1, "A", "10.00"))
	f.add(t, 1)
	f.catalog.setPrice(1, "9.50")

	updated, err := f.store.RefreshOne(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, f.pendingIDs(t))
	assert.Zero(t, f.settings.Get().DropsDetected)
}

func TestRefreshOneHistoryCappedFIFO(t *testing.T) {
	f := newFixture(t, item(1, "A", "100"))
	f.add(t, 1)
	ctx := context.Background()

	for i := 0; i < domain.MaxPriceHistory+5; i++ {
		f.advance(time.Minute)
		f.catalog.setPrice(1, strconv.Itoa(99-i))
		_, err := f.store.RefreshOne(ctx, 1)
		require.NoError(t, err)
		app, err := f.store.Get(1)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(app.PriceHistory), domain.MaxPriceHistory)
	}

	app, err := f.store.Get(1)
	require.NoError(t, err)
	require.Len(t, app.PriceHistory, domain.MaxPriceHistory)
	assert.True(t, app.PriceHistory[len(app.PriceHistory)-1].Price.Equal(p("65")))
	assert.True(t, app.PriceHistory[0].Price.Equal(p("94")))
	for i := 1; i < len(app.PriceHistory); i++ {
		assert.True(t, app.PriceHistory[i].Timestamp.After(app.PriceHistory[i-1].Timestamp))
	}
}

func TestRefreshOneUnknownApp(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.RefreshOne(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.catalog.lookupCount())
}

func TestRefreshOnePropagatesCatalogError(t *testing.T) {
	f := newFixture(t, item(1, "A", "4.99"))
	f.add(t, 1)
	boom := errors.New("connection reset")
	f.catalog.fail[1] = boom

	_, err := f.store.RefreshOne(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func TestRefreshRejectsNegativePrice(t *testing.T) {
	f := newFixture(t, item(1, "A", "4.99"), item(2, "B", "9.99"))
	f.add(t, 1)
	f.add(t, 2)
	ctx := context.Background()

	f.catalog.setPrice(1, "-1")
	_, err := f.store.RefreshOne(ctx, 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	f.catalog.setPrice(2, "1.99")
	report, err := f.store.RefreshAll(ctx)
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(1), report.Failures[0].AppID)
	assert.ErrorIs(t, report.Failures[0].Err, domain.ErrInvalidInput)
	assert.Equal(t, 1, report.Checked)

	got, err := f.store.Get(1)
	require.NoError(t, err)
	assert.True(t, got.CurrentPrice.Equal(p("4.99")))

	reopened := f.open(t)
	again, err := reopened.Get(1)
	require.NoError(t, err)
	assert.True(t, again.CurrentPrice.Equal(p("4.99")))
}

func TestRefreshAllTwoDropsGiveOneSummary(t *testing.T) {
	f := newFixture(t, item(1, "A", "10.00"), item(2, "B", "20.00"))
	f.add(t, 1)
	f.add(t, 2)
	f.catalog.setPrice(1, "8.50")
	f.catalog.setPrice(2, "17.00")

	report, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Changes, 2)
	assert.Len(t, report.Drops, 2)
	assert.Empty(t, report.Failures)
	assert.NotEmpty(t, report.RunID)

	assert.Equal(t, []string{notification.SummaryIdentifier}, f.pendingIDs(t))

	s := f.settings.Get()
	assert.Equal(t, int64(2), s.DropsDetected)
	assert.True(t, s.TotalSaved.Equal(p("4.50")))
	assert.Equal(t, t0, s.LastBatchAt)
	assert.Equal(t, 1.0, f.store.Progress())
	assert.False(t, f.store.IsRefreshing())
}

func TestRefreshAllSingleDropGivesSingleNotification(t *testing.T) {
	f := newFixture(t, item(1, "A", "10.00"), item(2, "B", "20.00"))
	f.add(t, 1)
	f.add(t, 2)
	f.catalog.setPrice(2, "10.00")

	report, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Drops, 1)
	assert.Equal(t, []string{"price_drop_2"}, f.pendingIDs(t))
}

func TestRefreshAllPartialFailure(t *testing.T) {
	f := newFixture(t, item(1, "A", "10.00"), item(2, "B", "10.00"), item(3, "C", "10.00"), item(4, "D", "10.00"))
	for _, id := range []int64{1, 2, 3, 4} {
		f.add(t, id)
	}
	for _, id := range []int64{1, 2, 3, 4} {
		f.catalog.setPrice(id, "5.00")
	}
	f.catalog.fail[2] = errors.New("timeout")
	lookupsBefore := f.catalog.lookupCount()

	report, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(2), report.Failures[0].AppID)
	assert.Equal(t, 3, report.Checked)
	assert.Len(t, report.Changes, 3)
	assert.Equal(t, lookupsBefore+4, f.catalog.lookupCount())

	for _, id := range []int64{1, 3, 4} {
		app, err := f.store.Get(id)
		require.NoError(t, err)
		assert.True(t, app.CurrentPrice.Equal(p("5.00")), "app %d", id)
	}
	app, err := f.store.Get(2)
	require.NoError(t, err)
	assert.True(t, app.CurrentPrice.Equal(p("10.00")))

	reopened := f.open(t)
	app, err = reopened.Get(4)
	require.NoError(t, err)
	assert.True(t, app.CurrentPrice.Equal(p("5.00")))
}

func TestRefreshAllVisitsStoredOrder(t *testing.T) {
	f := newFixture(t, item(3, "C", "1"), item(1, "A", "1"), item(2, "B", "1"))
	for _, id := range []int64{3, 1, 2} {
		f.add(t, id)
	}
	f.catalog.lookups = nil

	_, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, f.catalog.lookups)
}

func TestRefreshAllSingleFlight(t *testing.T) {
	f := newFixture(t, item(1, "A", "4.99"))
	f.add(t, 1)
	f.catalog.block = make(chan struct{})
	f.catalog.started = make(chan struct{}, 1)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = f.store.RefreshAll(context.Background())
	}()
	<-f.catalog.started
	assert.True(t, f.store.IsRefreshing())

	_, err := f.store.RefreshAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpdateInProgress)

	close(f.catalog.block)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.False(t, f.store.IsRefreshing())

	_, err = f.store.RefreshAll(context.Background())
	assert.NoError(t, err)
}

func TestRefreshAllEmitsProgressAndRunsHook(t *testing.T) {
	f := newFixture(t, item(1, "A", "1"), item(2, "B", "1"))
	f.add(t, 1)
	f.add(t, 2)
	events, cancel := f.store.Subscribe()
	defer cancel()

	report, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)

	var progress []float64
	var kinds []EventKind
	for len(events) > 0 {
		e := <-events
		kinds = append(kinds, e.Kind)
		if e.Kind == EventProgress {
			progress = append(progress, e.Progress)
			assert.Equal(t, report.RunID, e.RunID)
		}
	}
	assert.Equal(t, []float64{0.5, 1}, progress)
	assert.Equal(t, EventRefreshStarted, kinds[0])
	assert.Equal(t, EventRefreshed, kinds[len(kinds)-1])

	require.Equal(t, 1, f.hooks.count(hooks.PostRefresh))
	env := f.hooks.calls[hooks.PostRefresh][0]
	assert.Contains(t, env, "REFRESH_RUN_ID="+report.RunID)
	assert.Contains(t, env, "CHECKED=2")
}

func TestRefreshAllEmptyList(t *testing.T) {
	f := newFixture(t)
	report, err := f.store.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Checked)
	assert.Equal(t, 1.0, f.store.Progress())
	assert.Zero(t, f.catalog.lookupCount())
}

func TestRefreshAllCanceledContext(t *testing.T) {
	f := newFixture(t, item(1, "A", "1"))
	f.add(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.store.RefreshAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, f.store.IsRefreshing())
}

func TestRefreshAllSkipsAppRemovedMidRun(t *testing.T) {
	f := newFixture(t, item(1, "A", "4.99"))
	f.add(t, 1)
	f.catalog.block = make(chan struct{})
	f.catalog.started = make(chan struct{}, 1)

	done := make(chan *RefreshReport)
	go func() {
		report, _ := f.store.RefreshAll(context.Background())
		done <- report
	}()
	<-f.catalog.started
	require.NoError(t, f.store.Remove(context.Background(), 1))
	close(f.catalog.block)

	report := <-done
	assert.Zero(t, report.Checked)
	assert.Zero(t, f.store.Len())
}
