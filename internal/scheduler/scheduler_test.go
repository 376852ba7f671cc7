package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) RefreshAll(ctx context.Context) (*wishlist.RefreshReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &wishlist.RefreshReport{RunID: "run"}, nil
}

type fakeDeliverer struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeDeliverer) Deliver(ctx context.Context) ([]notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, nil
}

type fakeSettings struct {
	mu sync.Mutex
	s  settings.Settings
}

func (f *fakeSettings) Get() settings.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.s
}

func (f *fakeSettings) set(auto bool, hours int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.s.AutoUpdate = auto
	f.s.UpdateFrequencyHours = hours
}

func newScheduler() (*Scheduler, *fakeRefresher, *fakeDeliverer, *fakeSettings) {
	r := &fakeRefresher{}
	d := &fakeDeliverer{}
	src := &fakeSettings{s: settings.Defaults()}
	return New(r, d, src), r, d, src
}

func TestSpec(t *testing.T) {
	assert.Equal(t, "@every 12h", Spec(12))
	assert.Equal(t, "@every 72h", Spec(72))
}

func TestNewPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { New(nil, &fakeDeliverer{}, &fakeSettings{}) })
}

func TestRescheduleFollowsSettings(t *testing.T) {
	s, _, _, src := newScheduler()

	require.NoError(t, s.Reschedule())
	assert.Equal(t, "@every 12h", s.RefreshSpec())
	first := s.refreshID

	require.NoError(t, s.Reschedule())
	assert.Equal(t, first, s.refreshID, "unchanged settings keep the entry")

	src.set(true, 24)
	require.NoError(t, s.Reschedule())
	assert.Equal(t, "@every 24h", s.RefreshSpec())
	assert.NotEqual(t, first, s.refreshID)
	assert.Len(t, s.cron.Entries(), 1)

	src.set(false, 24)
	require.NoError(t, s.Reschedule())
	assert.Empty(t, s.RefreshSpec())
	assert.Empty(t, s.cron.Entries())
	assert.True(t, s.NextRefresh().IsZero())
}

func TestStartSchedulesRefreshAndDelivery(t *testing.T) {
	s, _, _, _ := newScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 2)
	assert.Eventually(t, func() bool {
		next := s.NextRefresh()
		return !next.IsZero() && time.Until(next) > 11*time.Hour
	}, time.Second, 10*time.Millisecond)
}

func TestRunOnceRefreshesThenDelivers(t *testing.T) {
	s, r, d, _ := newScheduler()

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, 1, d.calls)
}

func TestRunOnceSkipsWhenRefreshRunning(t *testing.T) {
	s, r, d, _ := newScheduler()
	r.err = domain.ErrUpdateInProgress

	report, err := s.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, report)
	assert.Zero(t, d.calls)
}

func TestRunOnceReportsFailure(t *testing.T) {
	s, r, d, _ := newScheduler()
	r.err = errors.New("storage offline")

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, r.err)
	assert.Zero(t, d.calls)
}
