// Package scheduler runs the batch refresh on the user's update frequency and
// delivers due notifications between runs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/settings"
	"github.com/cristianoliveira/appwish/internal/wishlist"
	"github.com/robfig/cron/v3"
)

// DeliverSpec is how often pending notifications are delivered.
const DeliverSpec = "@every 1m"

// Refresher runs a batch refresh.
type Refresher interface {
	RefreshAll(ctx context.Context) (*wishlist.RefreshReport, error)
}

// Deliverer delivers due notifications.
type Deliverer interface {
	Deliver(ctx context.Context) ([]notification.Notification, error)
}

// SettingsSource returns the current settings.
type SettingsSource interface {
	Get() settings.Settings
}

// Scheduler wraps a cron runner with one refresh entry and one delivery
// entry.
type Scheduler struct {
	refresher Refresher
	deliverer Deliverer
	settings  SettingsSource

	mu          sync.Mutex
	cron        *cron.Cron
	ctx         context.Context
	refreshID   cron.EntryID
	refreshSpec string
	deliverID   cron.EntryID
}

// New builds a stopped scheduler.
func New(refresher Refresher, deliverer Deliverer, src SettingsSource) *Scheduler {
	if refresher == nil || deliverer == nil || src == nil {
		panic("scheduler.New: refresher, deliverer and settings are required")
	}
	logger := cronLogger{}
	return &Scheduler{
		refresher: refresher,
		deliverer: deliverer,
		settings:  src,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx: context.Background(),
	}
}

// Spec returns the cron spec for an update frequency in hours.
func Spec(hours int) string {
	return fmt.Sprintf("@every %dh", hours)
}

// Start schedules the entries and starts the runner. Jobs use ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	if s.deliverID == 0 {
		id, err := s.cron.AddFunc(DeliverSpec, func() { s.deliver(s.jobContext()) })
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("schedule delivery: %w", err)
		}
		s.deliverID = id
	}
	s.mu.Unlock()

	if err := s.Reschedule(); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the runner and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Reschedule brings the refresh entry in line with the current settings:
// removed when auto update is off, replaced when the frequency changed.
func (s *Scheduler) Reschedule() error {
	cur := s.settings.Get()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !cur.AutoUpdate {
		if s.refreshID != 0 {
			s.cron.Remove(s.refreshID)
			s.refreshID, s.refreshSpec = 0, ""
			colors.StructuredInfo("scheduler", "reschedule", "disabled", nil, "", nil)
		}
		return nil
	}
	spec := Spec(cur.UpdateFrequencyHours)
	if s.refreshID != 0 && spec == s.refreshSpec {
		return nil
	}
	id, err := s.cron.AddFunc(spec, func() { s.RunOnce(s.jobContext()) })
	if err != nil {
		return fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	if s.refreshID != 0 {
		s.cron.Remove(s.refreshID)
	}
	s.refreshID, s.refreshSpec = id, spec
	colors.StructuredInfo("scheduler", "reschedule", "scheduled", nil, "", map[string]any{"spec": spec})
	return nil
}

// RefreshSpec returns the active refresh spec, empty when disabled.
func (s *Scheduler) RefreshSpec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshSpec
}

// NextRefresh returns when the refresh entry fires next. Zero when disabled
// or not started.
func (s *Scheduler) NextRefresh() time.Time {
	s.mu.Lock()
	id := s.refreshID
	s.mu.Unlock()
	if id == 0 {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// RunOnce refreshes every app and delivers what became due. A refresh that is
// already running is not an error here.
func (s *Scheduler) RunOnce(ctx context.Context) (*wishlist.RefreshReport, error) {
	report, err := s.refresher.RefreshAll(ctx)
	if errors.Is(err, domain.ErrUpdateInProgress) {
		colors.StructuredInfo("scheduler", "refresh", "skipped", err, "", nil)
		return nil, nil
	}
	if err != nil {
		colors.StructuredError("scheduler", "refresh", "failed", err, "", nil)
		return report, err
	}
	s.deliver(ctx)
	return report, nil
}

func (s *Scheduler) deliver(ctx context.Context) {
	delivered, err := s.deliverer.Deliver(ctx)
	if err != nil {
		colors.StructuredWarn("scheduler", "deliver", "failed", err, "", nil)
	}
	if len(delivered) > 0 {
		colors.StructuredInfo("scheduler", "deliver", "completed", nil, "", map[string]any{"count": len(delivered)})
	}
}

func (s *Scheduler) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// cronLogger routes the runner's own messages into structured logging.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	colors.StructuredDebug("scheduler", "cron", msg, nil, "", kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	colors.StructuredError("scheduler", "cron", msg, err, "", kvFields(keysAndValues))
}

func kvFields(kv []interface{}) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}
