package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cristianoliveira/appwish/internal/notification"
	"github.com/cristianoliveira/appwish/internal/ports"
)

// MemoryCenter is an in-process notification center for tests and dry runs.
type MemoryCenter struct {
	mu      sync.Mutex
	granted bool
	asked   int
	items   map[string]notification.Notification
	now     func() time.Time
}

var _ ports.NotificationCenter = (*MemoryCenter)(nil)

// NewMemoryCenter returns an empty center whose Authorize answers granted.
func NewMemoryCenter(granted bool) *MemoryCenter {
	return &MemoryCenter{
		granted: granted,
		items:   make(map[string]notification.Notification),
		now:     time.Now,
	}
}

// Authorize reports the configured answer and counts the prompt.
func (c *MemoryCenter) Authorize(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.asked++
	return c.granted, nil
}

// AuthorizeCalls returns how many times Authorize ran.
func (c *MemoryCenter) AuthorizeCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asked
}

// Add schedules n as pending, replacing any notification with its identifier.
func (c *MemoryCenter) Add(ctx context.Context, n notification.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n.ScheduledAt.IsZero() {
		n.ScheduledAt = c.now()
	}
	n.State = notification.StatePending
	n.DeliveredAt = time.Time{}
	c.items[n.Identifier] = n
	return nil
}

func (c *MemoryCenter) RemovePending(ctx context.Context, identifiers ...string) error {
	c.remove(notification.StatePending, identifiers)
	return nil
}

func (c *MemoryCenter) RemoveDelivered(ctx context.Context, identifiers ...string) error {
	c.remove(notification.StateDelivered, identifiers)
	return nil
}

func (c *MemoryCenter) remove(state notification.State, identifiers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range identifiers {
		if n, ok := c.items[id]; ok && n.State == state {
			delete(c.items, id)
		}
	}
}

func (c *MemoryCenter) Pending(ctx context.Context) ([]notification.Notification, error) {
	return c.list(notification.StatePending), nil
}

func (c *MemoryCenter) Delivered(ctx context.Context) ([]notification.Notification, error) {
	return c.list(notification.StateDelivered), nil
}

// Deliver moves every pending notification scheduled at or before now to
// delivered.
func (c *MemoryCenter) Deliver(ctx context.Context, now time.Time) ([]notification.Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var due []notification.Notification
	for id, n := range c.items {
		if n.State != notification.StatePending || n.ScheduledAt.After(now) {
			continue
		}
		n.State = notification.StateDelivered
		n.DeliveredAt = now
		c.items[id] = n
		due = append(due, n)
	}
	sortNotifications(due)
	return due, nil
}

func (c *MemoryCenter) list(state notification.State) []notification.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []notification.Notification
	for _, n := range c.items {
		if n.State == state {
			out = append(out, n)
		}
	}
	sortNotifications(out)
	return out
}

func sortNotifications(ns []notification.Notification) {
	sort.Slice(ns, func(i, j int) bool {
		if !ns[i].ScheduledAt.Equal(ns[j].ScheduledAt) {
			return ns[i].ScheduledAt.Before(ns[j].ScheduledAt)
		}
		return ns[i].Identifier < ns[j].Identifier
	})
}
