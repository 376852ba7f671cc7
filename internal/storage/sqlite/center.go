package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cristianoliveira/appwish/internal/notification"
)

// Center is a notification center persisted in the notifications table.
// Notifications stay pending until Deliver moves them to delivered.
type Center struct {
	s       *SQLiteStorage
	granted bool
}

// NewCenter returns a center backed by s. granted is the answer Authorize
// gives, standing in for the user's OS-level choice.
func NewCenter(s *SQLiteStorage, granted bool) *Center {
	return &Center{s: s, granted: granted}
}

// Authorize reports whether notifications may be posted.
func (c *Center) Authorize(ctx context.Context) (bool, error) {
	return c.granted, nil
}

// Add schedules n, replacing any notification with the same identifier.
func (c *Center) Add(ctx context.Context, n notification.Notification) error {
	if strings.TrimSpace(n.Identifier) == "" {
		return fmt.Errorf("sqlite storage: add notification: %w", ErrInvalidNotificationID)
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("sqlite storage: encode payload: %w", err)
	}
	scheduled := n.ScheduledAt
	if scheduled.IsZero() {
		scheduled = c.s.now()
	}
	_, err = c.s.db.ExecContext(ctx,
		`INSERT INTO notifications (identifier, app_id, title, body, payload, state, scheduled_at, delivered_at)
		 VALUES (?, ?, ?, ?, ?, 'pending', ?, '')
		 ON CONFLICT(identifier) DO UPDATE SET
			app_id = excluded.app_id,
			title = excluded.title,
			body = excluded.body,
			payload = excluded.payload,
			state = 'pending',
			scheduled_at = excluded.scheduled_at,
			delivered_at = ''`,
		n.Identifier, n.Payload.AppID, n.Title, n.Body, string(payload),
		scheduled.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("sqlite storage: add notification %s: %w", n.Identifier, err)
	}
	return nil
}

// RemovePending removes pending notifications with the given identifiers.
func (c *Center) RemovePending(ctx context.Context, identifiers ...string) error {
	return c.remove(ctx, notification.StatePending, identifiers)
}

// RemoveDelivered removes delivered notifications with the given identifiers.
func (c *Center) RemoveDelivered(ctx context.Context, identifiers ...string) error {
	return c.remove(ctx, notification.StateDelivered, identifiers)
}

func (c *Center) remove(ctx context.Context, state notification.State, identifiers []string) error {
	if len(identifiers) == 0 {
		return nil
	}
	args := make([]any, 0, len(identifiers)+1)
	args = append(args, string(state))
	for _, id := range identifiers {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(identifiers)), ",")
	query := fmt.Sprintf("DELETE FROM notifications WHERE state = ? AND identifier IN (%s)", placeholders)
	if _, err := c.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("sqlite storage: remove %s notifications: %w", state, err)
	}
	return nil
}

// Pending lists notifications not yet delivered, oldest first.
func (c *Center) Pending(ctx context.Context) ([]notification.Notification, error) {
	return c.list(ctx, c.s.db, notification.StatePending, "")
}

// Delivered lists delivered notifications, oldest first.
func (c *Center) Delivered(ctx context.Context) ([]notification.Notification, error) {
	return c.list(ctx, c.s.db, notification.StateDelivered, "")
}

// Deliver marks every pending notification scheduled at or before now as
// delivered and returns them.
func (c *Center) Deliver(ctx context.Context, now time.Time) ([]notification.Notification, error) {
	tx, err := c.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: begin deliver: %w", err)
	}
	cutoff := now.UTC().Format(timeLayout)
	due, err := c.list(ctx, tx, notification.StatePending, cutoff)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE notifications SET state = 'delivered', delivered_at = ?
		 WHERE state = 'pending' AND scheduled_at <= ?`, cutoff, cutoff); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("sqlite storage: deliver notifications: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite storage: commit deliver: %w", err)
	}
	for i := range due {
		due[i].State = notification.StateDelivered
		due[i].DeliveredAt = now.UTC()
	}
	return due, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (c *Center) list(ctx context.Context, q querier, state notification.State, before string) ([]notification.Notification, error) {
	query := `SELECT identifier, title, body, payload, state, scheduled_at, delivered_at
		FROM notifications WHERE state = ?`
	args := []any{string(state)}
	if before != "" {
		query += " AND scheduled_at <= ?"
		args = append(args, before)
	}
	query += " ORDER BY scheduled_at, identifier"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list %s notifications: %w", state, err)
	}
	defer rows.Close()

	var out []notification.Notification
	for rows.Next() {
		var (
			n                      notification.Notification
			payload, st            string
			scheduled, deliveredAt string
		)
		if err := rows.Scan(&n.Identifier, &n.Title, &n.Body, &payload, &st, &scheduled, &deliveredAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan notification: %w", err)
		}
		if !validStates[st] {
			return nil, fmt.Errorf("sqlite storage: notification %s has invalid state %q", n.Identifier, st)
		}
		n.State = notification.State(st)
		if err := json.Unmarshal([]byte(payload), &n.Payload); err != nil {
			return nil, fmt.Errorf("sqlite storage: decode payload of %s: %w", n.Identifier, err)
		}
		n.ScheduledAt = parseTime(scheduled)
		n.DeliveredAt = parseTime(deliveredAt)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list %s notifications: %w", state, err)
	}
	return out, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
