// Package notify provides the notification-delivery collaborator consumed
// by the engine's trigger resolver. The engine decides when triggers fire;
// this package owns the registry of pending deliveries.
package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tartampluch/go-cadence/internal/engine"
)

// Memory is an in-process delivery registry. It stands in for the OS
// notification center: schedule returns an opaque identifier, cancel
// removes one entry, and the pending set is inspectable. Safe for
// concurrent cancel/schedule calls across distinct contact ids.
type Memory struct {
	mu        sync.Mutex
	pending   map[string]engine.ScheduledNotification
	permitted bool
}

// NewMemory returns an empty registry with permission granted.
func NewMemory() *Memory {
	return &Memory{
		pending:   make(map[string]engine.ScheduledNotification),
		permitted: true,
	}
}

// SetPermitted flips the simulated OS notification permission.
func (m *Memory) SetPermitted(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.permitted = ok
}

// Permitted reports the simulated OS notification permission. Wire it into
// the resolver's Permitted hook.
func (m *Memory) Permitted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.permitted
}

// ListScheduled returns every pending notification, ordered by trigger time
// so callers see a stable view.
func (m *Memory) ListScheduled(ctx context.Context) ([]engine.ScheduledNotification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]engine.ScheduledNotification, 0, len(m.pending))
	for _, n := range m.pending {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TriggerAt.Equal(out[j].TriggerAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].TriggerAt.Before(out[j].TriggerAt)
	})
	return out, nil
}

// Cancel removes one entry. Cancelling an unknown identifier is a no-op;
// the trigger may already have fired.
func (m *Memory) Cancel(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)
	return nil
}

// Schedule registers one delivery request and returns its identifier.
func (m *Memory) Schedule(ctx context.Context, req engine.NotificationRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	m.pending[id] = engine.ScheduledNotification{
		ID:        id,
		ContactID: req.ContactID,
		Title:     req.Title,
		Body:      req.Body,
		TriggerAt: req.TriggerAt,
	}
	return id, nil
}

// ForContact returns the pending entries tagged with one contact id,
// ordered by trigger time.
func (m *Memory) ForContact(ctx context.Context, contactID string) ([]engine.ScheduledNotification, error) {
	all, err := m.ListScheduled(ctx)
	if err != nil {
		return nil, err
	}
	var out []engine.ScheduledNotification
	for _, n := range all {
		if n.ContactID == contactID {
			out = append(out, n)
		}
	}
	return out, nil
}
