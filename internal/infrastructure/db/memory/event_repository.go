// Package memory keeps the audit trail in process when MongoDB is not
// configured.
package memory

import (
	"context"
	"sync"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

const defaultCapacity = 10_000

// EventRepository is a bounded audit log. Once full, the oldest events are
// dropped.
type EventRepository struct {
	mu       sync.RWMutex
	events   []domain.WizardEvent
	seen     map[string]struct{}
	capacity int
}

var _ ports.AuditRepository = (*EventRepository)(nil)

func NewEventRepository(capacity int) *EventRepository {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &EventRepository{seen: make(map[string]struct{}), capacity: capacity}
}

func (r *EventRepository) Insert(ctx context.Context, event *domain.WizardEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seen[event.ID]; dup {
		return nil
	}
	if len(r.events) == r.capacity {
		delete(r.seen, r.events[0].ID)
		r.events = append(r.events[:0], r.events[1:]...)
	}
	r.events = append(r.events, *event)
	r.seen[event.ID] = struct{}{}
	return nil
}

// List returns matching events, newest first.
func (r *EventRepository) List(ctx context.Context, f ports.AuditFilter) ([]domain.WizardEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WizardEvent, 0)
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.Step != "" && e.Step != f.Step {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
