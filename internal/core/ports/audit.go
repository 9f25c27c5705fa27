package ports

import (
	"context"
	"time"

	"github.com/securevote/voting-wizard/internal/core/domain"
)

// AuditFilter narrows an audit listing. Zero values match everything.
type AuditFilter struct {
	UserID string
	Step   domain.Step
	Since  time.Time
	Limit  int
}

// AuditRepository persists wizard events.
type AuditRepository interface {
	// Insert persists an event. Inserting an ID twice is not an error.
	Insert(ctx context.Context, event *domain.WizardEvent) error
	// List returns the newest events first.
	List(ctx context.Context, filter AuditFilter) ([]domain.WizardEvent, error)
}

// AuditRecorder accepts events without blocking the caller on persistence.
type AuditRecorder interface {
	Record(event domain.WizardEvent)
}

// AuditService writes events handed over by the dispatcher workers and
// serves the admin listing.
type AuditService interface {
	Process(ctx context.Context, event domain.WizardEvent) error
	List(ctx context.Context, filter AuditFilter) ([]domain.WizardEvent, error)
}

