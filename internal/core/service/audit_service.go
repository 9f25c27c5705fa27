package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/api/metrics"
	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
	"github.com/securevote/voting-wizard/internal/pkg/id"
)

const defaultAuditLimit = 100

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single wizard event. Events without an id or timestamp
// get one here.
func (s *auditService) Process(ctx context.Context, event domain.WizardEvent) error {
	if event.ID == "" {
		event.ID = id.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	s.log.Debug().
		Str("user_id", event.UserID).
		Str("step", string(event.Step)).
		Str("action", event.Action).
		Str("outcome", event.Outcome).
		Msg("audit event stored")
	return nil
}

func (s *auditService) List(ctx context.Context, filter ports.AuditFilter) ([]domain.WizardEvent, error) {
	if filter.Limit <= 0 || filter.Limit > defaultAuditLimit {
		filter.Limit = defaultAuditLimit
	}
	events, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

// record hands an event to rec. A nil recorder drops it.
func record(rec ports.AuditRecorder, userID string, step domain.Step, action string, err error) {
	if rec == nil {
		return
	}
	event := domain.WizardEvent{
		ID:        id.New(),
		UserID:    userID,
		Step:      step,
		Action:    action,
		Outcome:   domain.OutcomeSuccess,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		event.Outcome = domain.OutcomeFailure
		event.Detail = err.Error()
	}
	rec.Record(event)
}
