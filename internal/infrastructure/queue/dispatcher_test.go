package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

type recordingService struct {
	mu     sync.Mutex
	byUser map[string][]string
}

func (s *recordingService) Process(_ context.Context, e domain.WizardEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[e.UserID] = append(s.byUser[e.UserID], e.ID)
	return nil
}

func (s *recordingService) List(context.Context, ports.AuditFilter) ([]domain.WizardEvent, error) {
	return nil, nil
}

func TestDispatcher_PerVoterOrdering(t *testing.T) {
	svc := &recordingService{byUser: make(map[string][]string)}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	users := []string{"u1", "u2", "u3", "u4"}
	for i := 0; i < 50; i++ {
		for _, u := range users {
			d.Record(domain.WizardEvent{ID: fmt.Sprintf("%s-%02d", u, i), UserID: u})
		}
	}
	d.Close()

	for _, u := range users {
		got := svc.byUser[u]
		if len(got) != 50 {
			t.Fatalf("%s: expected 50 events, got %d", u, len(got))
		}
		for i, id := range got {
			if want := fmt.Sprintf("%s-%02d", u, i); id != want {
				t.Fatalf("%s: event %d is %s, want %s", u, i, id, want)
			}
		}
	}
}

func TestDispatcher_RecordAfterCloseIsDropped(t *testing.T) {
	svc := &recordingService{byUser: make(map[string][]string)}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	d.Record(domain.WizardEvent{ID: "late", UserID: "u1"})
	if len(svc.byUser["u1"]) != 0 {
		t.Fatalf("events after close must not be processed")
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("voter-a") != d.shardIndex("voter-a") {
		t.Fatalf("shard index must be deterministic")
	}
}
