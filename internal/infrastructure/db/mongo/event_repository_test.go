package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

func TestBuildFilter(t *testing.T) {
	if got := buildFilter(ports.AuditFilter{}); len(got) != 0 {
		t.Fatalf("empty filter should match everything, got %v", got)
	}

	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("IST", 19800))
	got := buildFilter(ports.AuditFilter{UserID: "u1", Step: domain.StepFaceScan, Since: since})

	if got["user_id"] != "u1" || got["step"] != "face_scan" {
		t.Fatalf("unexpected filter %v", got)
	}
	ts, ok := got["timestamp"].(bson.M)
	if !ok || !ts["$gte"].(time.Time).Equal(since) || ts["$gte"].(time.Time).Location() != time.UTC {
		t.Fatalf("expected UTC $gte on timestamp, got %v", got["timestamp"])
	}
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(ports.AuditFilter{Limit: 25})
	if opts.Limit == nil || *opts.Limit != 25 {
		t.Fatalf("expected limit 25, got %v", opts.Limit)
	}
	if findOptions(ports.AuditFilter{}).Limit != nil {
		t.Fatalf("zero limit should not be set")
	}
}

func TestWizardEventBSON(t *testing.T) {
	e := domain.WizardEvent{ID: "01J0000000000000000000000", UserID: "u1", Step: domain.StepReceipt, Action: "finish", Outcome: domain.OutcomeSuccess}
	raw, err := bson.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["_id"] != e.ID || m["user_id"] != "u1" {
		t.Fatalf("unexpected document %v", m)
	}
	if _, ok := m["detail"]; ok {
		t.Fatalf("empty detail should be omitted")
	}
}
