package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/securevote/voting-wizard/internal/core/domain"
	"github.com/securevote/voting-wizard/internal/core/ports"
)

const eventsCollection = "wizard_events"

// EventRepository implements ports.AuditRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(eventsCollection)}
}

var _ ports.AuditRepository = (*EventRepository)(nil)

// Insert persists a wizard event. The ULID is the document _id, so a retried
// insert of the same event is a no-op.
func (r *EventRepository) Insert(ctx context.Context, event *domain.WizardEvent) error {
	doc := *event
	doc.Timestamp = doc.Timestamp.UTC()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert wizard event: %w", err)
	}
	return nil
}

// List returns events matching filter, newest first.
func (r *EventRepository) List(ctx context.Context, filter ports.AuditFilter) ([]domain.WizardEvent, error) {
	cur, err := r.col.Find(ctx, buildFilter(filter), findOptions(filter))
	if err != nil {
		return nil, fmt.Errorf("find wizard events: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]domain.WizardEvent, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode wizard events: %w", err)
	}
	return events, nil
}

// EnsureIndexes creates necessary indexes on the wizard_events collection.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "step", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildFilter(f ports.AuditFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Step != "" {
		q["step"] = string(f.Step)
	}
	if !f.Since.IsZero() {
		q["timestamp"] = bson.M{"$gte": f.Since.UTC()}
	}
	return q
}

func findOptions(f ports.AuditFilter) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	return opts
}
