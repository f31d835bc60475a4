package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhub/task-tracker/internal/core/domain"
	"github.com/taskhub/task-tracker/internal/core/ports"
)

const collectionAudit = "audit_events"

// AuditRepository persists audit entries to the audit_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":         entry.ID,
		"actor":       entry.Actor,
		"action":      entry.Action,
		"target":      entry.Target,
		"at":          entry.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if entry.Detail != "" {
		doc["detail"] = entry.Detail
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
