package repository

import (
	"context"
	"fmt"

	"marina-ops/internal/data/entity"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const auditCollection = "audit_events"

// AuditRepository is append-only: events are inserted and never updated.
type AuditRepository interface {
	Insert(ctx context.Context, event *entity.AuditEvent) error
}

type auditRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewAuditRepository(db *mongo.Database, log *zap.Logger) AuditRepository {
	return &auditRepository{
		coll: db.Collection(auditCollection),
		log:  log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Insert(ctx context.Context, event *entity.AuditEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		r.log.Error("Failed to insert audit event",
			zap.Error(err),
			zap.String("action", event.Action),
			zap.String("entity_id", event.EntityID),
		)
		return fmt.Errorf("insert audit event %s: %w", event.Action, err)
	}
	return nil
}
