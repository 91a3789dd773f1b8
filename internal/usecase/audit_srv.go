package usecase

import (
	"context"
	"encoding/json"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditWriteTimeout = 5 * time.Second

// AuditEntry is one outcome to be appended to the audit trail.
type AuditEntry struct {
	Auth       entity.AuthContext
	EventType  entity.AuditEventType
	EntityType string
	EntityID   string
	Action     string
	Metadata   map[string]any
	MarinaID   *uuid.UUID
}

type AuditService interface {
	// Record appends entry. A failed write is logged and counted before the
	// error is returned, so callers may ignore it.
	Record(ctx context.Context, entry AuditEntry) error
}

type auditService struct {
	repo repository.AuditRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewAuditService(repo repository.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{
		repo: repo,
		log:  log.With(zap.String("service", "audit")),
		now:  time.Now,
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	event := &entity.AuditEvent{
		ID:         uuid.New(),
		UserID:     entry.Auth.UserID,
		EventType:  entry.EventType,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Metadata:   encodeMetadata(entry.Metadata),
		MarinaID:   entry.MarinaID,
		Timestamp:  s.now().UTC(),
	}

	// The trail must survive a cancelled or timed out request.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.repo.Insert(ctx, event); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.log.Error("Audit write failed",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
			zap.String("user_id", event.UserID.String()),
			zap.String("event_type", string(event.EventType)),
			zap.String("entity_type", event.EntityType),
			zap.String("entity_id", event.EntityID),
			zap.String("action", event.Action),
			zap.String("metadata", event.Metadata),
		)
		return err
	}

	return nil
}

func encodeMetadata(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
