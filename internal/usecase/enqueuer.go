package usecase

import (
	"context"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/apperror"
	"marina-ops/pkg/messaging"
	"marina-ops/pkg/metrics"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PendingOperationQueued is published after a deferred operation is stored.
type PendingOperationQueued struct {
	PendingOperationID string               `json:"pendingOperationId"`
	Type               entity.OperationType `json:"type"`
	Priority           int                  `json:"priority"`
	MarinaID           string               `json:"marinaId"`
	BookingID          string               `json:"bookingId"`
	RequestedBy        string               `json:"requestedBy"`
	CreatedAt          time.Time            `json:"createdAt"`
}

// Enqueuer records booking mutations for a marina that is offline.
type Enqueuer struct {
	ops       repository.PendingOperationRepository
	publisher messaging.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewEnqueuer(ops repository.PendingOperationRepository, publisher messaging.Publisher, log *zap.Logger) *Enqueuer {
	return &Enqueuer{
		ops:       ops,
		publisher: publisher,
		log:       log.With(zap.String("service", "enqueuer")),
		now:       time.Now,
	}
}

func (e *Enqueuer) Enqueue(ctx context.Context, marinaID, userID uuid.UUID, payload entity.OperationPayload) (*entity.PendingOperation, error) {
	op := &entity.PendingOperation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: e.now().UTC(),
		},
		Type:        payload.OperationType(),
		Status:      entity.PendingOperationPending,
		Priority:    payload.OperationType().Priority(),
		MarinaID:    marinaID,
		RequestedBy: userID,
		Payload:     payload,
	}

	if err := e.ops.Create(ctx, op); err != nil {
		return nil, apperror.Internal(errors.Wrap(err, "enqueue pending operation"))
	}
	metrics.PendingOperationsEnqueued.WithLabelValues(string(op.Type)).Inc()

	msg := PendingOperationQueued{
		PendingOperationID: op.ID.String(),
		Type:               op.Type,
		Priority:           op.Priority,
		MarinaID:           marinaID.String(),
		BookingID:          payload.TargetBookingID().String(),
		RequestedBy:        userID.String(),
		CreatedAt:          op.CreatedAt,
	}
	if err := e.publisher.PublishJSON(ctx, messaging.RoutingPendingOperationQueued, msg); err != nil {
		e.log.Warn("Failed to publish queued notification",
			zap.Error(err),
			zap.String("pending_operation_id", op.ID.String()),
		)
	}

	e.log.Info("Pending operation queued",
		zap.String("pending_operation_id", op.ID.String()),
		zap.String("operation_type", string(op.Type)),
		zap.Int("priority", op.Priority),
		zap.String("marina_id", marinaID.String()),
	)

	return op, nil
}
