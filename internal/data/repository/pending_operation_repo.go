package repository

import (
	"context"
	"fmt"

	"marina-ops/internal/data/entity"
	"marina-ops/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PendingOperationRepository interface {
	Create(ctx context.Context, op *entity.PendingOperation) error
	// ListByMarina returns PENDING operations in replay order: priority, then age.
	ListByMarina(ctx context.Context, marinaID uuid.UUID, limit, offset int) ([]*entity.PendingOperation, error)
	CountByMarina(ctx context.Context, marinaID uuid.UUID) (int64, error)
}

type pendingOperationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPendingOperationRepository(db database.PgxIface, log *zap.Logger) PendingOperationRepository {
	return &pendingOperationRepository{
		db:  db,
		log: log.With(zap.String("repository", "pending_operation")),
	}
}

func (r *pendingOperationRepository) Create(ctx context.Context, op *entity.PendingOperation) error {
	payload, err := entity.EncodePayload(op.Payload)
	if err != nil {
		return fmt.Errorf("encode pending operation payload: %w", err)
	}

	query := `
		INSERT INTO pending_operations (id, operation_type, status, priority, marina_id,
		                                requested_by, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Exec(ctx, query,
		op.ID,
		op.Type,
		op.Status,
		op.Priority,
		op.MarinaID,
		op.RequestedBy,
		payload,
		op.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create pending operation",
			zap.Error(err),
			zap.String("operation_type", string(op.Type)),
			zap.String("marina_id", op.MarinaID.String()),
		)
		return fmt.Errorf("create pending operation: %w", err)
	}

	return nil
}

func (r *pendingOperationRepository) ListByMarina(ctx context.Context, marinaID uuid.UUID, limit, offset int) ([]*entity.PendingOperation, error) {
	query := `
		SELECT id, operation_type, status, priority, marina_id, requested_by, payload, created_at
		FROM pending_operations
		WHERE marina_id = $1 AND status = $2
		ORDER BY priority, created_at
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, marinaID, entity.PendingOperationPending, limit, offset)
	if err != nil {
		r.log.Error("Failed to list pending operations",
			zap.Error(err),
			zap.String("marina_id", marinaID.String()),
		)
		return nil, fmt.Errorf("list pending operations for marina %s: %w", marinaID.String(), err)
	}
	defer rows.Close()

	var ops []*entity.PendingOperation
	for rows.Next() {
		var (
			op  entity.PendingOperation
			raw []byte
		)
		err := rows.Scan(
			&op.ID,
			&op.Type,
			&op.Status,
			&op.Priority,
			&op.MarinaID,
			&op.RequestedBy,
			&raw,
			&op.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan pending operation row", zap.Error(err))
			return nil, fmt.Errorf("scan pending operation row: %w", err)
		}
		if op.Payload, err = entity.DecodePayload(raw); err != nil {
			r.log.Error("Failed to decode pending operation payload",
				zap.Error(err),
				zap.String("pending_operation_id", op.ID.String()),
			)
			return nil, fmt.Errorf("decode pending operation %s: %w", op.ID.String(), err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending operation rows: %w", err)
	}

	return ops, nil
}

func (r *pendingOperationRepository) CountByMarina(ctx context.Context, marinaID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM pending_operations WHERE marina_id = $1 AND status = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, marinaID, entity.PendingOperationPending).Scan(&count); err != nil {
		r.log.Error("Failed to count pending operations",
			zap.Error(err),
			zap.String("marina_id", marinaID.String()),
		)
		return 0, fmt.Errorf("count pending operations for marina %s: %w", marinaID.String(), err)
	}

	return count, nil
}
