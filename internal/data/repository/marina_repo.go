package repository

import (
	"context"
	"errors"
	"fmt"

	"marina-ops/internal/data/entity"
	"marina-ops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MarinaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Marina, error)
	// SetConnectivity flips is_online. Going online also stamps last_sync_at.
	SetConnectivity(ctx context.Context, id uuid.UUID, online bool) (*entity.Marina, error)
}

type marinaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMarinaRepository(db database.PgxIface, log *zap.Logger) MarinaRepository {
	return &marinaRepository{
		db:  db,
		log: log.With(zap.String("repository", "marina")),
	}
}

func (r *marinaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Marina, error) {
	query := `
		SELECT id, name, is_online, last_sync_at, created_at, updated_at
		FROM marinas
		WHERE id = $1
	`

	var marina entity.Marina
	err := r.db.QueryRow(ctx, query, id).Scan(
		&marina.ID,
		&marina.Name,
		&marina.IsOnline,
		&marina.LastSyncAt,
		&marina.CreatedAt,
		&marina.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find marina by ID",
			zap.Error(err),
			zap.String("marina_id", id.String()),
		)
		return nil, fmt.Errorf("find marina by ID %s: %w", id.String(), err)
	}

	return &marina, nil
}

func (r *marinaRepository) SetConnectivity(ctx context.Context, id uuid.UUID, online bool) (*entity.Marina, error) {
	query := `
		UPDATE marinas
		SET is_online = $2,
		    last_sync_at = CASE WHEN $2 THEN NOW() ELSE last_sync_at END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, is_online, last_sync_at, created_at, updated_at
	`

	var marina entity.Marina
	err := r.db.QueryRow(ctx, query, id, online).Scan(
		&marina.ID,
		&marina.Name,
		&marina.IsOnline,
		&marina.LastSyncAt,
		&marina.CreatedAt,
		&marina.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("marina %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to set marina connectivity",
			zap.Error(err),
			zap.String("marina_id", id.String()),
			zap.Bool("online", online),
		)
		return nil, fmt.Errorf("set connectivity for marina %s: %w", id.String(), err)
	}

	return &marina, nil
}
