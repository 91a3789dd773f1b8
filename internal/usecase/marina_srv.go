package usecase

import (
	"context"
	"strings"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/internal/dto/request"
	"marina-ops/internal/dto/response"
	"marina-ops/pkg/apperror"
	"marina-ops/pkg/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MarinaService interface {
	// Status is the connectivity lookup used by the booking dispatcher.
	Status(ctx context.Context, marinaID uuid.UUID) (*entity.Marina, error)

	GetStatus(ctx context.Context, auth entity.AuthContext, marinaID string) (*response.MarinaResponse, error)
	SetConnectivity(ctx context.Context, auth entity.AuthContext, marinaID string, req *request.SetConnectivityRequest) (*response.MarinaResponse, error)
	ListPendingOperations(ctx context.Context, auth entity.AuthContext, marinaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PendingOperationResponse], error)
}

type marinaService struct {
	repo  *repository.Repository
	audit AuditService
	log   *zap.Logger
}

func NewMarinaService(repo *repository.Repository, audit AuditService, log *zap.Logger) MarinaService {
	return &marinaService{
		repo:  repo,
		audit: audit,
		log:   log.With(zap.String("service", "marina")),
	}
}

func (s *marinaService) Status(ctx context.Context, marinaID uuid.UUID) (*entity.Marina, error) {
	marina, err := s.repo.Marina.FindByID(ctx, marinaID)
	if err != nil {
		return nil, errors.Wrapf(err, "look up marina %s", marinaID)
	}
	if marina == nil {
		return nil, apperror.NotFound("Marina %s not found", marinaID)
	}
	return marina, nil
}

func (s *marinaService) GetStatus(ctx context.Context, auth entity.AuthContext, marinaID string) (*response.MarinaResponse, error) {
	id, err := s.authorize(auth, entity.PermissionRead, marinaID)
	if err != nil {
		return nil, err
	}

	marina, err := s.Status(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.MarinaToResponse(marina)
	return &resp, nil
}

func (s *marinaService) SetConnectivity(ctx context.Context, auth entity.AuthContext, marinaID string, req *request.SetConnectivityRequest) (*response.MarinaResponse, error) {
	if !auth.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	id, err := uuid.Parse(marinaID)
	if err != nil {
		return nil, apperror.Validation(map[string]string{"id": "Must be a valid UUID"})
	}

	previous, err := s.Status(ctx, id)
	if err != nil {
		return nil, err
	}

	marina, err := s.repo.Marina.SetConnectivity(ctx, id, *req.IsOnline)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Marina %s not found", id)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	action := "MARINA_OFFLINE"
	if marina.IsOnline {
		action = "MARINA_ONLINE"
	}
	_ = s.audit.Record(ctx, AuditEntry{
		Auth:       auth,
		EventType:  entity.AuditEventMutation,
		EntityType: entity.EntityTypeMarina,
		EntityID:   marina.ID.String(),
		Action:     action,
		Metadata:   map[string]any{"previousIsOnline": previous.IsOnline, "isOnline": marina.IsOnline},
		MarinaID:   &marina.ID,
	})

	s.log.Info("Marina connectivity changed",
		zap.String("marina_id", marina.ID.String()),
		zap.Bool("is_online", marina.IsOnline),
		zap.String("user_id", auth.UserID.String()),
	)

	resp := response.MarinaToResponse(marina)
	return &resp, nil
}

func (s *marinaService) ListPendingOperations(ctx context.Context, auth entity.AuthContext, marinaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PendingOperationResponse], error) {
	id, err := s.authorize(auth, entity.PermissionRead, marinaID)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}
	if _, err := s.Status(ctx, id); err != nil {
		return nil, err
	}

	ops, err := s.repo.PendingOperation.ListByMarina(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	total, err := s.repo.PendingOperation.CountByMarina(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	data := make([]response.PendingOperationResponse, 0, len(ops))
	for _, op := range ops {
		data = append(data, response.PendingOperationToResponse(op))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// authorize checks permission and marina scope before any lookup.
func (s *marinaService) authorize(auth entity.AuthContext, perm entity.Permission, marinaID string) (uuid.UUID, error) {
	if !auth.Can(perm) {
		return uuid.Nil, apperror.Forbidden("Role %s lacks %s permission", auth.Role, perm)
	}
	id, err := uuid.Parse(strings.TrimSpace(marinaID))
	if err != nil {
		return uuid.Nil, apperror.Validation(map[string]string{"id": "Must be a valid UUID"})
	}
	if !auth.CanAccessMarina(id) {
		return uuid.Nil, apperror.Forbidden("Access to marina %s is not allowed", id)
	}
	return id, nil
}
