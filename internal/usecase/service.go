package usecase

import (
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/lock"
	"marina-ops/pkg/messaging"
	"marina-ops/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	Audit   AuditService
	Marina  MarinaService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	locker lock.Locker,
	publisher messaging.Publisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	audit := NewAuditService(repo.Audit, log)
	marinas := NewMarinaService(repo, audit, log)

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Audit:   audit,
		Marina:  marinas,
		Booking: NewBookingService(repo, audit, marinas, NewEnqueuer(repo.PendingOperation, publisher, log), locker, config, log),
	}
}
