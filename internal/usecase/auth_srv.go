package usecase

import (
	"context"
	"time"

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

// ClientInfo is recorded on the session for later inspection.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository // users and sessions
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

var errInvalidCredentials = apperror.New(apperror.KindUnauthorized, "Invalid email or password")

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation(errs)
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, errInvalidCredentials
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.New(apperror.KindUnauthorized, "Account is deactivated")
	}

	// 5. Create session
	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		return nil, apperror.Internal(errors.Wrapf(err, "create session for user %s", user.ID))
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return response.NewAuthResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return apperror.New(apperror.KindUnauthorized, "Invalid token format")
	}

	err = s.repo.Session.Revoke(ctx, tokenUUID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.New(apperror.KindUnauthorized, "Session already ended")
	}
	if err != nil {
		return apperror.Internal(err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}
	if client.UserAgent != "" {
		session.UserAgent = &client.UserAgent
	}
	if client.IPAddress != "" {
		session.IPAddress = &client.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
