package usecase

import (
	"context"
	"testing"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/dto/request"
	"marina-ops/pkg/apperror"
	"marina-ops/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, h *harness, email, password string, active bool) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	marinaID := uuid.New()
	u := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Email:        email,
		Name:         "Harbour Master",
		PasswordHash: hash,
		Role:         entity.RoleManager,
		MarinaID:     &marinaID,
		IsActive:     active,
	}
	h.users.byEmail[email] = u
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	now := day("2024-02-01")
	h := newHarness(t, now, nil)
	user := seedUser(t, h, "master@harbour.test", "s3cret-pass", true)
	seedUser(t, h, "former@harbour.test", "s3cret-pass", false)

	t.Run("valid credentials open a session", func(t *testing.T) {
		res, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "s3cret-pass"}, ClientInfo{UserAgent: "curl", IPAddress: "10.0.0.1"})

		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), res.UserID)
		assert.Equal(t, entity.RoleManager, res.Role)
		assert.Equal(t, now.Add(24*time.Hour), res.ExpiresAt)

		token, err := uuid.Parse(res.Token)
		require.NoError(t, err)
		session := h.sessions.byToken[token]
		require.NotNil(t, session)
		assert.Equal(t, "10.0.0.1", *session.IPAddress)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "wrong-pass"}, ClientInfo{})
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("unknown email reads the same", func(t *testing.T) {
		_, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@harbour.test", Password: "whatever"}, ClientInfo{})
		assert.Equal(t, apperror.From(err).Message, "Invalid email or password")
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: "former@harbour.test", Password: "s3cret-pass"}, ClientInfo{})
		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: "not-an-email"}, ClientInfo{})
		appErr := apperror.From(err)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Fields, "email")
		assert.Contains(t, appErr.Fields, "password")
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, day("2024-02-01"), nil)
	user := seedUser(t, h, "master@harbour.test", "s3cret-pass", true)

	res, err := h.service.Auth.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "s3cret-pass"}, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, h.service.Auth.Logout(ctx, res.Token))

	err = h.service.Auth.Logout(ctx, res.Token)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))

	err = h.service.Auth.Logout(ctx, "garbage")
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}
