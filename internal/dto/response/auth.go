package response

import (
	"time"

	"marina-ops/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"userId"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      entity.UserRole `json:"role"`
	MarinaID  *string         `json:"marinaId,omitempty"`
}

func NewAuthResponse(user *entity.User, session *entity.Session) *AuthResponse {
	return &AuthResponse{
		UserID:    user.ID.String(),
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		MarinaID:  uuidString(user.MarinaID),
	}
}
