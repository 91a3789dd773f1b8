package utils

import (
	"context"

	"marina-ops/internal/data/entity"
)

type contextKey string

const (
	AuthKey  contextKey = "auth"
	TokenKey contextKey = "token"
)

// SetAuthContext stores the caller identity resolved by the session middleware.
func SetAuthContext(ctx context.Context, auth entity.AuthContext) context.Context {
	return context.WithValue(ctx, AuthKey, auth)
}

func GetAuthFromContext(ctx context.Context) (entity.AuthContext, bool) {
	auth, ok := ctx.Value(AuthKey).(entity.AuthContext)
	return auth, ok
}

// GetTokenFromContext returns the raw session token of the current request.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	ctx = context.WithValue(ctx, TokenKey, token)
	return ctx
}
