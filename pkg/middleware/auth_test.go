package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type sessionStub struct{ sessions map[uuid.UUID]*entity.Session }

func (s sessionStub) Create(context.Context, *entity.Session) error { return nil }
func (s sessionStub) Revoke(context.Context, uuid.UUID) error       { return nil }
func (s sessionStub) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	return s.sessions[token], nil
}

type userStub struct{ users map[uuid.UUID]*entity.User }

func (u userStub) FindByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (u userStub) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return u.users[id], nil
}

func TestAuthSession(t *testing.T) {
	marinaID := uuid.New()
	active := &entity.User{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Role: entity.RoleStaff, MarinaID: &marinaID, IsActive: true}
	disabled := &entity.User{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Role: entity.RoleAdmin}

	valid, expired, orphan := uuid.New(), uuid.New(), uuid.New()
	sessions := sessionStub{sessions: map[uuid.UUID]*entity.Session{
		valid:   {UserID: active.ID, Token: valid, ExpiresAt: time.Now().Add(time.Hour)},
		expired: {UserID: active.ID, Token: expired, ExpiresAt: time.Now().Add(-time.Minute)},
		orphan:  {UserID: disabled.ID, Token: orphan, ExpiresAt: time.Now().Add(time.Hour)},
	}}
	users := userStub{users: map[uuid.UUID]*entity.User{active.ID: active, disabled.ID: disabled}}

	var seen entity.AuthContext
	var seenToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetAuthFromContext(r.Context())
		seenToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthSession(sessions, users, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid.String(), http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", http.StatusUnauthorized},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"expired", "Bearer " + expired.String(), http.StatusUnauthorized},
		{"inactive user", "Bearer " + orphan.String(), http.StatusUnauthorized},
		{"valid", "Bearer " + valid.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, active.ID, seen.UserID)
	assert.Equal(t, entity.RoleStaff, seen.Role)
	assert.Equal(t, &marinaID, seen.MarinaID)
	assert.Equal(t, valid.String(), seenToken)
}

func TestAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := Admin(zap.NewNop())(next)

	serve := func(auth *entity.AuthContext) int {
		req := httptest.NewRequest(http.MethodPut, "/api/admin/marinas/x/connectivity", nil)
		if auth != nil {
			req = req.WithContext(utils.SetAuthContext(req.Context(), *auth))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&entity.AuthContext{Role: entity.RoleManager}))
	assert.Equal(t, http.StatusNoContent, serve(&entity.AuthContext{Role: entity.RoleAdmin}))
}
