package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marina-ops/internal/data/repository"
	"marina-ops/pkg/messaging"
	"marina-ops/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	config := &utils.Config{Booking: utils.BookingConfig{RequestTimeout: time.Second}}
	app := Wiring(&repository.Repository{}, nil, messaging.NoopPublisher{}, config, zap.NewNop())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/bookings/3b0d7c1e-0000-4000-8000-000000000001", http.StatusUnauthorized},
		{http.MethodPost, "/api/bookings/3b0d7c1e-0000-4000-8000-000000000001", http.StatusUnauthorized},
		{http.MethodGet, "/api/marinas/3b0d7c1e-0000-4000-8000-000000000001/status", http.StatusUnauthorized},
		{http.MethodPut, "/api/admin/marinas/3b0d7c1e-0000-4000-8000-000000000001/connectivity", http.StatusUnauthorized},
		{http.MethodPost, "/api/logout", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
