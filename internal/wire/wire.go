// internal/wire/wire.go
package wire

import (
	"net/http"

	"marina-ops/internal/adaptor"
	"marina-ops/internal/data/repository"
	"marina-ops/internal/usecase"
	"marina-ops/pkg/lock"
	"marina-ops/pkg/messaging"
	"marina-ops/pkg/middleware"
	"marina-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring builds services and handlers and mounts every route
func Wiring(
	repo *repository.Repository,
	locker lock.Locker,
	publisher messaging.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, locker, publisher, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireMarina(r, handler.Marina, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
