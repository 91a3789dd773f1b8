package wire

import (
	"marina-ops/internal/adaptor"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMarina(
	r chi.Router,
	marinaHandler *adaptor.MarinaHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/marinas/{id}/status", marinaHandler.GetStatus)
		r.Get("/api/marinas/{id}/pending-operations", marinaHandler.ListPendingOperations)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/marinas", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// PUT /api/admin/marinas/{id}/connectivity - flip the online flag
		r.Put("/{id}/connectivity", marinaHandler.SetConnectivity)
	})
}
