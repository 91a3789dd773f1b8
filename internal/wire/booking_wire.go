package wire

import (
	"marina-ops/internal/adaptor"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	// Role permissions and marina scope are checked by the booking service.
	r.Route("/api/bookings/{id}", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/", bookingHandler.GetBooking)
		r.Patch("/", bookingHandler.UpdateBooking)
		r.Delete("/", bookingHandler.DeleteBooking)

		// POST /api/bookings/{id} - confirm, activate, complete, cancel or extend
		r.Post("/", bookingHandler.PerformAction)
	})
}
