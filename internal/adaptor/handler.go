package adaptor

import (
	"net/http"

	"marina-ops/internal/usecase"
	"marina-ops/pkg/apperror"
	"marina-ops/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Booking *BookingHandler
	Marina  *MarinaHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Booking: NewBookingHandler(service.Booking, log),
		Marina:  NewMarinaHandler(service.Marina, log),
	}
}

// handleServiceError writes err with the status of its kind. Internal causes
// are logged and never reach the client.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	appErr := apperror.From(err)

	if !apperror.IsExpected(err) {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	} else {
		log.Debug(operation+" rejected",
			zap.String("code", string(appErr.Kind)),
			zap.String("message", appErr.Message))
	}

	utils.ResponseError(w, appErr)
}
