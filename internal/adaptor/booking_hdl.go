package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"marina-ops/internal/dto/request"
	"marina-ops/internal/dto/response"
	"marina-ops/internal/usecase"
	"marina-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	detail, err := h.service.GetBooking(r.Context(), auth, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "Booking retrieved successfully", detail)
}

// UpdateBooking handles PATCH /api/bookings/{id}
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.UpdateBooking(r.Context(), auth, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update booking")
		return
	}

	h.writeDispatchResult(w, result, "Booking updated successfully")
}

// DeleteBooking handles DELETE /api/bookings/{id}. The body is optional.
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.DeleteBookingRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.service.DeleteBooking(r.Context(), auth, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "delete booking")
		return
	}

	h.writeDispatchResult(w, result, "Booking cancelled successfully")
}

// PerformAction handles POST /api/bookings/{id}
func (h *BookingHandler) PerformAction(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookingActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.PerformAction(r.Context(), auth, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, req.Action+" booking")
		return
	}

	h.writeDispatchResult(w, result, "Booking "+req.Action+" applied successfully")
}

// writeDispatchResult answers 200 with the booking or 202 with the queued operation.
func (h *BookingHandler) writeDispatchResult(w http.ResponseWriter, result *usecase.DispatchResult, message string) {
	if result.Outcome == usecase.OutcomeQueued {
		op := response.PendingOperationToResponse(result.PendingOperation)
		utils.ResponseAccepted(w, "Marina is offline. Operation queued for synchronization", response.QueuedResponse{
			PendingOperationID: op.ID,
			PendingOperation:   op,
		})
		return
	}

	utils.ResponseSuccess(w, message, response.BookingToResponse(result.Booking))
}
