package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"marina-ops/internal/dto/request"
	"marina-ops/internal/usecase"
	"marina-ops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MarinaHandler struct {
	service usecase.MarinaService
	log     *zap.Logger
}

func NewMarinaHandler(service usecase.MarinaService, log *zap.Logger) *MarinaHandler {
	return &MarinaHandler{
		service: service,
		log:     log.With(zap.String("handler", "marina")),
	}
}

// GetStatus handles GET /api/marinas/{id}/status
func (h *MarinaHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	marina, err := h.service.GetStatus(r.Context(), auth, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get marina status")
		return
	}

	utils.ResponseSuccess(w, "Marina status retrieved successfully", marina)
}

// ListPendingOperations handles GET /api/marinas/{id}/pending-operations?page=&perPage=
func (h *MarinaHandler) ListPendingOperations(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := request.PaginatedRequest{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "perPage", 10),
	}

	page, err := h.service.ListPendingOperations(r.Context(), auth, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list pending operations")
		return
	}

	utils.ResponseSuccess(w, "Pending operations retrieved successfully", page)
}

// SetConnectivity handles PUT /api/admin/marinas/{id}/connectivity (admin)
func (h *MarinaHandler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	auth, ok := utils.GetAuthFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.SetConnectivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	marina, err := h.service.SetConnectivity(r.Context(), auth, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "set marina connectivity")
		return
	}

	utils.ResponseSuccess(w, "Marina connectivity updated", marina)
}

// queryInt reads a positive integer query parameter, falling back on absence or garbage.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
