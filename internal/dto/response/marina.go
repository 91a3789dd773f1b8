package response

import (
	"time"

	"marina-ops/internal/data/entity"
)

type MarinaResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsOnline   bool       `json:"isOnline"`
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`
}

type PendingOperationResponse struct {
	ID          string                        `json:"id"`
	Type        entity.OperationType          `json:"type"`
	Status      entity.PendingOperationStatus `json:"status"`
	Priority    int                           `json:"priority"`
	MarinaID    string                        `json:"marinaId"`
	RequestedBy string                        `json:"requestedBy"`
	Payload     entity.OperationPayload       `json:"payload"`
	CreatedAt   time.Time                     `json:"createdAt"`
}

func MarinaToResponse(m *entity.Marina) MarinaResponse {
	return MarinaResponse{
		ID:         m.ID.String(),
		Name:       m.Name,
		IsOnline:   m.IsOnline,
		LastSyncAt: m.LastSyncAt,
	}
}

func PendingOperationToResponse(op *entity.PendingOperation) PendingOperationResponse {
	return PendingOperationResponse{
		ID:          op.ID.String(),
		Type:        op.Type,
		Status:      op.Status,
		Priority:    op.Priority,
		MarinaID:    op.MarinaID.String(),
		RequestedBy: op.RequestedBy.String(),
		Payload:     op.Payload,
		CreatedAt:   op.CreatedAt,
	}
}
