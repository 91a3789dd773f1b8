package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OperationType string

const (
	OperationBookingUpdate   OperationType = "BOOKING_UPDATE"
	OperationBookingCancel   OperationType = "BOOKING_CANCEL"
	OperationBookingConfirm  OperationType = "BOOKING_CONFIRM"
	OperationBookingActivate OperationType = "BOOKING_ACTIVATE"
	OperationBookingComplete OperationType = "BOOKING_COMPLETE"
	OperationBookingExtend   OperationType = "BOOKING_EXTEND"
)

// Priority of a deferred operation; lower is more urgent.
func (t OperationType) Priority() int {
	switch t {
	case OperationBookingCancel:
		return 2
	case OperationBookingConfirm, OperationBookingActivate, OperationBookingExtend:
		return 3
	case OperationBookingComplete:
		return 4
	default:
		return 5
	}
}

type PendingOperationStatus string

const (
	PendingOperationPending   PendingOperationStatus = "PENDING"
	PendingOperationApplied   PendingOperationStatus = "APPLIED"
	PendingOperationFailed    PendingOperationStatus = "FAILED"
	PendingOperationDiscarded PendingOperationStatus = "DISCARDED"
)

// PendingOperation is a booking mutation deferred until its marina reconnects.
type PendingOperation struct {
	BaseSimple
	Type        OperationType          `db:"operation_type"`
	Status      PendingOperationStatus `db:"status"`
	Priority    int                    `db:"priority"`
	MarinaID    uuid.UUID              `db:"marina_id"`
	RequestedBy uuid.UUID              `db:"requested_by"`
	Payload     OperationPayload       `db:"payload"`
}

// OperationPayload is the typed body of a pending operation. Each concrete
// payload maps to exactly one OperationType.
type OperationPayload interface {
	OperationType() OperationType
	TargetBookingID() uuid.UUID
}

// StatusTransitionPayload covers confirm, activate, complete and cancel.
type StatusTransitionPayload struct {
	Type      OperationType `json:"-"`
	BookingID uuid.UUID     `json:"bookingId"`
	From      BookingStatus `json:"from"`
	To        BookingStatus `json:"to"`
	Reason    *string       `json:"reason,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
}

func (p StatusTransitionPayload) OperationType() OperationType { return p.Type }
func (p StatusTransitionPayload) TargetBookingID() uuid.UUID   { return p.BookingID }

type ExtendPayload struct {
	BookingID  uuid.UUID `json:"bookingId"`
	OldEndDate time.Time `json:"oldEndDate"`
	NewEndDate time.Time `json:"newEndDate"`
	Notes      *string   `json:"notes,omitempty"`
}

func (p ExtendPayload) OperationType() OperationType { return OperationBookingExtend }
func (p ExtendPayload) TargetBookingID() uuid.UUID   { return p.BookingID }

type UpdatePayload struct {
	BookingID uuid.UUID      `json:"bookingId"`
	Changes   BookingChanges `json:"changes"`
}

func (p UpdatePayload) OperationType() OperationType { return OperationBookingUpdate }
func (p UpdatePayload) TargetBookingID() uuid.UUID   { return p.BookingID }

type payloadEnvelope struct {
	Type OperationType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodePayload serializes p into the stored {"type", "data"} envelope.
func EncodePayload(p OperationPayload) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", p.OperationType(), err)
	}
	return json.Marshal(payloadEnvelope{Type: p.OperationType(), Data: data})
}

// DecodePayload restores the concrete payload type named by the envelope.
func DecodePayload(raw []byte) (OperationPayload, error) {
	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unmarshal payload envelope: %w", err)
	}

	switch env.Type {
	case OperationBookingConfirm, OperationBookingActivate, OperationBookingComplete, OperationBookingCancel:
		var p StatusTransitionPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
		}
		p.Type = env.Type
		return p, nil
	case OperationBookingExtend:
		var p ExtendPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
		}
		return p, nil
	case OperationBookingUpdate:
		var p UpdatePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, fmt.Errorf("unmarshal %s payload: %w", env.Type, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown operation type %q", env.Type)
	}
}

// OperationTypeFor maps a dispatcher action to the queued operation type.
func OperationTypeFor(action BookingAction) OperationType {
	switch action {
	case ActionConfirm:
		return OperationBookingConfirm
	case ActionActivate:
		return OperationBookingActivate
	case ActionComplete:
		return OperationBookingComplete
	case ActionCancel, ActionDelete:
		return OperationBookingCancel
	case ActionExtend:
		return OperationBookingExtend
	default:
		return OperationBookingUpdate
	}
}
