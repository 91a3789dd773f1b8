package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditEventType string

const (
	AuditEventRead     AuditEventType = "READ"
	AuditEventMutation AuditEventType = "MUTATION"
	AuditEventQueued   AuditEventType = "QUEUED"
	AuditEventError    AuditEventType = "ERROR"
)

const (
	EntityTypeBooking = "Booking"
	EntityTypeMarina  = "Marina"
)

// AuditEvent is an append-only record of one operation outcome.
type AuditEvent struct {
	ID         uuid.UUID      `bson:"_id"`
	UserID     uuid.UUID      `bson:"user_id"`
	EventType  AuditEventType `bson:"event_type"`
	EntityType string         `bson:"entity_type"`
	EntityID   string         `bson:"entity_id"`
	Action     string         `bson:"action"`
	Metadata   string         `bson:"metadata"`
	MarinaID   *uuid.UUID     `bson:"marina_id,omitempty"`
	Timestamp  time.Time      `bson:"timestamp"`
}
