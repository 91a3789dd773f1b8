package repository

import (
	"errors"

	"marina-ops/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("not found")
	// ErrOverlap is returned when the store rejects a double-booked berth.
	ErrOverlap = errors.New("berth already booked for an overlapping range")
)

const pgExclusionViolation = "23P01"

type Repository struct {
	User             UserRepository
	Session          SessionRepository
	Marina           MarinaRepository
	Booking          BookingRepository
	Invoice          InvoiceRepository
	PendingOperation PendingOperationRepository
	Audit            AuditRepository
}

func NewRepository(db database.PgxIface, auditDB *mongo.Database, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(db, log),
		Session:          NewSessionRepository(db, log),
		Marina:           NewMarinaRepository(db, log),
		Booking:          NewBookingRepository(db, log),
		Invoice:          NewInvoiceRepository(db, log),
		PendingOperation: NewPendingOperationRepository(db, log),
		Audit:            NewAuditRepository(auditDB, log),
	}
}
