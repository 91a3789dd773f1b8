package usecase

import (
	"context"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/pkg/apperror"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// BookingMutator applies approved changes directly to the primary store.
type BookingMutator struct {
	bookings repository.BookingRepository
}

func NewBookingMutator(bookings repository.BookingRepository) *BookingMutator {
	return &BookingMutator{bookings: bookings}
}

// Apply performs exactly one write and does not retry.
func (m *BookingMutator) Apply(ctx context.Context, bookingID uuid.UUID, changes entity.BookingChanges) (*entity.Booking, error) {
	updated, err := m.bookings.ApplyChanges(ctx, bookingID, changes)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperror.NotFound("Booking %s no longer exists", bookingID)
	case errors.Is(err, repository.ErrOverlap):
		return nil, apperror.Conflict("Berth is already booked for an overlapping date range")
	default:
		return nil, errors.Wrapf(err, "apply changes to booking %s", bookingID)
	}
}
