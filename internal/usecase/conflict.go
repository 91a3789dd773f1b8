package usecase

import (
	"context"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"

	"github.com/google/uuid"
)

// ConflictChecker finds existing occupancy of a berth. It never writes.
type ConflictChecker struct {
	bookings repository.BookingRepository
}

func NewConflictChecker(bookings repository.BookingRepository) *ConflictChecker {
	return &ConflictChecker{bookings: bookings}
}

// FindConflict returns the earliest non-terminal booking on berthID, other
// than excludeID, whose inclusive range overlaps proposed. It returns nil
// when the berth is free.
func (c *ConflictChecker) FindConflict(ctx context.Context, berthID, excludeID uuid.UUID, proposed entity.DateRange) (*entity.Booking, error) {
	candidates, err := c.bookings.FindNonTerminalByBerth(ctx, berthID)
	if err != nil {
		return nil, err
	}
	return firstOverlap(candidates, excludeID, proposed), nil
}

func firstOverlap(candidates []*entity.Booking, excludeID uuid.UUID, proposed entity.DateRange) *entity.Booking {
	for _, b := range candidates {
		if b.ID == excludeID || b.Status.IsTerminal() {
			continue
		}
		if b.Range().Overlaps(proposed) {
			return b
		}
	}
	return nil
}
