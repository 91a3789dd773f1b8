package usecase

import (
	"context"
	"testing"

	"marina-ops/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConflict(t *testing.T) {
	ctx := context.Background()
	marinaID, berth := uuid.New(), uuid.New()

	self := newBooking(marinaID, berth, "2024-02-01", "2024-02-10", entity.BookingStatusConfirmed)
	early := newBooking(marinaID, berth, "2024-02-12", "2024-02-14", entity.BookingStatusPending)
	late := newBooking(marinaID, berth, "2024-02-18", "2024-02-25", entity.BookingStatusActive)
	cancelled := newBooking(marinaID, berth, "2024-02-11", "2024-02-28", entity.BookingStatusCancelled)
	elsewhere := newBooking(marinaID, uuid.New(), "2024-02-11", "2024-02-28", entity.BookingStatusActive)

	checker := NewConflictChecker(newFakeBookingRepo(self, early, late, cancelled, elsewhere))

	tests := []struct {
		name     string
		proposed entity.DateRange
		want     *entity.Booking
	}{
		{"free window", entity.DateRange{Start: day("2024-02-01"), End: day("2024-02-11")}, nil},
		{"touching end day is occupied", entity.DateRange{Start: day("2024-02-01"), End: day("2024-02-12")}, early},
		{"earliest overlap wins", entity.DateRange{Start: day("2024-02-01"), End: day("2024-02-20")}, early},
		{"only later booking", entity.DateRange{Start: day("2024-02-15"), End: day("2024-02-19")}, late},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.FindConflict(ctx, berth, self.ID, tt.proposed)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.ID, got.ID)
		})
	}
}

func TestFindConflict_ExcludesSelf(t *testing.T) {
	marinaID, berth := uuid.New(), uuid.New()
	self := newBooking(marinaID, berth, "2024-02-01", "2024-02-10", entity.BookingStatusActive)
	checker := NewConflictChecker(newFakeBookingRepo(self))

	got, err := checker.FindConflict(context.Background(), berth, self.ID, self.Range())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFirstOverlap_SkipsTerminal(t *testing.T) {
	marinaID, berth := uuid.New(), uuid.New()
	done := newBooking(marinaID, berth, "2024-02-01", "2024-02-10", entity.BookingStatusCompleted)

	got := firstOverlap([]*entity.Booking{done}, uuid.New(), done.Range())
	assert.Nil(t, got)
}
