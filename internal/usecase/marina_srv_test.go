package usecase

import (
	"context"
	"testing"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/dto/request"
	"marina-ops/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestMarinaService_SetConnectivity(t *testing.T) {
	ctx := context.Background()
	admin := entity.AuthContext{UserID: uuid.New(), Role: entity.RoleAdmin}

	t.Run("admin brings marina online", func(t *testing.T) {
		marina := newMarina(false)
		h := newHarness(t, day("2024-02-01"), []*entity.Marina{marina})

		res, err := h.service.Marina.SetConnectivity(ctx, admin, marina.ID.String(), &request.SetConnectivityRequest{IsOnline: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, res.IsOnline)
		assert.NotNil(t, res.LastSyncAt)
		require.Len(t, h.audits.events, 1)
		assert.Equal(t, "MARINA_ONLINE", h.audits.events[0].Action)
		assert.Equal(t, entity.EntityTypeMarina, h.audits.events[0].EntityType)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		marina := newMarina(true)
		h := newHarness(t, day("2024-02-01"), []*entity.Marina{marina})

		_, err := h.service.Marina.SetConnectivity(ctx, managerOf(marina.ID), marina.ID.String(), &request.SetConnectivityRequest{IsOnline: boolPtr(false)})
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
		assert.True(t, h.marinas.byID[marina.ID].IsOnline)
	})

	t.Run("missing flag", func(t *testing.T) {
		marina := newMarina(true)
		h := newHarness(t, day("2024-02-01"), []*entity.Marina{marina})

		_, err := h.service.Marina.SetConnectivity(ctx, admin, marina.ID.String(), &request.SetConnectivityRequest{})
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("unknown marina", func(t *testing.T) {
		h := newHarness(t, day("2024-02-01"), nil)

		_, err := h.service.Marina.SetConnectivity(ctx, admin, uuid.NewString(), &request.SetConnectivityRequest{IsOnline: boolPtr(true)})
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestMarinaService_Connectivity_TogglesDispatch(t *testing.T) {
	ctx := context.Background()
	admin := entity.AuthContext{UserID: uuid.New(), Role: entity.RoleAdmin}
	marina := newMarina(false)
	b := newBooking(marina.ID, uuid.New(), "2024-02-01", "2024-02-10", entity.BookingStatusPending)
	h := newHarness(t, day("2024-01-10"), []*entity.Marina{marina}, b)
	confirm := &request.BookingActionRequest{Action: "confirm"}

	res, err := h.service.Booking.PerformAction(ctx, admin, b.ID.String(), confirm)
	require.NoError(t, err)
	assert.Equal(t, OutcomeQueued, res.Outcome)

	_, err = h.service.Marina.SetConnectivity(ctx, admin, marina.ID.String(), &request.SetConnectivityRequest{IsOnline: boolPtr(true)})
	require.NoError(t, err)

	res, err = h.service.Booking.PerformAction(ctx, admin, b.ID.String(), confirm)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.Equal(t, entity.BookingStatusConfirmed, h.bookings.get(b.ID).Status)
}

func TestMarinaService_GetStatus(t *testing.T) {
	ctx := context.Background()
	marina := newMarina(true)
	h := newHarness(t, day("2024-02-01"), []*entity.Marina{marina})

	res, err := h.service.Marina.GetStatus(ctx, managerOf(marina.ID), marina.ID.String())
	require.NoError(t, err)
	assert.Equal(t, marina.ID.String(), res.ID)
	assert.True(t, res.IsOnline)

	_, err = h.service.Marina.GetStatus(ctx, managerOf(uuid.New()), marina.ID.String())
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = h.service.Marina.GetStatus(ctx, managerOf(marina.ID), "nope")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestMarinaService_ListPendingOperations(t *testing.T) {
	ctx := context.Background()
	marina := newMarina(false)
	auth := managerOf(marina.ID)
	b1 := newBooking(marina.ID, uuid.New(), "2024-02-01", "2024-02-10", entity.BookingStatusPending)
	b2 := newBooking(marina.ID, uuid.New(), "2024-02-01", "2024-02-10", entity.BookingStatusConfirmed)
	h := newHarness(t, day("2024-01-10"), []*entity.Marina{marina}, b1, b2)

	_, err := h.service.Booking.PerformAction(ctx, auth, b1.ID.String(), &request.BookingActionRequest{Action: "confirm"})
	require.NoError(t, err)
	_, err = h.service.Booking.PerformAction(ctx, auth, b2.ID.String(), &request.BookingActionRequest{Action: "cancel"})
	require.NoError(t, err)

	page, err := h.service.Marina.ListPendingOperations(ctx, auth, marina.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	_, err = h.service.Marina.ListPendingOperations(ctx, auth, marina.ID.String(), &request.PaginatedRequest{Page: 0, PerPage: 10})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
