package usecase

import (
	"context"
	"testing"
	"time"

	"marina-ops/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// cancelAwareAuditRepo fails if it observes a cancelled context.
type cancelAwareAuditRepo struct {
	fakeAuditRepo
}

func (r *cancelAwareAuditRepo) Insert(ctx context.Context, event *entity.AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.fakeAuditRepo.Insert(ctx, event)
}

func TestAuditService_Record(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop()).(*auditService)
	now := time.Date(2024, 2, 5, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	marinaID := uuid.New()
	auth := managerOf(marinaID)

	err := svc.Record(context.Background(), AuditEntry{
		Auth:       auth,
		EventType:  entity.AuditEventMutation,
		EntityType: entity.EntityTypeBooking,
		EntityID:   "b1",
		Action:     "CONFIRM",
		Metadata:   map[string]any{"newStatus": entity.BookingStatusConfirmed},
		MarinaID:   &marinaID,
	})

	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	event := repo.events[0]
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, auth.UserID, event.UserID)
	assert.Equal(t, "CONFIRM", event.Action)
	assert.Equal(t, now, event.Timestamp)
	assert.JSONEq(t, `{"newStatus":"CONFIRMED"}`, event.Metadata)
	assert.Equal(t, &marinaID, event.MarinaID)
}

func TestAuditService_SurvivesCancelledRequest(t *testing.T) {
	repo := &cancelAwareAuditRepo{}
	svc := NewAuditService(repo, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Record(ctx, AuditEntry{Action: "EXTEND_ERROR", EventType: entity.AuditEventError})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "{}", repo.events[0].Metadata)
}

func TestAuditService_ReturnsWriteFailure(t *testing.T) {
	repo := &fakeAuditRepo{err: errStoreDown}
	svc := NewAuditService(repo, zap.NewNop())

	err := svc.Record(context.Background(), AuditEntry{Action: "READ", EventType: entity.AuditEventRead})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestEncodeMetadata(t *testing.T) {
	assert.Equal(t, "{}", encodeMetadata(nil))
	assert.Equal(t, "{}", encodeMetadata(map[string]any{"bad": make(chan int)}))
	assert.JSONEq(t, `{"a":1}`, encodeMetadata(map[string]any{"a": 1}))
}
