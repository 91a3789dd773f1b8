package usecase

import (
	"context"
	"strings"
	"time"

	"marina-ops/internal/data/entity"
	"marina-ops/internal/data/repository"
	"marina-ops/internal/dto/request"
	"marina-ops/internal/dto/response"
	"marina-ops/pkg/apperror"
	"marina-ops/pkg/lock"
	"marina-ops/pkg/metrics"
	"marina-ops/pkg/utils"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type DispatchOutcome string

const (
	OutcomeApplied DispatchOutcome = "APPLIED"
	OutcomeQueued  DispatchOutcome = "QUEUED"
)

// DispatchResult tells an applied mutation apart from a deferred one.
// Booking is the updated record when applied and the untouched record when
// queued; PendingOperation is set only when queued.
type DispatchResult struct {
	Outcome          DispatchOutcome
	Booking          *entity.Booking
	PendingOperation *entity.PendingOperation
}

type BookingService interface {
	GetBooking(ctx context.Context, auth entity.AuthContext, bookingID string) (*response.BookingDetailResponse, error)
	UpdateBooking(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.UpdateBookingRequest) (*DispatchResult, error)
	// DeleteBooking cancels; bookings are never removed.
	DeleteBooking(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.DeleteBookingRequest) (*DispatchResult, error)
	PerformAction(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.BookingActionRequest) (*DispatchResult, error)
}

type bookingService struct {
	repo      *repository.Repository
	audit     AuditService
	marinas   MarinaService
	conflicts *ConflictChecker
	mutator   *BookingMutator
	enqueuer  *Enqueuer
	locker    lock.Locker
	timeout   time.Duration
	tracer    trace.Tracer
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	audit AuditService,
	marinas MarinaService,
	enqueuer *Enqueuer,
	locker lock.Locker,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:      repo,
		audit:     audit,
		marinas:   marinas,
		conflicts: NewConflictChecker(repo.Booking),
		mutator:   NewBookingMutator(repo.Booking),
		enqueuer:  enqueuer,
		locker:    locker,
		timeout:   config.Booking.RequestTimeout,
		tracer:    otel.Tracer("marina-ops/booking"),
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

// mutation is what a validated action wants to do to one booking.
type mutation struct {
	changes  entity.BookingChanges   // written when the marina is online
	payload  entity.OperationPayload // queued when it is offline
	berthID  uuid.UUID
	proposed *entity.DateRange // non-nil when occupancy must be re-checked
	metadata map[string]any
}

// dispatchScope collects what the error audit needs as the dispatch progresses.
type dispatchScope struct {
	bookingID string
	marinaID  *uuid.UUID
}

func (s *bookingService) GetBooking(ctx context.Context, auth entity.AuthContext, bookingID string) (*response.BookingDetailResponse, error) {
	var detail *response.BookingDetailResponse

	err := s.run(ctx, auth, entity.ActionRead, entity.PermissionRead, bookingID, func(ctx context.Context, scope *dispatchScope) error {
		id, err := parseBookingID(bookingID)
		if err != nil {
			return err
		}

		var (
			booking  *entity.Booking
			invoices []*entity.Invoice
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			booking, err = s.repo.Booking.FindByID(gctx, id)
			return err
		})
		g.Go(func() error {
			var err error
			invoices, err = s.repo.Invoice.FindByBookingID(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return errors.Wrapf(err, "load booking %s", id)
		}
		if booking == nil {
			return apperror.NotFound("Booking %s not found", id)
		}
		scope.marinaID = &booking.MarinaID

		if !auth.CanAccessMarina(booking.MarinaID) {
			return apperror.Forbidden("Access to marina %s is not allowed", booking.MarinaID)
		}
		booking.Invoices = invoices

		marina, err := s.marinas.Status(ctx, booking.MarinaID)
		if err != nil {
			return err
		}

		detail = response.BookingToDetailResponse(booking, marina, s.now())

		_ = s.audit.Record(ctx, AuditEntry{
			Auth:       auth,
			EventType:  entity.AuditEventRead,
			EntityType: entity.EntityTypeBooking,
			EntityID:   booking.ID.String(),
			Action:     auditAction(entity.ActionRead),
			Metadata:   map[string]any{"status": booking.Status, "calculatedStatus": detail.CalculatedStatus},
			MarinaID:   &booking.MarinaID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return detail, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.UpdateBookingRequest) (*DispatchResult, error) {
	if err := s.authorize(auth, entity.ActionUpdate, entity.PermissionUpdate); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation(errs)
	}
	changes, err := req.ToChanges()
	if err != nil {
		return nil, apperror.Validation(map[string]string{"body": err.Error()})
	}
	if changes.IsEmpty() {
		return nil, apperror.Validation(map[string]string{"body": "At least one field must be provided"})
	}
	if changes.Status != nil && !changes.StatusOnly() {
		return nil, apperror.Validation(map[string]string{"status": "Status can only be changed on its own or with notes"})
	}

	cancelling := changes.Status != nil && *changes.Status == entity.BookingStatusCancelled

	return s.dispatch(ctx, auth, entity.ActionUpdate, entity.PermissionUpdate, bookingID, cancelling, func(b *entity.Booking) (*mutation, error) {
		if !entity.ActionUpdate.Permits(b.Status) {
			return nil, apperror.InvalidState("Cannot update a booking in status %s", b.Status)
		}

		// A status change is the named action it stands for, preconditions included.
		if changes.Status != nil && *changes.Status != b.Status {
			action, ok := entity.ActionForTransition(b.Status, *changes.Status)
			if !ok {
				return nil, apperror.InvalidState("Status transition %s -> %s is not allowed", b.Status, *changes.Status)
			}
			return s.transition(b, action, nil, changes.Notes)
		}

		next := changes.ApplyTo(*b)
		if next.EndDate.Before(next.StartDate) {
			return nil, apperror.Validation(map[string]string{"endDate": "End date must not be before start date"})
		}

		m := &mutation{
			changes:  changes,
			payload:  entity.UpdatePayload{BookingID: b.ID, Changes: changes},
			berthID:  next.BerthID,
			metadata: map[string]any{"previousStatus": b.Status, "changes": changes},
		}
		if changes.TouchesOccupancy() && !next.Status.IsTerminal() {
			proposed := next.Range()
			m.proposed = &proposed
		}
		return m, nil
	})
}

func (s *bookingService) DeleteBooking(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.DeleteBookingRequest) (*DispatchResult, error) {
	if err := s.authorize(auth, entity.ActionDelete, entity.PermissionDelete); err != nil {
		return nil, err
	}
	if req == nil {
		req = &request.DeleteBookingRequest{}
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	return s.dispatch(ctx, auth, entity.ActionDelete, entity.PermissionDelete, bookingID, true, func(b *entity.Booking) (*mutation, error) {
		// Plain deletion is only for bookings that have not begun; started
		// ones go through the cancel action.
		if entity.ActionDelete.Permits(b.Status) && !s.now().Before(b.StartDate) {
			return nil, apperror.InvalidState("Cannot delete booking %s: it started on %s, use the cancel action", b.ID, b.StartDate.Format(entity.DateLayout))
		}
		return s.transition(b, entity.ActionDelete, req.Reason, nil)
	})
}

func (s *bookingService) PerformAction(ctx context.Context, auth entity.AuthContext, bookingID string, req *request.BookingActionRequest) (*DispatchResult, error) {
	action := entity.BookingAction(req.Action)
	label := action
	if !label.Valid() {
		label = "unknown"
	}
	if err := s.authorize(auth, label, entity.PermissionUpdate); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Booking action validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation(errs)
	}

	if action == entity.ActionExtend {
		if req.NewEndDate == nil {
			return nil, apperror.Validation(map[string]string{"newEndDate": "This field is required for this action"})
		}
		newEnd, err := utils.ParseDate(*req.NewEndDate)
		if err != nil {
			return nil, apperror.Validation(map[string]string{"newEndDate": "Must be a date (YYYY-MM-DD) or RFC 3339 timestamp"})
		}
		return s.dispatch(ctx, auth, action, entity.PermissionUpdate, bookingID, false, func(b *entity.Booking) (*mutation, error) {
			return s.extend(b, newEnd, req.Notes)
		})
	}

	return s.dispatch(ctx, auth, action, entity.PermissionUpdate, bookingID, action == entity.ActionCancel, func(b *entity.Booking) (*mutation, error) {
		return s.transition(b, action, req.Reason, req.Notes)
	})
}

// transition validates a named status change and builds its mutation.
func (s *bookingService) transition(b *entity.Booking, action entity.BookingAction, reason, notes *string) (*mutation, error) {
	target := action.TargetStatus()
	if !action.Permits(b.Status) {
		return nil, apperror.InvalidState("Cannot %s booking: transition %s -> %s is not allowed", action, b.Status, target)
	}

	switch action {
	case entity.ActionActivate:
		if s.now().Before(b.StartDate) {
			return nil, apperror.InvalidState("Cannot activate booking before its start date %s", b.StartDate.Format(entity.DateLayout))
		}
	case entity.ActionCancel, entity.ActionDelete:
		if ids := entity.OutstandingInvoiceIDs(b.Invoices); len(ids) > 0 {
			return nil, apperror.InvalidState("Cannot cancel booking with %d unpaid invoice(s)", len(ids)).
				WithDetails(response.NewOutstandingInvoicesDetails(ids))
		}
	}

	changes := entity.BookingChanges{Status: &target, Notes: notes}
	metadata := map[string]any{"previousStatus": b.Status, "newStatus": target}
	if reason != nil {
		metadata["reason"] = *reason
	}

	return &mutation{
		changes: changes,
		payload: entity.StatusTransitionPayload{
			Type:      entity.OperationTypeFor(action),
			BookingID: b.ID,
			From:      b.Status,
			To:        target,
			Reason:    reason,
			Notes:     notes,
		},
		berthID:  b.BerthID,
		metadata: metadata,
	}, nil
}

func (s *bookingService) extend(b *entity.Booking, newEnd time.Time, notes *string) (*mutation, error) {
	if !entity.ActionExtend.Permits(b.Status) {
		return nil, apperror.InvalidState("Cannot extend a booking in status %s", b.Status)
	}
	if !newEnd.After(b.EndDate) {
		return nil, apperror.InvalidState("New end date %s must be after current end date %s",
			newEnd.Format(entity.DateLayout), b.EndDate.Format(entity.DateLayout))
	}

	proposed := entity.DateRange{Start: b.StartDate, End: newEnd}
	return &mutation{
		changes: entity.BookingChanges{EndDate: &newEnd, Notes: notes},
		payload: entity.ExtendPayload{
			BookingID:  b.ID,
			OldEndDate: b.EndDate,
			NewEndDate: newEnd,
			Notes:      notes,
		},
		berthID:  b.BerthID,
		proposed: &proposed,
		metadata: map[string]any{
			"previousStatus": b.Status,
			"oldEndDate":     b.EndDate.Format(entity.DateLayout),
			"newEndDate":     newEnd.Format(entity.DateLayout),
		},
	}, nil
}

// dispatch runs the shared load, scope, conflict and online/offline branch
// around an action-specific plan. Invoices are loaded only when withInvoices
// is set.
func (s *bookingService) dispatch(
	ctx context.Context,
	auth entity.AuthContext,
	action entity.BookingAction,
	perm entity.Permission,
	bookingID string,
	withInvoices bool,
	plan func(b *entity.Booking) (*mutation, error),
) (*DispatchResult, error) {
	var result *DispatchResult

	err := s.run(ctx, auth, action, perm, bookingID, func(ctx context.Context, scope *dispatchScope) error {
		id, err := parseBookingID(bookingID)
		if err != nil {
			return err
		}

		booking, err := s.repo.Booking.FindByID(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "load booking %s", id)
		}
		if booking == nil {
			return apperror.NotFound("Booking %s not found", id)
		}
		scope.marinaID = &booking.MarinaID

		if !auth.CanAccessMarina(booking.MarinaID) {
			return apperror.Forbidden("Access to marina %s is not allowed", booking.MarinaID)
		}

		if withInvoices {
			if booking.Invoices, err = s.repo.Invoice.FindByBookingID(ctx, id); err != nil {
				return errors.Wrapf(err, "load invoices for booking %s", id)
			}
		}

		m, err := plan(booking)
		if err != nil {
			return err
		}

		if m.proposed != nil {
			release, err := s.locker.Acquire(ctx, m.berthID)
			if errors.Is(err, lock.ErrNotAcquired) {
				return apperror.Conflict("Berth %s is being modified by another request, try again", m.berthID)
			}
			if err != nil {
				return errors.Wrapf(err, "lock berth %s", m.berthID)
			}
			defer func() {
				if err := release(context.WithoutCancel(ctx)); err != nil {
					s.log.Warn("Failed to release berth lock", zap.Error(err), zap.String("berth_id", m.berthID.String()))
				}
			}()

			conflict, err := s.conflicts.FindConflict(ctx, m.berthID, booking.ID, *m.proposed)
			if err != nil {
				return errors.Wrapf(err, "check conflicts on berth %s", m.berthID)
			}
			if conflict != nil {
				return apperror.Conflict("Berth is already booked from %s to %s by booking %s",
					conflict.StartDate.Format(entity.DateLayout), conflict.EndDate.Format(entity.DateLayout), conflict.ID).
					WithDetails(response.NewConflictDetails(conflict))
			}
		}

		marina, err := s.marinas.Status(ctx, booking.MarinaID)
		if err != nil {
			return err
		}

		if marina.IsOnline {
			updated, err := s.mutator.Apply(ctx, booking.ID, m.changes)
			if err != nil {
				return err
			}
			_ = s.audit.Record(ctx, AuditEntry{
				Auth:       auth,
				EventType:  entity.AuditEventMutation,
				EntityType: entity.EntityTypeBooking,
				EntityID:   booking.ID.String(),
				Action:     auditAction(action),
				Metadata:   m.metadata,
				MarinaID:   &booking.MarinaID,
			})
			result = &DispatchResult{Outcome: OutcomeApplied, Booking: updated}
			return nil
		}

		op, err := s.enqueuer.Enqueue(ctx, booking.MarinaID, auth.UserID, m.payload)
		if err != nil {
			return err
		}
		m.metadata["pendingOperationId"] = op.ID.String()
		m.metadata["operationType"] = op.Type
		_ = s.audit.Record(ctx, AuditEntry{
			Auth:       auth,
			EventType:  entity.AuditEventQueued,
			EntityType: entity.EntityTypeBooking,
			EntityID:   booking.ID.String(),
			Action:     auditAction(action) + "_QUEUED",
			Metadata:   m.metadata,
			MarinaID:   &booking.MarinaID,
		})
		result = &DispatchResult{Outcome: OutcomeQueued, Booking: booking, PendingOperation: op}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DispatchTotal.WithLabelValues(string(action), strings.ToLower(string(result.Outcome))).Inc()
	s.log.Info("Booking action dispatched",
		zap.String("action", string(action)),
		zap.String("outcome", string(result.Outcome)),
		zap.String("booking_id", result.Booking.ID.String()),
		zap.String("user_id", auth.UserID.String()),
	)
	return result, nil
}

// run enforces the permission check, then executes fn under the request
// timeout and a span. Any error from fn is audited once as <ACTION>_ERROR and
// returned classified; unclassified errors become a generic InternalError.
func (s *bookingService) run(
	ctx context.Context,
	auth entity.AuthContext,
	action entity.BookingAction,
	perm entity.Permission,
	bookingID string,
	fn func(ctx context.Context, scope *dispatchScope) error,
) error {
	if err := s.authorize(auth, action, perm); err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "booking."+string(action), trace.WithAttributes(
		attribute.String("booking.id", bookingID),
		attribute.String("user.id", auth.UserID.String()),
	))
	defer span.End()

	start := time.Now()
	scope := &dispatchScope{bookingID: bookingID}
	err := fn(ctx, scope)
	metrics.DispatchDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperror.KindOf(err)))

	appErr := apperror.From(err)
	metadata := map[string]any{"code": appErr.Kind, "message": appErr.Message}
	if appErr.Details != nil {
		metadata["details"] = appErr.Details
	}
	_ = s.audit.Record(ctx, AuditEntry{
		Auth:       auth,
		EventType:  entity.AuditEventError,
		EntityType: entity.EntityTypeBooking,
		EntityID:   scope.bookingID,
		Action:     auditAction(action) + "_ERROR",
		Metadata:   metadata,
		MarinaID:   scope.marinaID,
	})

	if appErr.Kind == apperror.KindInternal {
		s.log.Error("Booking dispatch failed",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("booking_id", bookingID),
		)
		metrics.DispatchTotal.WithLabelValues(string(action), "error").Inc()
	} else {
		s.log.Warn("Booking dispatch rejected",
			zap.String("code", string(appErr.Kind)),
			zap.String("message", appErr.Message),
			zap.String("action", string(action)),
			zap.String("booking_id", bookingID),
		)
		metrics.DispatchTotal.WithLabelValues(string(action), "rejected").Inc()
	}

	return appErr
}

// authorize is the role check every booking operation starts with, ahead of
// body validation. Denials are not audited.
func (s *bookingService) authorize(auth entity.AuthContext, action entity.BookingAction, perm entity.Permission) error {
	if auth.Can(perm) {
		return nil
	}
	s.log.Warn("Booking permission denied",
		zap.String("user_id", auth.UserID.String()),
		zap.String("role", string(auth.Role)),
		zap.String("permission", string(perm)),
		zap.String("action", string(action)),
	)
	metrics.DispatchTotal.WithLabelValues(string(action), "forbidden").Inc()
	return apperror.Forbidden("Role %s lacks %s permission on %s", auth.Role, perm, entity.ResourceBookings)
}

func parseBookingID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.Validation(map[string]string{"id": "Must be a valid UUID"})
	}
	return id, nil
}

func auditAction(action entity.BookingAction) string {
	return strings.ToUpper(string(action))
}
