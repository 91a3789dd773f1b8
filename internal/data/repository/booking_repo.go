package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marina-ops/internal/data/entity"
	"marina-ops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindNonTerminalByBerth returns PENDING, CONFIRMED and ACTIVE bookings on
	// the berth ordered by start date.
	FindNonTerminalByBerth(ctx context.Context, berthID uuid.UUID) ([]*entity.Booking, error)
	ApplyChanges(ctx context.Context, id uuid.UUID, changes entity.BookingChanges) (*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, berth_id, marina_id, customer_id, boat_id, start_date, end_date, status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BerthID,
		&booking.MarinaID,
		&booking.CustomerID,
		&booking.BoatID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindNonTerminalByBerth(ctx context.Context, berthID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE berth_id = $1
		  AND status = ANY($2)
		ORDER BY start_date, id
	`

	statuses := make([]string, len(entity.NonTerminalStatuses))
	for i, s := range entity.NonTerminalStatuses {
		statuses[i] = string(s)
	}

	rows, err := r.db.Query(ctx, query, berthID, statuses)
	if err != nil {
		r.log.Error("Failed to find bookings by berth",
			zap.Error(err),
			zap.String("berth_id", berthID.String()),
		)
		return nil, fmt.Errorf("find bookings by berth %s: %w", berthID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// ApplyChanges writes the non-nil fields of changes in a single statement.
func (r *bookingRepository) ApplyChanges(ctx context.Context, id uuid.UUID, changes entity.BookingChanges) (*entity.Booking, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if changes.BerthID != nil {
		add("berth_id", *changes.BerthID)
	}
	if changes.CustomerID != nil {
		add("customer_id", *changes.CustomerID)
	}
	if changes.BoatID != nil {
		add("boat_id", *changes.BoatID)
	}
	if changes.StartDate != nil {
		add("start_date", *changes.StartDate)
	}
	if changes.EndDate != nil {
		add("end_date", *changes.EndDate)
	}
	if changes.Status != nil {
		add("status", string(*changes.Status))
	}
	if changes.Notes != nil {
		add("notes", *changes.Notes)
	}

	query := `UPDATE bookings SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
			return nil, fmt.Errorf("update booking %s: %w", id.String(), ErrOverlap)
		}
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("update booking %s: %w", id.String(), err)
	}

	return booking, nil
}
