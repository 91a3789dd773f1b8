package repository

import (
	"context"
	"fmt"

	"marina-ops/internal/data/entity"
	"marina-ops/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceRepository interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Invoice, error)
}

type invoiceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInvoiceRepository(db database.PgxIface, log *zap.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "invoice")),
	}
}

func (r *invoiceRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Invoice, error) {
	query := `
		SELECT id, booking_id, number, amount, status, created_at, updated_at
		FROM invoices
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find invoices by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find invoices for booking %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		err := rows.Scan(
			&inv.ID,
			&inv.BookingID,
			&inv.Number,
			&inv.Amount,
			&inv.Status,
			&inv.CreatedAt,
			&inv.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan invoice row", zap.Error(err))
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}

	return invoices, nil
}
