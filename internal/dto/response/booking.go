package response

import (
	"time"

	"marina-ops/internal/data/entity"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID         string               `json:"id"`
	BerthID    string               `json:"berthId"`
	MarinaID   string               `json:"marinaId"`
	CustomerID string               `json:"customerId"`
	BoatID     string               `json:"boatId"`
	StartDate  string               `json:"startDate"`
	EndDate    string               `json:"endDate"`
	Status     entity.BookingStatus `json:"status"`
	Notes      *string              `json:"notes,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// BookingDetailResponse adds the display-only fields derived at read time.
type BookingDetailResponse struct {
	BookingResponse
	CalculatedStatus entity.BookingStatus `json:"calculatedStatus"`
	IsOverdue        bool                 `json:"isOverdue"`
	DaysUntilStart   int                  `json:"daysUntilStart"`
	DaysUntilEnd     int                  `json:"daysUntilEnd"`
	Duration         int                  `json:"duration"`
	Invoices         []InvoiceResponse    `json:"invoices"`
	Marina           *MarinaResponse      `json:"marina,omitempty"`
}

type InvoiceResponse struct {
	ID     string               `json:"id"`
	Number string               `json:"number"`
	Amount float64              `json:"amount"`
	Status entity.InvoiceStatus `json:"status"`
}

// ConflictDetails identifies the booking that already occupies the berth.
type ConflictDetails struct {
	BookingID string `json:"bookingId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type OutstandingInvoicesDetails struct {
	InvoiceIDs []string `json:"invoiceIds"`
}

// QueuedResponse is returned with 202 when the marina is offline.
type QueuedResponse struct {
	PendingOperationID string                   `json:"pendingOperationId"`
	PendingOperation   PendingOperationResponse `json:"pendingOperation"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID.String(),
		BerthID:    b.BerthID.String(),
		MarinaID:   b.MarinaID.String(),
		CustomerID: b.CustomerID.String(),
		BoatID:     b.BoatID.String(),
		StartDate:  b.StartDate.Format(entity.DateLayout),
		EndDate:    b.EndDate.Format(entity.DateLayout),
		Status:     b.Status,
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func BookingToDetailResponse(b *entity.Booking, marina *entity.Marina, now time.Time) *BookingDetailResponse {
	view := entity.Project(b, now)

	invoices := make([]InvoiceResponse, 0, len(b.Invoices))
	for _, inv := range b.Invoices {
		invoices = append(invoices, InvoiceResponse{
			ID:     inv.ID.String(),
			Number: inv.Number,
			Amount: inv.Amount,
			Status: inv.Status,
		})
	}

	detail := &BookingDetailResponse{
		BookingResponse:  BookingToResponse(b),
		CalculatedStatus: view.CalculatedStatus,
		IsOverdue:        view.IsOverdue,
		DaysUntilStart:   view.DaysUntilStart,
		DaysUntilEnd:     view.DaysUntilEnd,
		Duration:         view.Duration,
		Invoices:         invoices,
	}
	if marina != nil {
		m := MarinaToResponse(marina)
		detail.Marina = &m
	}
	return detail
}

func NewConflictDetails(b *entity.Booking) ConflictDetails {
	return ConflictDetails{
		BookingID: b.ID.String(),
		StartDate: b.StartDate.Format(entity.DateLayout),
		EndDate:   b.EndDate.Format(entity.DateLayout),
	}
}

func NewOutstandingInvoicesDetails(ids []uuid.UUID) OutstandingInvoicesDetails {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return OutstandingInvoicesDetails{InvoiceIDs: out}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
