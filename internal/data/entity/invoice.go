package entity

import "github.com/google/uuid"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

type Invoice struct {
	BaseNoDelete
	BookingID uuid.UUID     `db:"booking_id"`
	Number    string        `db:"number"`
	Amount    float64       `db:"amount"`
	Status    InvoiceStatus `db:"status"`
}

func (i *Invoice) IsOutstanding() bool {
	return i.Status != InvoiceStatusPaid && i.Status != InvoiceStatusCancelled
}

// OutstandingInvoiceIDs lists the invoices that still block a cancellation.
func OutstandingInvoiceIDs(invoices []*Invoice) []uuid.UUID {
	var ids []uuid.UUID
	for _, inv := range invoices {
		if inv.IsOutstanding() {
			ids = append(ids, inv.ID)
		}
	}
	return ids
}
