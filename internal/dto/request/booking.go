package request

import (
	"marina-ops/internal/data/entity"
	"marina-ops/pkg/utils"

	"github.com/google/uuid"
)

// UpdateBookingRequest is the PATCH body. Absent fields are left unchanged.
type UpdateBookingRequest struct {
	BerthID    *string `json:"berthId" validate:"omitempty,uuid"`
	CustomerID *string `json:"customerId" validate:"omitempty,uuid"`
	BoatID     *string `json:"boatId" validate:"omitempty,uuid"`
	StartDate  *string `json:"startDate" validate:"omitempty,date"`
	EndDate    *string `json:"endDate" validate:"omitempty,date"`
	Status     *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED ACTIVE COMPLETED CANCELLED"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

// ToChanges converts an already validated request into typed changes.
func (r *UpdateBookingRequest) ToChanges() (entity.BookingChanges, error) {
	var c entity.BookingChanges
	var err error

	if c.BerthID, err = parseOptionalUUID(r.BerthID); err != nil {
		return c, err
	}
	if c.CustomerID, err = parseOptionalUUID(r.CustomerID); err != nil {
		return c, err
	}
	if c.BoatID, err = parseOptionalUUID(r.BoatID); err != nil {
		return c, err
	}
	if c.StartDate, err = utils.ParseOptionalDate(r.StartDate); err != nil {
		return c, err
	}
	if c.EndDate, err = utils.ParseOptionalDate(r.EndDate); err != nil {
		return c, err
	}
	if r.Status != nil {
		status := entity.BookingStatus(*r.Status)
		c.Status = &status
	}
	c.Notes = r.Notes

	return c, nil
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// BookingActionRequest is the POST body naming a state transition.
type BookingActionRequest struct {
	Action     string  `json:"action" validate:"required,oneof=confirm activate complete cancel extend"`
	Reason     *string `json:"reason" validate:"omitempty,max=500"`
	NewEndDate *string `json:"newEndDate" validate:"omitempty,date"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

// DeleteBookingRequest is the optional DELETE body.
type DeleteBookingRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}
