package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// NonTerminalStatuses are the statuses that occupy a berth.
var NonTerminalStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusActive,
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a temporary berth reservation. Start and end dates are inclusive.
type Booking struct {
	BaseNoDelete
	BerthID    uuid.UUID     `db:"berth_id"`
	MarinaID   uuid.UUID     `db:"marina_id"`
	CustomerID uuid.UUID     `db:"customer_id"`
	BoatID     uuid.UUID     `db:"boat_id"`
	StartDate  time.Time     `db:"start_date"`
	EndDate    time.Time     `db:"end_date"`
	Status     BookingStatus `db:"status"`
	Notes      *string       `db:"notes"`

	Invoices []*Invoice `db:"-"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// DateRange is an inclusive [Start, End] interval.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether r and o share at least one instant.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

const DateLayout = "2006-01-02"

// BookingChanges is a validated partial update. Nil fields stay untouched.
type BookingChanges struct {
	BerthID    *uuid.UUID     `json:"berthId,omitempty"`
	CustomerID *uuid.UUID     `json:"customerId,omitempty"`
	BoatID     *uuid.UUID     `json:"boatId,omitempty"`
	StartDate  *time.Time     `json:"startDate,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
	Status     *BookingStatus `json:"status,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
}

func (c BookingChanges) IsEmpty() bool {
	return c.BerthID == nil && c.CustomerID == nil && c.BoatID == nil &&
		c.StartDate == nil && c.EndDate == nil && c.Status == nil && c.Notes == nil
}

// StatusOnly reports whether the change sets a status with at most a note beside it.
func (c BookingChanges) StatusOnly() bool {
	return c.Status != nil && c.BerthID == nil && c.CustomerID == nil && c.BoatID == nil &&
		c.StartDate == nil && c.EndDate == nil
}

// TouchesOccupancy reports whether the change moves the booking in time or space.
func (c BookingChanges) TouchesOccupancy() bool {
	return c.BerthID != nil || c.StartDate != nil || c.EndDate != nil
}

// ApplyTo returns a copy of b with the changes applied.
func (c BookingChanges) ApplyTo(b Booking) Booking {
	if c.BerthID != nil {
		b.BerthID = *c.BerthID
	}
	if c.CustomerID != nil {
		b.CustomerID = *c.CustomerID
	}
	if c.BoatID != nil {
		b.BoatID = *c.BoatID
	}
	if c.StartDate != nil {
		b.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		b.EndDate = *c.EndDate
	}
	if c.Status != nil {
		b.Status = *c.Status
	}
	if c.Notes != nil {
		notes := *c.Notes
		b.Notes = &notes
	}
	return b
}

// BookingAction is a named state transition requested through the dispatcher.
type BookingAction string

const (
	ActionConfirm  BookingAction = "confirm"
	ActionActivate BookingAction = "activate"
	ActionComplete BookingAction = "complete"
	ActionCancel   BookingAction = "cancel"
	ActionExtend   BookingAction = "extend"
	ActionUpdate   BookingAction = "update"
	ActionDelete   BookingAction = "delete"
	ActionRead     BookingAction = "read"
)

type actionRule struct {
	from []BookingStatus
	to   BookingStatus // empty means status is unchanged
}

var actionRules = map[BookingAction]actionRule{
	ActionConfirm:  {from: []BookingStatus{BookingStatusPending}, to: BookingStatusConfirmed},
	ActionActivate: {from: []BookingStatus{BookingStatusConfirmed}, to: BookingStatusActive},
	ActionComplete: {from: []BookingStatus{BookingStatusActive}, to: BookingStatusCompleted},
	ActionCancel:   {from: NonTerminalStatuses, to: BookingStatusCancelled},
	ActionDelete:   {from: NonTerminalStatuses, to: BookingStatusCancelled},
	ActionExtend:   {from: []BookingStatus{BookingStatusConfirmed, BookingStatusActive}},
	ActionUpdate:   {from: NonTerminalStatuses},
}

// Permits reports whether action may run against a booking in status s.
func (a BookingAction) Permits(s BookingStatus) bool {
	rule, ok := actionRules[a]
	if !ok {
		return false
	}
	for _, from := range rule.from {
		if from == s {
			return true
		}
	}
	return false
}

// TargetStatus is the status the action leaves the booking in, or "" when unchanged.
func (a BookingAction) TargetStatus() BookingStatus {
	return actionRules[a].to
}

func (a BookingAction) Valid() bool {
	_, ok := actionRules[a]
	return ok
}

// transitionActions are the named actions that change status, in the order
// a direct status change is resolved against them.
var transitionActions = []BookingAction{ActionConfirm, ActionActivate, ActionComplete, ActionCancel}

// ActionForTransition names the action that moves a booking from -> to.
func ActionForTransition(from, to BookingStatus) (BookingAction, bool) {
	for _, action := range transitionActions {
		if actionRules[action].to == to && action.Permits(from) {
			return action, true
		}
	}
	return "", false
}

// CanTransition reports whether a direct status change from -> to is one of
// the named transitions.
func CanTransition(from, to BookingStatus) bool {
	if from == to {
		return true
	}
	_, ok := ActionForTransition(from, to)
	return ok
}

// BookingView is the display-only projection served by GET. It is never persisted.
type BookingView struct {
	CalculatedStatus BookingStatus
	IsOverdue        bool
	DaysUntilStart   int
	DaysUntilEnd     int
	Duration         int
}

// Project derives the display fields of b at instant now. The end date is
// the last occupied day, so the booking runs until midnight after it.
func Project(b *Booking, now time.Time) BookingView {
	endExclusive := b.EndDate.AddDate(0, 0, 1)
	pastEnd := !now.Before(endExclusive)

	calculated := b.Status
	switch {
	case b.Status == BookingStatusConfirmed && !now.Before(b.StartDate) && !pastEnd:
		calculated = BookingStatusActive
	case b.Status == BookingStatusActive && pastEnd:
		calculated = BookingStatusCompleted
	}

	return BookingView{
		CalculatedStatus: calculated,
		IsOverdue:        b.Status == BookingStatusActive && pastEnd,
		DaysUntilStart:   daysBetween(now, b.StartDate),
		DaysUntilEnd:     daysBetween(now, b.EndDate),
		Duration:         daysBetween(b.StartDate, b.EndDate),
	}
}

func daysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
