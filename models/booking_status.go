package models

import "fmt"

// BookingStatus is the canonical booking lifecycle state.
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusAssigned   BookingStatus = "ASSIGNED"
	StatusOnTheWay   BookingStatus = "ON_THE_WAY"
	StatusArrived    BookingStatus = "ARRIVED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusNoShow     BookingStatus = "NO_SHOW"
)

// InvalidTransitionError reports an illegal booking-status change.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition: %s -> %s", e.From, e.To)
}

// statusTransitions is the legal forward-transition table. CANCELLED and
// NO_SHOW are handled separately: reachable from any pre-COMPLETED state.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed},
	StatusConfirmed:  {StatusAssigned},
	StatusAssigned:   {StatusOnTheWay, StatusInProgress},
	StatusOnTheWay:   {StatusArrived},
	StatusArrived:    {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransition reports whether moving from s to next is legal for the given
// booking type. ON_THE_WAY and ARRIVED exist only for home-visit and SOS
// bookings.
func (s BookingStatus) CanTransition(next BookingStatus, bt BookingType) bool {
	if next == StatusCancelled || next == StatusNoShow {
		return !s.IsTerminal()
	}
	if next == StatusOnTheWay || next == StatusArrived {
		if bt != BookingHomeVisit && bt != BookingSos {
			return false
		}
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition mutates the booking status or returns InvalidTransitionError.
func (b *Booking) Transition(next BookingStatus) error {
	if !b.Status.CanTransition(next, b.Type) {
		return &InvalidTransitionError{From: b.Status, To: next}
	}
	b.Status = next
	return nil
}

// CheckIn is the only entry into IN_PROGRESS: valid from ASSIGNED, or from
// ARRIVED for home-visit/SOS bookings.
func (b *Booking) CheckIn() error {
	if b.Status != StatusAssigned && b.Status != StatusArrived {
		return &InvalidTransitionError{From: b.Status, To: StatusInProgress}
	}
	return b.Transition(StatusInProgress)
}

// Checkout is the only entry into COMPLETED, valid from IN_PROGRESS.
func (b *Booking) Checkout() error {
	if b.Status != StatusInProgress {
		return &InvalidTransitionError{From: b.Status, To: StatusCompleted}
	}
	return b.Transition(StatusCompleted)
}
