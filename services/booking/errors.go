package booking

import "fmt"

// ValidationError reports rejected caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown pet/clinic/staff/shift/booking reference.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a lost race over a shared resource, e.g. a slot
// claimed by a concurrent booking or a shift update over booked slots.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NoCandidateError means no staff or clinic satisfies the constraints. It is
// not fatal: callers surface the reason and alternatives to the manager.
type NoCandidateError struct {
	Reason string
}

func (e *NoCandidateError) Error() string {
	return e.Reason
}

func NewNoCandidateError(format string, args ...interface{}) error {
	return &NoCandidateError{Reason: fmt.Sprintf(format, args...)}
}

// StaleOfferError reports an SOS accept/decline arriving after the offer is
// no longer live.
type StaleOfferError struct {
	BookingID string
	ClinicID  string
}

func (e *StaleOfferError) Error() string {
	return fmt.Sprintf("offer for booking %s is no longer live for clinic %s", e.BookingID, e.ClinicID)
}
