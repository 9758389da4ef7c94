package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrUserNotFound      = errors.New("user not found")

	// ErrNoActiveTenancy is returned when a caller tries to create a booking
	// without currently occupying any apartment.
	ErrNoActiveTenancy = errors.New("no active tenancy")
)

// TransitionError is returned when a workflow event is not allowed from the
// booking's current status.
type TransitionError struct {
	Event   WorkflowEvent
	Current BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from status %q", e.Event, e.Current)
}

// StateConflictError is returned when a guarded status update finds the
// booking in a different state than the caller observed. It carries both
// statuses so the caller can report what actually happened.
type StateConflictError struct {
	BookingID string
	Expected  BookingStatus
	Current   BookingStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("booking %q is %q, expected %q", e.BookingID, e.Current, e.Expected)
}

// ForbiddenError is returned when the caller's role or identity does not
// match the actor required for the attempted operation.
type ForbiddenError struct {
	Required Role
	Detail   string
}

func (e *ForbiddenError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("caller does not hold the %q role", e.Required)
}

// NotTenantError is returned when a caller tries to act on an apartment they
// do not currently rent.
type NotTenantError struct {
	ApartmentID string
}

func (e *NotTenantError) Error() string {
	return fmt.Sprintf("apartment %q is not rented by the caller", e.ApartmentID)
}

// ApartmentNotVacantError is returned when renting an apartment that is not
// available.
type ApartmentNotVacantError struct {
	ApartmentID string
	Status      ApartmentStatus
}

func (e *ApartmentNotVacantError) Error() string {
	return fmt.Sprintf("apartment %q is %q, not vacant", e.ApartmentID, e.Status)
}

// OpenBookingsError is returned when a rental cancellation is blocked by
// bookings that have not reached the terminal "done" state.
type OpenBookingsError struct {
	ApartmentID string
	Count       int
}

func (e *OpenBookingsError) Error() string {
	return fmt.Sprintf("apartment %q has %d open booking(s); complete them before cancelling", e.ApartmentID, e.Count)
}

// ValidationError is returned for malformed input, such as missing notes or
// a booking date in the past.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
