package domain_test

import (
	"testing"

	"github.com/hoangnv/aptcare/internal/domain"
)

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		Event:   domain.EventMarkFixed,
		Current: domain.BookingTodo,
	}
	want := `event "mark_fixed" is not valid from status "todo"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStateConflictError_Error(t *testing.T) {
	err := &domain.StateConflictError{
		BookingID: "b-1",
		Expected:  domain.BookingTodo,
		Current:   domain.BookingPending,
	}
	want := `booking "b-1" is "pending", expected "todo"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestForbiddenError_Error(t *testing.T) {
	err := &domain.ForbiddenError{Required: domain.RoleAdmin}
	want := `caller does not hold the "admin" role`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &domain.ForbiddenError{Required: domain.RoleTechnician, Detail: "caller is not the assigned technician"}
	if got := err.Error(); got != "caller is not the assigned technician" {
		t.Errorf("Error() = %q, want detail passthrough", got)
	}
}

func TestApartmentNotVacantError_Error(t *testing.T) {
	err := &domain.ApartmentNotVacantError{ApartmentID: "a-1", Status: domain.ApartmentOccupied}
	want := `apartment "a-1" is "occupied", not vacant`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestOpenBookingsError_Error(t *testing.T) {
	err := &domain.OpenBookingsError{ApartmentID: "a-1", Count: 2}
	want := `apartment "a-1" has 2 open booking(s); complete them before cancelling`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &domain.ValidationError{Field: "notes", Reason: "must not be empty"}
	want := "invalid notes: must not be empty"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
