package domain

import "time"

// BookingStatus represents the lifecycle state of a facility-repair booking.
type BookingStatus string

const (
	BookingTodo    BookingStatus = "todo"
	BookingPending BookingStatus = "pending"
	BookingFixed   BookingStatus = "fixed"
	BookingDone    BookingStatus = "done"
)

// WorkflowEvent represents an action that triggers a booking state transition.
type WorkflowEvent string

const (
	// EventCreate marks a booking's birth. It has no source state and is
	// therefore not part of Transitions; it exists so published events can
	// name the action that produced a fresh "todo" booking.
	EventCreate WorkflowEvent = "create"

	EventAssign    WorkflowEvent = "assign"
	EventMarkFixed WorkflowEvent = "mark_fixed"
	EventMarkDone  WorkflowEvent = "mark_done"
)

// Transition defines a valid state change: an event moves a booking from Src to Dst.
type Transition struct {
	Event WorkflowEvent
	Src   BookingStatus
	Dst   BookingStatus
}

// Transitions defines all valid state changes in the booking workflow.
// The workflow is strictly forward: todo → pending → fixed → done, with no
// cancellation or reverse edges. This is domain knowledge consumed by the
// FSM adapter.
var Transitions = []Transition{
	{Event: EventAssign, Src: BookingTodo, Dst: BookingPending},
	{Event: EventMarkFixed, Src: BookingPending, Dst: BookingFixed},
	{Event: EventMarkDone, Src: BookingFixed, Dst: BookingDone},
}

// Role identifies what a user is allowed to do in the booking workflow.
// It is a closed set: transition gating switches over it exhaustively.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
)

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleUser:
		return true
	}
	return false
}

// Booking is a tenant-initiated request for facility repair inside their
// occupied apartment. AssignedTo is set exactly once, at the todo→pending
// transition, so it is non-nil iff Status is pending, fixed or done.
type Booking struct {
	ID              string
	FacilityID      string
	ApartmentID     string
	CreatedBy       string
	AssignedTo      *string
	Status          BookingStatus
	Notes           string
	TechnicianNotes string
	BookingDate     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBooking creates a booking in the initial "todo" state.
func NewBooking(id, facilityID, apartmentID, tenantID, notes string, bookingDate time.Time) Booking {
	now := time.Now().UTC()
	return Booking{
		ID:          id,
		FacilityID:  facilityID,
		ApartmentID: apartmentID,
		CreatedBy:   tenantID,
		Status:      BookingTodo,
		Notes:       notes,
		BookingDate: bookingDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Open reports whether the booking still blocks a rental cancellation,
// i.e. it has not reached the terminal "done" state.
func (b Booking) Open() bool {
	return b.Status != BookingDone
}
