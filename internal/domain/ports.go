package domain

import (
	"context"
	"time"
)

// ApartmentRepository defines the persistence contract for apartments.
// Status-changing writes are conditional on the state the caller observed,
// so concurrent identical mutations resolve to exactly one success.
type ApartmentRepository interface {
	Create(ctx context.Context, apartment Apartment) error
	GetByID(ctx context.Context, id string) (Apartment, error)

	// FindByTenant returns the apartment currently occupied by tenantID,
	// or ErrApartmentNotFound when the tenant holds no active lease.
	FindByTenant(ctx context.Context, tenantID string) (Apartment, error)

	// OccupyIfVacant persists the occupied apartment only if the stored row
	// is still vacant. Returns ApartmentNotVacantError when another rental
	// won the race, ErrApartmentNotFound when the row is missing.
	OccupyIfVacant(ctx context.Context, apartment Apartment) error

	// VacateIfNoOpenBookings resets the apartment to vacant. The open-booking
	// guard read and the conditional write run in one transaction: returns
	// OpenBookingsError while any booking for this apartment and tenant is
	// not done, NotTenantError when the row is no longer held by tenantID.
	VacateIfNoOpenBookings(ctx context.Context, apartmentID, tenantID string) error
}

// BookingFilter holds optional criteria for listing bookings.
type BookingFilter struct {
	Status      *BookingStatus
	ApartmentID *string
	CreatedBy   *string
	AssignedTo  *string
}

// StatusUpdate describes a guarded booking mutation: move from From to To,
// applying the optional field writes, only if the stored status still equals
// From.
type StatusUpdate struct {
	ID   string
	From BookingStatus
	To   BookingStatus

	// AssignTo is set at the todo→pending transition.
	AssignTo *string
	// TechnicianNotes is set at the pending→fixed transition.
	TechnicianNotes *string
}

// BookingRepository defines the persistence contract for bookings. Bookings
// are never deleted; history is retained for audit.
type BookingRepository interface {
	Create(ctx context.Context, booking Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]Booking, error)

	// UpdateStatus applies the guarded mutation. When the stored status no
	// longer matches upd.From it returns StateConflictError carrying the
	// actual status, or ErrBookingNotFound when the row is missing.
	UpdateStatus(ctx context.Context, upd StatusUpdate) error
}

// UserDirectory resolves user identities to their workflow role.
type UserDirectory interface {
	GetRole(ctx context.Context, userID string) (Role, error)
}

// TransitionEvent describes a completed (or initial) booking state change,
// emitted to the notification sink after the write commits.
type TransitionEvent struct {
	BookingID  string
	Event      WorkflowEvent
	From       BookingStatus
	To         BookingStatus
	ActorID    string
	OccurredAt time.Time
}

// EventPublisher defines the contract for emitting workflow events.
// Publishing is fire-and-forget: a failure must never undo the state change
// it describes.
type EventPublisher interface {
	Publish(ctx context.Context, event TransitionEvent) error
}

// TransitionValidator checks workflow events against the current status.
type TransitionValidator interface {
	// Apply returns the destination status for event from current, or a
	// TransitionError when the event is not legal there.
	Apply(ctx context.Context, current BookingStatus, event WorkflowEvent) (BookingStatus, error)
}
