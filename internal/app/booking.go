package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

// BookingService drives the facility-booking workflow: creation gated on an
// active tenancy, then three role-gated forward transitions (assign, mark
// fixed, mark done). Every transition loads the booking, gates the actor,
// validates the event against the current status, and applies one guarded
// store write, so concurrent identical transitions resolve to exactly one
// success.
type BookingService struct {
	bookings   domain.BookingRepository
	apartments domain.ApartmentRepository
	users      domain.UserDirectory
	publisher  domain.EventPublisher
	validator  domain.TransitionValidator
}

// NewBookingService creates a service with the given adapters.
func NewBookingService(
	bookings domain.BookingRepository,
	apartments domain.ApartmentRepository,
	users domain.UserDirectory,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		apartments: apartments,
		users:      users,
		publisher:  publisher,
		validator:  validator,
	}
}

// Create opens a booking in the "todo" state against the caller's occupied
// apartment. Returns domain.ErrNoActiveTenancy when the caller rents
// nothing, or a ValidationError for malformed input.
func (s *BookingService) Create(ctx context.Context, tenantID, facilityID, notes string, bookingDate time.Time) (domain.Booking, error) {
	if facilityID == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "facility_id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(notes) == "" {
		return domain.Booking{}, &domain.ValidationError{Field: "notes", Reason: "must not be empty"}
	}

	// A same-day request is legal; anything before today is not.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if bookingDate.Before(today) {
		return domain.Booking{}, &domain.ValidationError{Field: "booking_date", Reason: "must not be in the past"}
	}

	apartment, err := s.apartments.FindByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrApartmentNotFound) {
			return domain.Booking{}, domain.ErrNoActiveTenancy
		}
		return domain.Booking{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("generating booking id: %w", err)
	}

	booking := domain.NewBooking(id, facilityID, apartment.ID, tenantID, notes, bookingDate)

	if err := s.bookings.Create(ctx, booking); err != nil {
		return domain.Booking{}, fmt.Errorf("creating booking: %w", err)
	}

	s.emit(ctx, domain.TransitionEvent{
		BookingID:  booking.ID,
		Event:      domain.EventCreate,
		To:         domain.BookingTodo,
		ActorID:    tenantID,
		OccurredAt: booking.CreatedAt,
	})

	return booking, nil
}

// AssignTechnician moves a booking from todo to pending. Only an admin may
// assign, and the assignee must hold the technician role.
func (s *BookingService) AssignTechnician(ctx context.Context, bookingID, technicianID, callerID string) (domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	if err := s.requireRole(ctx, callerID, domain.RoleAdmin); err != nil {
		return domain.Booking{}, err
	}

	techRole, err := s.users.GetRole(ctx, technicianID)
	if err != nil {
		return domain.Booking{}, err
	}
	if techRole != domain.RoleTechnician {
		return domain.Booking{}, &domain.ValidationError{
			Field:  "technician_id",
			Reason: fmt.Sprintf("user %q does not hold the technician role", technicianID),
		}
	}

	return s.transition(ctx, booking, domain.EventAssign, callerID, domain.StatusUpdate{
		AssignTo: &technicianID,
	})
}

// MarkFixed moves a booking from pending to fixed. Only the assigned
// technician may do so; their notes are recorded on the booking.
func (s *BookingService) MarkFixed(ctx context.Context, bookingID, technicianNotes, callerID string) (domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	if err := s.requireRole(ctx, callerID, domain.RoleTechnician); err != nil {
		return domain.Booking{}, err
	}
	if booking.AssignedTo == nil || *booking.AssignedTo != callerID {
		return domain.Booking{}, &domain.ForbiddenError{
			Required: domain.RoleTechnician,
			Detail:   "caller is not the assigned technician",
		}
	}

	return s.transition(ctx, booking, domain.EventMarkFixed, callerID, domain.StatusUpdate{
		TechnicianNotes: &technicianNotes,
	})
}

// MarkDone moves a booking from fixed to its terminal done state. Only the
// tenant who created the booking may confirm it.
func (s *BookingService) MarkDone(ctx context.Context, bookingID, callerID string) (domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}

	if booking.CreatedBy != callerID {
		return domain.Booking{}, &domain.ForbiddenError{
			Required: domain.RoleUser,
			Detail:   "caller did not create this booking",
		}
	}

	return s.transition(ctx, booking, domain.EventMarkDone, callerID, domain.StatusUpdate{})
}

// Get returns a booking by its unique identifier.
func (s *BookingService) Get(ctx context.Context, id string) (domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// List returns bookings visible to the caller: admins see everything, users
// see bookings they created, technicians see bookings assigned to them.
func (s *BookingService) List(ctx context.Context, callerID string, callerRole domain.Role, filter domain.BookingFilter) ([]domain.Booking, error) {
	switch callerRole {
	case domain.RoleAdmin:
		// Unrestricted.
	case domain.RoleUser:
		filter.CreatedBy = &callerID
	case domain.RoleTechnician:
		filter.AssignedTo = &callerID
	default:
		return nil, &domain.ValidationError{Field: "caller_role", Reason: fmt.Sprintf("unknown role %q", callerRole)}
	}

	return s.bookings.List(ctx, filter)
}

// transition validates event against the booking's loaded status, applies
// the guarded store write, and emits the workflow event. The update carries
// the loaded status as its precondition, so a concurrent transition that
// advanced the booking first surfaces as a StateConflictError.
func (s *BookingService) transition(ctx context.Context, booking domain.Booking, event domain.WorkflowEvent, actorID string, upd domain.StatusUpdate) (domain.Booking, error) {
	next, err := s.validator.Apply(ctx, booking.Status, event)
	if err != nil {
		return domain.Booking{}, err
	}

	upd.ID = booking.ID
	upd.From = booking.Status
	upd.To = next

	if err := s.bookings.UpdateStatus(ctx, upd); err != nil {
		return domain.Booking{}, err
	}

	from := booking.Status
	booking.Status = next
	if upd.AssignTo != nil {
		booking.AssignedTo = upd.AssignTo
	}
	if upd.TechnicianNotes != nil {
		booking.TechnicianNotes = *upd.TechnicianNotes
	}
	booking.UpdatedAt = time.Now().UTC()

	s.emit(ctx, domain.TransitionEvent{
		BookingID:  booking.ID,
		Event:      event,
		From:       from,
		To:         next,
		ActorID:    actorID,
		OccurredAt: booking.UpdatedAt,
	})

	return booking, nil
}

// requireRole gates a caller on a workflow role. An unknown caller is a
// Forbidden condition, not a missing entity: the transition names a required
// actor and the caller is not it.
func (s *BookingService) requireRole(ctx context.Context, userID string, required domain.Role) error {
	role, err := s.users.GetRole(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return &domain.ForbiddenError{
				Required: required,
				Detail:   fmt.Sprintf("caller %q is not a known user", userID),
			}
		}
		return fmt.Errorf("resolving caller role: %w", err)
	}
	if role != required {
		return &domain.ForbiddenError{Required: required}
	}
	return nil
}

// emit publishes a workflow event after the state change has committed.
// The sink is fire-and-forget: failures are logged and never returned, so
// they cannot undo the transition they describe.
func (s *BookingService) emit(ctx context.Context, event domain.TransitionEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "publishing workflow event failed",
			"booking_id", event.BookingID,
			"event", string(event.Event),
			"error", err,
		)
	}
}
