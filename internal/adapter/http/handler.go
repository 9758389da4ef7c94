package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hoangnv/aptcare/internal/app"
	"github.com/hoangnv/aptcare/internal/domain"
)

const (
	timestampFormat = "2006-01-02T15:04:05Z"
	dateFormat      = "2006-01-02"
)

// ApartmentResponse is the API representation of an apartment.
type ApartmentResponse struct {
	ID         string  `json:"id" doc:"Unique identifier"`
	Number     string  `json:"number" doc:"Apartment number"`
	Status     string  `json:"status" doc:"Occupancy state"`
	TenantID   *string `json:"tenant_id,omitempty" doc:"Current tenant, if occupied"`
	LeaseStart *string `json:"lease_start,omitempty" doc:"Lease start (ISO 8601)"`
	LeaseEnd   *string `json:"lease_end,omitempty" doc:"Lease end (ISO 8601)"`
	CreatedAt  string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt  string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toApartmentResponse(a domain.Apartment) ApartmentResponse {
	return ApartmentResponse{
		ID:         a.ID,
		Number:     a.Number,
		Status:     string(a.Status),
		TenantID:   a.TenantID,
		LeaseStart: formatTimePtr(a.LeaseStart),
		LeaseEnd:   formatTimePtr(a.LeaseEnd),
		CreatedAt:  a.CreatedAt.Format(timestampFormat),
		UpdatedAt:  a.UpdatedAt.Format(timestampFormat),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timestampFormat)
	return &s
}

// BookingResponse is the API representation of a facility booking.
type BookingResponse struct {
	ID              string  `json:"id" doc:"Unique identifier"`
	FacilityID      string  `json:"facility_id" doc:"Facility being booked"`
	ApartmentID     string  `json:"apartment_id" doc:"Apartment the booking belongs to"`
	CreatedBy       string  `json:"created_by" doc:"Tenant who opened the booking"`
	AssignedTo      *string `json:"assigned_to,omitempty" doc:"Assigned technician, once pending"`
	Status          string  `json:"status" doc:"Workflow state"`
	Notes           string  `json:"notes" doc:"Tenant's description of the request"`
	TechnicianNotes string  `json:"technician_notes,omitempty" doc:"Technician's resolution notes"`
	BookingDate     string  `json:"booking_date" doc:"Requested service date (YYYY-MM-DD)"`
	CreatedAt       string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt       string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		FacilityID:      b.FacilityID,
		ApartmentID:     b.ApartmentID,
		CreatedBy:       b.CreatedBy,
		AssignedTo:      b.AssignedTo,
		Status:          string(b.Status),
		Notes:           b.Notes,
		TechnicianNotes: b.TechnicianNotes,
		BookingDate:     b.BookingDate.Format(dateFormat),
		CreatedAt:       b.CreatedAt.Format(timestampFormat),
		UpdatedAt:       b.UpdatedAt.Format(timestampFormat),
	}
}

// --- Rent Apartment ---

type RentApartmentInput struct {
	ID   string `path:"id" doc:"Apartment ID"`
	Body struct {
		TenantID   string `json:"tenant_id" minLength:"1" doc:"Tenant taking the lease"`
		TermMonths int    `json:"term_months,omitempty" minimum:"0" maximum:"120" doc:"Lease term in months (0 = default term)"`
	}
}

type RentApartmentOutput struct {
	Body ApartmentResponse
}

// --- Cancel Rental ---

type CancelRentalInput struct {
	ID   string `path:"id" doc:"Apartment ID"`
	Body struct {
		TenantID string `json:"tenant_id" minLength:"1" doc:"Tenant releasing the lease"`
	}
}

type CancelRentalOutput struct {
	Status int
}

// --- Active Tenancy ---

type ActiveTenancyInput struct {
	TenantID string `path:"tenantID" doc:"Tenant ID"`
}

type ActiveTenancyOutput struct {
	Body ApartmentResponse
}

// --- Create Booking ---

type CreateBookingInput struct {
	Body struct {
		TenantID    string `json:"tenant_id" minLength:"1" doc:"Tenant opening the booking"`
		FacilityID  string `json:"facility_id" minLength:"1" doc:"Facility being booked"`
		Notes       string `json:"notes" minLength:"1" maxLength:"2000" doc:"Description of the request"`
		BookingDate string `json:"booking_date" format:"date" doc:"Requested service date (YYYY-MM-DD)"`
	}
}

type CreateBookingOutput struct {
	Body BookingResponse
}

// --- Get Booking ---

type GetBookingInput struct {
	ID string `path:"id" doc:"Booking ID"`
}

type GetBookingOutput struct {
	Body BookingResponse
}

// --- List Bookings ---

type ListBookingsInput struct {
	CallerID    string `query:"caller_id" doc:"Identity of the caller"`
	CallerRole  string `query:"caller_role" doc:"Role of the caller" enum:"admin,technician,user"`
	Status      string `query:"status" required:"false" doc:"Filter by workflow state"`
	ApartmentID string `query:"apartment_id" required:"false" doc:"Filter by apartment"`
}

type ListBookingsOutput struct {
	Body []BookingResponse
}

// --- Assign Technician ---

type AssignTechnicianInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		TechnicianID string `json:"technician_id" minLength:"1" doc:"Technician to assign"`
		CallerID     string `json:"caller_id" minLength:"1" doc:"Admin performing the assignment"`
	}
}

type AssignTechnicianOutput struct {
	Body BookingResponse
}

// --- Mark Fixed ---

type MarkFixedInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		TechnicianNotes string `json:"technician_notes,omitempty" maxLength:"2000" doc:"Resolution notes"`
		CallerID        string `json:"caller_id" minLength:"1" doc:"Technician reporting the fix"`
	}
}

type MarkFixedOutput struct {
	Body BookingResponse
}

// --- Mark Done ---

type MarkDoneInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		CallerID string `json:"caller_id" minLength:"1" doc:"Tenant confirming the work"`
	}
}

type MarkDoneOutput struct {
	Body BookingResponse
}

// Register adds all rental and booking API routes to the Huma API.
func Register(api huma.API, tenancy *app.TenancyService, bookings *app.BookingService) {
	huma.Register(api, huma.Operation{
		OperationID: "rent-apartment",
		Method:      http.MethodPost,
		Path:        "/api/v1/apartments/{id}/rent",
		Summary:     "Rent a vacant apartment",
		Tags:        []string{"Apartments"},
	}, func(ctx context.Context, input *RentApartmentInput) (*RentApartmentOutput, error) {
		apartment, err := tenancy.RentApartment(ctx, input.ID, input.Body.TenantID, input.Body.TermMonths)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RentApartmentOutput{Body: toApartmentResponse(apartment)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "cancel-rental",
		Method:        http.MethodPost,
		Path:          "/api/v1/apartments/{id}/cancel-rental",
		Summary:       "Cancel the current tenant's lease",
		Tags:          []string{"Apartments"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *CancelRentalInput) (*CancelRentalOutput, error) {
		if err := tenancy.CancelRental(ctx, input.ID, input.Body.TenantID); err != nil {
			return nil, toHumaError(err)
		}
		return &CancelRentalOutput{Status: http.StatusNoContent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-active-tenancy",
		Method:      http.MethodGet,
		Path:        "/api/v1/tenants/{tenantID}/apartment",
		Summary:     "Get the apartment a tenant currently occupies",
		Tags:        []string{"Apartments"},
	}, func(ctx context.Context, input *ActiveTenancyInput) (*ActiveTenancyOutput, error) {
		apartment, err := tenancy.ActiveTenancy(ctx, input.TenantID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ActiveTenancyOutput{Body: toApartmentResponse(apartment)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings",
		Summary:     "Open a facility booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateBookingInput) (*CreateBookingOutput, error) {
		bookingDate, err := time.Parse(dateFormat, input.Body.BookingDate)
		if err != nil {
			return nil, toHumaError(&domain.ValidationError{Field: "booking_date", Reason: "must be a valid date (YYYY-MM-DD)"})
		}

		booking, err := bookings.Create(ctx, input.Body.TenantID, input.Body.FacilityID, input.Body.Notes, bookingDate)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateBookingOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Get a booking by ID",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *GetBookingInput) (*GetBookingOutput, error) {
		booking, err := bookings.Get(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetBookingOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-bookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings",
		Summary:     "List bookings visible to the caller",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
		var filter domain.BookingFilter
		if input.Status != "" {
			s := domain.BookingStatus(input.Status)
			filter.Status = &s
		}
		if input.ApartmentID != "" {
			filter.ApartmentID = &input.ApartmentID
		}

		result, err := bookings.List(ctx, input.CallerID, domain.Role(input.CallerRole), filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]BookingResponse, len(result))
		for i, b := range result {
			resp[i] = toBookingResponse(b)
		}
		return &ListBookingsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-technician",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/assign",
		Summary:     "Assign a technician to a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *AssignTechnicianInput) (*AssignTechnicianOutput, error) {
		booking, err := bookings.AssignTechnician(ctx, input.ID, input.Body.TechnicianID, input.Body.CallerID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AssignTechnicianOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-booking-fixed",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/fixed",
		Summary:     "Mark a booking as fixed",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *MarkFixedInput) (*MarkFixedOutput, error) {
		booking, err := bookings.MarkFixed(ctx, input.ID, input.Body.TechnicianNotes, input.Body.CallerID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MarkFixedOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-booking-done",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/done",
		Summary:     "Confirm a fixed booking as done",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *MarkDoneInput) (*MarkDoneOutput, error) {
		booking, err := bookings.MarkDone(ctx, input.ID, input.Body.CallerID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MarkDoneOutput{Body: toBookingResponse(booking)}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors. Not-found maps to
// 404, authorization failures to 403, state disagreements to 409, and
// malformed input to 422.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrApartmentNotFound):
		return huma.Error404NotFound("apartment not found")
	case errors.Is(err, domain.ErrBookingNotFound):
		return huma.Error404NotFound("booking not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return huma.Error404NotFound("user not found")
	case errors.Is(err, domain.ErrNoActiveTenancy):
		return huma.Error409Conflict(domain.ErrNoActiveTenancy.Error())
	}

	var forbiddenErr *domain.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		return huma.Error403Forbidden(forbiddenErr.Error())
	}

	var notTenantErr *domain.NotTenantError
	if errors.As(err, &notTenantErr) {
		return huma.Error403Forbidden(notTenantErr.Error())
	}

	var conflictErr *domain.StateConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var notVacantErr *domain.ApartmentNotVacantError
	if errors.As(err, &notVacantErr) {
		return huma.Error409Conflict(notVacantErr.Error())
	}

	var openErr *domain.OpenBookingsError
	if errors.As(err, &openErr) {
		return huma.Error409Conflict(openErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error409Conflict(trErr.Error())
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error422UnprocessableEntity(valErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
