package app

import (
	"context"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

// TenancyService maintains the exclusive occupancy invariant for apartments
// and answers the active-tenancy query that gates booking creation.
type TenancyService struct {
	apartments domain.ApartmentRepository
}

// NewTenancyService creates a service with the given apartment repository.
func NewTenancyService(apartments domain.ApartmentRepository) *TenancyService {
	return &TenancyService{apartments: apartments}
}

// RentApartment puts a vacant apartment under lease by tenantID. A
// termMonths of zero or less applies the default lease term. The vacancy
// check is enforced again by the conditional store write, so two concurrent
// rentals of the same apartment resolve to one success and one
// ApartmentNotVacantError.
func (s *TenancyService) RentApartment(ctx context.Context, apartmentID, tenantID string, termMonths int) (domain.Apartment, error) {
	apartment, err := s.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		return domain.Apartment{}, err
	}

	if apartment.Status != domain.ApartmentVacant {
		return domain.Apartment{}, &domain.ApartmentNotVacantError{
			ApartmentID: apartment.ID,
			Status:      apartment.Status,
		}
	}

	apartment.Occupy(tenantID, time.Now().UTC(), termMonths)

	if err := s.apartments.OccupyIfVacant(ctx, apartment); err != nil {
		return domain.Apartment{}, err
	}

	return apartment, nil
}

// CancelRental releases the caller's lease on an apartment. Only the current
// tenant may cancel, and cancellation is blocked while any of their bookings
// for this apartment is still open; the guard read and the vacate write run
// in a single store transaction.
func (s *TenancyService) CancelRental(ctx context.Context, apartmentID, tenantID string) error {
	apartment, err := s.apartments.GetByID(ctx, apartmentID)
	if err != nil {
		return err
	}

	if !apartment.OccupiedBy(tenantID) {
		return &domain.NotTenantError{ApartmentID: apartmentID}
	}

	return s.apartments.VacateIfNoOpenBookings(ctx, apartmentID, tenantID)
}

// ActiveTenancy returns the apartment currently occupied by tenantID, or
// domain.ErrApartmentNotFound when the tenant holds no active lease.
func (s *TenancyService) ActiveTenancy(ctx context.Context, tenantID string) (domain.Apartment, error) {
	return s.apartments.FindByTenant(ctx, tenantID)
}
