package domain

import "time"

// ApartmentStatus represents the occupancy state of an apartment.
type ApartmentStatus string

const (
	ApartmentVacant      ApartmentStatus = "vacant"
	ApartmentOccupied    ApartmentStatus = "occupied"
	ApartmentMaintenance ApartmentStatus = "maintenance"
)

// DefaultLeaseMonths is the lease term applied when the caller does not
// supply one.
const DefaultLeaseMonths = 12

// Apartment holds occupancy state for a single unit. The tenant reference
// and the lease window are set iff Status is "occupied"; Occupy and Vacate
// mutate all three together so the invariant cannot be half-applied.
type Apartment struct {
	ID         string
	Number     string
	Status     ApartmentStatus
	TenantID   *string
	LeaseStart *time.Time
	LeaseEnd   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewApartment creates an apartment in the initial "vacant" state.
func NewApartment(id, number string) Apartment {
	now := time.Now().UTC()
	return Apartment{
		ID:        id,
		Number:    number,
		Status:    ApartmentVacant,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Occupy marks the apartment as rented by tenantID with a lease starting at
// start. A termMonths of zero or less applies DefaultLeaseMonths.
func (a *Apartment) Occupy(tenantID string, start time.Time, termMonths int) {
	if termMonths <= 0 {
		termMonths = DefaultLeaseMonths
	}
	end := start.AddDate(0, termMonths, 0)

	a.Status = ApartmentOccupied
	a.TenantID = &tenantID
	a.LeaseStart = &start
	a.LeaseEnd = &end
	a.UpdatedAt = time.Now().UTC()
}

// Vacate resets the apartment to vacant, clearing the tenant and lease window.
func (a *Apartment) Vacate() {
	a.Status = ApartmentVacant
	a.TenantID = nil
	a.LeaseStart = nil
	a.LeaseEnd = nil
	a.UpdatedAt = time.Now().UTC()
}

// OccupiedBy reports whether the apartment is currently rented by userID.
func (a Apartment) OccupiedBy(userID string) bool {
	return a.Status == ApartmentOccupied && a.TenantID != nil && *a.TenantID == userID
}
