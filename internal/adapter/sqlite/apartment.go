package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

// ApartmentRepository implements domain.ApartmentRepository using SQLite.
// Every status-changing write is conditional on the state the caller
// observed, checked via affected-row counts.
type ApartmentRepository struct {
	db *sql.DB
}

// Compile-time check: ApartmentRepository implements domain.ApartmentRepository.
var _ domain.ApartmentRepository = (*ApartmentRepository)(nil)

func (r *ApartmentRepository) Create(ctx context.Context, a domain.Apartment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO apartments (id, number, status, tenant_id, lease_start, lease_end, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Number, string(a.Status), a.TenantID,
		formatTimePtr(a.LeaseStart), formatTimePtr(a.LeaseEnd),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting apartment: %w", err)
	}
	return nil
}

const apartmentColumns = `id, number, status, tenant_id, lease_start, lease_end, created_at, updated_at`

func (r *ApartmentRepository) GetByID(ctx context.Context, id string) (domain.Apartment, error) {
	return scanApartment(r.db.QueryRowContext(ctx,
		`SELECT `+apartmentColumns+` FROM apartments WHERE id = ?`, id,
	))
}

func (r *ApartmentRepository) FindByTenant(ctx context.Context, tenantID string) (domain.Apartment, error) {
	return scanApartment(r.db.QueryRowContext(ctx,
		`SELECT `+apartmentColumns+` FROM apartments
		 WHERE tenant_id = ? AND status = ?`, tenantID, string(domain.ApartmentOccupied),
	))
}

// OccupyIfVacant persists the occupied apartment only if the stored row is
// still vacant, so two concurrent rentals resolve to one winner.
func (r *ApartmentRepository) OccupyIfVacant(ctx context.Context, a domain.Apartment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE apartments
		 SET status = ?, tenant_id = ?, lease_start = ?, lease_end = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		string(domain.ApartmentOccupied), a.TenantID,
		formatTimePtr(a.LeaseStart), formatTimePtr(a.LeaseEnd),
		formatTime(time.Now()),
		a.ID, string(domain.ApartmentVacant),
	)
	if err != nil {
		return fmt.Errorf("occupying apartment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Either the row is gone or another rental won the race; re-read to
		// report which.
		current, err := r.GetByID(ctx, a.ID)
		if err != nil {
			return err
		}
		return &domain.ApartmentNotVacantError{ApartmentID: a.ID, Status: current.Status}
	}

	return nil
}

// VacateIfNoOpenBookings runs the open-booking guard and the conditional
// vacate in one transaction, closing the race where a booking is created
// between the guard read and the apartment write.
func (r *ApartmentRepository) VacateIfNoOpenBookings(ctx context.Context, apartmentID, tenantID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings
		 WHERE apartment_id = ? AND created_by = ? AND status != ?`,
		apartmentID, tenantID, string(domain.BookingDone),
	).Scan(&open)
	if err != nil {
		return fmt.Errorf("counting open bookings: %w", err)
	}
	if open > 0 {
		return &domain.OpenBookingsError{ApartmentID: apartmentID, Count: open}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE apartments
		 SET status = ?, tenant_id = NULL, lease_start = NULL, lease_end = NULL, updated_at = ?
		 WHERE id = ? AND tenant_id = ? AND status = ?`,
		string(domain.ApartmentVacant), formatTime(time.Now()),
		apartmentID, tenantID, string(domain.ApartmentOccupied),
	)
	if err != nil {
		return fmt.Errorf("vacating apartment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM apartments WHERE id = ?`, apartmentID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking apartment existence: %w", err)
		}
		if exists == 0 {
			return domain.ErrApartmentNotFound
		}
		return &domain.NotTenantError{ApartmentID: apartmentID}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing vacate: %w", err)
	}
	return nil
}

// scanApartment scans a single row from QueryRow into a domain.Apartment.
func scanApartment(row *sql.Row) (domain.Apartment, error) {
	var a domain.Apartment
	var status, createdAt, updatedAt string
	var tenantID, leaseStart, leaseEnd sql.NullString

	err := row.Scan(&a.ID, &a.Number, &status, &tenantID, &leaseStart, &leaseEnd, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Apartment{}, domain.ErrApartmentNotFound
		}
		return domain.Apartment{}, fmt.Errorf("scanning apartment: %w", err)
	}

	a.Status = domain.ApartmentStatus(status)
	a.TenantID = stringPtr(tenantID)
	a.LeaseStart = parseTimePtr(leaseStart)
	a.LeaseEnd = parseTimePtr(leaseEnd)
	a.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	a.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return a, nil
}
