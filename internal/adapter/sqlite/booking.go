package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

// BookingRepository implements domain.BookingRepository using SQLite.
// Rows are never deleted; the workflow only moves them forward.
type BookingRepository struct {
	db *sql.DB
}

// Compile-time check: BookingRepository implements domain.BookingRepository.
var _ domain.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Create(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, facility_id, apartment_id, created_by, assigned_to,
		                       status, notes, technician_notes, booking_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.FacilityID, b.ApartmentID, b.CreatedBy, b.AssignedTo,
		string(b.Status), b.Notes, b.TechnicianNotes,
		formatTime(b.BookingDate), formatTime(b.CreatedAt), formatTime(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	return nil
}

const bookingColumns = `id, facility_id, apartment_id, created_by, assigned_to,
	status, notes, technician_notes, booking_date, created_at, updated_at`

func (r *BookingRepository) GetByID(ctx context.Context, id string) (domain.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id,
	)

	b, err := scanBooking(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("scanning booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var conds []string
	var args []any

	if filter.Status != nil {
		conds = append(conds, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.ApartmentID != nil {
		conds = append(conds, `apartment_id = ?`)
		args = append(args, *filter.ApartmentID)
	}
	if filter.CreatedBy != nil {
		conds = append(conds, `created_by = ?`)
		args = append(args, *filter.CreatedBy)
	}
	if filter.AssignedTo != nil {
		conds = append(conds, `assigned_to = ?`)
		args = append(args, *filter.AssignedTo)
	}

	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// UpdateStatus applies the guarded mutation as a compare-and-swap on the
// status column. Zero affected rows means the precondition no longer holds:
// the actual status is re-read and reported so the caller can react.
func (r *BookingRepository) UpdateStatus(ctx context.Context, upd domain.StatusUpdate) error {
	query := `UPDATE bookings SET status = ?, updated_at = ?`
	args := []any{string(upd.To), formatTime(time.Now())}

	if upd.AssignTo != nil {
		query += `, assigned_to = ?`
		args = append(args, *upd.AssignTo)
	}
	if upd.TechnicianNotes != nil {
		query += `, technician_notes = ?`
		args = append(args, *upd.TechnicianNotes)
	}

	query += ` WHERE id = ? AND status = ?`
	args = append(args, upd.ID, string(upd.From))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		current, err := r.GetByID(ctx, upd.ID)
		if err != nil {
			return err
		}
		return &domain.StateConflictError{
			BookingID: upd.ID,
			Expected:  upd.From,
			Current:   current.Status,
		}
	}

	return nil
}

// scanBooking scans a booking row via the given Scan function, shared by
// GetByID and List.
func scanBooking(scan func(dest ...any) error) (domain.Booking, error) {
	var b domain.Booking
	var status, bookingDate, createdAt, updatedAt string
	var assignedTo sql.NullString

	err := scan(&b.ID, &b.FacilityID, &b.ApartmentID, &b.CreatedBy, &assignedTo,
		&status, &b.Notes, &b.TechnicianNotes, &bookingDate, &createdAt, &updatedAt)
	if err != nil {
		return domain.Booking{}, err
	}

	b.Status = domain.BookingStatus(status)
	b.AssignedTo = stringPtr(assignedTo)
	b.BookingDate, _ = time.Parse(timeFormat, bookingDate)
	b.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	b.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return b, nil
}
