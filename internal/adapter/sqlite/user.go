package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoangnv/aptcare/internal/domain"
)

// UserDirectory implements domain.UserDirectory using SQLite. User
// management itself (registration, authentication) lives outside this
// service; the directory only resolves identities to workflow roles, plus a
// Create used by seeding and tests.
type UserDirectory struct {
	db *sql.DB
}

// Compile-time check: UserDirectory implements domain.UserDirectory.
var _ domain.UserDirectory = (*UserDirectory)(nil)

func (d *UserDirectory) GetRole(ctx context.Context, userID string) (domain.Role, error) {
	var role string
	err := d.db.QueryRowContext(ctx,
		`SELECT role FROM users WHERE id = ?`, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("querying user role: %w", err)
	}
	return domain.Role(role), nil
}

// Create inserts a user with the given role.
func (d *UserDirectory) Create(ctx context.Context, id, name string, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO users (id, name, role, created_at) VALUES (?, ?, ?, ?)`,
		id, name, string(role), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}
