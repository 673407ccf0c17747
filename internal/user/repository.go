// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id int64) error
	ListByType(ctx context.Context, userType string) ([]User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, username, email, password_hash, first_name, last_name, type, is_staff,
	file, location, tel, description, working_hours, token_version,
	created_at, updated_at`

// DuplicateField names the column behind a unique violation on users.
type DuplicateField struct {
	Field string
}

func (d *DuplicateField) Error() string {
	return d.Field + " already exists"
}

func (d *DuplicateField) Unwrap() error {
	return core.ErrDuplicateKey
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, email, password_hash, type, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_staff, token_version, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Type,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", duplicateField(err))
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getOne(ctx, "get user", "id = $1", id)
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	return r.getOne(ctx, "get user by username", "username = $1", username)
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	arg any,
) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE " + where

	var user User
	err := r.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, email = $4, file = $5,
		    location = $6, tel = $7, description = $8, working_hours = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.File,
		user.Location,
		user.Tel,
		user.Description,
		user.WorkingHours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update profile: %w", duplicateField(err))
		}
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	return r.execOne(ctx, "update password", `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id int64) error {
	return r.execOne(ctx, "increment token version", `
		UPDATE users SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1`, id)
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListByType(
	ctx context.Context,
	userType string,
) ([]User, error) {
	query := "SELECT " + userColumns + `
		FROM users
		WHERE type = $1
		ORDER BY created_at DESC, id DESC`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, userType); err != nil {
		return nil, fmt.Errorf("list %s users: %w", userType, err)
	}

	return users, nil
}

func duplicateField(err error) *DuplicateField {
	constraint := core.DuplicateConstraint(err)
	switch {
	case strings.Contains(constraint, "username"):
		return &DuplicateField{Field: "username"}
	case strings.Contains(constraint, "email"):
		return &DuplicateField{Field: "email"}
	default:
		return &DuplicateField{Field: "user"}
	}
}
