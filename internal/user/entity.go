// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
)

const (
	TypeCustomer = authz.RoleCustomer
	TypeBusiness = authz.RoleBusiness
)

// User is an account plus its public profile. Type is fixed at creation.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Type         string    `db:"type"`
	IsStaff      bool      `db:"is_staff"`
	File         *string   `db:"file"`
	Location     *string   `db:"location"`
	Tel          *string   `db:"tel"`
	Description  *string   `db:"description"`
	WorkingHours *string   `db:"working_hours"`
	TokenVersion int       `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func ValidType(t string) bool {
	return t == TypeCustomer || t == TypeBusiness
}
