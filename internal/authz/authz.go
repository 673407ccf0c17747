// AngelaMos | 2026
// authz.go

// Package authz holds the marketplace access rules. Every rule is a pure
// function of the caller and the ids attached to the target resource.
package authz

import (
	"fmt"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const (
	RoleCustomer = "customer"
	RoleBusiness = "business"
)

// Caller is the identity a request acts as. The zero value is anonymous.
type Caller struct {
	UserID int64
	Role   string
	Staff  bool
}

func Anonymous() Caller {
	return Caller{}
}

func (c Caller) Authenticated() bool {
	return c.UserID > 0
}

// Role rules check the role tag only; staff status does not grant a role.

func CanCreateOffer(c Caller) error {
	return requireRole(c, RoleBusiness, "only business users can create offers")
}

func CanCreateOrder(c Caller) error {
	return requireRole(c, RoleCustomer, "only customers can create orders")
}

func CanCreateReview(c Caller) error {
	return requireRole(c, RoleCustomer, "only customers can create reviews")
}

// Ownership rules are satisfied by the owner or by staff.

func CanModifyOffer(c Caller, ownerID int64) error {
	return requireOwner(c, "only the offer owner can change it", ownerID)
}

func CanModifyReview(c Caller, reviewerID int64) error {
	return requireOwner(c, "only the review author can change it", reviewerID)
}

func CanEditProfile(c Caller, profileID int64) error {
	return requireOwner(c, "you can only edit your own profile", profileID)
}

func CanViewOrder(c Caller, customerID, businessID int64) error {
	return requireOwner(
		c,
		"only the parties of an order can access it",
		customerID,
		businessID,
	)
}

func CanUpdateOrderStatus(c Caller, customerID, businessID int64) error {
	return requireOwner(
		c,
		"only the parties of an order can update it",
		customerID,
		businessID,
	)
}

func CanDeleteOrder(c Caller) error {
	if !c.Authenticated() {
		return fmt.Errorf("delete order: %w", core.ErrUnauthorized)
	}
	if !c.Staff {
		return core.ForbiddenError("only admins can delete orders")
	}
	return nil
}

// CanListAllOrders reports whether order listings may skip party scoping.
func CanListAllOrders(c Caller) bool {
	return c.Authenticated() && c.Staff
}

func requireRole(c Caller, role, message string) error {
	if !c.Authenticated() {
		return fmt.Errorf("%s: %w", message, core.ErrUnauthorized)
	}
	if c.Role != role {
		return core.ForbiddenError(message)
	}
	return nil
}

func requireOwner(c Caller, message string, ownerIDs ...int64) error {
	if !c.Authenticated() {
		return fmt.Errorf("%s: %w", message, core.ErrUnauthorized)
	}
	if c.Staff {
		return nil
	}
	for _, id := range ownerIDs {
		if id == c.UserID {
			return nil
		}
	}
	return core.ForbiddenError(message)
}
