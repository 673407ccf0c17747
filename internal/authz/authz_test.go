// AngelaMos | 2026
// authz_test.go

package authz

import (
	"errors"
	"testing"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

var (
	anon      = Anonymous()
	customer  = Caller{UserID: 1, Role: RoleCustomer}
	business  = Caller{UserID: 2, Role: RoleBusiness}
	otherBiz  = Caller{UserID: 3, Role: RoleBusiness}
	outsider  = Caller{UserID: 4, Role: RoleCustomer}
	staffCust = Caller{UserID: 9, Role: RoleCustomer, Staff: true}
)

type outcome int

const (
	allowed outcome = iota
	forbidden
	unauthenticated
)

func classify(err error) outcome {
	switch {
	case err == nil:
		return allowed
	case errors.Is(err, core.ErrForbidden):
		return forbidden
	case errors.Is(err, core.ErrUnauthorized):
		return unauthenticated
	default:
		return -1
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want outcome
	}{
		{"anonymous cannot create offer", CanCreateOffer(anon), unauthenticated},
		{"customer cannot create offer", CanCreateOffer(customer), forbidden},
		{"business creates offer", CanCreateOffer(business), allowed},
		{"staff customer still cannot create offer", CanCreateOffer(staffCust), forbidden},

		{"owner modifies offer", CanModifyOffer(business, 2), allowed},
		{"other business cannot modify offer", CanModifyOffer(otherBiz, 2), forbidden},
		{"staff modifies any offer", CanModifyOffer(staffCust, 2), allowed},
		{"anonymous cannot modify offer", CanModifyOffer(anon, 2), unauthenticated},

		{"customer creates order", CanCreateOrder(customer), allowed},
		{"business cannot create order", CanCreateOrder(business), forbidden},

		{"customer party views order", CanViewOrder(customer, 1, 2), allowed},
		{"business party views order", CanViewOrder(business, 1, 2), allowed},
		{"third party cannot view order", CanViewOrder(outsider, 1, 2), forbidden},
		{"staff views order", CanViewOrder(staffCust, 1, 2), allowed},

		{"third party cannot update status", CanUpdateOrderStatus(otherBiz, 1, 2), forbidden},
		{"business party updates status", CanUpdateOrderStatus(business, 1, 2), allowed},

		{"customer cannot delete order", CanDeleteOrder(customer), forbidden},
		{"business party cannot delete order", CanDeleteOrder(business), forbidden},
		{"staff deletes order", CanDeleteOrder(staffCust), allowed},
		{"anonymous cannot delete order", CanDeleteOrder(anon), unauthenticated},

		{"customer creates review", CanCreateReview(customer), allowed},
		{"business cannot create review", CanCreateReview(business), forbidden},
		{"author modifies review", CanModifyReview(customer, 1), allowed},
		{"other customer cannot modify review", CanModifyReview(outsider, 1), forbidden},
		{"staff modifies review", CanModifyReview(staffCust, 1), allowed},

		{"self edits profile", CanEditProfile(customer, 1), allowed},
		{"other user cannot edit profile", CanEditProfile(business, 1), forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classify(tt.err); got != tt.want {
				t.Fatalf("got outcome %d (%v), want %d", got, tt.err, tt.want)
			}
		})
	}
}

func TestCanListAllOrders(t *testing.T) {
	t.Parallel()

	if CanListAllOrders(customer) {
		t.Fatal("customer must be scoped to own orders")
	}
	if !CanListAllOrders(staffCust) {
		t.Fatal("staff should see all orders")
	}
	if CanListAllOrders(Caller{Staff: true}) {
		t.Fatal("anonymous staff flag must not bypass scoping")
	}
}
