// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/coderr-backend/internal/authz"
	"github.com/carterperez-dev/coderr-backend/internal/core"
)

// UserLookup resolves whether an account exists.
type UserLookup interface {
	UserType(ctx context.Context, id int64) (string, error)
}

type Service struct {
	repo  Repository
	users UserLookup
}

func NewService(repo Repository, users UserLookup) *Service {
	return &Service{repo: repo, users: users}
}

// Create places an order for the given offer detail, copying the
// detail's fields into the order in the same transaction as the read.
func (s *Service) Create(
	ctx context.Context,
	caller authz.Caller,
	offerDetailID int64,
) (*Order, error) {
	if err := authz.CanCreateOrder(caller); err != nil {
		return nil, err
	}

	var order *Order
	err := s.repo.InTx(ctx, func(st Store) error {
		src, err := st.SourceDetail(ctx, offerDetailID)
		if err != nil {
			return err
		}

		order = Snapshot(src, caller.UserID)
		return st.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"customer_user_id", order.CustomerUserID,
		"business_user_id", order.BusinessUserID,
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, caller authz.Caller, id int64) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanViewOrder(caller, order.CustomerUserID, order.BusinessUserID); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns the orders the caller is a party to, or every order for
// staff.
func (s *Service) List(ctx context.Context, caller authz.Caller) ([]Order, error) {
	if !caller.Authenticated() {
		return nil, fmt.Errorf("list orders: %w", core.ErrUnauthorized)
	}
	if authz.CanListAllOrders(caller) {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListForUser(ctx, caller.UserID)
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	caller authz.Caller,
	id int64,
	status string,
) (*Order, error) {
	if !ValidStatus(status) {
		return nil, core.InvalidField("status", "must be one of: in_progress completed cancelled")
	}

	var order *Order
	err := s.repo.InTx(ctx, func(st Store) error {
		current, err := st.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := authz.CanUpdateOrderStatus(caller, current.CustomerUserID, current.BusinessUserID); err != nil {
			return err
		}

		current.Status = status
		if err := st.UpdateStatus(ctx, current); err != nil {
			return err
		}
		order = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *Service) Delete(ctx context.Context, caller authz.Caller, id int64) error {
	if err := authz.CanDeleteOrder(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "order deleted", "order_id", id, "user_id", caller.UserID)
	return nil
}

// CountByStatus counts a user's orders in one status. Unknown users are
// reported as not found rather than as zero.
func (s *Service) CountByStatus(
	ctx context.Context,
	businessUserID int64,
	status string,
) (int, error) {
	if _, err := s.users.UserType(ctx, businessUserID); err != nil {
		return 0, err
	}
	return s.repo.CountByStatus(ctx, businessUserID, status)
}

// StatusBreakdown counts every order by status.
func (s *Service) StatusBreakdown(ctx context.Context) (map[string]int, error) {
	return s.repo.StatusBreakdown(ctx)
}
