// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type Store interface {
	// SourceDetail reads an offer detail and its owner, holding a share
	// lock until the transaction ends.
	SourceDetail(ctx context.Context, detailID int64) (*SourceDetail, error)
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	GetForUpdate(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id int64) error
	ListForUser(ctx context.Context, userID int64) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	CountByStatus(ctx context.Context, businessUserID int64, status string) (int, error)
	StatusBreakdown(ctx context.Context) (map[string]int, error)
}

type Repository interface {
	Store
	InTx(ctx context.Context, fn func(Store) error) error
}

type repository struct {
	store
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{store: store{db: db}, db: db}
}

func (r *repository) InTx(ctx context.Context, fn func(Store) error) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&store{db: tx})
	})
}

type store struct {
	db core.DBTX
}

const orderColumns = `
	id, customer_user_id, business_user_id, offer_detail_id, title, revisions,
	delivery_time_in_days, price, features, offer_type, status, created_at,
	updated_at`

func (s *store) SourceDetail(ctx context.Context, detailID int64) (*SourceDetail, error) {
	query := `
		SELECT d.id, o.user_id AS owner_id, d.title, d.revisions,
		       d.delivery_time_in_days, d.price, d.features, d.offer_type
		FROM offer_details d
		JOIN offers o ON o.id = d.offer_id
		WHERE d.id = $1
		FOR SHARE OF d`

	var src SourceDetail
	err := s.db.GetContext(ctx, &src, query, detailID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get offer detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get offer detail: %w", err)
	}

	return &src, nil
}

func (s *store) Create(ctx context.Context, o *Order) error {
	query := `
		INSERT INTO orders (
			customer_user_id, business_user_id, offer_detail_id, title, revisions,
			delivery_time_in_days, price, features, offer_type, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		o.CustomerUserID,
		o.BusinessUserID,
		o.OfferDetailID,
		o.Title,
		o.Revisions,
		o.DeliveryTimeInDays,
		o.Price,
		o.Features,
		o.OfferType,
		o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (s *store) GetByID(ctx context.Context, id int64) (*Order, error) {
	return s.getOne(ctx, "get order",
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
}

func (s *store) GetForUpdate(ctx context.Context, id int64) (*Order, error) {
	return s.getOne(ctx, "lock order",
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
}

func (s *store) getOne(ctx context.Context, op, query string, id int64) (*Order, error) {
	var o Order
	err := s.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// UpdateStatus writes only the status column.
func (s *store) UpdateStatus(ctx context.Context, o *Order) error {
	query := `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &o.UpdatedAt, query, o.ID, o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update order status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete order: %w", core.ErrNotFound)
	}

	return nil
}

func (s *store) ListForUser(ctx context.Context, userID int64) ([]Order, error) {
	query := "SELECT " + orderColumns + `
		FROM orders
		WHERE customer_user_id = $1 OR business_user_id = $1
		ORDER BY created_at DESC, id DESC`

	orders := []Order{}
	if err := s.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *store) ListAll(ctx context.Context) ([]Order, error) {
	query := "SELECT " + orderColumns + `
		FROM orders
		ORDER BY created_at DESC, id DESC`

	orders := []Order{}
	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return orders, nil
}

func (s *store) CountByStatus(
	ctx context.Context,
	businessUserID int64,
	status string,
) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM orders
		WHERE business_user_id = $1 AND status = $2`, businessUserID, status)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (s *store) StatusBreakdown(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("order status breakdown: %w", err)
	}

	out := make(map[string]int, len(Statuses))
	for _, st := range Statuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
