// AngelaMos | 2026
// repository.go

package offer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

// Store is the set of offer queries. It runs against either the pool or
// an open transaction.
type Store interface {
	Create(ctx context.Context, o *Offer) error
	CreateDetail(ctx context.Context, d *Detail) error
	UpdateDetail(ctx context.Context, d *Detail) error
	UpdateOffer(ctx context.Context, o *Offer) error
	Delete(ctx context.Context, id int64) error
	GetForUpdate(ctx context.Context, id int64) (*Offer, error)
	GetByID(ctx context.Context, id int64) (*Offer, error)
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	ListDetails(ctx context.Context, offerID int64) ([]Detail, error)
	List(ctx context.Context, params ListParams) ([]Offer, int, error)
}

type Repository interface {
	Store
	// InTx runs fn with a Store bound to one transaction.
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

const offerColumns = `
	o.id, o.user_id, o.title, o.image, o.description, o.min_price,
	o.min_delivery_time, o.created_at, o.updated_at,
	u.username AS owner_username, u.first_name AS owner_first_name,
	u.last_name AS owner_last_name`

const detailColumns = `
	id, offer_id, title, revisions, delivery_time_in_days, price, features,
	offer_type`

func (s *store) Create(ctx context.Context, o *Offer) error {
	query := `
		INSERT INTO offers (user_id, title, image, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		o.UserID,
		o.Title,
		o.Image,
		o.Description,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	return nil
}

func (s *store) CreateDetail(ctx context.Context, d *Detail) error {
	query := `
		INSERT INTO offer_details
			(offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := s.db.GetContext(ctx, &d.ID, query,
		d.OfferID,
		d.Title,
		d.Revisions,
		d.DeliveryTimeInDays,
		d.Price,
		d.Features,
		d.OfferType,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create offer detail: %w",
				core.InvalidField("details", "duplicate offer type "+d.OfferType))
		}
		return fmt.Errorf("create offer detail: %w", err)
	}

	return nil
}

func (s *store) UpdateDetail(ctx context.Context, d *Detail) error {
	query := `
		UPDATE offer_details
		SET title = $2, revisions = $3, delivery_time_in_days = $4, price = $5,
		    features = $6
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		d.ID,
		d.Title,
		d.Revisions,
		d.DeliveryTimeInDays,
		d.Price,
		d.Features,
	)
	return checkAffected("update offer detail", result, err)
}

// UpdateOffer writes the editable fields and the derived aggregates,
// bumping updated_at.
func (s *store) UpdateOffer(ctx context.Context, o *Offer) error {
	query := `
		UPDATE offers
		SET title = $2, image = $3, description = $4, min_price = $5,
		    min_delivery_time = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := s.db.GetContext(ctx, &o.UpdatedAt, query,
		o.ID,
		o.Title,
		o.Image,
		o.Description,
		o.MinPrice,
		o.MinDeliveryTime,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update offer: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}

	return nil
}

func (s *store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM offer_details WHERE offer_id = $1`, id); err != nil {
		return fmt.Errorf("delete offer details: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return checkAffected("delete offer", result, err)
}

// GetForUpdate locks the offer row for the rest of the transaction.
func (s *store) GetForUpdate(ctx context.Context, id int64) (*Offer, error) {
	return s.getOne(ctx, "lock offer", `
		SELECT `+offerColumns+`
		FROM offers o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
		FOR UPDATE OF o`, id)
}

func (s *store) GetByID(ctx context.Context, id int64) (*Offer, error) {
	return s.getOne(ctx, "get offer", `
		SELECT `+offerColumns+`
		FROM offers o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`, id)
}

func (s *store) getOne(
	ctx context.Context,
	op, query string,
	id int64,
) (*Offer, error) {
	var o Offer
	err := s.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	details, err := s.ListDetails(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Details = details

	return &o, nil
}

func (s *store) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	query := "SELECT " + detailColumns + " FROM offer_details WHERE id = $1"

	var d Detail
	err := s.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get offer detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get offer detail: %w", err)
	}

	return &d, nil
}

func (s *store) ListDetails(ctx context.Context, offerID int64) ([]Detail, error) {
	query := "SELECT " + detailColumns + `
		FROM offer_details
		WHERE offer_id = $1
		ORDER BY id`

	details := []Detail{}
	if err := s.db.SelectContext(ctx, &details, query, offerID); err != nil {
		return nil, fmt.Errorf("list offer details: %w", err)
	}
	SortByTier(details)

	return details, nil
}

func (s *store) listDetailsFor(ctx context.Context, offerIDs []int64) (map[int64][]Detail, error) {
	out := make(map[int64][]Detail, len(offerIDs))
	if len(offerIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In("SELECT "+detailColumns+`
		FROM offer_details
		WHERE offer_id IN (?)
		ORDER BY id`, offerIDs)
	if err != nil {
		return nil, fmt.Errorf("build detail query: %w", err)
	}

	var details []Detail
	if err := s.db.SelectContext(ctx, &details, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list offer details: %w", err)
	}

	for _, d := range details {
		out[d.OfferID] = append(out[d.OfferID], d)
	}
	for id := range out {
		SortByTier(out[id])
	}

	return out, nil
}

// List returns one page of offers and the unpaged total.
func (s *store) List(ctx context.Context, params ListParams) ([]Offer, int, error) {
	params.Normalize()

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.CreatorID != nil {
		where = append(where, "o.user_id = "+arg(*params.CreatorID))
	}
	if params.MinPrice != nil {
		where = append(where, `EXISTS (SELECT 1 FROM offer_details d
			WHERE d.offer_id = o.id AND d.price >= `+arg(*params.MinPrice)+`)`)
	}
	if params.MaxDeliveryTime != nil {
		where = append(where, `EXISTS (SELECT 1 FROM offer_details d
			WHERE d.offer_id = o.id AND d.delivery_time_in_days <= `+arg(*params.MaxDeliveryTime)+`)`)
	}
	if term := strings.TrimSpace(params.Search); term != "" {
		p := arg("%" + core.EscapeLike(term) + "%")
		where = append(where, "(o.title ILIKE "+p+" OR o.description ILIKE "+p+")")
	}

	filter := ""
	if len(where) > 0 {
		filter = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM offers o" + filter
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	query := "SELECT " + offerColumns + `
		FROM offers o
		JOIN users u ON u.id = o.user_id` + filter +
		" ORDER BY " + params.orderBy() +
		" LIMIT " + arg(params.PageSize) + " OFFSET " + arg(params.Offset())

	offers := []Offer{}
	if err := s.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	ids := make([]int64, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}
	details, err := s.listDetailsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range offers {
		offers[i].Details = details[offers[i].ID]
	}

	return offers, total, nil
}

func checkAffected(op string, result sql.Result, err error) error {
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
