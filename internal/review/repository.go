// AngelaMos | 2026
// repository.go

package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	Exists(ctx context.Context, reviewerID, businessUserID int64) (bool, error)
	Update(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params ListParams) ([]Review, error)
	Summary(ctx context.Context, businessUserID int64) (Summary, error)
}

// ErrDuplicateReview marks a unique violation on (reviewer, business).
var ErrDuplicateReview = fmt.Errorf("review already exists: %w", core.ErrConflict)

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const reviewColumns = `
	id, business_user_id, reviewer_id, rating, description, created_at,
	updated_at`

func (r *repository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (business_user_id, reviewer_id, rating, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rev.BusinessUserID,
		rev.ReviewerID,
		rev.Rating,
		rev.Description,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("create review: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	query := "SELECT " + reviewColumns + " FROM reviews WHERE id = $1"

	var rev Review
	err := r.db.GetContext(ctx, &rev, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get review: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rev, nil
}

func (r *repository) Exists(
	ctx context.Context,
	reviewerID, businessUserID int64,
) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM reviews WHERE reviewer_id = $1 AND business_user_id = $2
		)`, reviewerID, businessUserID)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

func (r *repository) Update(ctx context.Context, rev *Review) error {
	query := `
		UPDATE reviews SET rating = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &rev.UpdatedAt, query, rev.ID, rev.Rating, rev.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update review: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete review: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Review, error) {
	params.Normalize()

	var (
		where []string
		args  []any
	)
	if params.BusinessUserID != nil {
		args = append(args, *params.BusinessUserID)
		where = append(where, fmt.Sprintf("business_user_id = $%d", len(args)))
	}
	if params.ReviewerID != nil {
		args = append(args, *params.ReviewerID)
		where = append(where, fmt.Sprintf("reviewer_id = $%d", len(args)))
	}

	query := "SELECT " + reviewColumns + " FROM reviews"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + params.orderBy()

	reviews := []Review{}
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return reviews, nil
}

func (r *repository) Summary(ctx context.Context, businessUserID int64) (Summary, error) {
	var row struct {
		Count   int     `db:"review_count"`
		Average float64 `db:"average_rating"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS review_count,
		       COALESCE(AVG(rating), 0)::float8 AS average_rating
		FROM reviews
		WHERE business_user_id = $1`, businessUserID)
	if err != nil {
		return Summary{}, fmt.Errorf("review summary: %w", err)
	}

	return Summary{Count: row.Count, Average: row.Average}, nil
}
