// AngelaMos | 2026
// stats.go

// Package stats serves the platform-wide dashboard figures.
package stats

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/coderr-backend/internal/core"
	"github.com/carterperez-dev/coderr-backend/internal/review"
)

// Counts are the raw figures read from one snapshot.
type Counts struct {
	ReviewCount          int     `db:"review_count"`
	AverageRating        float64 `db:"average_rating"`
	BusinessProfileCount int     `db:"business_profile_count"`
	OfferCount           int     `db:"offer_count"`
}

type BaseInfoResponse struct {
	ReviewCount          int     `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int     `json:"business_profile_count"`
	OfferCount           int     `json:"offer_count"`
}

type Reader interface {
	Counts(ctx context.Context) (Counts, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Reader {
	return &repository{db: db}
}

// Counts reads every figure from one read-only repeatable-read snapshot.
func (r *repository) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := core.InTxWithOptions(ctx, r.db, core.SnapshotTxOptions, func(tx *sqlx.Tx) error {
		return tx.GetContext(ctx, &c, `
			SELECT
				(SELECT COUNT(*) FROM reviews) AS review_count,
				(SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews) AS average_rating,
				(SELECT COUNT(*) FROM users WHERE type = 'business') AS business_profile_count,
				(SELECT COUNT(*) FROM offers) AS offer_count`)
	})
	if err != nil {
		return Counts{}, fmt.Errorf("read base info: %w", err)
	}
	return c, nil
}

type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// BaseInfo returns the dashboard figures. With no reviews the average
// is 0.
func (s *Service) BaseInfo(ctx context.Context) (*BaseInfoResponse, error) {
	c, err := s.reader.Counts(ctx)
	if err != nil {
		return nil, err
	}

	avg := 0.0
	if c.ReviewCount > 0 {
		avg = review.RoundRating(c.AverageRating)
	}

	return &BaseInfoResponse{
		ReviewCount:          c.ReviewCount,
		AverageRating:        avg,
		BusinessProfileCount: c.BusinessProfileCount,
		OfferCount:           c.OfferCount,
	}, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/base-info", h.BaseInfo)
}

func (h *Handler) BaseInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.BaseInfo(r.Context())
	if err != nil {
		core.HandleError(w, r, err, "statistics")
		return
	}

	core.OK(w, info)
}
