// AngelaMos | 2026
// dto.go

package review

import (
	"math"
	"net/url"
	"strconv"
	"time"
)

type CreateReviewRequest struct {
	BusinessUser int64  `json:"business_user" validate:"required,gt=0"`
	Rating       int    `json:"rating"        validate:"required,gte=1,lte=5"`
	Description  string `json:"description"   validate:"max=5000"`
}

type UpdateReviewRequest struct {
	Rating      *int    `json:"rating"      validate:"omitempty,gte=1,lte=5"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

type ReviewResponse struct {
	ID           int64     `json:"id"`
	BusinessUser int64     `json:"business_user"`
	Reviewer     int64     `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SummaryResponse struct {
	BusinessUserID int64   `json:"business_user_id"`
	ReviewCount    int     `json:"review_count"`
	AverageRating  float64 `json:"average_rating"`
}

const defaultOrdering = "-updated_at"

var orderings = map[string]string{
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id DESC",
	"rating":      "rating ASC, id ASC",
	"-rating":     "rating DESC, id DESC",
}

type ListParams struct {
	BusinessUserID *int64
	ReviewerID     *int64
	Ordering       string
}

func (p *ListParams) Normalize() {
	if _, ok := orderings[p.Ordering]; !ok {
		p.Ordering = defaultOrdering
	}
}

func (p *ListParams) orderBy() string {
	return orderings[p.Ordering]
}

// ParseListParams reads filters from the query string; ids that do not
// parse are ignored.
func ParseListParams(q url.Values) ListParams {
	params := ListParams{Ordering: q.Get("ordering")}
	if n, err := strconv.ParseInt(q.Get("business_user_id"), 10, 64); err == nil {
		params.BusinessUserID = &n
	}
	if n, err := strconv.ParseInt(q.Get("reviewer_id"), 10, 64); err == nil {
		params.ReviewerID = &n
	}
	return params
}

// RoundRating rounds an average to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func ToResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BusinessUser: r.BusinessUserID,
		Reviewer:     r.ReviewerID,
		Rating:       r.Rating,
		Description:  r.Description,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func ToResponses(reviews []Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, ToResponse(&reviews[i]))
	}
	return out
}
