// AngelaMos | 2026
// entity.go

package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a business. At most one exists per
// (reviewer, business) pair.
type Review struct {
	ID             int64     `db:"id"`
	BusinessUserID int64     `db:"business_user_id"`
	ReviewerID     int64     `db:"reviewer_id"`
	Rating         int       `db:"rating"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Summary aggregates the reviews of one business.
type Summary struct {
	Count   int
	Average float64
}
