// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Statuses lists every accepted status value.
var Statuses = []string{StatusInProgress, StatusCompleted, StatusCancelled}

func ValidStatus(s string) bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Order is a purchase record. The detail fields are copied from the
// source offer detail when the order is placed and never re-read.
type Order struct {
	ID                 int64           `db:"id"`
	CustomerUserID     int64           `db:"customer_user_id"`
	BusinessUserID     int64           `db:"business_user_id"`
	OfferDetailID      *int64          `db:"offer_detail_id"`
	Title              string          `db:"title"`
	Revisions          int             `db:"revisions"`
	DeliveryTimeInDays int             `db:"delivery_time_in_days"`
	Price              decimal.Decimal `db:"price"`
	Features           core.StringList `db:"features"`
	OfferType          string          `db:"offer_type"`
	Status             string          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// SourceDetail is an offer detail joined with the user owning its offer.
type SourceDetail struct {
	ID                 int64           `db:"id"`
	OwnerID            int64           `db:"owner_id"`
	Title              string          `db:"title"`
	Revisions          int             `db:"revisions"`
	DeliveryTimeInDays int             `db:"delivery_time_in_days"`
	Price              decimal.Decimal `db:"price"`
	Features           core.StringList `db:"features"`
	OfferType          string          `db:"offer_type"`
}

// Snapshot builds a new in-progress order from a source detail. The
// returned order shares no memory with src.
func Snapshot(src *SourceDetail, customerID int64) *Order {
	detailID := src.ID
	return &Order{
		CustomerUserID:     customerID,
		BusinessUserID:     src.OwnerID,
		OfferDetailID:      &detailID,
		Title:              src.Title,
		Revisions:          src.Revisions,
		DeliveryTimeInDays: src.DeliveryTimeInDays,
		Price:              src.Price,
		Features:           src.Features.Clone(),
		OfferType:          src.OfferType,
		Status:             StatusInProgress,
	}
}
