// AngelaMos | 2026
// entity.go

package offer

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

const (
	TierBasic    = "basic"
	TierStandard = "standard"
	TierPremium  = "premium"

	// UnlimitedRevisions is the revisions value meaning "no limit".
	UnlimitedRevisions = -1
)

// Tiers lists every tier an offer must carry, in display order.
var Tiers = []string{TierBasic, TierStandard, TierPremium}

func ValidTier(t string) bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	}
	return false
}

// Offer is a business user's listing. MinPrice and MinDeliveryTime are
// derived from Details and rewritten whenever a detail changes.
type Offer struct {
	ID              int64               `db:"id"`
	UserID          int64               `db:"user_id"`
	Title           string              `db:"title"`
	Image           *string             `db:"image"`
	Description     string              `db:"description"`
	MinPrice        decimal.NullDecimal `db:"min_price"`
	MinDeliveryTime *int                `db:"min_delivery_time"`
	CreatedAt       time.Time           `db:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at"`

	OwnerUsername  string `db:"owner_username"`
	OwnerFirstName string `db:"owner_first_name"`
	OwnerLastName  string `db:"owner_last_name"`

	Details []Detail `db:"-"`
}

// Detail is one priced tier of an offer.
type Detail struct {
	ID                 int64           `db:"id"`
	OfferID            int64           `db:"offer_id"`
	Title              string          `db:"title"`
	Revisions          int             `db:"revisions"`
	DeliveryTimeInDays int             `db:"delivery_time_in_days"`
	Price              decimal.Decimal `db:"price"`
	Features           core.StringList `db:"features"`
	OfferType          string          `db:"offer_type"`
}
