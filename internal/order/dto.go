// AngelaMos | 2026
// dto.go

package order

import (
	"encoding/json"
	"time"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

type CreateOrderRequest struct {
	OfferDetailID int64 `json:"offer_detail_id" validate:"required,gt=0"`
}

type OrderResponse struct {
	ID                 int64      `json:"id"`
	CustomerUser       int64      `json:"customer_user"`
	BusinessUser       int64      `json:"business_user"`
	OfferDetailID      *int64     `json:"offer_detail_id"`
	Title              string     `json:"title"`
	Revisions          int        `json:"revisions"`
	DeliveryTimeInDays int        `json:"delivery_time_in_days"`
	Price              core.Money `json:"price"`
	Features           []string   `json:"features"`
	OfferType          string     `json:"offer_type"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type OrderCountResponse struct {
	OrderCount int `json:"order_count"`
}

type CompletedOrderCountResponse struct {
	CompletedOrderCount int `json:"completed_order_count"`
}

// ParseStatusPatch accepts a PATCH body holding only a valid status.
func ParseStatusPatch(body map[string]json.RawMessage) (string, error) {
	v := core.NewValidationError()
	for key := range body {
		if key != "status" {
			v.Add(key, "only the status field can be updated")
		}
	}

	raw, ok := body["status"]
	if !ok {
		v.Add("status", "this field is required")
		return "", v.Err()
	}

	var status string
	if err := json.Unmarshal(raw, &status); err != nil || !ValidStatus(status) {
		v.Add("status", "must be one of: in_progress completed cancelled")
	}

	if err := v.Err(); err != nil {
		return "", err
	}
	return status, nil
}

func ToResponse(o *Order) OrderResponse {
	features := []string(o.Features)
	if features == nil {
		features = []string{}
	}
	return OrderResponse{
		ID:                 o.ID,
		CustomerUser:       o.CustomerUserID,
		BusinessUser:       o.BusinessUserID,
		OfferDetailID:      o.OfferDetailID,
		Title:              o.Title,
		Revisions:          o.Revisions,
		DeliveryTimeInDays: o.DeliveryTimeInDays,
		Price:              core.Money(o.Price),
		Features:           features,
		OfferType:          o.OfferType,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func ToResponses(orders []Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToResponse(&orders[i]))
	}
	return out
}
