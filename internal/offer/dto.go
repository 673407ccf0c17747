// AngelaMos | 2026
// dto.go

package offer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

// DetailInput carries one tier in create and update requests. Pointer
// fields distinguish "absent" from zero values so updates can be partial.
type DetailInput struct {
	Title              *string          `json:"title"                 validate:"omitempty,min=1,max=255"`
	Revisions          *int             `json:"revisions"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days"`
	Price              *decimal.Decimal `json:"price"`
	Features           []string         `json:"features"`
	OfferType          string           `json:"offer_type"`
}

type CreateOfferRequest struct {
	Title       string        `json:"title"       validate:"required,max=255"`
	Image       *string       `json:"image"       validate:"omitempty,max=2048"`
	Description string        `json:"description" validate:"max=5000"`
	Details     []DetailInput `json:"details"     validate:"dive"`
}

type UpdateOfferRequest struct {
	Title       *string       `json:"title"       validate:"omitempty,min=1,max=255"`
	Image       *string       `json:"image"       validate:"omitempty,max=2048"`
	Description *string       `json:"description" validate:"omitempty,max=5000"`
	Details     []DetailInput `json:"details"     validate:"dive"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultOrdering = "-updated_at"
)

var orderings = map[string]string{
	"min_price":          "o.min_price ASC NULLS LAST, o.id ASC",
	"-min_price":         "o.min_price DESC NULLS LAST, o.id DESC",
	"min_delivery_time":  "o.min_delivery_time ASC NULLS LAST, o.id ASC",
	"-min_delivery_time": "o.min_delivery_time DESC NULLS LAST, o.id DESC",
	"updated_at":         "o.updated_at ASC, o.id ASC",
	"-updated_at":        "o.updated_at DESC, o.id DESC",
}

type ListParams struct {
	Page            int
	PageSize        int
	CreatorID       *int64
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
	Ordering        string
}

// Normalize clamps paging and replaces unknown orderings with the default.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if _, ok := orderings[p.Ordering]; !ok {
		p.Ordering = defaultOrdering
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p *ListParams) orderBy() string {
	return orderings[p.Ordering]
}

type UserDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

type DetailLink struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type DetailResponse struct {
	ID                 int64      `json:"id"`
	Title              string     `json:"title"`
	Revisions          int        `json:"revisions"`
	DeliveryTimeInDays int        `json:"delivery_time_in_days"`
	Price              core.Money `json:"price"`
	Features           []string   `json:"features"`
	OfferType          string     `json:"offer_type"`
}

type OfferResponse struct {
	ID              int64       `json:"id"`
	User            int64       `json:"user"`
	Title           string      `json:"title"`
	Image           *string     `json:"image"`
	Description     string      `json:"description"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Details         any         `json:"details"`
	MinPrice        *core.Money `json:"min_price"`
	MinDeliveryTime *int        `json:"min_delivery_time"`
	UserDetails     UserDetails `json:"user_details"`
}

// DetailURL is the canonical path of a detail resource.
func DetailURL(id int64) string {
	return fmt.Sprintf("/offerdetails/%d/", id)
}

func ToDetailResponse(d *Detail) DetailResponse {
	features := []string(d.Features)
	if features == nil {
		features = []string{}
	}
	return DetailResponse{
		ID:                 d.ID,
		Title:              d.Title,
		Revisions:          d.Revisions,
		DeliveryTimeInDays: d.DeliveryTimeInDays,
		Price:              core.Money(d.Price),
		Features:           features,
		OfferType:          d.OfferType,
	}
}

func toResponse(o *Offer, details any) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         details,
		MinPrice:        core.MoneyPtr(o.MinPrice),
		MinDeliveryTime: o.MinDeliveryTime,
		UserDetails: UserDetails{
			FirstName: o.OwnerFirstName,
			LastName:  o.OwnerLastName,
			Username:  o.OwnerUsername,
		},
	}
}

// ToFullResponse embeds every detail field.
func ToFullResponse(o *Offer) OfferResponse {
	details := make([]DetailResponse, 0, len(o.Details))
	for i := range o.Details {
		details = append(details, ToDetailResponse(&o.Details[i]))
	}
	return toResponse(o, details)
}

// ToListResponse embeds only links to the details.
func ToListResponse(o *Offer) OfferResponse {
	links := make([]DetailLink, 0, len(o.Details))
	for _, d := range o.Details {
		links = append(links, DetailLink{ID: d.ID, URL: DetailURL(d.ID)})
	}
	return toResponse(o, links)
}

func ToListResponses(offers []Offer) []OfferResponse {
	out := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, ToListResponse(&offers[i]))
	}
	return out
}
