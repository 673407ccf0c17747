// AngelaMos | 2026
// logic.go

package offer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/coderr-backend/internal/core"
)

var maxPrice = decimal.New(1, 8)

// ValidateCreate checks a full create payload. Every tier must be
// present exactly once and every detail field is required.
func ValidateCreate(req CreateOfferRequest) error {
	v := core.NewValidationError()

	if strings.TrimSpace(req.Title) == "" {
		v.Add("title", "this field is required")
	}

	if len(req.Details) != len(Tiers) {
		v.Add("details", fmt.Sprintf("an offer must have exactly %d details", len(Tiers)))
		return v.Err()
	}

	seen := make(map[string]bool, len(Tiers))
	for i, d := range req.Details {
		prefix := fmt.Sprintf("details[%d]", i)
		validateDetail(v, prefix, d, true)
		if seen[d.OfferType] {
			v.Add(prefix+".offer_type", "duplicate offer type "+d.OfferType)
		}
		seen[d.OfferType] = true
	}

	return v.Err()
}

// ValidateUpdate checks the fields present in a partial update.
func ValidateUpdate(req UpdateOfferRequest) error {
	v := core.NewValidationError()

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		v.Add("title", "may not be blank")
	}

	seen := make(map[string]bool, len(req.Details))
	for i, d := range req.Details {
		prefix := fmt.Sprintf("details[%d]", i)
		validateDetail(v, prefix, d, false)
		if seen[d.OfferType] {
			v.Add(prefix+".offer_type", "duplicate offer type "+d.OfferType)
		}
		seen[d.OfferType] = true
	}

	return v.Err()
}

func validateDetail(v *core.ValidationError, prefix string, d DetailInput, full bool) {
	required := func(field string) {
		if full {
			v.Add(prefix+"."+field, "this field is required")
		}
	}

	if !ValidTier(d.OfferType) {
		v.Add(prefix+".offer_type", "must be one of: basic standard premium")
	}

	switch {
	case d.Title == nil:
		required("title")
	case strings.TrimSpace(*d.Title) == "":
		v.Add(prefix+".title", "may not be blank")
	}

	switch {
	case d.Revisions == nil:
		required("revisions")
	case *d.Revisions < UnlimitedRevisions:
		v.Add(prefix+".revisions", "must be -1 (unlimited) or greater")
	}

	switch {
	case d.DeliveryTimeInDays == nil:
		required("delivery_time_in_days")
	case *d.DeliveryTimeInDays < 1:
		v.Add(prefix+".delivery_time_in_days", "must be a positive integer")
	}

	if d.Price == nil {
		required("price")
	} else if msg := checkPrice(*d.Price); msg != "" {
		v.Add(prefix+".price", msg)
	}

	switch {
	case d.Features == nil:
		required("features")
	case len(d.Features) == 0:
		v.Add(prefix+".features", "must contain at least one feature")
	}
}

func checkPrice(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "must be zero or greater"
	case !p.Equal(p.Round(2)):
		return "must have at most 2 decimal places"
	case p.GreaterThanOrEqual(maxPrice):
		return "must be less than 100000000"
	}
	return ""
}

// BuildDetails converts validated create inputs into detail rows.
func BuildDetails(inputs []DetailInput) []Detail {
	out := make([]Detail, 0, len(inputs))
	for _, in := range inputs {
		d := Detail{OfferType: in.OfferType}
		applyPatch(&d, in)
		out = append(out, d)
	}
	return out
}

// MergeDetails applies tier-keyed patches to existing details. Patches
// for tiers that already exist update that row in place and keep its id.
// Patches for missing tiers must be complete and are returned in created.
func MergeDetails(existing []Detail, patches []DetailInput) (updated, created []Detail, err error) {
	byTier := make(map[string]int, len(existing))
	for i, d := range existing {
		byTier[d.OfferType] = i
	}

	merged := make([]Detail, len(existing))
	copy(merged, existing)
	touched := make(map[int]bool)
	v := core.NewValidationError()

	for i, p := range patches {
		if idx, ok := byTier[p.OfferType]; ok {
			applyPatch(&merged[idx], p)
			touched[idx] = true
			continue
		}
		if !complete(p) {
			v.Add(fmt.Sprintf("details[%d]", i),
				"offer type "+p.OfferType+" does not exist yet, all fields are required")
			continue
		}
		d := Detail{OfferType: p.OfferType}
		applyPatch(&d, p)
		created = append(created, d)
	}

	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	for i := range merged {
		if touched[i] {
			updated = append(updated, merged[i])
		}
	}
	return updated, created, nil
}

// CheckTierSet verifies that details hold each tier exactly once.
func CheckTierSet(details []Detail) error {
	counts := make(map[string]int, len(Tiers))
	for _, d := range details {
		counts[d.OfferType]++
	}
	for _, t := range Tiers {
		if counts[t] != 1 {
			return core.InvalidField("details",
				fmt.Sprintf("an offer must have exactly one %s detail", t))
		}
	}
	if len(details) != len(Tiers) {
		return core.InvalidField("details",
			fmt.Sprintf("an offer must have exactly %d details", len(Tiers)))
	}
	return nil
}

// Recompute derives the aggregate columns from a detail set. ok is
// false when details is empty.
func Recompute(details []Detail) (minPrice decimal.Decimal, minDelivery int, ok bool) {
	if len(details) == 0 {
		return decimal.Decimal{}, 0, false
	}

	minPrice = details[0].Price
	minDelivery = details[0].DeliveryTimeInDays
	for _, d := range details[1:] {
		if d.Price.LessThan(minPrice) {
			minPrice = d.Price
		}
		if d.DeliveryTimeInDays < minDelivery {
			minDelivery = d.DeliveryTimeInDays
		}
	}
	return minPrice, minDelivery, true
}

// ApplyAggregates writes the derived columns onto o from its details.
func ApplyAggregates(o *Offer) {
	price, delivery, ok := Recompute(o.Details)
	if !ok {
		o.MinPrice = decimal.NullDecimal{}
		o.MinDeliveryTime = nil
		return
	}
	o.MinPrice = decimal.NullDecimal{Decimal: price, Valid: true}
	o.MinDeliveryTime = &delivery
}

// SortByTier orders details basic, standard, premium.
func SortByTier(details []Detail) {
	slices.SortStableFunc(details, func(a, b Detail) int {
		return slices.Index(Tiers, a.OfferType) - slices.Index(Tiers, b.OfferType)
	})
}

func complete(p DetailInput) bool {
	return p.Title != nil && p.Revisions != nil && p.DeliveryTimeInDays != nil &&
		p.Price != nil && p.Features != nil
}

func applyPatch(d *Detail, p DetailInput) {
	if p.Title != nil {
		d.Title = strings.TrimSpace(*p.Title)
	}
	if p.Revisions != nil {
		d.Revisions = *p.Revisions
	}
	if p.DeliveryTimeInDays != nil {
		d.DeliveryTimeInDays = *p.DeliveryTimeInDays
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Features != nil {
		d.Features = core.StringList(p.Features).Clone()
	}
}
