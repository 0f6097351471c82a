package pricing

import (
	"time"

	"gatherly/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PromoValid reports whether the code can be applied at the given time:
// active, under its usage limit, and inside its validity window.
func PromoValid(p models.PromoCode, now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	return true
}

// PromoAppliesToTier reports whether the code is usable for the tier.
// An empty restriction list means every tier of the event.
func PromoAppliesToTier(p models.PromoCode, tierID string) bool {
	if len(p.TierIDs) == 0 {
		return true
	}
	for _, id := range p.TierIDs {
		if id == tierID {
			return true
		}
	}
	return false
}

// PromoDiscount computes the discount the code grants on an order amount.
// An invalid code or an order below the minimum purchase degrades to zero
// rather than failing, so checkout can continue without the discount.
// The result is clamped to the configured cap and to the order amount.
func PromoDiscount(p models.PromoCode, orderAmount decimal.Decimal, now time.Time) decimal.Decimal {
	if !PromoValid(p, now) {
		return decimal.Zero
	}
	if p.MinPurchase != nil && orderAmount.LessThan(*p.MinPurchase) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case models.DiscountPercentage:
		discount = orderAmount.Mul(p.DiscountValue).Div(oneHundred).Round(2)
	case models.DiscountFixed:
		discount = p.DiscountValue
	default:
		return decimal.Zero
	}

	if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
		discount = *p.MaxDiscount
	}
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
