package pricing

import (
	"fmt"

	"gatherly/internal/status"
	"gatherly/models"

	"github.com/shopspring/decimal"
)

// OrderQuote is the full monetary breakdown of one purchase. The service
// fee is charged to the buyer on top of the discounted subtotal; the host
// payout is the discounted subtotal in full.
type OrderQuote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	GroupDiscount  decimal.Decimal `json:"group_discount"`
	PromoDiscount  decimal.Decimal `json:"promo_discount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	TotalCharged   decimal.Decimal `json:"total_charged"`
	HostPayout     decimal.Decimal `json:"host_payout"`
}

// ValidateQuantity checks the per-order bounds of a tier before any
// monetary computation runs. A zero MaxPerOrder means no upper bound.
func ValidateQuantity(t models.TicketTier, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity %d", status.ErrQuantityOutOfRange, quantity)
	}
	min := t.MinPerOrder
	if min < 1 {
		min = 1
	}
	if quantity < min {
		return fmt.Errorf("%w: quantity %d below minimum %d", status.ErrQuantityOutOfRange, quantity, min)
	}
	if t.MaxPerOrder > 0 && quantity > t.MaxPerOrder {
		return fmt.Errorf("%w: quantity %d above maximum %d", status.ErrQuantityOutOfRange, quantity, t.MaxPerOrder)
	}
	return nil
}

// Quote assembles the order totals from a unit price, quantity, an
// already-computed promo discount and the platform fee rate (e.g. 0.05).
// Group and promo discounts stack; the group discount applies to the
// subtotal first and the combined discount never exceeds the subtotal.
// Free tiers never enter the fee pipeline: every derived amount is zero.
func Quote(unitPrice decimal.Decimal, quantity int, promoDiscount decimal.Decimal, feeRate decimal.Decimal) OrderQuote {
	if unitPrice.IsZero() || unitPrice.IsNegative() {
		return OrderQuote{
			Subtotal:       decimal.Zero,
			GroupDiscount:  decimal.Zero,
			PromoDiscount:  decimal.Zero,
			DiscountAmount: decimal.Zero,
			ServiceFee:     decimal.Zero,
			TotalCharged:   decimal.Zero,
			HostPayout:     decimal.Zero,
		}
	}

	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	groupPct := decimal.NewFromInt(GroupDiscountPercent(quantity))
	groupDiscount := subtotal.Mul(groupPct).Div(oneHundred).Round(2)

	if promoDiscount.IsNegative() {
		promoDiscount = decimal.Zero
	}
	discount := groupDiscount.Add(promoDiscount)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	afterDiscount := subtotal.Sub(discount)
	serviceFee := decimal.Zero
	if afterDiscount.IsPositive() {
		serviceFee = afterDiscount.Mul(feeRate).Round(2)
	}

	return OrderQuote{
		Subtotal:       subtotal,
		GroupDiscount:  groupDiscount,
		PromoDiscount:  promoDiscount,
		DiscountAmount: discount,
		ServiceFee:     serviceFee,
		TotalCharged:   afterDiscount.Add(serviceFee),
		HostPayout:     afterDiscount,
	}
}
