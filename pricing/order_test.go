package pricing

import (
	"testing"

	"gatherly/internal/status"
	"gatherly/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feeRate = decimal.RequireFromString("0.05")

func TestQuote_StandardOrder(t *testing.T) {
	// unit 50, qty 2, promo 20, 5% fee
	q := Quote(decimal.NewFromInt(50), 2, decimal.NewFromInt(20), feeRate)

	assert.Equal(t, "100", q.Subtotal.String())
	assert.Equal(t, "20", q.DiscountAmount.String())
	assert.Equal(t, "4", q.ServiceFee.String())
	assert.Equal(t, "84", q.TotalCharged.String())
	assert.Equal(t, "80", q.HostPayout.String())
}

func TestQuote_NoDiscount(t *testing.T) {
	q := Quote(decimal.NewFromInt(25), 3, decimal.Zero, feeRate)

	assert.Equal(t, "75", q.Subtotal.String())
	assert.True(t, q.DiscountAmount.IsZero())
	assert.Equal(t, "3.75", q.ServiceFee.StringFixed(2))
	assert.Equal(t, "78.75", q.TotalCharged.StringFixed(2))
	assert.Equal(t, "75", q.HostPayout.String())
}

func TestQuote_FreeTicketForcesZero(t *testing.T) {
	// Free tiers never enter the fee pipeline, regardless of the discount field.
	q := Quote(decimal.Zero, 1, decimal.NewFromInt(10), feeRate)

	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.ServiceFee.IsZero())
	assert.True(t, q.TotalCharged.IsZero())
	assert.True(t, q.HostPayout.IsZero())
}

func TestQuote_FullyDiscountedHasNoFee(t *testing.T) {
	q := Quote(decimal.NewFromInt(50), 1, decimal.NewFromInt(50), feeRate)

	assert.True(t, q.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, q.ServiceFee.IsZero())
	assert.True(t, q.TotalCharged.IsZero())
	assert.True(t, q.HostPayout.IsZero())
}

func TestQuote_DiscountClampedToSubtotal(t *testing.T) {
	q := Quote(decimal.NewFromInt(10), 2, decimal.NewFromInt(500), feeRate)

	assert.True(t, q.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, q.TotalCharged.IsZero())
	assert.True(t, q.HostPayout.IsZero())
}

func TestQuote_GroupDiscountApplies(t *testing.T) {
	// 5 tickets at 20 each: subtotal 100, 10% group discount, fee on 90.
	q := Quote(decimal.NewFromInt(20), 5, decimal.Zero, feeRate)

	assert.Equal(t, "100", q.Subtotal.String())
	assert.Equal(t, "10", q.GroupDiscount.String())
	assert.Equal(t, "90", q.HostPayout.String())
	assert.Equal(t, "4.50", q.ServiceFee.StringFixed(2))
	assert.Equal(t, "94.50", q.TotalCharged.StringFixed(2))
}

func TestQuote_GroupAndPromoStack(t *testing.T) {
	// 10 tickets at 10 each: subtotal 100, group 15, promo 5 -> discount 20.
	q := Quote(decimal.NewFromInt(10), 10, decimal.NewFromInt(5), feeRate)

	assert.Equal(t, "15", q.GroupDiscount.String())
	assert.Equal(t, "5", q.PromoDiscount.String())
	assert.Equal(t, "20", q.DiscountAmount.String())
	assert.Equal(t, "80", q.HostPayout.String())
	assert.Equal(t, "84", q.TotalCharged.String())
}

func TestQuote_NegativePromoDiscountIgnored(t *testing.T) {
	q := Quote(decimal.NewFromInt(50), 1, decimal.NewFromInt(-10), feeRate)

	assert.True(t, q.PromoDiscount.IsZero())
	assert.Equal(t, "50", q.HostPayout.String())
}

func TestValidateQuantity(t *testing.T) {
	tier := models.TicketTier{MinPerOrder: 2, MaxPerOrder: 8}

	require.NoError(t, ValidateQuantity(tier, 2))
	require.NoError(t, ValidateQuantity(tier, 8))

	assert.ErrorIs(t, ValidateQuantity(tier, 0), status.ErrQuantityOutOfRange)
	assert.ErrorIs(t, ValidateQuantity(tier, -1), status.ErrQuantityOutOfRange)
	assert.ErrorIs(t, ValidateQuantity(tier, 1), status.ErrQuantityOutOfRange)
	assert.ErrorIs(t, ValidateQuantity(tier, 9), status.ErrQuantityOutOfRange)
}

func TestValidateQuantity_DefaultBounds(t *testing.T) {
	// Zero min defaults to 1; zero max means unbounded.
	tier := models.TicketTier{}

	require.NoError(t, ValidateQuantity(tier, 1))
	require.NoError(t, ValidateQuantity(tier, 500))
	assert.ErrorIs(t, ValidateQuantity(tier, 0), status.ErrQuantityOutOfRange)
}
