package pricing

import (
	"testing"
	"time"

	"gatherly/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }
func intPtr(i int) *int                         { return &i }

func activePercentPromo(value int64) models.PromoCode {
	return models.PromoCode{
		Code:          "SAVE",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(value),
		Active:        true,
	}
}

func TestPromoValid_Active(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	assert.True(t, PromoValid(promo, now))

	promo.Active = false
	assert.False(t, PromoValid(promo, now))
}

func TestPromoValid_UsageLimit(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	promo.UsageLimit = intPtr(5)
	promo.UsageCount = 4
	assert.True(t, PromoValid(promo, now))

	promo.UsageCount = 5
	assert.False(t, PromoValid(promo, now))
}

func TestPromoValid_Window(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	promo.ValidFrom = timePtr(now.Add(time.Hour))
	assert.False(t, PromoValid(promo, now))

	promo.ValidFrom = timePtr(now.Add(-2 * time.Hour))
	promo.ValidUntil = timePtr(now.Add(-time.Hour))
	assert.False(t, PromoValid(promo, now))

	promo.ValidUntil = timePtr(now.Add(time.Hour))
	assert.True(t, PromoValid(promo, now))
}

func TestPromoDiscount_InvalidCodeDegradesToZero(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	promo.Active = false

	discount := PromoDiscount(promo, decimal.NewFromInt(200), now)
	assert.True(t, discount.IsZero())
}

func TestPromoDiscount_Percentage(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	discount := PromoDiscount(promo, decimal.NewFromInt(200), now)
	assert.True(t, decimal.NewFromInt(20).Equal(discount))
}

func TestPromoDiscount_PercentageRoundsHalfUp(t *testing.T) {
	now := time.Now()

	// 10% of 33.25 = 3.325 -> 3.33
	promo := activePercentPromo(10)
	discount := PromoDiscount(promo, decimal.RequireFromString("33.25"), now)
	assert.Equal(t, "3.33", discount.StringFixed(2))
}

func TestPromoDiscount_FixedClampedToOrderAmount(t *testing.T) {
	now := time.Now()

	promo := models.PromoCode{
		Code:          "BIGFIX",
		DiscountType:  models.DiscountFixed,
		DiscountValue: decimal.NewFromInt(100),
		Active:        true,
	}

	discount := PromoDiscount(promo, decimal.NewFromInt(30), now)
	assert.True(t, decimal.NewFromInt(30).Equal(discount), "discount clamps to order amount, got %s", discount)
}

func TestPromoDiscount_MinPurchase(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(10)
	promo.MinPurchase = decPtr(decimal.NewFromInt(50))

	assert.True(t, PromoDiscount(promo, decimal.NewFromInt(49), now).IsZero())
	assert.False(t, PromoDiscount(promo, decimal.NewFromInt(50), now).IsZero())
}

func TestPromoDiscount_MaxDiscountCap(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(50)
	promo.MaxDiscount = decPtr(decimal.NewFromInt(25))

	discount := PromoDiscount(promo, decimal.NewFromInt(200), now)
	assert.True(t, decimal.NewFromInt(25).Equal(discount))
}

func TestPromoDiscount_NeverExceedsOrderAmount(t *testing.T) {
	now := time.Now()

	amounts := []string{"0", "0.01", "1", "30", "99.99", "1000"}
	promo := activePercentPromo(100)

	for _, a := range amounts {
		orderAmount := decimal.RequireFromString(a)
		discount := PromoDiscount(promo, orderAmount, now)
		assert.True(t, discount.GreaterThanOrEqual(decimal.Zero))
		assert.True(t, discount.LessThanOrEqual(orderAmount))
	}
}

func TestPromoDiscount_Idempotent(t *testing.T) {
	now := time.Now()

	promo := activePercentPromo(15)
	orderAmount := decimal.RequireFromString("123.45")

	first := PromoDiscount(promo, orderAmount, now)
	second := PromoDiscount(promo, orderAmount, now)
	assert.True(t, first.Equal(second))
}

func TestPromoAppliesToTier(t *testing.T) {
	promo := activePercentPromo(10)
	assert.True(t, PromoAppliesToTier(promo, "any-tier"))

	promo.TierIDs = []string{"vip", "early-bird"}
	assert.True(t, PromoAppliesToTier(promo, "vip"))
	assert.False(t, PromoAppliesToTier(promo, "general"))
}
