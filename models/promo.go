package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type PromoCode struct {
	ID            string           `json:"id"`
	EventID       string           `json:"event_id"`
	Code          string           `json:"code"`          // stored uppercase
	DiscountType  string           `json:"discount_type"` // percentage, fixed
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinPurchase   *decimal.Decimal `json:"min_purchase,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsageCount    int              `json:"usage_count"`
	PerUserLimit  *int             `json:"per_user_limit,omitempty"`
	ValidFrom     *time.Time       `json:"valid_from,omitempty"`
	ValidUntil    *time.Time       `json:"valid_until,omitempty"`
	TierIDs       []string         `json:"tier_ids,omitempty"` // empty means all tiers
	Active        bool             `json:"active"`
}
