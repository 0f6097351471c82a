package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TierSalesStatus is the sale-window state of a tier at a point in time.
type TierSalesStatus string

const (
	TierUpcoming TierSalesStatus = "upcoming"
	TierEnded    TierSalesStatus = "ended"
	TierSoldOut  TierSalesStatus = "sold_out"
	TierOnSale   TierSalesStatus = "on_sale"
)

type TicketTier struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	FunctionID  string          `json:"function_id,omitempty"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"` // zero means free
	Capacity    int             `json:"capacity"`
	Sold        int             `json:"sold"` // mutated only by completed purchases
	MinPerOrder int             `json:"min_per_order"`
	MaxPerOrder int             `json:"max_per_order"`
	SalesStart  *time.Time      `json:"sales_start,omitempty"`
	SalesEnd    *time.Time      `json:"sales_end,omitempty"`
	Hidden      bool            `json:"hidden"`
	Position    int             `json:"position"`
}
