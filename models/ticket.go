package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TicketPending   = "pending"
	TicketCompleted = "completed"
	TicketFailed    = "failed"
	TicketRefunded  = "refunded"
	TicketCancelled = "cancelled"
)

type Ticket struct {
	ID             string          `json:"id"`
	Number         string          `json:"number"` // human-readable, e.g. TKT-7XKF2M9Q
	EventID        string          `json:"event_id"`
	TierID         string          `json:"tier_id"`
	BuyerName      string          `json:"buyer_name"`
	BuyerEmail     string          `json:"buyer_email"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"` // snapshot at purchase time
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	CreatorPayout  decimal.Decimal `json:"creator_payout"`
	PromoCode      string          `json:"promo_code,omitempty"`
	Status         string          `json:"status"` // pending, completed, failed, refunded, cancelled
	PaymentMethod  string          `json:"payment_method,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	QRPayload      string          `json:"qr_payload"`
	CheckedInAt    *time.Time      `json:"checked_in_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
}

// Cancellable reports whether the ticket can still be cancelled.
// A cancelled ticket never re-enters a cancellable state.
func (t *Ticket) Cancellable() bool {
	return t.Status == TicketPending || t.Status == TicketCompleted
}
