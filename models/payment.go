package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentIntent is the simulated payment rail handshake returned to the
// buyer when a purchase opens a payment session.
type PaymentIntent struct {
	ID           string          `json:"payment_intent_id"`
	ClientSecret string          `json:"client_secret"`
	TicketID     string          `json:"ticket_id"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"` // pending, processing, succeeded, failed, cancelled
	CreatedAt    time.Time       `json:"created_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// PaymentNotification is the webhook-shaped event the gateway publishes
// when a payment settles. Each one drives a Ticket status transition.
type PaymentNotification struct {
	PaymentIntentID string    `json:"payment_intent_id"`
	Status          string    `json:"status"` // succeeded, failed, refunded
	TransactionID   string    `json:"transaction_id"`
	Timestamp       time.Time `json:"timestamp"`
}
