package gateway

import (
	"context"
	"fmt"

	"gatherly/config"
	"gatherly/internal/gateway/mockpay"
	"gatherly/models"

	"github.com/shopspring/decimal"
)

// Provider identifies a payment rail.
type Provider string

const (
	ProviderMockPay Provider = "mockpay"
)

// IntentRequest is a generic request to open a payment intent.
type IntentRequest struct {
	TicketID      string          `json:"ticket_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	BuyerEmail    string          `json:"buyer_email"`
	Description   string          `json:"description,omitempty"`
	ForceDecline  bool            `json:"force_decline,omitempty"` // simulation hook
	ExpiryMinutes int             `json:"expiry_minutes,omitempty"`
}

// PaymentGateway is the common interface every payment provider satisfies.
// The on-device product has no real rail, so the only implementation is the
// simulated mockpay provider, but the purchase flow is written against this
// contract so a real rail slots in behind it.
type PaymentGateway interface {
	GetProvider() Provider

	// CreateIntent opens a payment session and returns the handshake pair
	// the client uses to complete payment.
	CreateIntent(ctx context.Context, req *IntentRequest) (*models.PaymentIntent, error)

	// CheckIntent returns the current state of an intent.
	CheckIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error)

	// Refund issues a refund for a settled intent.
	Refund(ctx context.Context, intentID string) error

	// Close gracefully closes any connections.
	Close(ctx context.Context) error
}

// New creates a gateway instance for the given provider.
func New(ctx context.Context, provider Provider, cfg *config.GatewayConfig) (PaymentGateway, error) {
	switch provider {
	case ProviderMockPay:
		return newMockPayAdapter(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported payment provider: %s", provider)
	}
}

// mockPayAdapter bridges the mockpay client to the PaymentGateway contract.
type mockPayAdapter struct {
	client *mockpay.MockPay
}

func newMockPayAdapter(ctx context.Context, cfg *config.GatewayConfig) (*mockPayAdapter, error) {
	client, err := mockpay.New(ctx, &mockpay.Config{
		MerchantID:  cfg.MerchantID,
		HMACKey:     cfg.HMACKey,
		PNSubKey:    cfg.PNSubKey,
		PNPubKey:    cfg.PNPubKey,
		PNUUID:      cfg.PNUUID,
		PNChannel:   cfg.PNChannel,
		FailureRate: cfg.FailureRate,
	})
	if err != nil {
		return nil, err
	}
	return &mockPayAdapter{client: client}, nil
}

func (a *mockPayAdapter) GetProvider() Provider {
	return ProviderMockPay
}

func (a *mockPayAdapter) CreateIntent(ctx context.Context, req *IntentRequest) (*models.PaymentIntent, error) {
	return a.client.CreateIntent(ctx, &mockpay.IntentForm{
		TicketID:      req.TicketID,
		Amount:        req.Amount,
		ForceDecline:  req.ForceDecline,
		ExpiryMinutes: req.ExpiryMinutes,
	})
}

// Capture settles an intent directly; only the simulated rail has this.
func (a *mockPayAdapter) Capture(ctx context.Context, intentID, clientSecret string) (*models.PaymentNotification, error) {
	return a.client.Capture(ctx, intentID, clientSecret)
}

// SetNotifyChannel wires settlement notifications onto a local channel.
func (a *mockPayAdapter) SetNotifyChannel(ch chan *models.PaymentNotification) {
	a.client.SetNotifyChannel(ch)
}

func (a *mockPayAdapter) CheckIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	return a.client.CheckIntent(ctx, intentID)
}

func (a *mockPayAdapter) Refund(ctx context.Context, intentID string) error {
	return a.client.Refund(ctx, intentID)
}

func (a *mockPayAdapter) Close(ctx context.Context) error {
	return a.client.Close(ctx)
}
