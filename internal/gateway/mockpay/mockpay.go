// Package mockpay is the simulated payment rail. It mimics the shape of a
// real provider integration: opening an intent returns a client secret,
// settlement is asynchronous, and webhook-shaped notifications are signed
// with HMAC-SHA256 and published over PubNub (plus a local Go channel so
// the service works without network credentials).
package mockpay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gatherly/internal/status"
	"gatherly/models"
	"gatherly/utils"

	pubnub "github.com/pubnub/go/v7"
	"github.com/shopspring/decimal"
)

type Config struct {
	MerchantID string `json:"merchantId" mapstructure:"merchant_id"`
	HMACKey    string `json:"hmacKey" mapstructure:"hmac_key"`

	PNSubKey  string `json:"pn_subkey" mapstructure:"pn_subkey"`
	PNPubKey  string `json:"pn_pubkey" mapstructure:"pn_pubkey"`
	PNUUID    string `json:"pn_uuid" mapstructure:"pn_uuid"`
	PNChannel string `json:"pn_channel" mapstructure:"pn_channel"`

	// FailureRate is the percent of settlements that decline, 0-100.
	FailureRate int `json:"failure_rate" mapstructure:"failure_rate"`
}

type MockPay struct {
	merchantID  string
	hmacKey     []byte
	channel     string
	failureRate int

	pn    *pubnub.PubNub
	codes *utils.CodeGenerator
	cb    *utils.CircuitBreaker

	mu      sync.Mutex
	intents map[string]*intentState
	notify  chan *models.PaymentNotification
}

type intentState struct {
	intent       models.PaymentIntent
	secretHash   string
	forceDecline bool
}

type IntentForm struct {
	TicketID      string
	Amount        decimal.Decimal
	ForceDecline  bool
	ExpiryMinutes int
}

// New returns a new MockPay instance. PubNub publishing is optional; with
// no subscribe key configured notifications only reach the local channel.
func New(ctx context.Context, cfg *Config) (*MockPay, error) {
	m := &MockPay{
		merchantID:  cfg.MerchantID,
		hmacKey:     []byte(cfg.HMACKey),
		channel:     cfg.PNChannel,
		failureRate: cfg.FailureRate,
		codes:       utils.NewCodeGenerator(),
		cb:          utils.NewCircuitBreaker("mockpay-publish"),
		intents:     make(map[string]*intentState),
	}

	if cfg.PNSubKey != "" {
		pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PNUUID))
		pnConfig.SubscribeKey = cfg.PNSubKey
		pnConfig.PublishKey = cfg.PNPubKey
		m.pn = pubnub.NewPubNub(pnConfig)
	}

	return m, nil
}

// SetNotifyChannel sets the channel settlement notifications are delivered
// on. The consumer owns the channel lifecycle.
func (m *MockPay) SetNotifyChannel(ch chan *models.PaymentNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = ch
}

// CreateIntent opens a payment session. The returned client secret is held
// only as a bcrypt hash; the caller must present it back at capture time.
func (m *MockPay) CreateIntent(ctx context.Context, form *IntentForm) (*models.PaymentIntent, error) {
	id, err := m.codes.Code(12)
	if err != nil {
		return nil, err
	}
	secret, err := m.codes.Code(24)
	if err != nil {
		return nil, err
	}
	secretHash, err := GenerateSecretHash(secret)
	if err != nil {
		return nil, err
	}

	expiry := form.ExpiryMinutes
	if expiry <= 0 {
		expiry = 10
	}

	now := time.Now()
	intent := models.PaymentIntent{
		ID:           fmt.Sprintf("pi_%s", id),
		ClientSecret: secret,
		TicketID:     form.TicketID,
		Amount:       form.Amount,
		Status:       "pending",
		CreatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(expiry) * time.Minute),
	}

	m.mu.Lock()
	m.intents[intent.ID] = &intentState{
		intent:       intent,
		secretHash:   secretHash,
		forceDecline: form.ForceDecline,
	}
	m.mu.Unlock()

	slog.Info("mockpay: intent created", "intent_id", intent.ID, "amount", form.Amount)
	return &intent, nil
}

// Capture settles an intent. The client secret is verified against its
// stored hash before any state changes.
func (m *MockPay) Capture(ctx context.Context, intentID, clientSecret string) (*models.PaymentNotification, error) {
	m.mu.Lock()
	state, ok := m.intents[intentID]
	if !ok {
		m.mu.Unlock()
		return nil, status.ErrIntentNotFound
	}
	if !CompareSecretHash(state.secretHash, clientSecret) {
		m.mu.Unlock()
		return nil, fmt.Errorf("mockpay: client secret mismatch for %s", intentID)
	}
	if state.intent.Status != "pending" {
		m.mu.Unlock()
		return nil, fmt.Errorf("mockpay: intent %s already %s", intentID, state.intent.Status)
	}
	if time.Now().After(state.intent.ExpiresAt) {
		state.intent.Status = "cancelled"
		m.mu.Unlock()
		return nil, fmt.Errorf("mockpay: intent %s expired", intentID)
	}

	outcome := "succeeded"
	if state.forceDecline || m.rollDecline() {
		outcome = "failed"
	}
	state.intent.Status = outcome
	m.mu.Unlock()

	txID, _ := m.codes.Code(16)
	notification := &models.PaymentNotification{
		PaymentIntentID: intentID,
		Status:          outcome,
		TransactionID:   fmt.Sprintf("tx_%s", txID),
		Timestamp:       time.Now(),
	}

	m.dispatch(ctx, notification)

	if outcome == "failed" {
		return notification, status.ErrFailedPayment
	}
	return notification, nil
}

// CheckIntent returns a copy of the intent without the client secret.
func (m *MockPay) CheckIntent(ctx context.Context, intentID string) (*models.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.intents[intentID]
	if !ok {
		return nil, status.ErrIntentNotFound
	}
	intent := state.intent
	intent.ClientSecret = ""
	return &intent, nil
}

// Refund marks a settled intent refunded and emits a refund notification.
func (m *MockPay) Refund(ctx context.Context, intentID string) error {
	m.mu.Lock()
	state, ok := m.intents[intentID]
	if !ok {
		m.mu.Unlock()
		return status.ErrIntentNotFound
	}
	if state.intent.Status != "succeeded" {
		m.mu.Unlock()
		return fmt.Errorf("mockpay: cannot refund intent in status %s", state.intent.Status)
	}
	state.intent.Status = "refunded"
	m.mu.Unlock()

	txID, _ := m.codes.Code(16)
	m.dispatch(ctx, &models.PaymentNotification{
		PaymentIntentID: intentID,
		Status:          "refunded",
		TransactionID:   fmt.Sprintf("tx_%s", txID),
		Timestamp:       time.Now(),
	})
	return nil
}

func (m *MockPay) Close(ctx context.Context) error {
	if m.pn != nil {
		m.pn.UnsubscribeAll()
	}
	return nil
}

// rollDecline decides whether a settlement declines, using the intent id
// generator as the entropy source so the rate holds over many payments.
func (m *MockPay) rollDecline() bool {
	if m.failureRate <= 0 {
		return false
	}
	if m.failureRate >= 100 {
		return true
	}
	roll, err := m.codes.Code(2)
	if err != nil {
		return false
	}
	// Coarse, but plenty for a simulated rail.
	v := int(roll[0])*32 + int(roll[1])
	return v%100 < m.failureRate
}

// dispatch delivers a notification to the local channel and, when PubNub
// is configured, publishes the signed webhook payload.
func (m *MockPay) dispatch(ctx context.Context, n *models.PaymentNotification) {
	m.mu.Lock()
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		select {
		case notify <- n:
		default:
			slog.Warn("mockpay: notify channel full, dropping", "intent_id", n.PaymentIntentID)
		}
	}

	if m.pn == nil {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		slog.Error("mockpay: marshal notification", "error", err)
		return
	}

	message := map[string]any{
		"payment_intent_id": n.PaymentIntentID,
		"status":            n.Status,
		"transaction_id":    n.TransactionID,
		"timestamp":         n.Timestamp.Unix(),
		"signature":         Hmac256(body, m.hmacKey),
	}

	_, err = m.cb.Execute(ctx, func() (any, error) {
		_, pnStatus, err := m.pn.Publish().
			Channel(m.channel).
			Message(message).
			Execute()
		if err != nil {
			return nil, err
		}
		if pnStatus.Error != nil {
			return nil, fmt.Errorf("mockpay: publish status %d", pnStatus.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		slog.Error("mockpay: publish notification", "intent_id", n.PaymentIntentID, "error", err)
	}
}
