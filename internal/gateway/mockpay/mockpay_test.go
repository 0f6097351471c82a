package mockpay

import (
	"context"
	"encoding/json"
	"testing"

	"gatherly/internal/status"
	"gatherly/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMockPay(t *testing.T, failureRate int) *MockPay {
	t.Helper()
	m, err := New(context.Background(), &Config{
		MerchantID:  "test-merchant",
		HMACKey:     "test-key",
		FailureRate: failureRate,
	})
	require.NoError(t, err)
	return m
}

func TestMockPay_CreateIntent(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{
		TicketID: "ticket-1",
		Amount:   decimal.NewFromInt(84),
	})
	require.NoError(t, err)

	assert.Contains(t, intent.ID, "pi_")
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, "pending", intent.Status)
	assert.True(t, intent.ExpiresAt.After(intent.CreatedAt))
}

func TestMockPay_CaptureSucceeds(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	notify := make(chan *models.PaymentNotification, 1)
	m.SetNotifyChannel(notify)

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	n, err := m.Capture(ctx, intent.ID, intent.ClientSecret)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", n.Status)
	assert.Equal(t, intent.ID, n.PaymentIntentID)
	assert.Contains(t, n.TransactionID, "tx_")

	delivered := <-notify
	assert.Equal(t, n.PaymentIntentID, delivered.PaymentIntentID)
}

func TestMockPay_CaptureRejectsWrongSecret(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = m.Capture(ctx, intent.ID, "wrong-secret")
	assert.Error(t, err)

	// The intent is untouched and still capturable.
	check, err := m.CheckIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", check.Status)
}

func TestMockPay_CaptureForcedDecline(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{
		TicketID:     "ticket-1",
		Amount:       decimal.NewFromInt(50),
		ForceDecline: true,
	})
	require.NoError(t, err)

	n, err := m.Capture(ctx, intent.ID, intent.ClientSecret)
	assert.ErrorIs(t, err, status.ErrFailedPayment)
	assert.Equal(t, "failed", n.Status)
}

func TestMockPay_CaptureTwiceFails(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = m.Capture(ctx, intent.ID, intent.ClientSecret)
	require.NoError(t, err)

	_, err = m.Capture(ctx, intent.ID, intent.ClientSecret)
	assert.Error(t, err)
}

func TestMockPay_Refund(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	notify := make(chan *models.PaymentNotification, 2)
	m.SetNotifyChannel(notify)

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = m.Capture(ctx, intent.ID, intent.ClientSecret)
	require.NoError(t, err)
	<-notify

	require.NoError(t, m.Refund(ctx, intent.ID))

	n := <-notify
	assert.Equal(t, "refunded", n.Status)

	check, err := m.CheckIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "refunded", check.Status)
}

func TestMockPay_RefundPendingFails(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	assert.Error(t, m.Refund(ctx, intent.ID))
}

func TestMockPay_CheckIntentHidesSecret(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	check, err := m.CheckIntent(ctx, intent.ID)
	require.NoError(t, err)
	assert.Empty(t, check.ClientSecret)
}

func TestMockPay_UnknownIntent(t *testing.T) {
	m := newTestMockPay(t, 0)
	ctx := context.Background()

	_, err := m.CheckIntent(ctx, "pi_missing")
	assert.ErrorIs(t, err, status.ErrIntentNotFound)

	_, err = m.Capture(ctx, "pi_missing", "secret")
	assert.ErrorIs(t, err, status.ErrIntentNotFound)
}

func TestMockPay_AlwaysDeclineRate(t *testing.T) {
	m := newTestMockPay(t, 100)
	ctx := context.Background()

	intent, err := m.CreateIntent(ctx, &IntentForm{TicketID: "ticket-1", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	n, err := m.Capture(ctx, intent.ID, intent.ClientSecret)
	assert.ErrorIs(t, err, status.ErrFailedPayment)
	assert.Equal(t, "failed", n.Status)
}

func TestVerifySignature(t *testing.T) {
	key := []byte("webhook-key")
	n := models.PaymentNotification{PaymentIntentID: "pi_123", Status: "succeeded"}
	body, err := json.Marshal(n)
	require.NoError(t, err)

	sig := Hmac256(body, key)
	assert.True(t, VerifySignature(body, key, sig))
	assert.False(t, VerifySignature(body, key, "deadbeef"))
	assert.False(t, VerifySignature(body, []byte("other-key"), sig))
}

func TestSecretHashRoundTrip(t *testing.T) {
	hash, err := GenerateSecretHash("s3cret")
	require.NoError(t, err)

	assert.True(t, CompareSecretHash(hash, "s3cret"))
	assert.False(t, CompareSecretHash(hash, "not-it"))
}
