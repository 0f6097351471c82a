package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gatherly/internal/gateway"
	"gatherly/internal/status"
	"gatherly/models"

	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

// PaymentService opens payment sessions against the gateway, keeps their
// hot state in Redis, and drives ticket transitions from settlement
// notifications (local channel or PubNub).
type PaymentService struct {
	Redis   *redis.Client
	PubNub  *pubnub.PubNub
	gateway gateway.PaymentGateway
	tickets *TicketService
	timeout time.Duration
}

func NewPaymentService(redisClient *redis.Client, pn *pubnub.PubNub, gw gateway.PaymentGateway, tickets *TicketService, timeout time.Duration) *PaymentService {
	return &PaymentService{
		Redis:   redisClient,
		PubNub:  pn,
		gateway: gw,
		tickets: tickets,
		timeout: timeout,
	}
}

func sessionKey(intentID string) string {
	return fmt.Sprintf("payment:%s", intentID)
}

// CreateSession opens a payment intent for a pending ticket and records
// the session in Redis with the payment timeout as its TTL.
func (s *PaymentService) CreateSession(ctx context.Context, ticket models.Ticket, simulateDecline bool) (*models.PaymentIntent, error) {
	intent, err := s.gateway.CreateIntent(ctx, &gateway.IntentRequest{
		TicketID:      ticket.ID,
		Amount:        ticket.TotalPrice,
		Currency:      "USD",
		BuyerEmail:    ticket.BuyerEmail,
		Description:   fmt.Sprintf("Tickets %s x%d", ticket.Number, ticket.Quantity),
		ForceDecline:  simulateDecline,
		ExpiryMinutes: int(s.timeout.Minutes()),
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	key := sessionKey(intent.ID)
	s.Redis.HSet(ctx, key, map[string]any{
		"ticket_id":   ticket.ID,
		"buyer_email": ticket.BuyerEmail,
		"amount":      ticket.TotalPrice.String(),
		"status":      "pending",
		"created_at":  time.Now().Unix(),
	})
	s.Redis.Expire(ctx, key, s.timeout)

	return intent, nil
}

// SessionStatus returns the hot session state for an intent.
func (s *PaymentService) SessionStatus(ctx context.Context, intentID string) (map[string]string, error) {
	data, err := s.Redis.HGetAll(ctx, sessionKey(intentID)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, status.ErrIntentNotFound
	}
	return data, nil
}

// Capture settles an intent against the gateway. The resulting
// notification flows back through HandleNotification.
func (s *PaymentService) Capture(ctx context.Context, intentID, clientSecret string) error {
	type capturer interface {
		Capture(ctx context.Context, intentID, clientSecret string) (*models.PaymentNotification, error)
	}

	// The simulated rail exposes capture directly; a real rail settles on
	// its own and only the webhook path below applies.
	if c, ok := s.gateway.(capturer); ok {
		_, err := c.Capture(ctx, intentID, clientSecret)
		return err
	}
	return fmt.Errorf("gateway %s does not support direct capture", s.gateway.GetProvider())
}

// CancelSession abandons a pending session and cancels its ticket.
func (s *PaymentService) CancelSession(ctx context.Context, intentID string) error {
	data, err := s.SessionStatus(ctx, intentID)
	if err != nil {
		return err
	}
	if data["status"] == "completed" {
		return fmt.Errorf("cannot cancel completed payment %s", intentID)
	}

	if err := s.tickets.Cancel(ctx, data["ticket_id"], "payment abandoned"); err != nil {
		return err
	}
	s.Redis.HSet(ctx, sessionKey(intentID), "status", "cancelled")
	return nil
}

// Refund asks the gateway to refund a settled intent.
func (s *PaymentService) Refund(ctx context.Context, intentID string) error {
	return s.gateway.Refund(ctx, intentID)
}

// ConsumeNotifications drains the gateway's local notification channel
// until the context ends. Run as a background goroutine.
func (s *PaymentService) ConsumeNotifications(ctx context.Context, ch <-chan *models.PaymentNotification) {
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return
			}
			s.HandleNotification(ctx, n)
		case <-ctx.Done():
			return
		}
	}
}

// SubscribeToPaymentNotifications listens on the PubNub webhook channel,
// for deployments where the gateway publishes remotely.
func (s *PaymentService) SubscribeToPaymentNotifications(channel string) {
	listener := pubnub.NewListener()

	s.PubNub.AddListener(listener)
	s.PubNub.Subscribe().
		Channels([]string{channel}).
		Execute()

	for message := range listener.Message {
		go s.handlePubNubMessage(message)
	}
}

func (s *PaymentService) handlePubNubMessage(message *pubnub.PNMessage) {
	data, ok := message.Message.(map[string]any)
	if !ok {
		return
	}

	jsonData, _ := json.Marshal(data)
	var n models.PaymentNotification
	if err := json.Unmarshal(jsonData, &n); err != nil {
		log.Printf("Error parsing payment notification: %v", err)
		return
	}
	if n.Timestamp.IsZero() {
		if ts, ok := data["timestamp"].(float64); ok {
			n.Timestamp = time.Unix(int64(ts), 0)
		}
	}

	s.HandleNotification(context.Background(), &n)
}

// HandleNotification applies one settlement event to its ticket.
func (s *PaymentService) HandleNotification(ctx context.Context, n *models.PaymentNotification) {
	data, err := s.SessionStatus(ctx, n.PaymentIntentID)
	if err != nil {
		log.Printf("Payment notification for unknown session %s: %v", n.PaymentIntentID, err)
		return
	}
	ticketID := data["ticket_id"]

	switch n.Status {
	case "succeeded":
		if err := s.tickets.Complete(ctx, ticketID, n.TransactionID); err != nil {
			log.Printf("Error completing ticket %s: %v", ticketID, err)
			return
		}
		s.Redis.HSet(ctx, sessionKey(n.PaymentIntentID), "status", "completed")
		s.publishToBuyer(data["buyer_email"], map[string]any{
			"type":              "payment_success",
			"payment_intent_id": n.PaymentIntentID,
			"ticket_id":         ticketID,
		})
	case "failed":
		if err := s.tickets.Fail(ctx, ticketID); err != nil {
			log.Printf("Error failing ticket %s: %v", ticketID, err)
			return
		}
		s.Redis.HSet(ctx, sessionKey(n.PaymentIntentID), "status", "failed")
		s.publishToBuyer(data["buyer_email"], map[string]any{
			"type":              "payment_failed",
			"payment_intent_id": n.PaymentIntentID,
			"ticket_id":         ticketID,
		})
	case "refunded":
		if err := s.tickets.Refund(ctx, ticketID); err != nil {
			log.Printf("Error refunding ticket %s: %v", ticketID, err)
			return
		}
		s.Redis.HSet(ctx, sessionKey(n.PaymentIntentID), "status", "refunded")
	default:
		log.Printf("Unknown payment notification status %q for %s", n.Status, n.PaymentIntentID)
	}
}

func (s *PaymentService) publishToBuyer(email string, message map[string]any) {
	if s.PubNub == nil || email == "" {
		return
	}
	channel := fmt.Sprintf("buyer-%s", email)
	s.PubNub.Publish().
		Channel(channel).
		Message(message).
		Execute()
}
