package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gatherly/internal/status"
	"gatherly/models"
	"gatherly/monitoring"
	"gatherly/pricing"
	"gatherly/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// TicketService runs the purchase flow: bounds validation, availability,
// atomic inventory reservation, pricing, ticket issuance and the status
// transitions driven by payment settlement.
type TicketService struct {
	app       core.App
	inventory *InventoryService
	promos    *PromoService
	codes     *utils.CodeGenerator
	feeRate   decimal.Decimal
}

func NewTicketService(app core.App, inventory *InventoryService, promos *PromoService, feeRate decimal.Decimal) *TicketService {
	return &TicketService{
		app:       app,
		inventory: inventory,
		promos:    promos,
		codes:     utils.NewCodeGenerator(),
		feeRate:   feeRate,
	}
}

type PurchaseRequest struct {
	EventID       string `json:"event_id"`
	TierID        string `json:"tier_id"`
	Quantity      int    `json:"quantity"`
	BuyerName     string `json:"buyer_name"`
	BuyerEmail    string `json:"buyer_email"`
	PromoCode     string `json:"promo_code,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	// SimulateDecline asks the simulated rail to decline this payment.
	SimulateDecline bool `json:"simulate_decline,omitempty"`
}

type PurchaseResult struct {
	Ticket          models.Ticket      `json:"ticket"`
	Quote           pricing.OrderQuote `json:"quote"`
	RequiresPayment bool               `json:"requires_payment"`
}

// QuoteOrder prices an order without reserving anything: the checkout
// preview. Validation failures surface before any monetary computation.
func (s *TicketService) QuoteOrder(ctx context.Context, req PurchaseRequest, now time.Time) (*pricing.OrderQuote, error) {
	tierRec, err := s.app.FindRecordById(CollectionTiers, req.TierID)
	if err != nil {
		return nil, fmt.Errorf("load tier: %w", err)
	}
	tier := TierFromRecord(tierRec)

	if err := pricing.ValidateQuantity(tier, req.Quantity); err != nil {
		return nil, err
	}

	promoDiscount := decimal.Zero
	subtotal := tier.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	if req.PromoCode != "" {
		_, promoDiscount, err = s.promos.Evaluate(ctx, tier.EventID, req.PromoCode, tier.ID, req.BuyerEmail, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	quote := pricing.Quote(tier.Price, req.Quantity, promoDiscount, s.feeRate)
	return &quote, nil
}

// Purchase executes the full flow and returns the pending (or, for free
// tiers, immediately completed) ticket. Inventory is reserved atomically
// before the ticket record exists; any later failure releases it.
func (s *TicketService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error) {
	now := time.Now()

	tierRec, err := s.app.FindRecordById(CollectionTiers, req.TierID)
	if err != nil {
		monitoring.TrackPurchaseOperation("purchase", "tier_not_found")
		return nil, fmt.Errorf("load tier: %w", err)
	}
	tier := TierFromRecord(tierRec)

	if tier.Hidden {
		return nil, status.ErrTierNotOnSale
	}
	if err := pricing.ValidateQuantity(tier, req.Quantity); err != nil {
		monitoring.TrackPurchaseOperation("purchase", "invalid_quantity")
		return nil, err
	}
	if st := pricing.TierStatus(tier, now); st != models.TierOnSale {
		monitoring.TrackPurchaseOperation("purchase", string(st))
		if st == models.TierSoldOut {
			return nil, status.ErrSoldOut
		}
		return nil, fmt.Errorf("%w: tier is %s", status.ErrTierNotOnSale, st)
	}

	subtotal := tier.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
	promoDiscount := decimal.Zero
	var promo *models.PromoCode
	if req.PromoCode != "" {
		promo, promoDiscount, err = s.promos.Evaluate(ctx, tier.EventID, req.PromoCode, tier.ID, req.BuyerEmail, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.inventory.Reserve(ctx, tier.ID, req.Quantity); err != nil {
		if errors.Is(err, status.ErrSoldOut) {
			monitoring.TrackPurchaseOperation("purchase", "sold_out")
		}
		return nil, err
	}

	quote := pricing.Quote(tier.Price, req.Quantity, promoDiscount, s.feeRate)

	number, err := s.codes.TicketNumber()
	if err != nil {
		s.inventory.Release(ctx, tier.ID, req.Quantity)
		return nil, err
	}
	qrPayload := fmt.Sprintf(`{"ticket_number":"%s","event_id":"%s"}`, number, tier.EventID)

	collection, err := s.app.FindCollectionByNameOrId(CollectionTickets)
	if err != nil {
		s.inventory.Release(ctx, tier.ID, req.Quantity)
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("number", number)
	rec.Set("event_id", tier.EventID)
	rec.Set("tier_id", tier.ID)
	rec.Set("buyer_name", req.BuyerName)
	rec.Set("buyer_email", req.BuyerEmail)
	rec.Set("quantity", req.Quantity)
	rec.Set("unit_price", tier.Price.InexactFloat64())
	rec.Set("discount_amount", quote.DiscountAmount.InexactFloat64())
	rec.Set("service_fee", quote.ServiceFee.InexactFloat64())
	rec.Set("total_price", quote.TotalCharged.InexactFloat64())
	rec.Set("creator_payout", quote.HostPayout.InexactFloat64())
	if promo != nil && quote.PromoDiscount.IsPositive() {
		rec.Set("promo_code", promo.Code)
	}
	rec.Set("status", models.TicketPending)
	rec.Set("payment_method", req.PaymentMethod)
	rec.Set("qr_payload", qrPayload)

	if err := s.app.Save(rec); err != nil {
		s.inventory.Release(ctx, tier.ID, req.Quantity)
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	monitoring.TrackPurchaseOperation("purchase", "created")
	monitoring.TrackOrderAmounts(
		quote.GroupDiscount.InexactFloat64(),
		quote.PromoDiscount.InexactFloat64(),
		quote.ServiceFee.InexactFloat64(),
	)

	result := &PurchaseResult{
		Ticket:          TicketFromRecord(rec),
		Quote:           quote,
		RequiresPayment: quote.TotalCharged.IsPositive(),
	}

	// Free orders skip the payment rail entirely.
	if !result.RequiresPayment {
		if err := s.Complete(ctx, rec.Id, "free-order"); err != nil {
			return nil, err
		}
		completed, err := s.app.FindRecordById(CollectionTickets, rec.Id)
		if err != nil {
			return nil, err
		}
		result.Ticket = TicketFromRecord(completed)
	}

	return result, nil
}

// Complete transitions a pending ticket to completed: the only operation
// that advances the tier's stored sold count, and the point promo usage
// is consumed.
func (s *TicketService) Complete(ctx context.Context, ticketID, transactionID string) error {
	rec, err := s.app.FindRecordById(CollectionTickets, ticketID)
	if err != nil {
		return fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
	}
	if rec.GetString("status") != models.TicketPending {
		return fmt.Errorf("ticket %s is %s, not pending", ticketID, rec.GetString("status"))
	}

	quantity := rec.GetInt("quantity")
	tierID := rec.GetString("tier_id")
	promoCode := rec.GetString("promo_code")
	buyerEmail := rec.GetString("buyer_email")

	err = s.app.RunInTransaction(func(txApp core.App) error {
		rec.Set("status", models.TicketCompleted)
		rec.Set("paid_at", time.Now())
		rec.Set("transaction_id", transactionID)
		if err := txApp.Save(rec); err != nil {
			return err
		}

		tierRec, err := txApp.FindRecordById(CollectionTiers, tierID)
		if err != nil {
			return err
		}
		tierRec.Set("sold", tierRec.GetInt("sold")+quantity)
		if err := txApp.Save(tierRec); err != nil {
			return err
		}

		if promoCode != "" {
			promos, err := txApp.FindRecordsByFilter(
				CollectionPromoCodes,
				"event_id = {:eventId} && code = {:code}",
				"", 1, 0,
				dbx.Params{"eventId": rec.GetString("event_id"), "code": promoCode},
			)
			if err == nil && len(promos) > 0 {
				if err := s.promos.CommitUsage(ctx, txApp, promos[0].Id, buyerEmail); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("complete ticket: %w", err)
	}

	monitoring.TrackPurchaseOperation("complete", "success")
	monitoring.TrackTicketsSold(rec.GetString("event_id"), tierID, quantity)
	return nil
}

// Fail marks a pending ticket failed after a declined payment and returns
// its reserved inventory.
func (s *TicketService) Fail(ctx context.Context, ticketID string) error {
	rec, err := s.app.FindRecordById(CollectionTickets, ticketID)
	if err != nil {
		return fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
	}
	if rec.GetString("status") != models.TicketPending {
		return nil // settlement races are harmless here
	}

	rec.Set("status", models.TicketFailed)
	if err := s.app.Save(rec); err != nil {
		return err
	}

	if err := s.inventory.Release(ctx, rec.GetString("tier_id"), rec.GetInt("quantity")); err != nil {
		log.Printf("Error releasing inventory for failed ticket %s: %v", ticketID, err)
	}
	monitoring.TrackPurchaseOperation("complete", "failed")
	return nil
}

// Refund transitions a completed ticket to refunded. The tier's sold
// count stays put: it only ever grows.
func (s *TicketService) Refund(ctx context.Context, ticketID string) error {
	rec, err := s.app.FindRecordById(CollectionTickets, ticketID)
	if err != nil {
		return fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
	}
	if rec.GetString("status") != models.TicketCompleted {
		return fmt.Errorf("ticket %s is %s, cannot refund", ticketID, rec.GetString("status"))
	}

	rec.Set("status", models.TicketRefunded)
	if err := s.app.Save(rec); err != nil {
		return err
	}
	monitoring.TrackPurchaseOperation("refund", "success")
	return nil
}

// Cancel terminates a pending or completed ticket. Cancellation is final.
func (s *TicketService) Cancel(ctx context.Context, ticketID, reason string) error {
	rec, err := s.app.FindRecordById(CollectionTickets, ticketID)
	if err != nil {
		return fmt.Errorf("%w: %s", status.ErrTicketNotFound, ticketID)
	}

	ticket := TicketFromRecord(rec)
	if !ticket.Cancellable() {
		return status.ErrNotCancellable
	}

	wasPending := ticket.Status == models.TicketPending

	rec.Set("status", models.TicketCancelled)
	rec.Set("cancelled_at", time.Now())
	rec.Set("cancel_reason", reason)
	if err := s.app.Save(rec); err != nil {
		return err
	}

	if wasPending {
		if err := s.inventory.Release(ctx, ticket.TierID, ticket.Quantity); err != nil {
			log.Printf("Error releasing inventory for cancelled ticket %s: %v", ticketID, err)
		}
	}
	monitoring.TrackPurchaseOperation("cancel", "success")
	return nil
}

// CheckIn validates a ticket number at the door.
func (s *TicketService) CheckIn(ctx context.Context, eventID, number string) (*models.Ticket, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionTickets,
		"event_id = {:eventId} && number = {:number}",
		"", 1, 0,
		dbx.Params{"eventId": eventID, "number": number},
	)
	if err != nil || len(records) == 0 {
		return nil, status.ErrTicketNotFound
	}

	rec := records[0]
	if rec.GetString("status") != models.TicketCompleted {
		return nil, fmt.Errorf("ticket %s is %s, not admissible", number, rec.GetString("status"))
	}
	if !rec.GetDateTime("checked_in_at").IsZero() {
		return nil, fmt.Errorf("ticket %s already checked in", number)
	}

	rec.Set("checked_in_at", time.Now())
	if err := s.app.Save(rec); err != nil {
		return nil, err
	}

	ticket := TicketFromRecord(rec)
	return &ticket, nil
}
