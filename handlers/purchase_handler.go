package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gatherly/internal/status"
	"gatherly/services"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type PurchaseHandler struct {
	app      *pocketbase.PocketBase
	tickets  *services.TicketService
	payments *services.PaymentService
	waitlist *services.WaitlistService
}

func NewPurchaseHandler(app *pocketbase.PocketBase, tickets *services.TicketService, payments *services.PaymentService, waitlist *services.WaitlistService) *PurchaseHandler {
	return &PurchaseHandler{app: app, tickets: tickets, payments: payments, waitlist: waitlist}
}

// Quote prices an order without reserving inventory.
func (h *PurchaseHandler) Quote(e *core.RequestEvent) error {
	var req services.PurchaseRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	quote, err := h.tickets.QuoteOrder(e.Request.Context(), req, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, status.ErrQuantityOutOfRange):
			return apis.NewBadRequestError("Quantity out of range", err)
		case errors.Is(err, status.ErrPromoInvalid), errors.Is(err, status.ErrPromoExhausted):
			return apis.NewBadRequestError("Promo code is not valid", err)
		default:
			slog.Error("quote order", "tierId", req.TierID, "error", err)
			return apis.NewBadRequestError("Failed to quote order", err)
		}
	}

	return e.JSON(http.StatusOK, quote)
}

// Purchase reserves inventory, issues a pending ticket, and opens a
// payment session for paid orders.
func (h *PurchaseHandler) Purchase(e *core.RequestEvent) error {
	var req services.PurchaseRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.BuyerEmail == "" || req.BuyerName == "" {
		return apis.NewBadRequestError("Buyer name and email are required", nil)
	}

	ctx := e.Request.Context()
	result, err := h.tickets.Purchase(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, status.ErrSoldOut):
			// Sold out is the waitlist's cue, not a server fault.
			return e.JSON(http.StatusConflict, map[string]any{
				"error":         "sold_out",
				"waitlist_open": true,
			})
		case errors.Is(err, status.ErrTierNotOnSale):
			return apis.NewBadRequestError("Tier is not on sale", err)
		case errors.Is(err, status.ErrQuantityOutOfRange):
			return apis.NewBadRequestError("Quantity out of range", err)
		case errors.Is(err, status.ErrPromoInvalid), errors.Is(err, status.ErrPromoExhausted):
			return apis.NewBadRequestError("Promo code is not valid", err)
		default:
			slog.Error("purchase", "tierId", req.TierID, "buyer", req.BuyerEmail, "error", err)
			return apis.NewBadRequestError("Failed to purchase", err)
		}
	}

	// A buyer who was waiting for this tier has now converted.
	if err := h.waitlist.MarkConverted(ctx, result.Ticket.EventID, result.Ticket.TierID, req.BuyerEmail); err != nil {
		slog.Error("mark waitlist converted", "buyer", req.BuyerEmail, "error", err)
	}

	resp := map[string]any{
		"ticket":           result.Ticket,
		"quote":            result.Quote,
		"requires_payment": result.RequiresPayment,
	}

	if result.RequiresPayment {
		intent, err := h.payments.CreateSession(ctx, result.Ticket, req.SimulateDecline)
		if err != nil {
			// The ticket stays pending; Fail releases the reservation.
			if failErr := h.tickets.Fail(ctx, result.Ticket.ID); failErr != nil {
				slog.Error("fail ticket after session error", "ticketId", result.Ticket.ID, "error", failErr)
			}
			slog.Error("create payment session", "ticketId", result.Ticket.ID, "error", err)
			return apis.NewInternalServerError("Failed to open payment session", err)
		}
		resp["payment_intent"] = intent
	}

	return e.JSON(http.StatusOK, resp)
}

// GetTicket - ticket detail for the buyer
func (h *PurchaseHandler) GetTicket(e *core.RequestEvent) error {
	ticketID := e.Request.PathValue("ticketId")

	rec, err := h.app.FindRecordById(services.CollectionTickets, ticketID)
	if err != nil {
		return apis.NewNotFoundError("Ticket not found", err)
	}

	return e.JSON(http.StatusOK, services.TicketFromRecord(rec))
}

// ListTickets - tickets of an event, newest first
func (h *PurchaseHandler) ListTickets(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	records, err := h.app.FindRecordsByFilter(
		services.CollectionTickets,
		"event_id = {:eventId}",
		"-created",
		-1,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list tickets", err)
	}

	tickets := make([]any, 0, len(records))
	for _, rec := range records {
		tickets = append(tickets, services.TicketFromRecord(rec))
	}
	return e.JSON(http.StatusOK, map[string]any{"tickets": tickets})
}

// Cancel - buyer cancels a pending or completed ticket
func (h *PurchaseHandler) Cancel(e *core.RequestEvent) error {
	ticketID := e.Request.PathValue("ticketId")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.tickets.Cancel(e.Request.Context(), ticketID, req.Reason); err != nil {
		switch {
		case errors.Is(err, status.ErrTicketNotFound):
			return apis.NewNotFoundError("Ticket not found", err)
		case errors.Is(err, status.ErrNotCancellable):
			return apis.NewBadRequestError("Ticket can no longer be cancelled", err)
		default:
			slog.Error("cancel ticket", "ticketId", ticketID, "error", err)
			return apis.NewBadRequestError("Failed to cancel ticket", err)
		}
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// CheckIn - door scan by ticket number
func (h *PurchaseHandler) CheckIn(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		Number string `json:"number"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Number == "" {
		return apis.NewBadRequestError("Ticket number is required", nil)
	}

	ticket, err := h.tickets.CheckIn(e.Request.Context(), eventID, req.Number)
	if err != nil {
		if errors.Is(err, status.ErrTicketNotFound) {
			return apis.NewNotFoundError("Ticket not found", err)
		}
		return apis.NewBadRequestError("Check-in failed", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"status": "checked_in",
		"ticket": ticket,
	})
}
