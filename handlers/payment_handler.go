package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gatherly/internal/status"
	"gatherly/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Status - poll a payment session
func (h *PaymentHandler) Status(e *core.RequestEvent) error {
	intentID := e.Request.PathValue("intentId")

	session, err := h.payments.SessionStatus(e.Request.Context(), intentID)
	if err != nil {
		if errors.Is(err, status.ErrIntentNotFound) {
			return apis.NewNotFoundError("Payment session not found", err)
		}
		slog.Error("payment status", "intentId", intentID, "error", err)
		return apis.NewBadRequestError("Failed to fetch payment status", err)
	}

	return e.JSON(http.StatusOK, session)
}

// Capture - the buyer's client confirms the payment on the simulated
// rail. The resulting notification drives the ticket transition.
func (h *PaymentHandler) Capture(e *core.RequestEvent) error {
	intentID := e.Request.PathValue("intentId")

	var req struct {
		ClientSecret string `json:"client_secret"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.ClientSecret == "" {
		return apis.NewBadRequestError("Client secret is required", nil)
	}

	if err := h.payments.Capture(e.Request.Context(), intentID, req.ClientSecret); err != nil {
		switch {
		case errors.Is(err, status.ErrIntentNotFound):
			return apis.NewNotFoundError("Payment session not found", err)
		case errors.Is(err, status.ErrFailedPayment):
			return e.JSON(http.StatusPaymentRequired, map[string]string{
				"status": "failed",
				"error":  "payment_declined",
			})
		default:
			slog.Error("capture payment", "intentId", intentID, "error", err)
			return apis.NewBadRequestError("Failed to capture payment", err)
		}
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "processing"})
}

// Cancel - abandon a payment session; the pending ticket is cancelled
// and its reservation released.
func (h *PaymentHandler) Cancel(e *core.RequestEvent) error {
	intentID := e.Request.PathValue("intentId")

	if err := h.payments.CancelSession(e.Request.Context(), intentID); err != nil {
		if errors.Is(err, status.ErrIntentNotFound) {
			return apis.NewNotFoundError("Payment session not found", err)
		}
		slog.Error("cancel payment session", "intentId", intentID, "error", err)
		return apis.NewBadRequestError("Failed to cancel payment session", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// Refund - host refunds a captured payment
func (h *PaymentHandler) Refund(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	intentID := e.Request.PathValue("intentId")

	if err := h.payments.Refund(e.Request.Context(), intentID); err != nil {
		if errors.Is(err, status.ErrIntentNotFound) {
			return apis.NewNotFoundError("Payment session not found", err)
		}
		slog.Error("refund payment", "intentId", intentID, "error", err)
		return apis.NewBadRequestError("Failed to refund payment", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "refund_requested"})
}
