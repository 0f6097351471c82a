package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gatherly/internal/status"
	"gatherly/services"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type PromoHandler struct {
	app    *pocketbase.PocketBase
	promos *services.PromoService
}

func NewPromoHandler(app *pocketbase.PocketBase, promos *services.PromoService) *PromoHandler {
	return &PromoHandler{app: app, promos: promos}
}

// Validate - checkout preview of a promo code against an order amount
func (h *PromoHandler) Validate(e *core.RequestEvent) error {
	var req struct {
		EventID     string          `json:"event_id"`
		Code        string          `json:"code"`
		TierID      string          `json:"tier_id"`
		BuyerEmail  string          `json:"buyer_email"`
		OrderAmount decimal.Decimal `json:"order_amount"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Code == "" {
		return apis.NewBadRequestError("Code is required", nil)
	}

	promo, discount, err := h.promos.Evaluate(
		e.Request.Context(), req.EventID, req.Code, req.TierID, req.BuyerEmail, req.OrderAmount, time.Now())
	if err != nil {
		if errors.Is(err, status.ErrPromoInvalid) || errors.Is(err, status.ErrPromoExhausted) {
			return e.JSON(http.StatusOK, map[string]any{
				"valid":    false,
				"discount": decimal.Zero,
			})
		}
		slog.Error("validate promo", "code", req.Code, "error", err)
		return apis.NewBadRequestError("Failed to validate promo code", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"valid":    discount.IsPositive(),
		"discount": discount,
		"type":     promo.DiscountType,
	})
}

// CreatePromo - host registers a code for an event
func (h *PromoHandler) CreatePromo(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID      string   `json:"event_id"`
		Code         string   `json:"code"`
		Type         string   `json:"type"`
		Value        float64  `json:"value"`
		MinPurchase  *float64 `json:"min_purchase"`
		MaxDiscount  *float64 `json:"max_discount"`
		UsageLimit   *int     `json:"usage_limit"`
		PerUserLimit *int     `json:"per_user_limit"`
		ValidFrom    string   `json:"valid_from"`
		ValidUntil   string   `json:"valid_until"`
		TierIDs      []string `json:"tier_ids"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return apis.NewBadRequestError("Code is required", nil)
	}
	if req.Type != "percentage" && req.Type != "fixed" {
		return apis.NewBadRequestError("Type must be percentage or fixed", nil)
	}
	if req.Value < 0 || (req.Type == "percentage" && req.Value > 100) {
		return apis.NewBadRequestError("Invalid discount value", nil)
	}

	// Codes are unique per event, not globally.
	existing, err := h.app.FindRecordsByFilter(
		services.CollectionPromoCodes,
		"event_id = {:eventId} && code = {:code}",
		"",
		1,
		0,
		dbx.Params{"eventId": req.EventID, "code": req.Code},
	)
	if err == nil && len(existing) > 0 {
		return apis.NewBadRequestError("Code already exists for this event", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId(services.CollectionPromoCodes)
	if err != nil {
		return apis.NewInternalServerError("Missing promo_codes collection", err)
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", req.EventID)
	rec.Set("code", req.Code)
	rec.Set("discount_type", req.Type)
	rec.Set("discount_value", req.Value)
	if req.MinPurchase != nil {
		rec.Set("min_purchase", *req.MinPurchase)
	}
	if req.MaxDiscount != nil {
		rec.Set("max_discount", *req.MaxDiscount)
	}
	if req.UsageLimit != nil {
		rec.Set("usage_limit", *req.UsageLimit)
	}
	if req.PerUserLimit != nil {
		rec.Set("per_user_limit", *req.PerUserLimit)
	}
	rec.Set("usage_count", 0)
	rec.Set("valid_from", req.ValidFrom)
	rec.Set("valid_until", req.ValidUntil)
	rec.Set("tier_ids", req.TierIDs)
	rec.Set("active", true)

	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to create promo code", err)
	}

	return e.JSON(http.StatusOK, services.PromoFromRecord(rec))
}

// ListPromos - host view, includes usage counters
func (h *PromoHandler) ListPromos(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	records, err := h.app.FindRecordsByFilter(
		services.CollectionPromoCodes,
		"event_id = {:eventId}",
		"-created",
		-1,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list promo codes", err)
	}

	promos := make([]any, 0, len(records))
	for _, rec := range records {
		promos = append(promos, services.PromoFromRecord(rec))
	}
	return e.JSON(http.StatusOK, map[string]any{"promo_codes": promos})
}

// DeactivatePromo - host retires a code without deleting its usage history
func (h *PromoHandler) DeactivatePromo(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	promoID := e.Request.PathValue("promoId")

	rec, err := h.app.FindRecordById(services.CollectionPromoCodes, promoID)
	if err != nil {
		return apis.NewNotFoundError("Promo code not found", err)
	}

	rec.Set("active", false)
	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to deactivate promo code", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "deactivated"})
}
