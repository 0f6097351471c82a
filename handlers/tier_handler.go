package handlers

import (
	"net/http"
	"time"

	"gatherly/pricing"
	"gatherly/services"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type TierHandler struct {
	app       *pocketbase.PocketBase
	inventory *services.InventoryService
}

func NewTierHandler(app *pocketbase.PocketBase, inventory *services.InventoryService) *TierHandler {
	return &TierHandler{app: app, inventory: inventory}
}

// ListTiers - tiers of an event with live availability
func (h *TierHandler) ListTiers(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("eventId")
	ctx := e.Request.Context()
	now := time.Now()

	records, err := h.app.FindRecordsByFilter(
		services.CollectionTiers,
		"event_id = {:eventId} && hidden = false",
		"position",
		-1,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to list tiers", err)
	}

	tiers := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		tier := services.TierFromRecord(rec)

		// Prefer the live counter; fall back to the stored sold count.
		remaining, err := h.inventory.Remaining(ctx, tier.ID)
		if err != nil {
			remaining = pricing.Remaining(tier)
		}

		tiers = append(tiers, map[string]any{
			"id":            tier.ID,
			"name":          tier.Name,
			"price":         tier.Price,
			"capacity":      tier.Capacity,
			"remaining":     remaining,
			"min_per_order": tier.MinPerOrder,
			"max_per_order": tier.MaxPerOrder,
			"sales_status":  pricing.TierStatus(tier, now),
			"available":     pricing.Available(tier, now) && remaining > 0,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id": eventID,
		"tiers":    tiers,
	})
}

// CreateTier - host adds a tier to an event
func (h *TierHandler) CreateTier(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		EventID     string  `json:"event_id"`
		FunctionID  string  `json:"function_id"`
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Capacity    int     `json:"capacity"`
		MinPerOrder int     `json:"min_per_order"`
		MaxPerOrder int     `json:"max_per_order"`
		SalesStart  string  `json:"sales_start"`
		SalesEnd    string  `json:"sales_end"`
		Position    int     `json:"position"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Price < 0 || req.Capacity < 0 {
		return apis.NewBadRequestError("Price and capacity must be non-negative", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId(services.CollectionTiers)
	if err != nil {
		return apis.NewInternalServerError("Missing tiers collection", err)
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", req.EventID)
	rec.Set("function_id", req.FunctionID)
	rec.Set("name", req.Name)
	rec.Set("price", req.Price)
	rec.Set("capacity", req.Capacity)
	rec.Set("sold", 0)
	rec.Set("min_per_order", req.MinPerOrder)
	rec.Set("max_per_order", req.MaxPerOrder)
	rec.Set("sales_start", req.SalesStart)
	rec.Set("sales_end", req.SalesEnd)
	rec.Set("hidden", false)
	rec.Set("position", req.Position)

	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to create tier", err)
	}

	if err := h.inventory.SyncTier(e.Request.Context(), rec.Id, req.Capacity, 0); err != nil {
		return apis.NewInternalServerError("Failed to sync inventory", err)
	}

	return e.JSON(http.StatusOK, services.TierFromRecord(rec))
}

// UpdateTier - host edits capacity or pricing; issued tickets keep their
// price snapshots.
func (h *TierHandler) UpdateTier(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	tierID := e.Request.PathValue("tierId")
	rec, err := h.app.FindRecordById(services.CollectionTiers, tierID)
	if err != nil {
		return apis.NewNotFoundError("Tier not found", err)
	}

	var req struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Capacity    *int     `json:"capacity"`
		MinPerOrder *int     `json:"min_per_order"`
		MaxPerOrder *int     `json:"max_per_order"`
		Hidden      *bool    `json:"hidden"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if req.Name != nil {
		rec.Set("name", *req.Name)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apis.NewBadRequestError("Price must be non-negative", nil)
		}
		rec.Set("price", *req.Price)
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return apis.NewBadRequestError("Capacity must be non-negative", nil)
		}
		rec.Set("capacity", *req.Capacity)
	}
	if req.MinPerOrder != nil {
		rec.Set("min_per_order", *req.MinPerOrder)
	}
	if req.MaxPerOrder != nil {
		rec.Set("max_per_order", *req.MaxPerOrder)
	}
	if req.Hidden != nil {
		rec.Set("hidden", *req.Hidden)
	}

	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to update tier", err)
	}

	// Only touch the capacity side of the live counter; rewriting sold here
	// would discard in-flight reservations.
	if req.Capacity != nil {
		if err := h.inventory.SetCapacity(e.Request.Context(), rec.Id, *req.Capacity); err != nil {
			return apis.NewInternalServerError("Failed to sync inventory", err)
		}
	}

	return e.JSON(http.StatusOK, services.TierFromRecord(rec))
}
