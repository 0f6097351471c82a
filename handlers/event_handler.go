package handlers

import (
	"log/slog"
	"net/http"

	"gatherly/services"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type EventHandler struct {
	app    *pocketbase.PocketBase
	events *services.EventService
	guests *services.GuestService
}

func NewEventHandler(app *pocketbase.PocketBase, events *services.EventService, guests *services.GuestService) *EventHandler {
	return &EventHandler{app: app, events: events, guests: guests}
}

// CreateEvent - host creates an event shell; tiers and functions are
// added separately.
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req struct {
		Name        string `json:"name"`
		Kind        string `json:"kind"`
		Description string `json:"description"`
		Venue       string `json:"venue"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" {
		return apis.NewBadRequestError("Name is required", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId(services.CollectionEvents)
	if err != nil {
		return apis.NewInternalServerError("Missing events collection", err)
	}

	rec := core.NewRecord(collection)
	rec.Set("host_id", e.Auth.Id)
	rec.Set("name", req.Name)
	rec.Set("kind", req.Kind)
	rec.Set("description", req.Description)
	rec.Set("venue", req.Venue)
	rec.Set("start_time", req.StartTime)
	rec.Set("end_time", req.EndTime)
	rec.Set("status", "draft")

	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"id": rec.Id})
}

// AddFunction - sub-event within an event (ceremony, reception, keynote)
func (h *EventHandler) AddFunction(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		Name      string `json:"name"`
		Venue     string `json:"venue"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Position  int    `json:"position"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" {
		return apis.NewBadRequestError("Name is required", nil)
	}

	collection, err := h.app.FindCollectionByNameOrId(services.CollectionFunctions)
	if err != nil {
		return apis.NewInternalServerError("Missing event_functions collection", err)
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", eventID)
	rec.Set("name", req.Name)
	rec.Set("venue", req.Venue)
	rec.Set("start_time", req.StartTime)
	rec.Set("end_time", req.EndTime)
	rec.Set("position", req.Position)

	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to create function", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"id": rec.Id})
}

// Publish - flips an event from draft to on sale
func (h *EventHandler) Publish(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	rec, err := h.app.FindRecordById(services.CollectionEvents, eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	if rec.GetString("host_id") != e.Auth.Id {
		return apis.NewForbiddenError("Not the event host", nil)
	}

	rec.Set("status", "published")
	if err := h.app.Save(rec); err != nil {
		return apis.NewBadRequestError("Failed to publish event", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "published"})
}

// Delete - removes the event and everything hanging off it
func (h *EventHandler) Delete(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	rec, err := h.app.FindRecordById(services.CollectionEvents, eventID)
	if err != nil {
		return apis.NewNotFoundError("Event not found", err)
	}
	if rec.GetString("host_id") != e.Auth.Id {
		return apis.NewForbiddenError("Not the event host", nil)
	}

	if err := h.events.DeleteCascade(e.Request.Context(), eventID); err != nil {
		slog.Error("delete event", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to delete event", err)
	}

	return e.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// tierSalesRow is one line of the sales summary aggregate.
type tierSalesRow struct {
	TierID      string  `db:"tier_id" json:"tier_id"`
	TierName    string  `db:"tier_name" json:"tier_name"`
	TicketsSold int     `db:"tickets_sold" json:"tickets_sold"`
	GrossAmount float64 `db:"gross_amount" json:"gross_amount"`
	Discounts   float64 `db:"discounts" json:"discounts"`
	Fees        float64 `db:"fees" json:"fees"`
	HostPayout  float64 `db:"host_payout" json:"host_payout"`
}

// Dashboard - per-tier sales totals plus RSVP headcount
func (h *EventHandler) Dashboard(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var rows []tierSalesRow
	err := h.app.DB().
		NewQuery(`
			SELECT
				tt.id AS tier_id,
				tt.name AS tier_name,
				COUNT(t.id) AS tickets_sold,
				COALESCE(SUM(t.total_price), 0) AS gross_amount,
				COALESCE(SUM(t.discount_amount), 0) AS discounts,
				COALESCE(SUM(t.service_fee), 0) AS fees,
				COALESCE(SUM(t.creator_payout), 0) AS host_payout
			FROM ticket_tiers tt
			LEFT JOIN tickets t ON t.tier_id = tt.id AND t.status = 'completed'
			WHERE tt.event_id = {:eventId}
			GROUP BY tt.id, tt.name
			ORDER BY tt.position`).
		Bind(dbx.Params{"eventId": eventID}).
		All(&rows)
	if err != nil {
		slog.Error("event dashboard", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to load dashboard", err)
	}

	attending, err := h.guests.AttendingCount(e.Request.Context(), eventID)
	if err != nil {
		slog.Error("attending count", "eventId", eventID, "error", err)
		attending = 0
	}

	return e.JSON(http.StatusOK, map[string]any{
		"event_id":        eventID,
		"tiers":           rows,
		"attending_count": attending,
	})
}
