package handlers

import (
	"log/slog"
	"net/http"

	"gatherly/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type WaitlistHandler struct {
	waitlist *services.WaitlistService
}

func NewWaitlistHandler(waitlist *services.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlist: waitlist}
}

// Join - queue up for a sold out tier
func (h *WaitlistHandler) Join(e *core.RequestEvent) error {
	var req struct {
		EventID string `json:"event_id"`
		TierID  string `json:"tier_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.EventID == "" || req.Email == "" {
		return apis.NewBadRequestError("Event and email are required", nil)
	}

	entry, err := h.waitlist.Join(e.Request.Context(), req.EventID, req.TierID, req.Name, req.Email)
	if err != nil {
		slog.Error("join waitlist", "eventId", req.EventID, "error", err)
		return apis.NewBadRequestError("Failed to join waitlist", err)
	}

	return e.JSON(http.StatusOK, entry)
}

// List - host view of the queue in join order
func (h *WaitlistHandler) List(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")
	tierID := e.Request.URL.Query().Get("tier_id")

	entries, err := h.waitlist.List(e.Request.Context(), eventID, tierID)
	if err != nil {
		slog.Error("list waitlist", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to list waitlist", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"entries": entries,
		"depth":   len(entries),
	})
}

// NotifyNext - host releases spots to the head of the queue
func (h *WaitlistHandler) NotifyNext(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		TierID string `json:"tier_id"`
		Count  int    `json:"count"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	notified, err := h.waitlist.NotifyNext(e.Request.Context(), eventID, req.TierID, req.Count)
	if err != nil {
		slog.Error("notify waitlist", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to notify waitlist", err)
	}

	return e.JSON(http.StatusOK, map[string]any{"notified": notified})
}
