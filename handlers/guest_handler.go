package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gatherly/internal/status"
	"gatherly/models"
	"gatherly/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type GuestHandler struct {
	guests *services.GuestService
}

func NewGuestHandler(guests *services.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

// AddGuest - host adds someone to the guest list
func (h *GuestHandler) AddGuest(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		Name        string   `json:"name"`
		Email       string   `json:"email"`
		Phone       string   `json:"phone"`
		FunctionIDs []string `json:"function_ids"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" {
		return apis.NewBadRequestError("Name is required", nil)
	}

	guest, err := h.guests.AddGuest(e.Request.Context(), models.Guest{
		EventID:     eventID,
		FunctionIDs: req.FunctionIDs,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		RSVPStatus:  models.RSVPPending,
	})
	if err != nil {
		slog.Error("add guest", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to add guest", err)
	}

	return e.JSON(http.StatusOK, guest)
}

// ListGuests - guest list plus the headcount of confirmed attendees
func (h *GuestHandler) ListGuests(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	guests, err := h.guests.ListGuests(e.Request.Context(), eventID)
	if err != nil {
		slog.Error("list guests", "eventId", eventID, "error", err)
		return apis.NewBadRequestError("Failed to list guests", err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"guests":          guests,
		"attending_count": models.AttendingCount(guests),
	})
}

// Invite - issue an invitation code for a guest
func (h *GuestHandler) Invite(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}
	eventID := e.Request.PathValue("eventId")

	var req struct {
		GuestID string `json:"guest_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	invitation, err := h.guests.Invite(e.Request.Context(), eventID, req.GuestID)
	if err != nil {
		slog.Error("invite guest", "guestId", req.GuestID, "error", err)
		return apis.NewBadRequestError("Failed to create invitation", err)
	}

	return e.JSON(http.StatusOK, invitation)
}

// Respond - guest answers an invitation by code, no auth required
func (h *GuestHandler) Respond(e *core.RequestEvent) error {
	code := e.Request.PathValue("code")

	var req struct {
		RSVPStatus string `json:"rsvp_status"`
		PlusOnes   int    `json:"plus_ones"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	guest, err := h.guests.Respond(e.Request.Context(), code, req.RSVPStatus, req.PlusOnes)
	if err != nil {
		switch {
		case errors.Is(err, status.ErrInviteNotFound):
			return apis.NewNotFoundError("Invitation not found", err)
		default:
			slog.Error("respond to invitation", "code", code, "error", err)
			return apis.NewBadRequestError("Failed to record response", err)
		}
	}

	return e.JSON(http.StatusOK, guest)
}
