package services

import (
	"context"
	"fmt"
	"time"

	"gatherly/internal/status"
	"gatherly/models"
	"gatherly/utils"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// GuestService manages the host's guest list and invitations.
type GuestService struct {
	app   core.App
	codes *utils.CodeGenerator
}

func NewGuestService(app core.App) *GuestService {
	return &GuestService{app: app, codes: utils.NewCodeGenerator()}
}

// AddGuest creates a guest with a pending RSVP.
func (s *GuestService) AddGuest(ctx context.Context, guest models.Guest) (*models.Guest, error) {
	collection, err := s.app.FindCollectionByNameOrId(CollectionGuests)
	if err != nil {
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", guest.EventID)
	rec.Set("function_ids", guest.FunctionIDs)
	rec.Set("name", guest.Name)
	rec.Set("email", guest.Email)
	rec.Set("phone", guest.Phone)
	rec.Set("rsvp_status", models.RSVPPending)
	rec.Set("plus_ones", guest.PlusOnes)
	if err := s.app.Save(rec); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}

	created := GuestFromRecord(rec)
	return &created, nil
}

// ListGuests returns the guest list for an event.
func (s *GuestService) ListGuests(ctx context.Context, eventID string) ([]models.Guest, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionGuests,
		"event_id = {:eventId}",
		"name", -1, 0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return nil, err
	}

	guests := make([]models.Guest, len(records))
	for i, rec := range records {
		guests[i] = GuestFromRecord(rec)
	}
	return guests, nil
}

// AttendingCount counts confirmed heads (guests plus their plus-ones).
func (s *GuestService) AttendingCount(ctx context.Context, eventID string) (int, error) {
	guests, err := s.ListGuests(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return models.AttendingCount(guests), nil
}

// Invite issues an invitation with a fresh human-readable code.
func (s *GuestService) Invite(ctx context.Context, eventID, guestID string) (*models.Invitation, error) {
	if _, err := s.app.FindRecordById(CollectionGuests, guestID); err != nil {
		return nil, fmt.Errorf("load guest: %w", err)
	}

	code, err := s.codes.InviteCode()
	if err != nil {
		return nil, err
	}

	collection, err := s.app.FindCollectionByNameOrId(CollectionInvitations)
	if err != nil {
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", eventID)
	rec.Set("guest_id", guestID)
	rec.Set("code", code)
	rec.Set("sent_at", time.Now())
	if err := s.app.Save(rec); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	return &models.Invitation{
		ID:      rec.Id,
		EventID: eventID,
		GuestID: guestID,
		Code:    code,
	}, nil
}

// Respond records an RSVP against an invitation code.
func (s *GuestService) Respond(ctx context.Context, code, rsvpStatus string, plusOnes int) (*models.Guest, error) {
	switch rsvpStatus {
	case models.RSVPAttending, models.RSVPDeclined, models.RSVPMaybe:
	default:
		return nil, fmt.Errorf("invalid rsvp status %q", rsvpStatus)
	}

	invites, err := s.app.FindRecordsByFilter(
		CollectionInvitations,
		"code = {:code}",
		"", 1, 0,
		dbx.Params{"code": code},
	)
	if err != nil || len(invites) == 0 {
		return nil, status.ErrInviteNotFound
	}
	invite := invites[0]

	guestRec, err := s.app.FindRecordById(CollectionGuests, invite.GetString("guest_id"))
	if err != nil {
		return nil, fmt.Errorf("load guest: %w", err)
	}

	err = s.app.RunInTransaction(func(txApp core.App) error {
		guestRec.Set("rsvp_status", rsvpStatus)
		if rsvpStatus == models.RSVPAttending {
			guestRec.Set("plus_ones", plusOnes)
		}
		if err := txApp.Save(guestRec); err != nil {
			return err
		}

		invite.Set("responded_at", time.Now())
		return txApp.Save(invite)
	})
	if err != nil {
		return nil, fmt.Errorf("record rsvp: %w", err)
	}

	guest := GuestFromRecord(guestRec)
	return &guest, nil
}
