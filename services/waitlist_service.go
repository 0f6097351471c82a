package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gatherly/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

// WaitlistService tracks interest in sold-out tiers. Positions come from
// a Redis list per event/tier so insertion order survives restarts, with
// the PocketBase record as the durable copy.
type WaitlistService struct {
	app    core.App
	Redis  *redis.Client
	PubNub *pubnub.PubNub
}

func NewWaitlistService(app core.App, redisClient *redis.Client, pn *pubnub.PubNub) *WaitlistService {
	return &WaitlistService{app: app, Redis: redisClient, PubNub: pn}
}

func waitlistKey(eventID, tierID string) string {
	if tierID == "" {
		return fmt.Sprintf("waitlist:order:%s", eventID)
	}
	return fmt.Sprintf("waitlist:order:%s:%s", eventID, tierID)
}

// Join adds a contact to the waitlist and assigns the next position.
// Joining twice with the same email returns the existing entry.
func (s *WaitlistService) Join(ctx context.Context, eventID, tierID, name, email string) (*models.WaitlistEntry, error) {
	existing, err := s.app.FindRecordsByFilter(
		CollectionWaitlist,
		"event_id = {:eventId} && tier_id = {:tierId} && email = {:email}",
		"", 1, 0,
		dbx.Params{"eventId": eventID, "tierId": tierID, "email": email},
	)
	if err == nil && len(existing) > 0 {
		entry := WaitlistFromRecord(existing[0])
		return &entry, nil
	}

	position, err := s.Redis.RPush(ctx, waitlistKey(eventID, tierID), email).Result()
	if err != nil {
		return nil, fmt.Errorf("assign waitlist position: %w", err)
	}

	collection, err := s.app.FindCollectionByNameOrId(CollectionWaitlist)
	if err != nil {
		return nil, err
	}

	rec := core.NewRecord(collection)
	rec.Set("event_id", eventID)
	rec.Set("tier_id", tierID)
	rec.Set("name", name)
	rec.Set("email", email)
	rec.Set("position", int(position))
	rec.Set("converted", false)
	if err := s.app.Save(rec); err != nil {
		return nil, fmt.Errorf("create waitlist entry: %w", err)
	}

	entry := WaitlistFromRecord(rec)
	return &entry, nil
}

// List returns the waitlist in position order.
func (s *WaitlistService) List(ctx context.Context, eventID, tierID string) ([]models.WaitlistEntry, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionWaitlist,
		"event_id = {:eventId} && tier_id = {:tierId}",
		"position", -1, 0,
		dbx.Params{"eventId": eventID, "tierId": tierID},
	)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WaitlistEntry, len(records))
	for i, rec := range records {
		entries[i] = WaitlistFromRecord(rec)
	}
	return entries, nil
}

// NotifyNext marks the next count unnotified entries as notified and
// pushes them a message that inventory opened up.
func (s *WaitlistService) NotifyNext(ctx context.Context, eventID, tierID string, count int) (int, error) {
	records, err := s.app.FindRecordsByFilter(
		CollectionWaitlist,
		"event_id = {:eventId} && tier_id = {:tierId} && converted = false && notified_at = ''",
		"position", count, 0,
		dbx.Params{"eventId": eventID, "tierId": tierID},
	)
	if err != nil {
		return 0, err
	}

	notified := 0
	for _, rec := range records {
		rec.Set("notified_at", time.Now())
		if err := s.app.Save(rec); err != nil {
			log.Printf("Error marking waitlist entry %s notified: %v", rec.Id, err)
			continue
		}
		notified++

		if s.PubNub != nil {
			channel := fmt.Sprintf("buyer-%s", rec.GetString("email"))
			s.PubNub.Publish().
				Channel(channel).
				Message(map[string]any{
					"type":     "waitlist_spot_open",
					"event_id": eventID,
					"tier_id":  tierID,
				}).
				Execute()
		}
	}
	return notified, nil
}

// MarkConverted flags an entry once it resulted in an issued ticket.
func (s *WaitlistService) MarkConverted(ctx context.Context, eventID, tierID, email string) error {
	records, err := s.app.FindRecordsByFilter(
		CollectionWaitlist,
		"event_id = {:eventId} && tier_id = {:tierId} && email = {:email} && converted = false",
		"", 1, 0,
		dbx.Params{"eventId": eventID, "tierId": tierID, "email": email},
	)
	if err != nil || len(records) == 0 {
		return nil // not on the waitlist, nothing to convert
	}

	rec := records[0]
	rec.Set("converted", true)
	return s.app.Save(rec)
}
