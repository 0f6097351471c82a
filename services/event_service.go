package services

import (
	"context"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

// EventService owns event lifecycle operations that span collections.
type EventService struct {
	app   core.App
	Redis *redis.Client
}

func NewEventService(app core.App, redisClient *redis.Client) *EventService {
	return &EventService{app: app, Redis: redisClient}
}

// cascade lists the collections whose records hang off an event, in
// child-first deletion order.
var cascade = []string{
	CollectionInvitations,
	CollectionGuests,
	CollectionWaitlist,
	CollectionTickets,
	CollectionPromoCodes,
	CollectionTiers,
	CollectionFunctions,
}

// DeleteCascade removes an event and everything referencing it in a
// single transaction, then clears its hot state from Redis.
func (s *EventService) DeleteCascade(ctx context.Context, eventID string) error {
	eventRec, err := s.app.FindRecordById(CollectionEvents, eventID)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}

	var tierIDs []string

	err = s.app.RunInTransaction(func(txApp core.App) error {
		for _, collection := range cascade {
			records, err := txApp.FindRecordsByFilter(
				collection,
				"event_id = {:eventId}",
				"", -1, 0,
				dbx.Params{"eventId": eventID},
			)
			if err != nil {
				return fmt.Errorf("list %s: %w", collection, err)
			}
			for _, rec := range records {
				if collection == CollectionTiers {
					tierIDs = append(tierIDs, rec.Id)
				}
				if err := txApp.Delete(rec); err != nil {
					return fmt.Errorf("delete %s record %s: %w", collection, rec.Id, err)
				}
			}
		}
		return txApp.Delete(eventRec)
	})
	if err != nil {
		return fmt.Errorf("cascade delete event %s: %w", eventID, err)
	}

	// Hot-state cleanup is best effort; the keys expire anyway.
	for _, tierID := range tierIDs {
		s.Redis.Del(ctx, inventoryKey(tierID))
	}
	s.Redis.Del(ctx, waitlistKey(eventID, ""))

	return nil
}

// SyncTierInventory seeds Redis counters for every tier of an event.
// Called on startup so reservations see current capacity.
func (s *EventService) SyncTierInventory(ctx context.Context, inventory *InventoryService) error {
	records, err := s.app.FindRecordsByFilter(CollectionTiers, "id != ''", "", -1, 0)
	if err != nil {
		return fmt.Errorf("list tiers: %w", err)
	}

	for _, rec := range records {
		if err := inventory.SyncTier(ctx, rec.Id, rec.GetInt("capacity"), rec.GetInt("sold")); err != nil {
			return fmt.Errorf("sync tier %s: %w", rec.Id, err)
		}
	}
	return nil
}
