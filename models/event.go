package models

import (
	"time"
)

type Event struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"` // wedding, party, conference, other
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"` // draft, published, completed, cancelled
}

// EventFunction is a sub-event of an Event (ceremony, reception, keynote).
// Ticket tiers may be scoped to a single function.
type EventFunction struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Venue     string    `json:"venue"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Position  int       `json:"position"`
}
