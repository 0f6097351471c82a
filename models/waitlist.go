package models

import (
	"time"
)

type WaitlistEntry struct {
	ID         string     `json:"id"`
	EventID    string     `json:"event_id"`
	TierID     string     `json:"tier_id,omitempty"` // empty means general waitlist
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Position   int        `json:"position"` // assigned by insertion order
	JoinedAt   time.Time  `json:"joined_at"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	Converted  bool       `json:"converted"` // true once the entry resulted in a ticket
}
