package models

import (
	"time"
)

const (
	RSVPPending   = "pending"
	RSVPAttending = "attending"
	RSVPDeclined  = "declined"
	RSVPMaybe     = "maybe"
)

type Guest struct {
	ID          string   `json:"id"`
	EventID     string   `json:"event_id"`
	FunctionIDs []string `json:"function_ids,omitempty"` // functions this guest is invited to
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	RSVPStatus  string   `json:"rsvp_status"` // pending, attending, declined, maybe
	PlusOnes    int      `json:"plus_ones"`
}

type Invitation struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	GuestID     string     `json:"guest_id"`
	Code        string     `json:"code"` // human-readable invite code
	SentAt      *time.Time `json:"sent_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// AttendingCount is the number of people attending, counting confirmed
// guests plus their plus-ones. It takes the guest list explicitly rather
// than walking a stored relation.
func AttendingCount(guests []Guest) int {
	count := 0
	for _, g := range guests {
		if g.RSVPStatus == RSVPAttending {
			count += 1 + g.PlusOnes
		}
	}
	return count
}
