package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_Cancellable(t *testing.T) {
	tests := []struct {
		status      string
		cancellable bool
	}{
		{TicketPending, true},
		{TicketCompleted, true},
		{TicketFailed, false},
		{TicketRefunded, false},
		{TicketCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			ticket := Ticket{Status: tt.status}
			assert.Equal(t, tt.cancellable, ticket.Cancellable())
		})
	}
}

func TestTicket_JSONKeepsDecimalPrecision(t *testing.T) {
	ticket := Ticket{
		ID:         "ticket-1",
		Number:     "TKT-ABCD2345",
		UnitPrice:  decimal.RequireFromString("49.99"),
		TotalPrice: decimal.RequireFromString("104.98"),
		Status:     TicketPending,
	}

	jsonData, err := json.Marshal(ticket)
	require.NoError(t, err)

	var unmarshaled Ticket
	require.NoError(t, json.Unmarshal(jsonData, &unmarshaled))

	assert.True(t, ticket.UnitPrice.Equal(unmarshaled.UnitPrice))
	assert.True(t, ticket.TotalPrice.Equal(unmarshaled.TotalPrice))
}

func TestAttendingCount(t *testing.T) {
	guests := []Guest{
		{Name: "Ann", RSVPStatus: RSVPAttending, PlusOnes: 1},
		{Name: "Ben", RSVPStatus: RSVPAttending},
		{Name: "Cam", RSVPStatus: RSVPDeclined, PlusOnes: 3},
		{Name: "Dee", RSVPStatus: RSVPPending},
		{Name: "Eli", RSVPStatus: RSVPMaybe, PlusOnes: 2},
	}

	// Only confirmed guests count, each bringing their plus-ones.
	assert.Equal(t, 3, AttendingCount(guests))
}

func TestAttendingCount_EmptyList(t *testing.T) {
	assert.Equal(t, 0, AttendingCount(nil))
	assert.Equal(t, 0, AttendingCount([]Guest{}))
}

func TestAttendingCount_PlusOnesOnlyForAttending(t *testing.T) {
	guests := []Guest{
		{RSVPStatus: RSVPAttending, PlusOnes: 4},
		{RSVPStatus: RSVPDeclined, PlusOnes: 4},
	}
	assert.Equal(t, 5, AttendingCount(guests))
}
