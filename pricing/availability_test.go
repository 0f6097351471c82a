package pricing

import (
	"testing"
	"time"

	"gatherly/models"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestTierStatus_OnSale(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity:   100,
		Sold:       42,
		SalesStart: timePtr(now.Add(-time.Hour)),
		SalesEnd:   timePtr(now.Add(time.Hour)),
	}

	assert.Equal(t, models.TierOnSale, TierStatus(tier, now))
	assert.True(t, Available(tier, now))
}

func TestTierStatus_Upcoming(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity:   100,
		SalesStart: timePtr(now.Add(time.Hour)),
	}

	assert.Equal(t, models.TierUpcoming, TierStatus(tier, now))
	// Inventory remains, so the tier is available even before sales open;
	// the sale window gates purchases, not availability.
	assert.True(t, Available(tier, now))
}

func TestAvailable_UpcomingTierWithInventory(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity:   100,
		Sold:       0,
		SalesStart: timePtr(now.Add(time.Hour)),
	}

	assert.Equal(t, 100, Remaining(tier))
	assert.True(t, Available(tier, now))
}

func TestAvailable_EndedTierWithInventory(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity: 100,
		Sold:     10,
		SalesEnd: timePtr(now.Add(-time.Minute)),
	}

	assert.True(t, Available(tier, now))
}

func TestTierStatus_Ended(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity: 100,
		Sold:     10,
		SalesEnd: timePtr(now.Add(-time.Minute)),
	}

	assert.Equal(t, models.TierEnded, TierStatus(tier, now))
}

func TestTierStatus_EndedDominatesSoldOut(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{
		Capacity: 10,
		Sold:     10,
		SalesEnd: timePtr(now.Add(-time.Minute)),
	}

	// A tier that sold out and then had its end date pass reports ended.
	assert.Equal(t, models.TierEnded, TierStatus(tier, now))
}

func TestTierStatus_SoldOut(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{Capacity: 10, Sold: 10}

	assert.Equal(t, models.TierSoldOut, TierStatus(tier, now))
	assert.Equal(t, 0, Remaining(tier))
	assert.False(t, Available(tier, now))
}

func TestTierStatus_ZeroCapacityIsSoldOut(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{Capacity: 0, Sold: 0}

	assert.Equal(t, models.TierSoldOut, TierStatus(tier, now))
	assert.False(t, Available(tier, now))
}

func TestRemaining_NeverNegative(t *testing.T) {
	cases := []struct {
		capacity, sold, want int
	}{
		{100, 0, 100},
		{100, 42, 58},
		{100, 100, 0},
		{100, 130, 0}, // oversold, e.g. manual correction
		{0, 0, 0},
	}

	for _, c := range cases {
		tier := models.TicketTier{Capacity: c.capacity, Sold: c.sold}
		got := Remaining(tier)
		assert.Equal(t, c.want, got)
		assert.GreaterOrEqual(t, got, 0)
	}
}

func TestTierStatus_NoWindowIsOnSale(t *testing.T) {
	now := time.Now()
	tier := models.TicketTier{Capacity: 5, Sold: 0}

	assert.Equal(t, models.TierOnSale, TierStatus(tier, now))
}
