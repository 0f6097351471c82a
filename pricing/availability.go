package pricing

import (
	"time"

	"gatherly/models"
)

// TierStatus evaluates the sale-window state of a tier at the given time.
// An ended sale reports ended even when the tier also sold out; the end
// date dominates.
func TierStatus(t models.TicketTier, now time.Time) models.TierSalesStatus {
	if t.SalesStart != nil && now.Before(*t.SalesStart) {
		return models.TierUpcoming
	}
	if t.SalesEnd != nil && now.After(*t.SalesEnd) {
		return models.TierEnded
	}
	if t.Sold >= t.Capacity {
		return models.TierSoldOut
	}
	return models.TierOnSale
}

// Remaining is the unsold inventory, clamped at zero. Oversold tiers
// (manual corrections, historical races) never report negative counts.
func Remaining(t models.TicketTier) int {
	if t.Sold >= t.Capacity {
		return 0
	}
	return t.Capacity - t.Sold
}

// Available reports whether the tier has inventory left to sell: remaining
// above zero and not sold out. The sale window is a separate concern; the
// purchase path enforces it via TierStatus.
func Available(t models.TicketTier, now time.Time) bool {
	return Remaining(t) > 0 && TierStatus(t, now) != models.TierSoldOut
}
