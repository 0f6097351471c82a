package services

import (
	"time"

	"gatherly/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// Collection names of the persistent object graph.
const (
	CollectionEvents      = "events"
	CollectionFunctions   = "event_functions"
	CollectionTiers       = "ticket_tiers"
	CollectionTickets     = "tickets"
	CollectionPromoCodes  = "promo_codes"
	CollectionWaitlist    = "waitlist_entries"
	CollectionGuests      = "guests"
	CollectionInvitations = "invitations"
)

func optionalTime(rec *core.Record, field string) *time.Time {
	dt := rec.GetDateTime(field)
	if dt.IsZero() {
		return nil
	}
	t := dt.Time()
	return &t
}

func optionalInt(rec *core.Record, field string) *int {
	v := rec.GetInt(field)
	if v <= 0 {
		return nil
	}
	return &v
}

func optionalDecimal(rec *core.Record, field string) *decimal.Decimal {
	v := rec.GetFloat(field)
	if v <= 0 {
		return nil
	}
	d := decimal.NewFromFloat(v)
	return &d
}

// TierFromRecord maps a ticket_tiers record onto the pricing model.
func TierFromRecord(rec *core.Record) models.TicketTier {
	return models.TicketTier{
		ID:          rec.Id,
		EventID:     rec.GetString("event_id"),
		FunctionID:  rec.GetString("function_id"),
		Name:        rec.GetString("name"),
		Price:       decimal.NewFromFloat(rec.GetFloat("price")),
		Capacity:    rec.GetInt("capacity"),
		Sold:        rec.GetInt("sold"),
		MinPerOrder: rec.GetInt("min_per_order"),
		MaxPerOrder: rec.GetInt("max_per_order"),
		SalesStart:  optionalTime(rec, "sales_start"),
		SalesEnd:    optionalTime(rec, "sales_end"),
		Hidden:      rec.GetBool("hidden"),
		Position:    rec.GetInt("position"),
	}
}

// PromoFromRecord maps a promo_codes record onto the pricing model.
func PromoFromRecord(rec *core.Record) models.PromoCode {
	return models.PromoCode{
		ID:            rec.Id,
		EventID:       rec.GetString("event_id"),
		Code:          rec.GetString("code"),
		DiscountType:  rec.GetString("discount_type"),
		DiscountValue: decimal.NewFromFloat(rec.GetFloat("discount_value")),
		MinPurchase:   optionalDecimal(rec, "min_purchase"),
		MaxDiscount:   optionalDecimal(rec, "max_discount"),
		UsageLimit:    optionalInt(rec, "usage_limit"),
		UsageCount:    rec.GetInt("usage_count"),
		PerUserLimit:  optionalInt(rec, "per_user_limit"),
		ValidFrom:     optionalTime(rec, "valid_from"),
		ValidUntil:    optionalTime(rec, "valid_until"),
		TierIDs:       rec.GetStringSlice("tier_ids"),
		Active:        rec.GetBool("active"),
	}
}

// TicketFromRecord maps a tickets record onto the domain model.
func TicketFromRecord(rec *core.Record) models.Ticket {
	return models.Ticket{
		ID:             rec.Id,
		Number:         rec.GetString("number"),
		EventID:        rec.GetString("event_id"),
		TierID:         rec.GetString("tier_id"),
		BuyerName:      rec.GetString("buyer_name"),
		BuyerEmail:     rec.GetString("buyer_email"),
		Quantity:       rec.GetInt("quantity"),
		UnitPrice:      decimal.NewFromFloat(rec.GetFloat("unit_price")),
		DiscountAmount: decimal.NewFromFloat(rec.GetFloat("discount_amount")),
		ServiceFee:     decimal.NewFromFloat(rec.GetFloat("service_fee")),
		TotalPrice:     decimal.NewFromFloat(rec.GetFloat("total_price")),
		CreatorPayout:  decimal.NewFromFloat(rec.GetFloat("creator_payout")),
		PromoCode:      rec.GetString("promo_code"),
		Status:         rec.GetString("status"),
		PaymentMethod:  rec.GetString("payment_method"),
		TransactionID:  rec.GetString("transaction_id"),
		QRPayload:      rec.GetString("qr_payload"),
		CheckedInAt:    optionalTime(rec, "checked_in_at"),
		CancelledAt:    optionalTime(rec, "cancelled_at"),
		CancelReason:   rec.GetString("cancel_reason"),
		CreatedAt:      rec.GetDateTime("created").Time(),
		PaidAt:         optionalTime(rec, "paid_at"),
	}
}

// GuestFromRecord maps a guests record onto the domain model.
func GuestFromRecord(rec *core.Record) models.Guest {
	return models.Guest{
		ID:          rec.Id,
		EventID:     rec.GetString("event_id"),
		FunctionIDs: rec.GetStringSlice("function_ids"),
		Name:        rec.GetString("name"),
		Email:       rec.GetString("email"),
		Phone:       rec.GetString("phone"),
		RSVPStatus:  rec.GetString("rsvp_status"),
		PlusOnes:    rec.GetInt("plus_ones"),
	}
}

// WaitlistFromRecord maps a waitlist_entries record onto the domain model.
func WaitlistFromRecord(rec *core.Record) models.WaitlistEntry {
	return models.WaitlistEntry{
		ID:         rec.Id,
		EventID:    rec.GetString("event_id"),
		TierID:     rec.GetString("tier_id"),
		Name:       rec.GetString("name"),
		Email:      rec.GetString("email"),
		Position:   rec.GetInt("position"),
		JoinedAt:   rec.GetDateTime("created").Time(),
		NotifiedAt: optionalTime(rec, "notified_at"),
		Converted:  rec.GetBool("converted"),
	}
}
