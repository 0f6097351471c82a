package migrations

import (
	"encoding/json"

	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

// Collection snapshots for the whole object graph. Registered as one
// migration so a fresh database comes up with every collection the
// services expect.
var collectionSnapshots = []string{
	`{
		"id": "pbc_events0000001",
		"name": "events",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_host_id", "max": 0, "min": 0, "name": "host_id", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_name", "max": 0, "min": 0, "name": "name", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"hidden": false, "id": "select_kind", "maxSelect": 1, "name": "kind", "presentable": false, "required": false, "system": false, "type": "select", "values": ["wedding", "party", "conference", "other"]},
			{"autogeneratePattern": "", "hidden": false, "id": "text_description", "max": 0, "min": 0, "name": "description", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_venue", "max": 0, "min": 0, "name": "venue", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "date_start_time", "max": "", "min": "", "name": "start_time", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_end_time", "max": "", "min": "", "name": "end_time", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "select_status", "maxSelect": 1, "name": "status", "presentable": false, "required": false, "system": false, "type": "select", "values": ["draft", "published", "completed", "cancelled"]},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": [],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_functions0001",
		"name": "event_functions",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_name", "max": 0, "min": 0, "name": "name", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_venue", "max": 0, "min": 0, "name": "venue", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "date_start_time", "max": "", "min": "", "name": "start_time", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_end_time", "max": "", "min": "", "name": "end_time", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "number_position", "max": null, "min": null, "name": "position", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE INDEX idx_functions_event ON event_functions (event_id)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_tiers00000001",
		"name": "ticket_tiers",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_function_id", "max": 0, "min": 0, "name": "function_id", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_name", "max": 0, "min": 0, "name": "name", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"hidden": false, "id": "number_price", "max": null, "min": 0, "name": "price", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_capacity", "max": null, "min": 0, "name": "capacity", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_sold", "max": null, "min": 0, "name": "sold", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_min_per", "max": null, "min": 0, "name": "min_per_order", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_max_per", "max": null, "min": 0, "name": "max_per_order", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "date_sales_start", "max": "", "min": "", "name": "sales_start", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_sales_end", "max": "", "min": "", "name": "sales_end", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "bool_hidden", "name": "hidden", "presentable": false, "required": false, "system": false, "type": "bool"},
			{"hidden": false, "id": "number_position", "max": null, "min": null, "name": "position", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE INDEX idx_tiers_event ON ticket_tiers (event_id)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_tickets000001",
		"name": "tickets",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_number", "max": 0, "min": 0, "name": "number", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_tier_id", "max": 0, "min": 0, "name": "tier_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_buyer_name", "max": 0, "min": 0, "name": "buyer_name", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"exceptDomains": null, "hidden": false, "id": "email_buyer", "name": "buyer_email", "onlyDomains": null, "presentable": false, "required": false, "system": false, "type": "email"},
			{"hidden": false, "id": "number_quantity", "max": null, "min": 1, "name": "quantity", "onlyInt": true, "presentable": false, "required": true, "system": false, "type": "number"},
			{"hidden": false, "id": "number_unit_price", "max": null, "min": 0, "name": "unit_price", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_discount", "max": null, "min": 0, "name": "discount_amount", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_fee", "max": null, "min": 0, "name": "service_fee", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_total", "max": null, "min": 0, "name": "total_price", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_payout", "max": null, "min": 0, "name": "creator_payout", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_promo_code", "max": 0, "min": 0, "name": "promo_code", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "select_status", "maxSelect": 1, "name": "status", "presentable": false, "required": true, "system": false, "type": "select", "values": ["pending", "completed", "failed", "refunded", "cancelled"]},
			{"autogeneratePattern": "", "hidden": false, "id": "text_pay_method", "max": 0, "min": 0, "name": "payment_method", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_tran_id", "max": 0, "min": 0, "name": "transaction_id", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_qr_payload", "max": 0, "min": 0, "name": "qr_payload", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "date_checked_in", "max": "", "min": "", "name": "checked_in_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_cancelled", "max": "", "min": "", "name": "cancelled_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_cancel_why", "max": 0, "min": 0, "name": "cancel_reason", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "date_paid_at", "max": "", "min": "", "name": "paid_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": [
			"CREATE UNIQUE INDEX idx_tickets_number ON tickets (number)",
			"CREATE INDEX idx_tickets_event ON tickets (event_id)",
			"CREATE INDEX idx_tickets_tier ON tickets (tier_id)"
		],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_promos0000001",
		"name": "promo_codes",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_code", "max": 0, "min": 0, "name": "code", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"hidden": false, "id": "select_disc_type", "maxSelect": 1, "name": "discount_type", "presentable": false, "required": true, "system": false, "type": "select", "values": ["percentage", "fixed"]},
			{"hidden": false, "id": "number_disc_val", "max": null, "min": 0, "name": "discount_value", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_min_buy", "max": null, "min": 0, "name": "min_purchase", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_max_disc", "max": null, "min": 0, "name": "max_discount", "onlyInt": false, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_use_limit", "max": null, "min": 0, "name": "usage_limit", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_use_count", "max": null, "min": 0, "name": "usage_count", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "number_per_user", "max": null, "min": 0, "name": "per_user_limit", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "date_valid_from", "max": "", "min": "", "name": "valid_from", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_valid_until", "max": "", "min": "", "name": "valid_until", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "json_tier_ids", "maxSize": 0, "name": "tier_ids", "presentable": false, "required": false, "system": false, "type": "json"},
			{"hidden": false, "id": "bool_active", "name": "active", "presentable": false, "required": false, "system": false, "type": "bool"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE UNIQUE INDEX idx_promos_event_code ON promo_codes (event_id, code)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_waitlist00001",
		"name": "waitlist_entries",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_tier_id", "max": 0, "min": 0, "name": "tier_id", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_name", "max": 0, "min": 0, "name": "name", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"exceptDomains": null, "hidden": false, "id": "email_entry", "name": "email", "onlyDomains": null, "presentable": true, "required": true, "system": false, "type": "email"},
			{"hidden": false, "id": "number_position", "max": null, "min": 0, "name": "position", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "date_notified", "max": "", "min": "", "name": "notified_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "bool_converted", "name": "converted", "presentable": false, "required": false, "system": false, "type": "bool"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE INDEX idx_waitlist_event ON waitlist_entries (event_id)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_guests0000001",
		"name": "guests",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"hidden": false, "id": "json_function_ids", "maxSize": 0, "name": "function_ids", "presentable": false, "required": false, "system": false, "type": "json"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_name", "max": 0, "min": 0, "name": "name", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"exceptDomains": null, "hidden": false, "id": "email_guest", "name": "email", "onlyDomains": null, "presentable": false, "required": false, "system": false, "type": "email"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_phone", "max": 0, "min": 0, "name": "phone", "pattern": "", "presentable": false, "primaryKey": false, "required": false, "system": false, "type": "text"},
			{"hidden": false, "id": "select_rsvp", "maxSelect": 1, "name": "rsvp_status", "presentable": false, "required": false, "system": false, "type": "select", "values": ["pending", "attending", "declined", "maybe"]},
			{"hidden": false, "id": "number_plus_ones", "max": null, "min": 0, "name": "plus_ones", "onlyInt": true, "presentable": false, "required": false, "system": false, "type": "number"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE INDEX idx_guests_event ON guests (event_id)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
	`{
		"id": "pbc_invites000001",
		"name": "invitations",
		"type": "base",
		"system": false,
		"fields": [
			{"autogeneratePattern": "[a-z0-9]{15}", "hidden": false, "id": "text_id", "max": 15, "min": 15, "name": "id", "pattern": "^[a-z0-9]+$", "presentable": false, "primaryKey": true, "required": true, "system": true, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_event_id", "max": 0, "min": 0, "name": "event_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_guest_id", "max": 0, "min": 0, "name": "guest_id", "pattern": "", "presentable": false, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"autogeneratePattern": "", "hidden": false, "id": "text_code", "max": 0, "min": 0, "name": "code", "pattern": "", "presentable": true, "primaryKey": false, "required": true, "system": false, "type": "text"},
			{"hidden": false, "id": "date_sent_at", "max": "", "min": "", "name": "sent_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "date_responded", "max": "", "min": "", "name": "responded_at", "presentable": false, "required": false, "system": false, "type": "date"},
			{"hidden": false, "id": "autodate_created", "name": "created", "onCreate": true, "onUpdate": false, "presentable": false, "system": false, "type": "autodate"},
			{"hidden": false, "id": "autodate_updated", "name": "updated", "onCreate": true, "onUpdate": true, "presentable": false, "system": false, "type": "autodate"}
		],
		"indexes": ["CREATE UNIQUE INDEX idx_invitations_code ON invitations (code)"],
		"listRule": null,
		"viewRule": null,
		"createRule": null,
		"updateRule": null,
		"deleteRule": null
	}`,
}

func init() {
	m.Register(func(app core.App) error {
		for _, snapshot := range collectionSnapshots {
			collection := &core.Collection{}
			if err := json.Unmarshal([]byte(snapshot), collection); err != nil {
				return err
			}
			if err := app.Save(collection); err != nil {
				return err
			}
		}
		return nil
	}, func(app core.App) error {
		// Reverse order so children go before their parents.
		names := []string{
			"invitations", "guests", "waitlist_entries", "tickets",
			"promo_codes", "ticket_tiers", "event_functions", "events",
		}
		for _, name := range names {
			collection, err := app.FindCollectionByNameOrId(name)
			if err != nil {
				continue
			}
			if err := app.Delete(collection); err != nil {
				return err
			}
		}
		return nil
	})
}
