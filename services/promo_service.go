package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gatherly/internal/status"
	"gatherly/models"
	"gatherly/pricing"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// promoStore is the slice of the record store the code lookup needs.
type promoStore interface {
	FindRecordsByFilter(collectionModelOrIdentifier any, filter string, sort string, limit int, offset int, params ...dbx.Params) ([]*core.Record, error)
}

// PromoService resolves promo codes against stored records and accounts
// usage. Total usage lives on the record; per-user usage is counted in
// Redis keyed by code id and buyer email.
type PromoService struct {
	app   promoStore
	Redis *redis.Client
}

func NewPromoService(app promoStore, redisClient *redis.Client) *PromoService {
	return &PromoService{app: app, Redis: redisClient}
}

func perUserKey(promoID, email string) string {
	return fmt.Sprintf("promo:uses:%s:%s", promoID, strings.ToLower(email))
}

// FindByCode looks up an active-or-not promo code for an event. Codes are
// case-normalized to uppercase before comparison.
func (s *PromoService) FindByCode(eventID, code string) (*models.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	records, err := s.app.FindRecordsByFilter(
		CollectionPromoCodes,
		"event_id = {:eventId} && code = {:code}",
		"",
		1,
		0,
		dbx.Params{"eventId": eventID, "code": normalized},
	)
	if err != nil {
		return nil, fmt.Errorf("find promo code: %w", err)
	}
	if len(records) == 0 {
		return nil, status.ErrPromoInvalid
	}

	promo := PromoFromRecord(records[0])
	return &promo, nil
}

// Evaluate resolves a code and computes its discount against an order
// amount. An unusable code degrades to a zero discount so checkout can
// continue without it; a missing code is still an error.
func (s *PromoService) Evaluate(ctx context.Context, eventID, code, tierID, buyerEmail string, orderAmount decimal.Decimal, now time.Time) (*models.PromoCode, decimal.Decimal, error) {
	promo, err := s.FindByCode(eventID, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if !pricing.PromoAppliesToTier(*promo, tierID) {
		return promo, decimal.Zero, nil
	}
	if promo.PerUserLimit != nil {
		uses, err := s.Redis.Get(ctx, perUserKey(promo.ID, buyerEmail)).Int()
		if err != nil && err != redis.Nil {
			return nil, decimal.Zero, fmt.Errorf("read per-user promo uses: %w", err)
		}
		if uses >= *promo.PerUserLimit {
			return promo, decimal.Zero, nil
		}
	}

	return promo, pricing.PromoDiscount(*promo, orderAmount, now), nil
}

// CommitUsage records one consumed use after a completed purchase:
// increments the record's usage_count and the buyer's per-user counter.
func (s *PromoService) CommitUsage(ctx context.Context, app core.App, promoID, buyerEmail string) error {
	rec, err := app.FindRecordById(CollectionPromoCodes, promoID)
	if err != nil {
		return fmt.Errorf("load promo code: %w", err)
	}

	rec.Set("usage_count", rec.GetInt("usage_count")+1)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("increment promo usage: %w", err)
	}

	if err := s.Redis.Incr(ctx, perUserKey(promoID, buyerEmail)).Err(); err != nil {
		log.Printf("Error incrementing per-user promo counter for %s: %v", promoID, err)
	}
	return nil
}
