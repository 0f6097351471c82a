package services

import (
	"context"
	"testing"
	"time"

	"gatherly/internal/status"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromoStore struct {
	records []*core.Record
	err     error
}

func (f *fakePromoStore) FindRecordsByFilter(_ any, _ string, _ string, _ int, _ int, _ ...dbx.Params) ([]*core.Record, error) {
	return f.records, f.err
}

func promoRecord(t *testing.T, id string, set map[string]any) *core.Record {
	t.Helper()

	col := core.NewBaseCollection(CollectionPromoCodes)
	col.Fields.Add(
		&core.TextField{Name: "event_id"},
		&core.TextField{Name: "code"},
		&core.TextField{Name: "discount_type"},
		&core.NumberField{Name: "discount_value"},
		&core.NumberField{Name: "min_purchase"},
		&core.NumberField{Name: "max_discount"},
		&core.NumberField{Name: "usage_limit"},
		&core.NumberField{Name: "usage_count"},
		&core.NumberField{Name: "per_user_limit"},
		&core.BoolField{Name: "active"},
	)

	rec := core.NewRecord(col)
	rec.Id = id
	for field, value := range set {
		rec.Set(field, value)
	}
	return rec
}

func setupTestPromoService(store *fakePromoStore) (*PromoService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewPromoService(store, db), mock
}

func TestPromoService_FindByCode_MissingCodeIsInvalid(t *testing.T) {
	service, mock := setupTestPromoService(&fakePromoStore{})
	defer mock.ClearExpect()

	promo, err := service.FindByCode("event-1", "nosuchcode")

	assert.Nil(t, promo)
	assert.ErrorIs(t, err, status.ErrPromoInvalid)
}

func TestPromoService_Evaluate_MissingCodeIsError(t *testing.T) {
	service, mock := setupTestPromoService(&fakePromoStore{})
	defer mock.ClearExpect()

	ctx := context.Background()

	promo, discount, err := service.Evaluate(ctx, "event-1", "GHOST", "tier-1", "ann@example.com", decimal.NewFromInt(200), time.Now())

	assert.Nil(t, promo)
	assert.True(t, discount.IsZero())
	assert.ErrorIs(t, err, status.ErrPromoInvalid)
}

func TestPromoService_Evaluate_FirstUse(t *testing.T) {
	rec := promoRecord(t, "promo-1", map[string]any{
		"event_id":       "event-1",
		"code":           "SAVE10",
		"discount_type":  "percentage",
		"discount_value": 10,
		"per_user_limit": 2,
		"active":         true,
	})
	service, mock := setupTestPromoService(&fakePromoStore{records: []*core.Record{rec}})
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectGet("promo:uses:promo-1:ann@example.com").RedisNil()

	promo, discount, err := service.Evaluate(ctx, "event-1", "SAVE10", "tier-1", "ann@example.com", decimal.NewFromInt(200), time.Now())

	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.True(t, decimal.NewFromInt(20).Equal(discount), "got %s", discount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_Evaluate_PerUserLimitReached(t *testing.T) {
	rec := promoRecord(t, "promo-1", map[string]any{
		"event_id":       "event-1",
		"code":           "SAVE10",
		"discount_type":  "percentage",
		"discount_value": 10,
		"per_user_limit": 2,
		"active":         true,
	})
	service, mock := setupTestPromoService(&fakePromoStore{records: []*core.Record{rec}})
	defer mock.ClearExpect()

	ctx := context.Background()

	// Buyer already consumed both allowed uses: the code degrades to a zero
	// discount and checkout continues without it.
	mock.ExpectGet("promo:uses:promo-1:ann@example.com").SetVal("2")

	promo, discount, err := service.Evaluate(ctx, "event-1", "SAVE10", "tier-1", "ann@example.com", decimal.NewFromInt(200), time.Now())

	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.True(t, discount.IsZero(), "got %s", discount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_Evaluate_UnderPerUserLimit(t *testing.T) {
	rec := promoRecord(t, "promo-1", map[string]any{
		"event_id":       "event-1",
		"code":           "SAVE10",
		"discount_type":  "percentage",
		"discount_value": 10,
		"per_user_limit": 2,
		"active":         true,
	})
	service, mock := setupTestPromoService(&fakePromoStore{records: []*core.Record{rec}})
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectGet("promo:uses:promo-1:ann@example.com").SetVal("1")

	_, discount, err := service.Evaluate(ctx, "event-1", "SAVE10", "tier-1", "ann@example.com", decimal.NewFromInt(200), time.Now())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20).Equal(discount), "got %s", discount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_Evaluate_InactiveCodeDegradesToZero(t *testing.T) {
	rec := promoRecord(t, "promo-1", map[string]any{
		"event_id":       "event-1",
		"code":           "EXPIRED",
		"discount_type":  "percentage",
		"discount_value": 10,
		"active":         false,
	})
	service, mock := setupTestPromoService(&fakePromoStore{records: []*core.Record{rec}})
	defer mock.ClearExpect()

	ctx := context.Background()

	promo, discount, err := service.Evaluate(ctx, "event-1", "EXPIRED", "tier-1", "ann@example.com", decimal.NewFromInt(200), time.Now())

	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.True(t, discount.IsZero())
}
