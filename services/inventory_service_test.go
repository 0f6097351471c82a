package services

import (
	"context"
	"testing"

	"gatherly/internal/status"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestInventoryService() (*InventoryService, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewInventoryService(db), mock
}

func TestInventoryService_Reserve_Success(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectEval(reserveScript, []string{"tier:inventory:tier-1"}, 2).
		SetVal([]interface{}{int64(7), "ok"})

	err := service.Reserve(ctx, "tier-1", 2)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Reserve_SoldOut(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectEval(reserveScript, []string{"tier:inventory:tier-1"}, 5).
		SetVal([]interface{}{int64(-1), "sold_out"})

	err := service.Reserve(ctx, "tier-1", 5)

	assert.ErrorIs(t, err, status.ErrSoldOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Reserve_NotSynced(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectEval(reserveScript, []string{"tier:inventory:tier-1"}, 1).
		SetVal([]interface{}{int64(-2), "not_synced"})

	err := service.Reserve(ctx, "tier-1", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not synced")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Release(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectEval(releaseScript, []string{"tier:inventory:tier-1"}, 2).
		SetVal(int64(5))

	err := service.Release(ctx, "tier-1", 2)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_SyncTier(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHSet("tier:inventory:tier-1", "capacity", 100, "sold", 42).SetVal(2)

	err := service.SyncTier(ctx, "tier-1", 100, 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_SetCapacity_LeavesSoldUntouched(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	// A capacity edit writes only the capacity field; the sold field carries
	// in-flight reservations and must survive the edit.
	mock.ExpectHSet("tier:inventory:tier-1", "capacity", 80).SetVal(0)

	err := service.SetCapacity(ctx, "tier-1", 80)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Remaining(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHMGet("tier:inventory:tier-1", "capacity", "sold").
		SetVal([]interface{}{"100", "42"})

	remaining, err := service.Remaining(ctx, "tier-1")

	assert.NoError(t, err)
	assert.Equal(t, 58, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryService_Remaining_OversoldClampsToZero(t *testing.T) {
	service, mock := setupTestInventoryService()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHMGet("tier:inventory:tier-1", "capacity", "sold").
		SetVal([]interface{}{"100", "130"})

	remaining, err := service.Remaining(ctx, "tier-1")

	assert.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}
