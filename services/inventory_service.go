package services

import (
	"context"
	"fmt"
	"strconv"

	"gatherly/internal/status"

	"github.com/redis/go-redis/v9"
)

// reserveScript atomically checks remaining capacity and increments the
// reserved count. Concurrent purchases against the same tier serialize on
// this single script so the tier can never oversell.
const reserveScript = `
local capacity = tonumber(redis.call('HGET', KEYS[1], 'capacity') or '-1')
local sold = tonumber(redis.call('HGET', KEYS[1], 'sold') or '0')
local qty = tonumber(ARGV[1])
if capacity < 0 then
  return {-2, 'not_synced'}
end
if sold + qty > capacity then
  return {-1, 'sold_out'}
end
redis.call('HINCRBY', KEYS[1], 'sold', qty)
return {sold + qty, 'ok'}
`

// releaseScript returns reserved inventory, clamped so the counter never
// goes negative on a stale or duplicate release.
const releaseScript = `
local sold = tonumber(redis.call('HGET', KEYS[1], 'sold') or '0')
local qty = tonumber(ARGV[1])
if qty > sold then
  qty = sold
end
redis.call('HINCRBY', KEYS[1], 'sold', -qty)
return sold - qty
`

// InventoryService owns the hot copy of tier inventory in Redis. The
// PocketBase record is the system of record; the Redis hash is the counter
// purchases contend on.
type InventoryService struct {
	Redis *redis.Client
}

func NewInventoryService(redisClient *redis.Client) *InventoryService {
	return &InventoryService{Redis: redisClient}
}

func inventoryKey(tierID string) string {
	return fmt.Sprintf("tier:inventory:%s", tierID)
}

// SyncTier seeds the Redis counter from the stored tier state. Startup only:
// the stored sold count excludes pending reservations, so re-seeding while
// purchases are in flight would hand their seats out twice.
func (s *InventoryService) SyncTier(ctx context.Context, tierID string, capacity, sold int) error {
	return s.Redis.HSet(ctx, inventoryKey(tierID), "capacity", capacity, "sold", sold).Err()
}

// SetCapacity adjusts the capacity side of a live counter, leaving the sold
// count (which includes in-flight reservations) untouched.
func (s *InventoryService) SetCapacity(ctx context.Context, tierID string, capacity int) error {
	return s.Redis.HSet(ctx, inventoryKey(tierID), "capacity", capacity).Err()
}

// Reserve takes qty units of inventory, rejecting the purchase before any
// record mutation when not enough tickets remain.
func (s *InventoryService) Reserve(ctx context.Context, tierID string, qty int) error {
	result, err := s.Redis.Eval(ctx, reserveScript, []string{inventoryKey(tierID)}, qty).Result()
	if err != nil {
		return fmt.Errorf("reserve inventory: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return fmt.Errorf("reserve inventory: unexpected script result %v", result)
	}

	code, _ := values[0].(int64)
	switch {
	case code == -2:
		return fmt.Errorf("reserve inventory: tier %s not synced", tierID)
	case code == -1:
		return status.ErrSoldOut
	}
	return nil
}

// Release returns qty units, e.g. after a declined or expired payment.
func (s *InventoryService) Release(ctx context.Context, tierID string, qty int) error {
	if err := s.Redis.Eval(ctx, releaseScript, []string{inventoryKey(tierID)}, qty).Err(); err != nil {
		return fmt.Errorf("release inventory: %w", err)
	}
	return nil
}

// Remaining reads the live remaining count, clamped at zero.
func (s *InventoryService) Remaining(ctx context.Context, tierID string) (int, error) {
	values, err := s.Redis.HMGet(ctx, inventoryKey(tierID), "capacity", "sold").Result()
	if err != nil {
		return 0, err
	}

	capacity := hashInt(values[0])
	sold := hashInt(values[1])
	remaining := capacity - sold
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func hashInt(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
