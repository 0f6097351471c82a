package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerUserKey_NormalizesEmail(t *testing.T) {
	key := perUserKey("promo-1", "Ann@Example.COM")
	assert.Equal(t, "promo:uses:promo-1:ann@example.com", key)
}

func TestWaitlistKey(t *testing.T) {
	assert.Equal(t, "waitlist:order:ev-1", waitlistKey("ev-1", ""))
	assert.Equal(t, "waitlist:order:ev-1:tier-2", waitlistKey("ev-1", "tier-2"))
}

func TestInventoryKey(t *testing.T) {
	assert.Equal(t, "tier:inventory:tier-9", inventoryKey("tier-9"))
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "payment:pi_abc", sessionKey("pi_abc"))
}
