package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupDiscountPercent_Thresholds(t *testing.T) {
	cases := []struct {
		quantity int
		want     int64
	}{
		{-3, 0},
		{0, 0},
		{1, 0},
		{4, 0},
		{5, 10}, // inclusive lower bound
		{9, 10},
		{10, 15},
		{19, 15},
		{20, 20},
		{100, 20},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, GroupDiscountPercent(c.quantity), "quantity %d", c.quantity)
	}
}

func TestGroupDiscountPercent_Monotonic(t *testing.T) {
	prev := int64(0)
	for q := 0; q <= 50; q++ {
		got := GroupDiscountPercent(q)
		assert.GreaterOrEqual(t, got, prev, "discount decreased at quantity %d", q)
		prev = got
	}
}
