package monitoring

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	ticketsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Tickets sold per event",
		},
		[]string{"event_id", "tier_id"},
	)

	purchaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchase_operations_total",
			Help: "Purchase operations by outcome",
		},
		[]string{"operation", "status"},
	)

	discountAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_discount_amount",
			Help:    "Discount amount applied per order",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
		[]string{"kind"},
	)

	serviceFeeAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_service_fee_amount",
			Help:    "Service fee charged per order",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
	)

	tierInventory = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tier_remaining_inventory",
			Help: "Remaining inventory per ticket tier",
		},
		[]string{"tier_id"},
	)

	waitlistDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitlist_depth",
			Help: "Current waitlist length per event",
		},
		[]string{"event_id"},
	)
)

type Monitor struct {
	redis *redis.Client
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}

	// Start metrics collection
	go monitor.collectMetrics()

	return monitor
}

func (m *Monitor) collectMetrics() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()
		m.collectInventoryMetrics(ctx)
		m.collectWaitlistMetrics(ctx)
	}
}

func (m *Monitor) collectInventoryMetrics(ctx context.Context) {
	keys, _ := m.redis.Keys(ctx, "tier:inventory:*").Result()
	for _, key := range keys {
		tierID := strings.TrimPrefix(key, "tier:inventory:")
		values, err := m.redis.HMGet(ctx, key, "capacity", "sold").Result()
		if err != nil || len(values) != 2 {
			continue
		}
		capacity := toInt(values[0])
		sold := toInt(values[1])
		remaining := capacity - sold
		if remaining < 0 {
			remaining = 0
		}
		tierInventory.WithLabelValues(tierID).Set(float64(remaining))
	}
}

func (m *Monitor) collectWaitlistMetrics(ctx context.Context) {
	keys, _ := m.redis.Keys(ctx, "waitlist:order:*").Result()
	for _, key := range keys {
		eventID := strings.TrimPrefix(key, "waitlist:order:")
		length, _ := m.redis.LLen(ctx, key).Result()
		waitlistDepth.WithLabelValues(eventID).Set(float64(length))
	}
}

func toInt(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// TrackTicketsSold records completed ticket sales.
func TrackTicketsSold(eventID, tierID string, quantity int) {
	ticketsSold.WithLabelValues(eventID, tierID).Add(float64(quantity))
}

// TrackPurchaseOperation records a purchase flow operation outcome.
func TrackPurchaseOperation(operation, status string) {
	purchaseOperations.WithLabelValues(operation, status).Inc()
}

// TrackOrderAmounts records the discount and fee of a priced order.
func TrackOrderAmounts(groupDiscount, promoDiscount, serviceFee float64) {
	if groupDiscount > 0 {
		discountAmount.WithLabelValues("group").Observe(groupDiscount)
	}
	if promoDiscount > 0 {
		discountAmount.WithLabelValues("promo").Observe(promoDiscount)
	}
	if serviceFee > 0 {
		serviceFeeAmount.Observe(serviceFee)
	}
}
