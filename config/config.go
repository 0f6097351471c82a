package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Pricing configuration
	ServiceFeePercent decimal.Decimal // platform fee charged to the buyer

	// Timeout configuration
	PaymentTimeout time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string

	// Simulated payment gateway
	Gateway GatewayConfig
}

type GatewayConfig struct {
	MerchantID  string
	HMACKey     string
	PNSubKey    string
	PNPubKey    string
	PNUUID      string
	PNChannel   string
	FailureRate int // percent of simulated payments that decline, 0-100
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Pricing
		ServiceFeePercent: getEnvAsDecimal("SERVICE_FEE_PERCENT", "5"),

		// Timeouts
		PaymentTimeout: getEnvAsDuration("PAYMENT_TIMEOUT", "10m"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),

		// Gateway
		Gateway: GatewayConfig{
			MerchantID:  getEnv("GATEWAY_MERCHANT_ID", "gatherly-dev"),
			HMACKey:     getEnv("GATEWAY_HMAC_KEY", "dev-hmac-key"),
			PNSubKey:    getEnv("GATEWAY_PN_SUBKEY", ""),
			PNPubKey:    getEnv("GATEWAY_PN_PUBKEY", ""),
			PNUUID:      getEnv("GATEWAY_PN_UUID", "gatherly-gateway"),
			PNChannel:   getEnv("GATEWAY_PN_CHANNEL", "gateway-payment-notifications"),
			FailureRate: getEnvAsInt("GATEWAY_FAILURE_RATE", 0),
		},
	}
}

// FeeRate converts the configured percentage into a multiplier (5 -> 0.05).
func (c *Config) FeeRate() decimal.Decimal {
	return c.ServiceFeePercent.Div(decimal.NewFromInt(100))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsDecimal(key string, defaultValue string) decimal.Decimal {
	valueStr := getEnv(key, defaultValue)
	if value, err := decimal.NewFromString(valueStr); err == nil {
		return value
	}
	value, _ := decimal.NewFromString(defaultValue)
	return value
}
