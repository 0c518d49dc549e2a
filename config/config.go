package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis / lock configuration
	RedisURL          string
	LockLeaseTTL      time.Duration
	LockWaitBudget    time.Duration
	LockRetryInterval time.Duration

	// Payment configuration
	PaymentServiceURL string
	PaymentTimeout    time.Duration
	PaymentRequired   bool
	Currency          string

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Rate limiting
	BookingRateLimit int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis / lock
		RedisURL:          getEnv("REDIS_URL", "localhost:6379"),
		LockLeaseTTL:      getEnvAsDuration("LOCK_LEASE_TTL", "10s"),
		LockWaitBudget:    getEnvAsDuration("LOCK_WAIT_BUDGET", "5s"),
		LockRetryInterval: getEnvAsDuration("LOCK_RETRY_INTERVAL", "25ms"),

		// Payment
		PaymentServiceURL: getEnv("PAYMENT_SERVICE_URL", "http://localhost:8081"),
		PaymentTimeout:    getEnvAsDuration("PAYMENT_TIMEOUT", "5s"),
		PaymentRequired:   getEnvAsBool("PAYMENT_REQUIRED", true),
		Currency:          getEnv("CURRENCY", "EUR"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Rate limiting
		BookingRateLimit: getEnvAsInt("BOOKING_RATE_LIMIT", 30),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
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
	// If parsing fails, fall back to the default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
