package config

import (
	"os"
	"strconv"
	"time"
)

// Config collects every env-backed knob. godotenv is loaded by main before
// this is read.
type Config struct {
	Port string
	Env  string // "dev" enables console logging

	DatabaseURL string

	RedisAddr       string
	ProductCacheTTL time.Duration

	JWTSecret   string
	AdminAPIKey string

	// Pricing rules. Configuration, not core logic.
	TaxRatePercent  float64
	ShippingFlat    float64
	ShippingPerSlab float64 // added per started 30kg above the first kg
	Currency        string

	PaymentAPIURL        string
	PaymentAPIKey        string
	PaymentWebhookSecret string
	// PaymentMode "sandbox" disables webhook signature checks; anything
	// else, including the empty default, verifies.
	PaymentMode string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", "dev"),

		DatabaseURL: getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=autopartzone port=5432 sslmode=disable"),

		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		ProductCacheTTL: getDuration("PRODUCT_CACHE_TTL", 5*time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),

		TaxRatePercent:  getFloat("TAX_RATE_PERCENT", 5),
		ShippingFlat:    getFloat("SHIPPING_FLAT", 10),
		ShippingPerSlab: getFloat("SHIPPING_PER_SLAB", 30),
		Currency:        getEnv("CURRENCY", "USD"),

		PaymentAPIURL:        getEnv("PAYMENT_API_URL", ""),
		PaymentAPIKey:        getEnv("PAYMENT_API_KEY", ""),
		PaymentWebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		PaymentMode:          getEnv("PAYMENT_MODE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
