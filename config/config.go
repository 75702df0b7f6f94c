// Package config reads the service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go-restaurant-pos/models"
	"go-restaurant-pos/pricing"

	"github.com/joho/godotenv"
)

// MemoryStoreURL selects the in-process store instead of MongoDB.
const MemoryStoreURL = "memory"

type Config struct {
	Port           string
	MongoURL       string
	MongoDatabase  string
	RedisURL       string
	SecretKey      string
	AllowedOrigins []string
	CartTTL        time.Duration

	// Defaults used until an administrator saves settings.
	Restaurant models.Setting
}

// Load reads .env (if any) and the process environment. Process values win
// over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not read .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	rates := pricing.DefaultRates()
	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		MongoURL:       getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "restaurant"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SecretKey:      os.Getenv("SECRET_KEY"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:9000")),
		Restaurant: models.Setting{
			Restaurant_name:    getEnv("RESTAURANT_NAME", "Restaurant"),
			Restaurant_address: os.Getenv("RESTAURANT_ADDRESS"),
			Restaurant_phone:   os.Getenv("RESTAURANT_PHONE"),
		},
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY must be set")
	}

	var err error
	if cfg.CartTTL, err = durationEnv("CART_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Restaurant.Order_discount_percent, err = percentEnv("ORDER_DISCOUNT_PERCENT", rates.OrderDiscountPercent); err != nil {
		return nil, err
	}
	if cfg.Restaurant.Tax_percent, err = percentEnv("TAX_PERCENT", rates.TaxPercent); err != nil {
		return nil, err
	}
	minimum, err := intEnv("DISCOUNT_MIN_AMOUNT", int64(rates.DiscountMinimum))
	if err != nil {
		return nil, err
	}
	cfg.Restaurant.Discount_min_amount = pricing.Money(minimum)
	if cfg.Restaurant.Enforce_min_amount, err = boolEnv("ENFORCE_DISCOUNT_MINIMUM", rates.EnforceMinimum); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseMemoryStore reports whether MongoDB is switched off.
func (c *Config) UseMemoryStore() bool {
	return c.MongoURL == MemoryStoreURL
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: want a positive duration", key, v)
	}
	return d, nil
}

func percentEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 100 {
		return 0, fmt.Errorf("invalid %s value %q: want a number between 0 and 100", key, v)
	}
	return f, nil
}

func intEnv(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s value %q: want a non-negative integer", key, v)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}
