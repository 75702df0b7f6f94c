package config

import (
	"testing"
	"time"

	"go-restaurant-pos/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	for _, key := range []string{"PORT", "MONGODB_URL", "REDIS_URL", "CART_TTL", "ORDER_DISCOUNT_PERCENT",
		"TAX_PERCENT", "DISCOUNT_MIN_AMOUNT", "ENFORCE_DISCOUNT_MINIMUM", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.False(t, cfg.UseMemoryStore())
	assert.Equal(t, 12*time.Hour, cfg.CartTTL)
	assert.Equal(t, []string{"http://localhost:9000"}, cfg.AllowedOrigins)
	assert.Equal(t, pricing.DefaultRates(), cfg.Restaurant.Rates())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("MONGODB_URL", "memory")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("ORDER_DISCOUNT_PERCENT", "7.5")
	t.Setenv("DISCOUNT_MIN_AMOUNT", "100000")
	t.Setenv("ENFORCE_DISCOUNT_MINIMUM", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.UseMemoryStore())
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 7.5, cfg.Restaurant.Order_discount_percent)
	assert.Equal(t, pricing.Money(100000), cfg.Restaurant.Discount_min_amount)
	assert.True(t, cfg.Restaurant.Enforce_min_amount)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CART_TTL", "soon"},
		{"CART_TTL", "-1h"},
		{"ORDER_DISCOUNT_PERCENT", "150"},
		{"TAX_PERCENT", "abc"},
		{"DISCOUNT_MIN_AMOUNT", "-5"},
		{"ENFORCE_DISCOUNT_MINIMUM", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("SECRET_KEY", "s3cret")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnvRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := FromEnv()
	assert.Error(t, err)
}
