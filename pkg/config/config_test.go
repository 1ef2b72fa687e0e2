package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CART_RETENTION", "")
	t.Setenv("CLEANUP_INTERVAL", "")
	t.Setenv("FEATURED_LIMIT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_FORMAT", "")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.CartRetention)
	assert.Equal(t, 24*time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 3, cfg.FeaturedLimit)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CART_RETENTION", "1m")
	t.Setenv("FEATURED_LIMIT", "5")
	t.Setenv("SEED_CATALOG", "true")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg := Load()

	assert.Equal(t, time.Minute, cfg.CartRetention)
	assert.Equal(t, 5, cfg.FeaturedLimit)
	assert.True(t, cfg.SeedCatalog)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
}

func TestEnvDurationDefault_Invalid(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Hour, EnvDurationDefault("SOME_DURATION", time.Hour))

	t.Setenv("SOME_DURATION", "-5m")
	assert.Equal(t, time.Hour, EnvDurationDefault("SOME_DURATION", time.Hour))
}
