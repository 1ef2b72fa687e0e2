package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadServiceConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ES_URL", "http://localhost:9200")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("CART_RETENTION", "72h")

	cfg := Load()
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, 72*time.Hour, cfg.CartRetention)
	assert.True(t, cfg.SearchEnabled())
	assert.False(t, cfg.KafkaEnabled())
	assert.False(t, cfg.SMTPEnabled())
}
