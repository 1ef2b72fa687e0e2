package config

import "github.com/Skotchmaster/football_store/pkg/config"

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustPositiveDuration(cfg.CartRetention, "CART_RETENTION")
	config.MustPositiveDuration(cfg.CleanupInterval, "CLEANUP_INTERVAL")
	if cfg.AdminEmail != "" {
		config.MustNonEmpty(cfg.AdminPassword, "ADMIN_PASSWORD")
	}

	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) SearchEnabled() bool { return c.ESURL != "" }

func (c ServiceConfig) SMTPEnabled() bool { return c.SMTPHost != "" }

func (c ServiceConfig) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }
