package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/football_store/internal/config"
	"github.com/Skotchmaster/football_store/internal/httpserver"
	"github.com/Skotchmaster/football_store/internal/mykafka"
	"github.com/Skotchmaster/football_store/internal/notify"
	"github.com/Skotchmaster/football_store/internal/repo"
	"github.com/Skotchmaster/football_store/internal/scheduler"
	"github.com/Skotchmaster/football_store/internal/search"
	"github.com/Skotchmaster/football_store/internal/service"
	"github.com/Skotchmaster/football_store/pkg/db"
	"github.com/Skotchmaster/football_store/pkg/logging"
	"github.com/Skotchmaster/football_store/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/football_store/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	cfg := config.Load()
	logger := logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("db_init_error", "error", err)
		os.Exit(1)
	}
	if err := repo.Migrate(gdb); err != nil {
		logger.Error("db_migrate_error", "error", err)
		os.Exit(1)
	}
	r := &repo.GormRepo{DB: gdb}

	var events service.EventPublisher
	var producer *mykafka.Producer
	if cfg.KafkaEnabled() {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_init_error", "error", err)
			os.Exit(1)
		}
		events = producer
	}

	var index service.ProductIndex
	if cfg.SearchEnabled() {
		pi, err := initSearch(ctx, cfg)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			index = pi
		}
	}

	notifier := &notify.Notifier{Sender: newSender(cfg, logger)}

	users := &service.UserService{
		Repo:      r,
		Notifier:  notifier,
		Events:    events,
		JWTSecret: cfg.JWTAccessSecret,
		AccessTTL: cfg.AccessTokenTTL,
	}
	catalog := &service.CatalogService{
		Repo:          r,
		Index:         index,
		Events:        events,
		FeaturedLimit: cfg.FeaturedLimit,
	}
	carts := &service.CartService{
		Repo:      r,
		Events:    events,
		Retention: cfg.CartRetention,
	}
	orders := &service.OrderService{
		Repo:   r,
		Events: events,
	}

	if err := bootstrap(ctx, cfg, users, catalog); err != nil {
		logger.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.Secure(), loggingmw.RequestLoggerWithConfig(loggingmw.Config{
		Logger:     logger,
		QuietPaths: []string{"/health/live", "/health/ready"},
	}))
	e.Use(csrf.Middleware(csrf.Config{
		Secure:            true,
		EnforceSameOrigin: true,
		SkipPaths:         []string{"/auth/register", "/auth/login", "/health/live", "/health/ready"},
	}))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: users},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		CartHandler:    &httpserver.CartHTTP{Svc: carts},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orders},
		UserHandler:    &httpserver.UserHTTP{Svc: users},
		AdminHandler:   &httpserver.AdminHTTP{Users: users, Carts: carts},
		JWTSecret:      cfg.JWTAccessSecret,
		Ready: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	runCtx, stopRun := context.WithCancel(ctx)
	cleanupDone := scheduler.NewCartCleanup(carts, cfg.CleanupInterval, logger).Start(runCtx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}

	stopRun()
	<-cleanupDone

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	}

	logger.Info("shutdown_complete")
}

func initSearch(ctx context.Context, cfg config.ServiceConfig) (*search.ProductIndex, error) {
	pi, err := search.NewProductIndex(search.Config{
		URL:      cfg.ESURL,
		User:     cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pi.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return pi, nil
}

func newSender(cfg config.ServiceConfig, logger *slog.Logger) notify.Sender {
	if !cfg.SMTPEnabled() {
		return notify.LogSender{Logger: logger}
	}
	s, err := notify.NewSMTPSender(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})
	if err != nil {
		logger.Warn("smtp_disabled", "error", err)
		return notify.LogSender{Logger: logger}
	}
	return s
}

// bootstrap seeds the admin account and starter catalog when configured.
func bootstrap(ctx context.Context, cfg config.ServiceConfig, users *service.UserService, catalog *service.CatalogService) error {
	if cfg.AdminEmail != "" {
		if _, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	if cfg.SeedCatalog {
		if _, err := catalog.SeedProducts(ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}
	if err := catalog.RebuildIndex(ctx); err != nil {
		logging.FromContext(ctx).Warn("search_reindex_error", "error", err)
	}
	return nil
}
