package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kerhoff/FoodPickerBot/internal/api"
	"github.com/Kerhoff/FoodPickerBot/internal/config"
	"github.com/Kerhoff/FoodPickerBot/internal/metrics"
	"github.com/Kerhoff/FoodPickerBot/internal/repository/postgres"
	"github.com/Kerhoff/FoodPickerBot/internal/service"
	"github.com/Kerhoff/FoodPickerBot/internal/telegram"
	"github.com/Kerhoff/FoodPickerBot/internal/wizard"
	"github.com/Kerhoff/FoodPickerBot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting FoodPickerBot...")

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Database
	db := config.NewDatabase(cfg.DatabaseURL, l)
	if err := db.Open(ctx); err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Service layer
	svc := service.New(l,
		postgres.NewFoodRepository(db),
		postgres.NewPreferenceRepository(db, l),
		service.Options{Reinitializer: db, Metrics: m},
	)
	if err := svc.Preferences.Load(ctx); err != nil {
		l.Fatalf("Failed to load preferences: %v", err)
	}
	if cfg.SeedOnEmpty {
		if _, err := svc.Catalog.SeedIfEmpty(ctx); err != nil {
			l.Fatalf("Failed to seed catalog: %v", err)
		}
	}

	sessions := wizard.NewSessions(svc.Catalog, svc.Preferences, l, m, cfg.SessionIdleTimeout)
	go sessions.StartJanitor(ctx, time.Minute)

	// Telegram bot
	if cfg.BotEnabled() {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.AllowedChatID, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}
		registerBot(bot, svc, sessions, l)

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Warn("TELEGRAM_TOKEN is not set, running the HTTP API only")
	}

	// HTTP API
	apiServer := api.NewServer(svc, sessions, db, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go serve(httpServer, "HTTP server", l)

	// Metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go serve(metricsServer, "Metrics server", l)

	l.Info("FoodPickerBot started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	for _, srv := range []*http.Server{httpServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.WithError(err).Warn("Server shutdown failed")
		}
	}

	l.Info("FoodPickerBot stopped")
}
