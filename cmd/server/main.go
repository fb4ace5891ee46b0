package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/socialchef/hogwarts-kitchen/internal/api"
	"github.com/socialchef/hogwarts-kitchen/internal/config"
	"github.com/socialchef/hogwarts-kitchen/internal/logger"
	"github.com/socialchef/hogwarts-kitchen/internal/metrics"
	"github.com/socialchef/hogwarts-kitchen/internal/sentry"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"github.com/socialchef/hogwarts-kitchen/internal/telemetry"
	"github.com/socialchef/hogwarts-kitchen/web"
)

func main() {
	defer sentry.Recover()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, cfg.OtelHeaders())
	if err != nil {
		slog.Warn("Failed to init telemetry", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("Telemetry shutdown failed", "error", err)
			}
		}()
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	}
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	logger := logger.New(cfg.Env)
	slog.SetDefault(logger)

	// One gateway client per route, shared by every request
	routes := api.Routes{
		Axios:   portkey.NewCompleter(cfg.Gateway, portkey.KindChatComplete, cfg.OpenAIKey, cfg.PortkeyKey),
		Portkey: portkey.NewCompleter(cfg.Gateway, portkey.KindProxy, cfg.OpenAIKey, cfg.PortkeyKey),
		Static:  web.Handler(),
	}
	router := api.NewRouter(cfg.ServiceName, api.NewServer(logger), routes)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting server",
		"port", cfg.Port,
		"gateway", cfg.Gateway.BaseURL,
		"model", cfg.Gateway.Model,
		"cache_mode", cfg.Gateway.CacheMode,
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("Server stopped")
}
