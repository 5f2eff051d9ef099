package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/image-lens/internal/bootstrap"
	"github.com/bryanwahyu/image-lens/internal/config"
	"github.com/bryanwahyu/image-lens/internal/infra/httpserver"
	applog "github.com/bryanwahyu/image-lens/internal/log"
	"github.com/bryanwahyu/image-lens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger := applog.New(cfg.Logging.Level, cfg.Logging.Format).With().Str("service", "api").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer app.Close()

	var limiter *middleware.RateLimiter
	if cfg.Server.SearchRateLimit.Capacity > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.SearchRateLimit.Capacity, cfg.Server.SearchRateLimit.RefillPerSecond)
		go limiter.RunSweeper(ctx, 5*time.Minute)
	}

	handler := httpserver.NewRouter(app.Service, logger, httpserver.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SearchLimiter:  limiter,
		WebhookToken:   cfg.Server.WebhookToken,
		Checkers: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: app.DB},
			"storage":  app.Store,
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // webhook ingestion waits on three analysis calls
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
