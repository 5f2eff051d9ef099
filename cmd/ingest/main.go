package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanwahyu/image-lens/internal/bootstrap"
	"github.com/bryanwahyu/image-lens/internal/config"
	"github.com/bryanwahyu/image-lens/internal/infra/events"
	applog "github.com/bryanwahyu/image-lens/internal/log"
)

func main() {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger := applog.New(cfg.Logging.Level, cfg.Logging.Format).With().Str("service", "ingest").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("bootstrap failed")
	}
	defer app.Close()

	listener := events.NewListener(app.Store.Client(), cfg.Minio.BucketName, "", "", app.Service, logger)
	if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("listener stopped")
		return
	}
	logger.Info().Msg("ingest worker stopped")
}
