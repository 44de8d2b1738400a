package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/trogers1052/wheel-tracker/internal/api"
	"github.com/trogers1052/wheel-tracker/internal/config"
	"github.com/trogers1052/wheel-tracker/internal/kafka"
	"github.com/trogers1052/wheel-tracker/internal/positions"
	"github.com/trogers1052/wheel-tracker/internal/quotes"
	"github.com/trogers1052/wheel-tracker/internal/storage"
	"github.com/trogers1052/wheel-tracker/internal/yahoo"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	log.Info().Msg("starting wheel tracker")

	cfg := config.Load()

	// Key-value store for the position snapshot
	repo := storage.New(cfg.Redis)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := repo.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("key-value store unreachable, positions will be in-memory only")
	}
	cancel()

	// Position store: load snapshot (or seed) and refresh DTEs
	store := positions.NewStore(repo, log)
	store.Load(context.Background())
	store.RecomputeDTE(time.Now())

	// Quote cache and refresh pipeline
	cache := quotes.NewCache()
	fetcher := yahoo.NewClient(cfg.Quotes.BaseURL, cfg.Quotes.RequestTimeout, log)
	refresher := quotes.NewRefresher(fetcher, cache, cfg.Quotes.BatchSize, log)

	// Optional event producer
	var producer *kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("kafka producer enabled")
	}

	runRefresh := func() {
		universe := quotes.Universe(store.Tickers())
		if err := refresher.Refresh(context.Background(), universe); err != nil {
			log.Warn().Err(err).Msg("quote refresh did not complete")
		}
	}

	// Initial refresh, then a fixed interval. Ticks that land while a
	// run is active are dropped by the refresher, not queued.
	go runRefresh()
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every "+cfg.Quotes.RefreshInterval.String(), runRefresh); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule quote refresh")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(store, cache, refresher, producer, log)
	router := api.SetupRoutes(handler)

	srv := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("stopped")
}
