package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/forecast-cards/internal/api/http"
	"github.com/i474232898/forecast-cards/internal/app"
	"github.com/i474232898/forecast-cards/internal/cards"
	"github.com/i474232898/forecast-cards/internal/config"
	"github.com/i474232898/forecast-cards/internal/forecast"
	"github.com/i474232898/forecast-cards/internal/forecast/upstream"
	"github.com/i474232898/forecast-cards/internal/scheduler"
	"github.com/i474232898/forecast-cards/internal/store"
	"github.com/i474232898/forecast-cards/internal/view"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound upstream calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	backoff := upstream.DefaultBackoff()
	backoff.MaxRetries = cfg.FetchMaxRetries

	fetcher := newFetcher(cfg, httpClient, backoff)
	log.Printf("INFO: using %s upstream", fetcher.Name())

	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	board := view.NewMemoryView()
	reconciler := cards.NewReconciler(cards.WithFahrenheit(cfg.ShowFahrenheit))
	application := app.New(fetcher, reconciler, board, db, db)

	tasks, err := application.Startup(context.Background())
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	log.Printf("INFO: restoring %d saved locations", len(tasks))

	// Scheduler that periodically refreshes every card.
	sched := scheduler.New(cfg.RefreshInterval, application)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	server := httpapi.NewServer(application, board)

	// Start server with graceful shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	for _, t := range tasks {
		t.Cancel()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func newFetcher(cfg *config.AppConfig, client *http.Client, backoff upstream.BackoffConfig) forecast.Fetcher {
	if cfg.Upstream == config.UpstreamDarkSky {
		// Without a geocoder key only "lat,long" locations resolve.
		var resolver upstream.Resolver
		if cfg.GeocoderAPIKey != "" {
			resolver = upstream.NewGoogleResolver(cfg.GeocoderAPIKey)
		}
		return upstream.NewDarkSkyFetcher(client, cfg.DarkSkyBaseURL, cfg.DarkSkyAPIKey, resolver, backoff)
	}
	return upstream.NewYQLFetcher(client, cfg.YQLBaseURL, backoff)
}
