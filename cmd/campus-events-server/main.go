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

	"github.com/sethvargo/go-envconfig"

	"github.com/pfrederiksen/campus-events/internal/cache"
	"github.com/pfrederiksen/campus-events/internal/feed"
	"github.com/pfrederiksen/campus-events/internal/server"
	"github.com/pfrederiksen/campus-events/internal/service"
)

type config struct {
	Port         int           `env:"PORT, default=8080"`
	FeedURL      string        `env:"FEED_URL"`
	FeedMaxAge   time.Duration `env:"FEED_MAX_AGE, default=15m"`
	FetchTimeout time.Duration `env:"FEED_FETCH_TIMEOUT, default=45s"`
	LogLevel     slog.Level    `env:"LOG_LEVEL, default=info"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = feed.DefaultURL
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	fetch := service.NewFeedFetch(feed.NewClient(), cfg.FeedURL)
	c := cache.New(fetch,
		cache.WithMaxAge(cfg.FeedMaxAge),
		cache.WithRefreshTimeout(cfg.FetchTimeout),
	)
	svc := service.New(c)

	// Warm the snapshot so the first request does not pay for the fetch.
	// Failure here is not fatal: the first request retries.
	if _, err := c.Snapshot(ctx); err != nil {
		slog.Warn("initial feed fetch failed", "url", cfg.FeedURL, "error", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.New(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("listening", "addr", srv.Addr, "feed_url", cfg.FeedURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %s", err)
	}
}
