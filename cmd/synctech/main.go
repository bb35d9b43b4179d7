// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Synctech site server. It loads
// configuration, connects to Postgres and Valkey, wires the content
// services to the change bus and serves HTTP until it is told to stop.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"synctech/internal/cache"
	"synctech/internal/config"
	"synctech/internal/content"
	"synctech/internal/database"
	"synctech/internal/events"
	"synctech/internal/handlers"
	"synctech/internal/middleware"
	"synctech/internal/notify"
	"synctech/internal/render"
	"synctech/internal/router"
	"synctech/internal/session"
	"synctech/internal/storage"
	"synctech/internal/store"
)

// relayRetry is the pause before the change relay resubscribes after
// losing Valkey.
const relayRetry = 5 * time.Second

// dbRetry is how often an unreachable database is pinged at startup until
// it answers and can be migrated.
const dbRetry = 5 * time.Second

func main() {
	config.LoadDotEnv(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text logs in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	for _, w := range cfg.Warnings() {
		slog.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// An unreachable database is not fatal: reads fall back to empty lists
	// and defaults, writes fail at request time.
	db, err := database.Open(cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Ping(ctx, db); err == nil {
		if err := prepareDatabase(db, cfg); err != nil {
			slog.Error("failed to prepare database", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Error("database unreachable, migrations will run once it answers", "error", err, "retry_every", dbRetry)
		go func() {
			if database.WaitForPing(ctx, db, dbRetry) != nil {
				return
			}
			if err := prepareDatabase(db, cfg); err != nil {
				slog.Error("failed to prepare database", "error", err)
				return
			}
			slog.Info("database reachable, migrations applied")
		}()
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("valkey unreachable, sessions and page cache will fail until it comes back", "error", err)
	}
	defer valkey.Close()

	secure := !cfg.IsDev()
	sessions := session.NewStore(valkey, secure)

	renderer, err := render.New(cfg.IsDev(), cfg.SiteName)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	bus := events.NewBus(logger)
	site := content.NewSite(repositories(db), bus, notify.New(cfg.NotifyWebhookURL))

	relay := events.NewRelay(bus, valkey, events.DefaultChannel, logger)
	go runRelay(ctx, relay)

	pages := cache.NewPageCache(valkey, cache.DefaultPageTTL)
	defer pages.Listen(bus)()
	snapshot := cache.NewSettingsSnapshot(site.Settings)
	defer snapshot.Listen(bus)()

	images, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	// A nil *storage.Client must not become a non-nil ImageStore.
	var imageStore handlers.ImageStore
	if images != nil {
		imageStore = images
		slog.Info("s3 storage configured", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	checks := map[string]handlers.Pinger{
		"database": db,
		"valkey":   handlers.PingFunc(func(ctx context.Context) error { return valkey.Ping(ctx).Err() }),
	}
	stream := handlers.NewStream(bus)

	limits := router.Limits{
		Forms: middleware.NewRateLimiter(10, time.Minute),
		Track: middleware.NewRateLimiter(120, time.Minute),
		Login: middleware.NewRateLimiter(5, time.Minute),
	}
	defer limits.Forms.Stop()
	defer limits.Track.Stop()
	defer limits.Login.Stop()

	r := router.New(router.Deps{
		Sessions:    sessions,
		Admin:       handlers.NewAdmin(renderer, sessions, site, imageStore),
		Auth:        handlers.NewAuth(renderer, sessions, store.NewUserStore(db)),
		Public:      handlers.NewPublic(renderer, site, checks),
		Stream:      stream,
		Pages:       pages,
		Maintenance: snapshot,
		Limits:      limits,
		Secure:      secure,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	srv.RegisterOnShutdown(stream.Close)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	slog.Info("server stopped gracefully")
}

// prepareDatabase applies the migrations and, in development, seeds the
// admin user and default content.
func prepareDatabase(db *sql.DB, cfg *config.Config) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.IsDev() {
		return database.Seed(db, cfg.AdminEmail, cfg.AdminPassword)
	}
	return nil
}

// repositories builds the Postgres repository for every entity.
func repositories(db *sql.DB) content.Repositories {
	return content.Repositories{
		Settings:     store.NewSiteSettingsStore(db),
		Hero:         store.NewHeroStore(db),
		BlogHeader:   store.NewBlogHeaderStore(db),
		Leads:        store.NewLeadStore(db),
		Posts:        store.NewBlogPostStore(db),
		Projects:     store.NewProjectStore(db),
		Subscribers:  store.NewSubscriberStore(db),
		Testimonials: store.NewTestimonialStore(db),
		Services:     store.NewServiceStore(db),
		Plans:        store.NewPricingPlanStore(db),
		VisitorLogs:  store.NewVisitorLogStore(db),
	}
}

// runRelay keeps the cross-instance change relay running, resubscribing
// after Valkey outages until ctx ends.
func runRelay(ctx context.Context, relay *events.Relay) {
	for {
		err := relay.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, redis.ErrClosed) {
			slog.Warn("event relay stopped, retrying", "error", err, "retry_in", relayRetry)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(relayRetry):
		}
	}
}
