// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Folio API server.
// It loads configuration, connects to services, wires the stores, caches
// and background refreshers, and serves HTTP until a shutdown signal.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/contact"
	"folio/internal/dashboard"
	"folio/internal/database"
	"folio/internal/handlers"
	"folio/internal/icons"
	"folio/internal/live"
	"folio/internal/middleware"
	"folio/internal/newsletter"
	"folio/internal/poller"
	"folio/internal/router"
	"folio/internal/session"
	"folio/internal/storage"
	"folio/internal/store"
)

// fetchTimeout bounds a single dashboard refresh.
const fetchTimeout = 20 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("folio stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	setupLogger(cfg)

	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkey.Close()

	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey,
		cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return err
	}
	if storageClient == nil {
		slog.Warn("s3 storage not configured, media uploads disabled")
	} else {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	}

	table, err := icons.Load(cfg.IconTable)
	if err != nil {
		return err
	}
	resolver := icons.NewResolver(table)

	stores := store.New(db)
	secure := !cfg.IsDev()
	sessions := session.NewStore(valkey, secure)
	checker := auth.NewChecker(stores.Users, cfg.RoleCacheTTL)
	responses := cache.NewResponseCache(valkey, cache.DefaultResponseTTL)
	drafts := cache.NewDraftStore(valkey, cache.DefaultDraftTTL)
	dedupe := cache.NewViewDedupe(valkey)

	assets := storage.NewAssets(storageClient, stores.Media)
	nl := newsletter.NewService(stores.Subscribers, stores.Campaigns, assets,
		newsletter.NewTokens(cfg.NewsletterSecret))
	if cfg.CaptchaSecret == "" {
		slog.Warn("captcha secret not set, contact form accepts every submission")
	}
	captcha := contact.NewVerifier(cfg.CaptchaSecret, cfg.CaptchaVerifyURL)

	fetcher := dashboard.NewFetcher(dashboard.Sources{
		Skills:      stores.Skills,
		Projects:    stores.Projects,
		Posts:       stores.Posts,
		Subscribers: stores.Subscribers,
		Campaigns:   stores.Campaigns,
		Messages:    stores.Messages,
		Views:       stores.Views,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub()
	go hub.Run(ctx)

	refresher := poller.New(poller.SinkFunc(hub.Publish), fetchTimeout,
		dashboard.Tasks(stores.Notifications, fetcher, time.Now)...)
	refresher.Start(ctx)
	defer refresher.Stop()

	public := handlers.NewPublic(stores, resolver, dedupe, nl, captcha, refresher)
	authHandlers := handlers.NewAuth(sessions, stores.Users)
	admin := handlers.NewAdmin(handlers.AdminDeps{
		Stores:         stores,
		Checker:        checker,
		Cache:          responses,
		Drafts:         drafts,
		Storage:        storageClient,
		Assets:         assets,
		Newsletter:     nl,
		Fetcher:        fetcher,
		Resolver:       resolver,
		Hub:            hub,
		Refresher:      refresher,
		AllowedOrigins: cfg.CORSOrigins,
		BaseURL:        cfg.BaseURL,
	})

	handler := router.New(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Secure:      secure,
		Limiter:     middleware.NewRateLimiter(cfg.RateLimit, time.Minute),
		Cache:       responses,
		Checker:     checker,
		Sessions:    sessions,
	}, public, authHandlers, admin)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

// setupLogger writes text logs in development and JSON everywhere else.
func setupLogger(cfg *config.Config) {
	var h slog.Handler
	if cfg.IsDev() {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(h))
}
