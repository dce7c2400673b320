// Package main is the entry point for the storefront gateway.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toolstore/internal/api"
	"toolstore/internal/cache"
	"toolstore/internal/catalog"
	"toolstore/internal/config"
	"toolstore/internal/handlers"
	"toolstore/internal/i18n"
	"toolstore/internal/listing"
	"toolstore/internal/middleware"
	"toolstore/internal/router"
	"toolstore/internal/session"
)

func main() {
	// Load configuration from environment variables and .env.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.APIBaseURL,
	)

	// Connect to Valkey (session store + category tree cache).
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	valkeyClient, err := cache.ConnectValkey(connectCtx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	cancelConnect()
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := cfg.SecureCookies()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// The resolver takes an interface; a nil *TreeCache must not reach it.
	var treeCache catalog.TreeCache
	if cfg.TreeCacheTTL > 0 {
		treeCache = cache.NewTreeCache(valkeyClient, cfg.TreeCacheTTL)
	} else {
		slog.Warn("category tree cache disabled")
	}

	translator, err := i18n.Load()
	if err != nil {
		slog.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	client := api.New(cfg.APIBaseURL, cfg.APITimeout)
	resolver := catalog.NewResolver(client.Categories, client.Categories, treeCache)
	products := listing.New(client.Products, client.BaseURL())

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(client, resolver, products, translator, secureCookies)
	authHandlers := handlers.NewAuth(client.Auth, sessionStore, translator)
	adminHandlers := handlers.NewAdmin(client, resolver, sessionStore)

	r := router.New(publicHandlers, authHandlers, adminHandlers, sessionStore, router.Options{
		AllowedOrigins: cfg.CORSOrigins,
		SecureCookies:  secureCookies,
		DefaultLang:    cfg.DefaultLang,
		LoginLimiter:   loginLimiter,
	})

	// WriteTimeout covers a category page waiting on three backend calls.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
