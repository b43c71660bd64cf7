package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/Gsweya/hweibo-prototype/docs"
	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/cache"
	"github.com/Gsweya/hweibo-prototype/internal/cart"
	"github.com/Gsweya/hweibo-prototype/internal/checkout"
	"github.com/Gsweya/hweibo-prototype/internal/config"
	"github.com/Gsweya/hweibo-prototype/internal/health"
	"github.com/Gsweya/hweibo-prototype/internal/metrics"
	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/Gsweya/hweibo-prototype/internal/observability"
	"github.com/Gsweya/hweibo-prototype/internal/pricing"
	"github.com/Gsweya/hweibo-prototype/internal/proxy"
	repository "github.com/Gsweya/hweibo-prototype/internal/repositories"
	"github.com/Gsweya/hweibo-prototype/internal/search"
	service "github.com/Gsweya/hweibo-prototype/internal/services"
	"github.com/Gsweya/hweibo-prototype/internal/session"
	"github.com/shopspring/decimal"
)

const memoryReceiptCacheSize = 10_000

//	@title			Hweibo Storefront API
//	@version		1.0
//	@description	Session cart, simulated checkout and product search for the Hweibo storefront.
//	@BasePath		/api
func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	policy, err := checkoutPolicy(cfg.Checkout)
	if err != nil {
		slog.Error("❌ Invalid checkout configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Checkout.Currency != pricing.CurrencyCode {
		slog.Warn("Unsupported currency configured, prices stay in "+pricing.CurrencyCode,
			slog.String("currency", cfg.Checkout.Currency))
	}

	// Redis is optional: without it receipts stay in process and prompt
	// routes are not throttled.
	var (
		receipts cache.ReceiptCache
		limiter  middleware.Limiter
	)
	if cfg.RedisConnect.Enabled() {
		redisClient, err := repository.NewRedisClient(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}
		receipts = cache.NewRedisReceiptCache(redisClient, cfg.Cache.ReceiptTTL)
		limiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	} else {
		slog.Warn("Redis not configured, using in-memory receipt cache and no rate limiting")
		receipts = cache.NewMemoryReceiptCache(memoryReceiptCacheSize, cfg.Cache.ReceiptTTL)
	}
	defer func() {
		if err := receipts.Close(); err != nil {
			slog.Error("⚠️ Error closing receipt cache", slog.String("error", err.Error()))
		}
	}()

	catalog := search.DefaultCatalog()
	if cfg.Search.CatalogPath != "" {
		catalog, err = search.LoadCatalog(cfg.Search.CatalogPath)
		if err != nil {
			slog.Error("❌ Error loading fallback catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	registry := session.NewRegistry(session.Config{
		IdleTTL:         cfg.Session.IdleTTL,
		JanitorInterval: cfg.Session.JanitorInterval,
		Checkout:        checkoutOptions(cfg.Checkout, policy),
		OnCreate:        instrumentSession,
		Logger:          logger,
	})

	searchClient := search.NewClient(search.Config{
		BaseURL:         cfg.Backend.URL,
		APIKey:          cfg.Backend.APIKey,
		Timeout:         cfg.Backend.Timeout,
		Catalog:         catalog,
		BreakerFailures: cfg.Search.BreakerFailures,
		BreakerCooldown: cfg.Search.BreakerCooldown,
		Logger:          logger,
		OnResult:        func(src models.SearchSource) { metrics.IncSearch(string(src)) },
	})

	forwarder := proxy.NewForwarder(proxy.Config{
		BaseURL: cfg.Backend.URL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: cfg.Backend.Timeout,
	})

	healthChecker, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler := newRouter(routerDeps{
		Cart:      service.NewCartService(registry),
		Checkout:  service.NewCheckoutService(registry, receipts),
		Search:    service.NewSearchService(searchClient),
		Forwarder: forwarder,
		Sessions:  middleware.NewSessionMiddleware(cfg.Session.CookieName, cfg.Env == "production"),
		Limiter:   limiter,
		Health:    healthChecker.Handler(),
	})

	janitorDone := make(chan struct{})
	go func() {
		registry.Run(ctx)
		close(janitorDone)
	}()

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	slog.Info("🚀 Server is starting...",
		slog.String("address", cfg.Addr),
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.URL))

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	<-janitorDone

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func checkoutPolicy(cfg config.Checkout) (checkout.Policy, error) {
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return checkout.Policy{}, err
	}
	if rate.IsNegative() {
		return checkout.Policy{}, errors.New("tax rate must not be negative")
	}
	return checkout.Policy{ShippingFee: cfg.ShippingFee, TaxRate: rate}, nil
}

func checkoutOptions(cfg config.Checkout, policy checkout.Policy) func(string) checkout.Options {
	gateway := checkout.NewSimulatedGateway(map[models.CheckoutStatus]time.Duration{
		models.CheckoutStatusAuthorizing: cfg.AuthorizeDelay,
		models.CheckoutStatusProcessing:  cfg.ProcessDelay,
		models.CheckoutStatusFinalizing:  cfg.FinalizeDelay,
	})

	return func(string) checkout.Options {
		return checkout.Options{
			Policy:  policy,
			Gateway: gateway,
			Timeout: cfg.Timeout,
		}
	}
}

// instrumentSession counts live sessions and cart mutations.
func instrumentSession(s *session.Session) {
	metrics.SessionOpened()
	unsubscribe := s.Cart.Subscribe(func(c cart.Change) {
		metrics.IncCartMutation(string(c.Op))
	})
	s.OnTeardown(unsubscribe)
	s.OnTeardown(metrics.SessionClosed)
}
