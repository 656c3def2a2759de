package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwaldorf05/fhp-storefront/internal/config"
	"github.com/jwaldorf05/fhp-storefront/internal/event"
	handler "github.com/jwaldorf05/fhp-storefront/internal/handler/http"
	"github.com/jwaldorf05/fhp-storefront/internal/payment"
	"github.com/jwaldorf05/fhp-storefront/internal/repository"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/commerce"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/cookie"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/rediscache"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/static"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	"github.com/jwaldorf05/fhp-storefront/pkg/health"
	"github.com/jwaldorf05/fhp-storefront/pkg/httpclient"
	pkgkafka "github.com/jwaldorf05/fhp-storefront/pkg/kafka"
	"github.com/jwaldorf05/fhp-storefront/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	publisher       *event.Publisher
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "fhp-storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.TracingEndpoint,
		SampleRate:   cfg.TracingSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	// Outbound HTTP stack shared by the catalog and payment clients.
	hc := httpclient.New(httpclient.DefaultConfig())

	// Catalog backend.
	var catalog repository.Catalog
	var commerceClient *commerce.Client
	switch cfg.CatalogBackend {
	case config.BackendCommerce:
		commerceClient = commerce.NewClient(commerce.Config{
			StoreDomain: cfg.CommerceStoreDomain,
			AccessToken: cfg.CommerceAccessToken,
			APIVersion:  cfg.CommerceAPIVersion,
		}, hc, logger)
		catalog = commerceClient
		logger.Info("using commerce catalog backend",
			slog.String("store_domain", cfg.CommerceStoreDomain),
		)
	default:
		catalog = static.NewCatalog()
		logger.Info("using static catalog backend")
	}

	// Optional Redis read-through cache in front of the catalog.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

		cached := rediscache.New(catalog, rdb, time.Duration(cfg.CatalogCacheTTL)*time.Second, logger)
		catalog = cached
		healthHandler.Register("redis", cached.Ping)
	}

	// Optional Kafka producer for checkout analytics.
	var producer *pkgkafka.Producer
	var publisher *event.Publisher
	if brokers := nonEmpty(cfg.KafkaBrokers); len(brokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(brokers), logger)
		publisher = event.NewPublisher(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", brokers))
	}

	// Stripe client behind a circuit breaker.
	cbc := httpclient.NewCircuitBreakerClient(hc,
		httpclient.DefaultCircuitBreakerConfig("stripe"), logger)
	payments := payment.NewClient(cfg.StripeSecretKey, cfg.StripeAPIURL, cbc, logger)

	// Build the dependency graph.
	cookies := cookie.NewStore(cfg.CartCookieName, cfg.CartCookieMaxAge)
	cartService := service.NewCartService(catalog, logger)
	catalogService := service.NewCatalogService(catalog, logger)
	checkoutService := service.NewCheckoutService(catalog, payments, publisher, cfg.SiteOrigin, logger)

	router := handler.NewRouter(handler.RouterDeps{
		Cookies:       cookies,
		Carts:         cartService,
		Catalog:       catalogService,
		Checkout:      checkoutService,
		CommerceCart:  commerceClient,
		Health:        healthHandler,
		Logger:        logger,
		PprofCIDRs:    cfg.PprofAllowedCIDRs,
		CORSOrigin:    cfg.CORSOrigin,
		Environment:   cfg.Environment,
		CatalogMaxAge: cfg.CatalogCacheTTL,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		publisher:       publisher,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// nonEmpty filters blank entries, which appear when the broker list env var
// is unset.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
