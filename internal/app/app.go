// Package app wires together all dependencies and runs the search service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avelora/catalogsearch/internal/builder"
	"github.com/avelora/catalogsearch/internal/cache"
	"github.com/avelora/catalogsearch/internal/config"
	"github.com/avelora/catalogsearch/internal/container"
	esengine "github.com/avelora/catalogsearch/internal/engine/elasticsearch"
	"github.com/avelora/catalogsearch/internal/event"
	handler "github.com/avelora/catalogsearch/internal/handler/http"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/service"
	"github.com/avelora/catalogsearch/internal/spellcheck"
	"github.com/avelora/catalogsearch/pkg/health"
	"github.com/avelora/catalogsearch/pkg/httpclient"
	pkgkafka "github.com/avelora/catalogsearch/pkg/kafka"
)

// App holds the running components of the service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	consumer   *pkgkafka.Consumer
	httpServer *http.Server
	redisCache *cache.Redis
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	// Tagged cache backend.
	var cacheBackend cache.Cache
	switch cfg.CacheBackend {
	case "redis":
		redisCache := cache.NewRedis(cfg.RedisAddr)
		app.redisCache = redisCache
		cacheBackend = redisCache
		logger.Info("redis cache initialized", slog.String("addr", cfg.RedisAddr))
	default:
		cacheBackend = cache.NewMemory()
		logger.Info("in-memory cache initialized")
	}

	// Search engine.
	engine, err := esengine.New(cfg.ElasticsearchURLs, logger)
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch engine: %w", err)
	}
	logger.Info("elasticsearch engine initialized", slog.Any("urls", cfg.ElasticsearchURLs))

	// Metadata provider.
	provider, facets, categories := newMetadataProviders(cfg, logger)

	// Container configurations per request type.
	containers := newContainerProvider(cfg, provider, facets, categories, logger)

	// Spellchecker over the engine's term statistics.
	checker := spellcheck.NewChecker(engine, cacheBackend, cfg.SpellcheckCutoffFrequency, logger)

	// Service layer.
	requestBuilder := builder.NewRequestBuilder(containers, checker, logger)
	searchService := service.NewSearchService(requestBuilder, engine, logger)

	// Index lifecycle consumer keeps index-scoped caches honest.
	lifecycleHandler := event.NewIndexLifecycleHandler(cacheBackend, logger)
	app.consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    event.TopicIndexLifecycle,
		MinBytes: 1,
		MaxBytes: 10e6, // 10 MB
	}, lifecycleHandler.Handle, logger)
	logger.Info("kafka consumer initialized",
		slog.Any("brokers", cfg.KafkaBrokers),
		slog.String("topic", event.TopicIndexLifecycle),
	)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("elasticsearch", engine.Ping)
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
	})
	if app.redisCache != nil {
		healthHandler.Register("redis", app.redisCache.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(searchService, healthHandler, handler.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}, logger)

	app.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return app, nil
}

// newMetadataProviders builds the field metadata access path: the metadata
// service over a circuit-broken HTTP client, or the built-in definitions for
// local development.
func newMetadataProviders(cfg *config.Config, logger *slog.Logger) (metadata.Provider, metadata.FacetConfigurationProvider, metadata.CategoryProvider) {
	if cfg.MetadataServiceURL == "" {
		static := newStaticMetadata()
		logger.Warn("metadata service URL not set, using built-in definitions")
		return static, static, static
	}

	client := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("metadata"),
		logger,
	)
	httpProvider := metadata.NewHTTPClient(cfg.MetadataServiceURL, client)
	logger.Info("metadata service client initialized", slog.String("url", cfg.MetadataServiceURL))
	return httpProvider, httpProvider, httpProvider
}

// newContainerProvider registers the stock factories for every request type
// under the generic entity, so any entity the metadata service knows resolves
// out of the box.
func newContainerProvider(
	cfg *config.Config,
	provider metadata.Provider,
	facets metadata.FacetConfigurationProvider,
	categories metadata.CategoryProvider,
	logger *slog.Logger,
) *container.Provider {
	chain := builder.NewResolverChain(categories, builder.DefaultAggregationSettings())
	aggregationBuilder := builder.NewAggregationBuilder(chain, facets, logger)
	facetProvider := builder.NewFacetableFieldsProvider(aggregationBuilder)

	containers := container.NewProvider(logger)
	for _, rt := range []struct {
		requestType  string
		aggregations container.AggregationProvider
	}{
		{container.RequestTypeGeneric, nil},
		{container.RequestTypeCatalog, facetProvider},
		{container.RequestTypeSearch, facetProvider},
		{container.RequestTypeAutocomplete, nil},
	} {
		containers.Register(container.GenericEntityType, rt.requestType, &container.BaseFactory{
			RequestType:         rt.requestType,
			IndexPrefix:         cfg.IndexPrefix,
			Metadata:            provider,
			Relevance:           container.DefaultRelevance(),
			AggregationProvider: rt.aggregations,
		})
	}
	return containers
}

// Run starts the HTTP server and the Kafka consumer, blocking until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		if err := a.consumer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("kafka consumer: %w", err)
		}
	}()

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

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.consumer.Close(); err != nil {
		a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
