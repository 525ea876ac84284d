package container

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	apperrors "github.com/avelora/catalogsearch/pkg/errors"

	"github.com/avelora/catalogsearch/internal/search"
)

// Provider resolves and caches container configurations. Resolution falls
// back from the entity-specific factory to the generic-entity factory; a
// request type known to neither is a server-side configuration error.
type Provider struct {
	mu        sync.Mutex
	factories map[string]map[string]Factory // entity -> request type -> factory
	cache     map[cacheKey]*Config
	logger    *slog.Logger
}

type cacheKey struct {
	entityType  string
	catalogCode string
	requestType string
}

// NewProvider creates an empty provider.
func NewProvider(logger *slog.Logger) *Provider {
	return &Provider{
		factories: make(map[string]map[string]Factory),
		cache:     make(map[cacheKey]*Config),
		logger:    logger,
	}
}

// Register binds a factory to (entityType, requestType). Use GenericEntityType
// to register the fallback for entities without a dedicated factory.
func (p *Provider) Register(entityType, requestType string, factory Factory) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.factories[entityType] == nil {
		p.factories[entityType] = make(map[string]Factory)
	}
	p.factories[entityType][requestType] = factory
}

// Get returns the container configuration for the scope, creating and caching
// it on first access. An empty requestType resolves to RequestTypeGeneric.
// Cache entries live for the process lifetime: the metadata they mirror only
// changes through a reindex, which restarts consumers.
func (p *Provider) Get(ctx context.Context, entityType string, catalog search.LocalizedCatalog, requestType string) (*Config, error) {
	if requestType == "" {
		requestType = RequestTypeGeneric
	}

	key := cacheKey{entityType: entityType, catalogCode: catalog.Code, requestType: requestType}

	p.mu.Lock()
	if cfg, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return cfg, nil
	}
	factory, err := p.resolveFactoryLocked(entityType, requestType)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	cfg, err := factory.Create(ctx, entityType, catalog)
	if err != nil {
		return nil, fmt.Errorf("container provider: %w", err)
	}

	p.mu.Lock()
	// A concurrent call may have won the race; keep the first entry so both
	// callers observe the same instance.
	if cached, ok := p.cache[key]; ok {
		cfg = cached
	} else {
		p.cache[key] = cfg
	}
	p.mu.Unlock()

	p.logger.Debug("container configuration resolved",
		slog.String("entity_type", entityType),
		slog.String("catalog", catalog.Code),
		slog.String("request_type", requestType),
		slog.String("index", cfg.IndexName),
	)

	return cfg, nil
}

// resolveFactoryLocked applies the two-level fallback. Caller holds the lock.
func (p *Provider) resolveFactoryLocked(entityType, requestType string) (Factory, error) {
	if byType := p.factories[entityType]; byType != nil {
		if f, ok := byType[requestType]; ok {
			return f, nil
		}
	}
	if byType := p.factories[GenericEntityType]; byType != nil {
		if f, ok := byType[requestType]; ok {
			return f, nil
		}
	}
	return nil, apperrors.Configuration(
		fmt.Sprintf("request type %q is not defined for entity %q", requestType, entityType),
	)
}
