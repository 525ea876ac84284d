package metadata

import (
	"context"
	"fmt"
	"sync"
)

// Provider exposes the source-field definitions of an entity type. The
// backing store (catalog management service) is outside this engine; only
// the read contract matters here.
type Provider interface {
	Fields(ctx context.Context, entityType string) ([]Field, error)
}

// FacetConfigurationProvider exposes, per source field and category scope,
// the facet display settings. An empty categoryID addresses the global scope.
type FacetConfigurationProvider interface {
	FacetConfiguration(ctx context.Context, fieldCode, categoryID string) (FacetConfiguration, error)
}

// CategoryProvider exposes the direct children of a category, used by the
// category aggregation resolver to build per-child count queries.
type CategoryProvider interface {
	ChildCategories(ctx context.Context, categoryID string) ([]string, error)
}

// StaticProvider serves field definitions and facet configurations from
// in-memory tables. It backs single-binary deployments and tests.
type StaticProvider struct {
	mu     sync.RWMutex
	fields map[string][]Field
	facets map[string]FacetConfiguration
	tree   map[string][]string
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		fields: make(map[string][]Field),
		facets: make(map[string]FacetConfiguration),
		tree:   make(map[string][]string),
	}
}

// RegisterEntity registers the field list of an entity type, replacing any
// previous registration.
func (p *StaticProvider) RegisterEntity(entityType string, fields []Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[entityType] = fields
}

// RegisterFacet registers a facet configuration for a field within a
// category scope (empty categoryID = global).
func (p *StaticProvider) RegisterFacet(fieldCode, categoryID string, cfg FacetConfiguration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.facets[facetKey(fieldCode, categoryID)] = cfg
}

// RegisterChildren registers the direct children of a category.
func (p *StaticProvider) RegisterChildren(categoryID string, children []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree[categoryID] = children
}

// Fields implements Provider.
func (p *StaticProvider) Fields(_ context.Context, entityType string) ([]Field, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	fields, ok := p.fields[entityType]
	if !ok {
		return nil, fmt.Errorf("metadata: unknown entity type %q", entityType)
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out, nil
}

// FacetConfiguration implements FacetConfigurationProvider. Category-scoped
// settings win over the global scope; a field with no configuration at all
// gets zero-value defaults (unbounded size, result-count order).
func (p *StaticProvider) FacetConfiguration(_ context.Context, fieldCode, categoryID string) (FacetConfiguration, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if categoryID != "" {
		if cfg, ok := p.facets[facetKey(fieldCode, categoryID)]; ok {
			return cfg, nil
		}
	}
	if cfg, ok := p.facets[facetKey(fieldCode, "")]; ok {
		return cfg, nil
	}
	return FacetConfiguration{SortOrder: FacetSortResultCount}, nil
}

// ChildCategories implements CategoryProvider.
func (p *StaticProvider) ChildCategories(_ context.Context, categoryID string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	children := p.tree[categoryID]
	out := make([]string, len(children))
	copy(out, children)
	return out, nil
}

func facetKey(fieldCode, categoryID string) string {
	return fieldCode + "|" + categoryID
}
