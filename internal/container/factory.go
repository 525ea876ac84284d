package container

import (
	"context"
	"fmt"

	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
)

// Factory builds the container configuration of one request type for a given
// entity and catalog.
type Factory interface {
	Create(ctx context.Context, entityType string, catalog search.LocalizedCatalog) (*Config, error)
}

// BaseFactory is the stock factory: it resolves the field mapping from the
// metadata provider and assembles the scope bundle from its configured parts.
type BaseFactory struct {
	RequestType         string
	IndexPrefix         string
	Metadata            metadata.Provider
	Relevance           Relevance
	AggregationProvider AggregationProvider
	DefaultSort         DefaultSortProvider
	TrackTotalHits      search.TrackTotalHits
}

// Create implements Factory.
func (f *BaseFactory) Create(ctx context.Context, entityType string, catalog search.LocalizedCatalog) (*Config, error) {
	if f.RequestType == "" {
		return nil, fmt.Errorf("container factory: request type is required")
	}

	fields, err := f.Metadata.Fields(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("container factory: resolve %q fields: %w", entityType, err)
	}

	trackTotalHits := f.TrackTotalHits
	if !trackTotalHits.Enabled && trackTotalHits.Limit == 0 {
		trackTotalHits = search.TrackTotalHits{Enabled: true}
	}

	return &Config{
		EntityType:          entityType,
		RequestType:         f.RequestType,
		Catalog:             catalog,
		IndexName:           IndexName(f.IndexPrefix, catalog, entityType),
		Mapping:             metadata.NewMapping(fields),
		Relevance:           f.Relevance,
		AggregationProvider: f.AggregationProvider,
		DefaultSort:         f.DefaultSort,
		TrackTotalHits:      trackTotalHits,
	}, nil
}
