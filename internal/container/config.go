// Package container resolves the per-scope search configuration: for an
// (entity type, localized catalog, request type) triple it binds the physical
// index, the field mapping, the relevance settings and the aggregation
// provider a request builder needs.
package container

import (
	"context"
	"fmt"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

// Well-known request types. Any string is accepted as long as a factory is
// registered for it; these are the ones the stock factories ship.
const (
	RequestTypeGeneric      = "generic"
	RequestTypeCatalog      = "catalog"
	RequestTypeSearch       = "search"
	RequestTypeAutocomplete = "autocomplete"
)

// GenericEntityType is the registration key matching any entity type that has
// no entity-specific factory.
const GenericEntityType = "generic"

// Relevance holds the fulltext relevance settings of a container.
type Relevance struct {
	MinimumShouldMatch string
	TieBreaker         float64
	PhraseBoost        float64
	SpanSlop           int
	Fuzziness          *query.Fuzziness
	CutoffFrequency    float64
}

// DefaultRelevance returns the stock relevance settings.
func DefaultRelevance() Relevance {
	fuzziness := query.AutoFuzziness()
	return Relevance{
		MinimumShouldMatch: "100%",
		TieBreaker:         1.0,
		PhraseBoost:        10,
		SpanSlop:           1,
		Fuzziness:          &fuzziness,
		CutoffFrequency:    0.15,
	}
}

// AggregationProvider supplies the aggregations of a request type for one
// resolved container. Implementations live in the builder package.
type AggregationProvider interface {
	Aggregations(ctx context.Context, sctx search.Context, cfg *Config) ([]aggregation.Bucket, error)
}

// DefaultSortProvider supplies the sort orders applied when the caller
// requests none.
type DefaultSortProvider interface {
	DefaultSort(sctx search.Context) []search.SortOrder
}

// Config is the resolved container configuration for one scope. Created once
// per (entity, catalog, request type) key and cached for the process
// lifetime; the backing metadata only changes together with a reindex.
type Config struct {
	EntityType  string
	RequestType string
	Catalog     search.LocalizedCatalog
	IndexName   string
	Mapping     *metadata.Mapping
	Relevance   Relevance

	// AggregationProvider may be nil for request types without facets.
	AggregationProvider AggregationProvider

	// DefaultSort may be nil; score descending is then used.
	DefaultSort DefaultSortProvider

	TrackTotalHits search.TrackTotalHits
}

// IndexName derives the physical index name for a scope, e.g.
// "catalog_b2c_fr_product".
func IndexName(prefix string, catalog search.LocalizedCatalog, entityType string) string {
	return fmt.Sprintf("%s_%s_%s", prefix, catalog.Code, entityType)
}
