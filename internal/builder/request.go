package builder

import (
	"context"
	"log/slog"

	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/spellcheck"
	apperrors "github.com/avelora/catalogsearch/pkg/errors"
)

// Spellchecker classifies a query text against an index. Implementations
// never fail the request: on any backend trouble they fall back to the most
// permissive classification.
type Spellchecker interface {
	Check(ctx context.Context, indexName, queryText string) spellcheck.SpellingType
}

// BuildInput carries everything a request build needs.
type BuildInput struct {
	EntityType  string
	RequestType string
	Catalog     search.LocalizedCatalog
	Context     search.Context
	Filters     FilterSet
	Sorts       []SortSpec
	From        int
	Size        int

	// WithAggregations requests facet computation when the container's
	// request type supports it.
	WithAggregations bool
}

// RequestBuilder assembles complete search requests: it resolves the
// container for the scope, classifies the query text, then composes the
// fulltext, filter, sort and aggregation parts.
type RequestBuilder struct {
	containers *container.Provider
	filters    *FilterQueryBuilder
	fulltext   *FulltextQueryBuilder
	sorts      *SortOrderBuilder
	spell      Spellchecker
	logger     *slog.Logger
}

// NewRequestBuilder creates a request builder. The spellchecker may be nil;
// query texts are then treated as exact.
func NewRequestBuilder(containers *container.Provider, spell Spellchecker, logger *slog.Logger) *RequestBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &RequestBuilder{
		containers: containers,
		filters:    NewFilterQueryBuilder(),
		fulltext:   NewFulltextQueryBuilder(),
		sorts:      NewSortOrderBuilder(),
		spell:      spell,
		logger:     logger,
	}
}

// Build compiles the input into an executable request. All validation
// problems of the input are reported together in a single error.
func (b *RequestBuilder) Build(ctx context.Context, in BuildInput) (*search.Request, error) {
	cfg, err := b.containers.Get(ctx, in.EntityType, in.Catalog, in.RequestType)
	if err != nil {
		return nil, err
	}

	spelling := spellcheck.SpellingExact
	if in.Context.QueryText != "" && b.spell != nil {
		spelling = b.spell.Check(ctx, cfg.IndexName, in.Context.QueryText)
	}

	fulltextQuery := b.fulltext.Create(cfg, in.Context, spelling)
	filterQuery, messages := b.filters.Create(cfg, in.Context, in.Filters)
	sortOrders, sortMessages := b.sorts.Create(cfg, in.Context, in.Sorts)
	messages = append(messages, sortMessages...)
	if len(messages) > 0 {
		return nil, apperrors.Validation(messages)
	}

	var q query.Query
	if fulltextQuery != nil || filterQuery != nil {
		q = query.NewFiltered(fulltextQuery, filterQuery)
	}

	opts := []search.RequestOption{
		search.WithPagination(in.From, in.Size),
		search.WithSortOrders(sortOrders...),
		search.WithSpellingType(spelling),
		search.WithTrackTotalHits(cfg.TrackTotalHits),
	}

	if in.WithAggregations && cfg.AggregationProvider != nil {
		aggs, err := cfg.AggregationProvider.Aggregations(ctx, in.Context, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, search.WithAggregations(aggs...))
	}

	req, err := search.NewRequest(cfg.RequestType, cfg.IndexName, q, opts...)
	if err != nil {
		return nil, err
	}

	b.logger.DebugContext(ctx, "search request built",
		slog.String("entity_type", in.EntityType),
		slog.String("request_type", cfg.RequestType),
		slog.String("index", cfg.IndexName),
		slog.String("spelling_type", string(spelling)),
	)
	return req, nil
}
