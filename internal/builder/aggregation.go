package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
)

// AggregationBuilder resolves mapping fields into their final aggregations:
// the resolver chain produces a draft per field, then the facet configuration
// of the scope adjusts bucket count and ordering.
type AggregationBuilder struct {
	chain  *ResolverChain
	facets metadata.FacetConfigurationProvider
	logger *slog.Logger
}

// NewAggregationBuilder creates an aggregation builder. The facet provider
// may be nil; drafts are then used as-is.
func NewAggregationBuilder(chain *ResolverChain, facets metadata.FacetConfigurationProvider, logger *slog.Logger) *AggregationBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AggregationBuilder{chain: chain, facets: facets, logger: logger}
}

// Build resolves the given fields. Fields that resolve to nothing in the
// current context are skipped.
func (b *AggregationBuilder) Build(ctx context.Context, sctx search.Context, cfg *container.Config, fields []metadata.Field) ([]aggregation.Bucket, error) {
	buckets := make([]aggregation.Bucket, 0, len(fields))
	for _, field := range fields {
		bucket, err := b.chain.Resolve(ctx, sctx, cfg, field)
		if err != nil {
			return nil, fmt.Errorf("build aggregation for field %q: %w", field.Code, err)
		}
		if bucket == nil {
			continue
		}
		bucket, err = b.applyFacetConfiguration(ctx, sctx, field, bucket)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	return buckets, nil
}

// applyFacetConfiguration overlays the per-category facet settings on a
// draft. Only terms buckets carry a configurable size and order; other kinds
// pass through unchanged.
func (b *AggregationBuilder) applyFacetConfiguration(ctx context.Context, sctx search.Context, field metadata.Field, bucket aggregation.Bucket) (aggregation.Bucket, error) {
	if b.facets == nil {
		return bucket, nil
	}
	terms, ok := bucket.(*aggregation.Terms)
	if !ok {
		return bucket, nil
	}

	facetCfg, err := b.facets.FacetConfiguration(ctx, field.Code, sctx.CurrentCategoryID)
	if err != nil {
		// Facet display settings are cosmetic; a failed lookup must not kill
		// the whole request.
		b.logger.WarnContext(ctx, "facet configuration lookup failed, using defaults",
			slog.String("field", field.Code),
			slog.String("error", err.Error()),
		)
		return bucket, nil
	}

	termsOpts := []aggregation.TermsOption{
		aggregation.WithMinDocCount(terms.MinDocCount),
	}
	switch facetCfg.SortOrder {
	case metadata.FacetSortManual:
		// A manual order needs every candidate bucket back; the caller
		// reorders them client-side from the configured list.
		termsOpts = append(termsOpts,
			aggregation.WithSortOrder(aggregation.SortOrderManual),
			aggregation.WithSize(0),
		)
		if len(facetCfg.ManualOrder) > 0 {
			include := make([]any, len(facetCfg.ManualOrder))
			for i, v := range facetCfg.ManualOrder {
				include[i] = v
			}
			termsOpts = append(termsOpts, aggregation.WithInclude(include...))
		}
	case metadata.FacetSortTermAsc:
		termsOpts = append(termsOpts,
			aggregation.WithSortOrder(aggregation.SortOrderTermAsc),
			aggregation.WithSize(0),
		)
	case metadata.FacetSortTermDesc:
		termsOpts = append(termsOpts,
			aggregation.WithSortOrder(aggregation.SortOrderTermDesc),
			aggregation.WithSize(0),
		)
	default:
		termsOpts = append(termsOpts, aggregation.WithSize(facetCfg.MaxSize))
	}

	opts := baseOptions(terms)
	rebuilt, err := aggregation.NewTerms(terms.BucketName(), terms.Field(), termsOpts, opts...)
	if err != nil {
		return nil, fmt.Errorf("apply facet configuration for field %q: %w", field.Code, err)
	}
	return rebuilt, nil
}

// baseOptions reconstructs the common options of an existing bucket so it can
// be rebuilt with different kind-specific settings.
func baseOptions(bucket aggregation.Bucket) []aggregation.Option {
	var opts []aggregation.Option
	if path := bucket.NestedPath(); path != "" {
		opts = append(opts, aggregation.WithNestedPath(path))
	}
	if f := bucket.Filter(); f != nil {
		opts = append(opts, aggregation.WithFilter(f))
	}
	if f := bucket.NestedFilter(); f != nil {
		opts = append(opts, aggregation.WithNestedFilter(f))
	}
	if children := bucket.Children(); len(children) > 0 {
		opts = append(opts, aggregation.WithChildren(children...))
	}
	return opts
}

// FacetableFieldsProvider supplies the aggregations of catalog and search
// requests: one facet per filterable field of the mapping.
type FacetableFieldsProvider struct {
	builder *AggregationBuilder
}

// NewFacetableFieldsProvider creates the stock facet provider.
func NewFacetableFieldsProvider(builder *AggregationBuilder) *FacetableFieldsProvider {
	return &FacetableFieldsProvider{builder: builder}
}

// Aggregations implements container.AggregationProvider.
func (p *FacetableFieldsProvider) Aggregations(ctx context.Context, sctx search.Context, cfg *container.Config) ([]aggregation.Bucket, error) {
	return p.builder.Build(ctx, sctx, cfg, cfg.Mapping.FilterableFields())
}

// FixedFieldsProvider supplies aggregations for an explicit field list,
// e.g. the few facets an autocomplete box displays. Codes missing from the
// mapping are ignored.
type FixedFieldsProvider struct {
	builder *AggregationBuilder
	codes   []string
}

// NewFixedFieldsProvider creates a provider over the given field codes.
func NewFixedFieldsProvider(builder *AggregationBuilder, codes ...string) *FixedFieldsProvider {
	return &FixedFieldsProvider{builder: builder, codes: codes}
}

// Aggregations implements container.AggregationProvider.
func (p *FixedFieldsProvider) Aggregations(ctx context.Context, sctx search.Context, cfg *container.Config) ([]aggregation.Bucket, error) {
	fields := make([]metadata.Field, 0, len(p.codes))
	for _, code := range p.codes {
		if field, ok := cfg.Mapping.Field(code); ok {
			fields = append(fields, field)
		}
	}
	return p.builder.Build(ctx, sctx, cfg, fields)
}
