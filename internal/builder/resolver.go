package builder

import (
	"context"
	"fmt"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

// FieldResolver turns one mapping field into its draft aggregation. A
// resolver may return a nil bucket to signal that no aggregation applies in
// the current context.
type FieldResolver interface {
	Supports(f metadata.Field) bool
	Resolve(ctx context.Context, sctx search.Context, cfg *container.Config, f metadata.Field) (aggregation.Bucket, error)
}

// AggregationSettings tunes the draft aggregations the stock resolvers
// produce.
type AggregationSettings struct {
	DateInterval    string
	DateFormat      string
	NumericInterval float64
	PriceInterval   float64
	GeoUnit         string
	GeoRanges       []aggregation.RangeSpec
}

// DefaultAggregationSettings returns the stock resolver settings.
func DefaultAggregationSettings() AggregationSettings {
	return AggregationSettings{
		DateInterval:    "1M",
		DateFormat:      query.DefaultDateFormat,
		NumericInterval: 1,
		PriceInterval:   10,
		GeoUnit:         "km",
		GeoRanges: []aggregation.RangeSpec{
			{To: 10},
			{From: 10, To: 50},
			{From: 50, To: 100},
			{From: 100},
		},
	}
}

// ResolverChain resolves fields through an ordered resolver list. The first
// resolver supporting a field wins; the terms fallback guarantees every field
// resolves.
type ResolverChain struct {
	resolvers []FieldResolver
	fallback  FieldResolver
}

// NewResolverChain assembles the stock chain. Precedence is fixed: category,
// date, location, numeric, price, select, stock, then the terms fallback.
func NewResolverChain(categories metadata.CategoryProvider, settings AggregationSettings) *ResolverChain {
	return &ResolverChain{
		resolvers: []FieldResolver{
			&categoryResolver{categories: categories},
			&dateResolver{settings: settings},
			&locationResolver{settings: settings},
			&numericResolver{settings: settings},
			&priceResolver{settings: settings},
			&selectResolver{},
			&stockResolver{},
		},
		fallback: &termsResolver{},
	}
}

// Resolve returns the draft aggregation for a field, or nil when none
// applies.
func (c *ResolverChain) Resolve(ctx context.Context, sctx search.Context, cfg *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	for _, r := range c.resolvers {
		if r.Supports(f) {
			return r.Resolve(ctx, sctx, cfg, f)
		}
	}
	return c.fallback.Resolve(ctx, sctx, cfg, f)
}

// nestedOptions returns the bucket options scoping an aggregation to the
// field's nested path, if any.
func nestedOptions(f metadata.Field) []aggregation.Option {
	if !f.IsNested() {
		return nil
	}
	return []aggregation.Option{aggregation.WithNestedPath(f.NestedPath)}
}

// categoryResolver facets category fields as one filter bucket per child of
// the currently browsed category.
type categoryResolver struct {
	categories metadata.CategoryProvider
}

func (r *categoryResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeCategory
}

func (r *categoryResolver) Resolve(ctx context.Context, sctx search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	if r.categories == nil {
		return nil, nil
	}
	children, err := r.categories.ChildCategories(ctx, sctx.CurrentCategoryID)
	if err != nil {
		return nil, fmt.Errorf("resolve category facet %q: %w", f.Code, err)
	}
	if len(children) == 0 {
		return nil, nil
	}

	queries := make([]aggregation.NamedQuery, 0, len(children))
	for _, child := range children {
		q, err := query.NewTerm(f.Code+".id", child)
		if err != nil {
			return nil, fmt.Errorf("resolve category facet %q: %w", f.Code, err)
		}
		queries = append(queries, aggregation.NamedQuery{Name: child, Query: q})
	}
	return aggregation.NewQueryGroup(f.Code, queries, nestedOptions(f)...)
}

type dateResolver struct {
	settings AggregationSettings
}

func (r *dateResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeDate
}

func (r *dateResolver) Resolve(_ context.Context, _ search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	return aggregation.NewDateHistogram(f.Code, f.Code, r.settings.DateInterval, r.settings.DateFormat, 1, nestedOptions(f)...)
}

// locationResolver facets location fields as distance rings around the
// caller's reference location. Without one there is nothing to measure from.
type locationResolver struct {
	settings AggregationSettings
}

func (r *locationResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeLocation
}

func (r *locationResolver) Resolve(_ context.Context, sctx search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	if sctx.ReferenceLocation == "" {
		return nil, nil
	}
	return aggregation.NewGeoDistance(f.Code, f.Code, sctx.ReferenceLocation, r.settings.GeoUnit, r.settings.GeoRanges, nestedOptions(f)...)
}

type numericResolver struct {
	settings AggregationSettings
}

func (r *numericResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeInt || f.Type == metadata.FieldTypeFloat
}

func (r *numericResolver) Resolve(_ context.Context, _ search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	return aggregation.NewHistogram(f.Code, f.Code, r.settings.NumericInterval, 1, nestedOptions(f)...)
}

// priceResolver facets the price amount, constrained to the caller's price
// group so buckets only count the prices that customer group sees.
type priceResolver struct {
	settings AggregationSettings
}

func (r *priceResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypePrice
}

func (r *priceResolver) Resolve(_ context.Context, sctx search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	opts := nestedOptions(f)
	if sctx.PriceGroupID != "" {
		group, err := query.NewTerm(f.Code+".group_id", sctx.PriceGroupID)
		if err != nil {
			return nil, fmt.Errorf("resolve price facet %q: %w", f.Code, err)
		}
		opts = append(opts, aggregation.WithNestedFilter(group))
	}
	return aggregation.NewHistogram(f.Code, f.Code+".price", r.settings.PriceInterval, 1, opts...)
}

// selectResolver facets option fields by value, carrying the display label
// of each bucket through a single-bucket child aggregation.
type selectResolver struct{}

func (r *selectResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeSelect
}

func (r *selectResolver) Resolve(_ context.Context, _ search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	label, err := aggregation.NewTerms(f.Code+".label", f.Code+".label", []aggregation.TermsOption{aggregation.WithSize(1)})
	if err != nil {
		return nil, fmt.Errorf("resolve select facet %q: %w", f.Code, err)
	}
	opts := append(nestedOptions(f), aggregation.WithChildren(label))
	return aggregation.NewTerms(f.Code, f.Code+".value", nil, opts...)
}

type stockResolver struct{}

func (r *stockResolver) Supports(f metadata.Field) bool {
	return f.Type == metadata.FieldTypeStock
}

func (r *stockResolver) Resolve(_ context.Context, _ search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	return aggregation.NewTerms(f.Code, f.Code+".status", nil, nestedOptions(f)...)
}

// termsResolver is the fallback for every remaining type.
type termsResolver struct{}

func (r *termsResolver) Supports(metadata.Field) bool { return true }

func (r *termsResolver) Resolve(_ context.Context, _ search.Context, _ *container.Config, f metadata.Field) (aggregation.Bucket, error) {
	return aggregation.NewTerms(f.Code, FilterProperty(f), nil, nestedOptions(f)...)
}
