// Package aggregation defines the engine-agnostic bucket aggregation model.
// Like the query model it is a closed tagged union discriminated by Type.
package aggregation

import (
	"github.com/avelora/catalogsearch/internal/query"
)

// Type discriminates the bucket kinds of the closed union.
type Type string

const (
	TypeTerms            Type = "terms"
	TypeHistogram        Type = "histogram"
	TypeDateHistogram    Type = "date_histogram"
	TypeDateRange        Type = "date_range"
	TypeGeoDistance      Type = "geo_distance"
	TypeQueryGroup       Type = "query_group"
	TypeSignificantTerms Type = "significant_terms"
	TypeReverseNested    Type = "reverse_nested"
)

// MaxBucketSize is the hard ceiling on the number of buckets a single
// aggregation may return.
const MaxBucketSize = 10000

// CoerceSize normalizes a requested bucket size: zero (or negative) means
// "unbounded" and maps to the ceiling, oversized requests are clamped, and
// in-range values pass through unchanged.
func CoerceSize(size int) int {
	if size <= 0 || size > MaxBucketSize {
		return MaxBucketSize
	}
	return size
}

// Bucket is the common contract of all aggregation kinds. Buckets are
// immutable after construction.
type Bucket interface {
	// BucketType returns the union discriminant.
	BucketType() Type

	// BucketName returns the response key of the aggregation.
	BucketName() string

	// Field returns the aggregated field, or "" for kinds that do not
	// aggregate a single field (query groups, reverse nested).
	Field() string

	// NestedPath returns the nested document path the bucket operates in,
	// or "" for root-level buckets.
	NestedPath() string

	// Filter returns the optional pre-filter applied before bucketing.
	Filter() query.Query

	// NestedFilter returns the optional filter scoped to the nested path.
	NestedFilter() query.Query

	// Children returns the ordered child aggregations.
	Children() []Bucket
}

type base struct {
	name         string
	field        string
	nestedPath   string
	filter       query.Query
	nestedFilter query.Query
	children     []Bucket
}

func (b base) BucketName() string        { return b.name }
func (b base) Field() string             { return b.field }
func (b base) NestedPath() string        { return b.nestedPath }
func (b base) Filter() query.Query       { return b.filter }
func (b base) NestedFilter() query.Query { return b.nestedFilter }
func (b base) Children() []Bucket        { return b.children }

// Option customizes the optional common parameters of a bucket.
type Option func(*base)

// WithNestedPath marks the bucket as operating inside the given nested path.
func WithNestedPath(path string) Option {
	return func(b *base) { b.nestedPath = path }
}

// WithFilter applies a pre-filter before bucketing.
func WithFilter(q query.Query) Option {
	return func(b *base) { b.filter = q }
}

// WithNestedFilter applies a filter scoped to the nested path.
func WithNestedFilter(q query.Query) Option {
	return func(b *base) { b.nestedFilter = q }
}

// WithChildren appends child aggregations.
func WithChildren(children ...Bucket) Option {
	return func(b *base) { b.children = append(b.children, children...) }
}

func newBase(name, field string, opts []Option) base {
	b := base{name: name, field: field}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
