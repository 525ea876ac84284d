// Package query defines the engine-agnostic query model. Queries form a
// closed tagged union: every implementation carries a Type discriminant that
// fully determines which fields are populated, and the Elasticsearch
// assemblers switch exhaustively over it.
package query

// Type discriminates the query kinds of the closed union.
type Type string

const (
	TypeTerm        Type = "term"
	TypeTerms       Type = "terms"
	TypeBool        Type = "bool"
	TypeMultiMatch  Type = "multi_match"
	TypeNested      Type = "nested"
	TypeFiltered    Type = "filtered"
	TypeExists      Type = "exists"
	TypeRange       Type = "range"
	TypeDateRange   Type = "date_range"
	TypeGeoDistance Type = "geo_distance"
	TypeSpanTerm    Type = "span_term"
	TypeSpanNear    Type = "span_near"
	TypeMatchAll    Type = "match_all"
)

// Query is the common contract of all query kinds. Queries are immutable
// after construction and safe for concurrent use.
type Query interface {
	// QueryType returns the union discriminant.
	QueryType() Type

	// QueryName returns the optional _name used for match diagnostics,
	// or "" when unnamed.
	QueryName() string

	// Boost returns the query boost (1.0 when unset).
	Boost() float64
}

// DefaultBoost is applied when no explicit boost is configured.
const DefaultBoost = 1.0

type base struct {
	name  string
	boost float64
}

func (b base) QueryName() string { return b.name }

func (b base) Boost() float64 {
	if b.boost == 0 {
		return DefaultBoost
	}
	return b.boost
}

// Option customizes the optional common parameters of a query.
type Option func(*base)

// WithName attaches a _name to the query for match-name diagnostics.
func WithName(name string) Option {
	return func(b *base) { b.name = name }
}

// WithBoost overrides the default boost.
func WithBoost(boost float64) Option {
	return func(b *base) { b.boost = boost }
}

func newBase(opts []Option) base {
	var b base
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
