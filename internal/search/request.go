package search

import (
	"fmt"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/spellcheck"
)

// Sort directions.
type Direction string

const (
	SortAsc  Direction = "asc"
	SortDesc Direction = "desc"
)

// Well-known sort fields. The tie breaker sorts on _doc rather than
// _id: _id sorting needs fielddata, which Elasticsearch 8 gates behind
// indices.id_field_data.enabled.
const (
	SortFieldScore = "_score"
	SortFieldDoc   = "_doc"
)

// SortOrder is a single resolved sort criterion.
type SortOrder struct {
	Field     string
	Direction Direction
}

// TrackTotalHits controls total-hit counting: disabled, exact, or capped at
// Limit when Limit > 0.
type TrackTotalHits struct {
	Enabled bool
	Limit   int
}

// Request is the immutable compiled search request handed to the engine
// adapter.
type Request struct {
	Name           string
	IndexName      string
	Query          query.Query
	SortOrders     []SortOrder
	From           int
	Size           int
	Aggregations   []aggregation.Bucket
	SpellingType   spellcheck.SpellingType
	TrackTotalHits TrackTotalHits
}

// NewRequest creates a request after basic invariant checks. Aggregation
// names must be unique since they key the engine response.
func NewRequest(name, indexName string, q query.Query, opts ...RequestOption) (*Request, error) {
	if name == "" {
		return nil, fmt.Errorf("search request: name is required")
	}
	if indexName == "" {
		return nil, fmt.Errorf("search request: index name is required")
	}
	if q == nil {
		q = query.NewMatchAll()
	}

	r := &Request{
		Name:           name,
		IndexName:      indexName,
		Query:          q,
		Size:           DefaultPageSize,
		SpellingType:   spellcheck.SpellingExact,
		TrackTotalHits: TrackTotalHits{Enabled: true},
	}
	for _, opt := range opts {
		opt(r)
	}

	seen := make(map[string]struct{}, len(r.Aggregations))
	for _, agg := range r.Aggregations {
		if _, dup := seen[agg.BucketName()]; dup {
			return nil, fmt.Errorf("search request: duplicate aggregation name %q", agg.BucketName())
		}
		seen[agg.BucketName()] = struct{}{}
	}

	return r, nil
}

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxResultWindow mirrors the engine's default from+size ceiling.
	MaxResultWindow = 10000
)

// RequestOption customizes a request under construction.
type RequestOption func(*Request)

// WithPagination sets the result window, clamping to the engine limits.
func WithPagination(from, size int) RequestOption {
	return func(r *Request) {
		if from < 0 {
			from = 0
		}
		if size <= 0 {
			size = DefaultPageSize
		}
		if size > MaxPageSize {
			size = MaxPageSize
		}
		if from+size > MaxResultWindow {
			from = MaxResultWindow - size
		}
		r.From = from
		r.Size = size
	}
}

// WithSortOrders sets the resolved sort orders.
func WithSortOrders(orders ...SortOrder) RequestOption {
	return func(r *Request) { r.SortOrders = orders }
}

// WithAggregations attaches the ordered aggregation set.
func WithAggregations(aggs ...aggregation.Bucket) RequestOption {
	return func(r *Request) { r.Aggregations = aggs }
}

// WithSpellingType records the spelling classification the query was built for.
func WithSpellingType(t spellcheck.SpellingType) RequestOption {
	return func(r *Request) { r.SpellingType = t }
}

// WithTrackTotalHits overrides the total-hit counting policy.
func WithTrackTotalHits(t TrackTotalHits) RequestOption {
	return func(r *Request) { r.TrackTotalHits = t }
}
