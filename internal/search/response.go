package search

import (
	"encoding/json"

	"github.com/avelora/catalogsearch/internal/spellcheck"
)

// Hit is a single matched document.
type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
	Sort   []any           `json:"sort,omitempty"`
}

// BucketValue is one bucket of an aggregation result.
type BucketValue struct {
	Key             any                           `json:"key"`
	Count           int64                         `json:"count"`
	SubAggregations map[string]*AggregationResult `json:"sub_aggregations,omitempty"`
}

// AggregationResult is the parsed form of one named aggregation.
type AggregationResult struct {
	Field   string        `json:"field,omitempty"`
	Buckets []BucketValue `json:"buckets"`
}

// Response is the domain-level result of an executed request.
type Response struct {
	Hits         []Hit                         `json:"hits"`
	TotalHits    int64                         `json:"total_hits"`
	TookMs       int64                         `json:"took_ms"`
	Aggregations map[string]*AggregationResult `json:"aggregations,omitempty"`
	SpellingType spellcheck.SpellingType       `json:"spelling_type"`

	// IsMoreResults reports whether documents exist beyond the requested
	// result window.
	IsMoreResults bool `json:"is_more_results"`
}
