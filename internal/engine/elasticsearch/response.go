package elasticsearch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/search"
)

// esSearchResponse is the structure used to decode Elasticsearch search
// responses.
type esSearchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
			Sort   []any           `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]any `json:"aggregations"`
}

// ParseResponse decodes a raw search response and reshapes it against the
// request that produced it. The request drives aggregation parsing: only
// buckets it declared are looked up, wrapped envelopes are unwrapped through
// their shared name.
func ParseResponse(req *search.Request, body io.Reader) (*search.Response, error) {
	var raw esSearchResponse
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	response := &search.Response{
		TotalHits:     raw.Hits.Total.Value,
		TookMs:        raw.Took,
		SpellingType:  req.SpellingType,
		IsMoreResults: int64(req.From+req.Size) < raw.Hits.Total.Value,
		Hits:          make([]search.Hit, 0, len(raw.Hits.Hits)),
	}
	for _, hit := range raw.Hits.Hits {
		h := search.Hit{ID: hit.ID, Source: hit.Source, Sort: hit.Sort}
		if hit.Score != nil {
			h.Score = *hit.Score
		}
		response.Hits = append(response.Hits, h)
	}

	if len(req.Aggregations) > 0 && raw.Aggregations != nil {
		aggs, err := parseAggregations(req.Aggregations, raw.Aggregations)
		if err != nil {
			return nil, err
		}
		response.Aggregations = aggs
	}
	return response, nil
}

func parseAggregations(buckets []aggregation.Bucket, raw map[string]any) (map[string]*search.AggregationResult, error) {
	results := make(map[string]*search.AggregationResult, len(buckets))
	for _, bucket := range buckets {
		value, ok := raw[bucket.BucketName()]
		if !ok {
			continue
		}
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse aggregation %q: unexpected shape", bucket.BucketName())
		}
		result, err := parseBucket(bucket, unwrap(bucket.BucketName(), obj))
		if err != nil {
			return nil, err
		}
		results[bucket.BucketName()] = result
	}
	return results, nil
}

// unwrap descends through the filter and nested envelopes the assembler
// wrapped around a bucket. Envelopes carry the payload under the bucket's own
// name.
func unwrap(name string, obj map[string]any) map[string]any {
	for {
		inner, ok := obj[name].(map[string]any)
		if !ok {
			return obj
		}
		obj = inner
	}
}

func parseBucket(bucket aggregation.Bucket, obj map[string]any) (*search.AggregationResult, error) {
	result := &search.AggregationResult{Field: bucket.Field()}

	switch values := obj["buckets"].(type) {
	case []any:
		for _, value := range values {
			entry, ok := value.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse aggregation %q: unexpected bucket shape", bucket.BucketName())
			}
			bv, err := parseBucketValue(bucket, bucketKey(entry), entry)
			if err != nil {
				return nil, err
			}
			result.Buckets = append(result.Buckets, bv)
		}
	case map[string]any:
		// Keyed buckets (query groups). The request carries the authoritative
		// order.
		group, ok := bucket.(*aggregation.QueryGroup)
		if !ok {
			return nil, fmt.Errorf("parse aggregation %q: keyed buckets for non-group bucket", bucket.BucketName())
		}
		for _, named := range group.Queries {
			entry, ok := values[named.Name].(map[string]any)
			if !ok {
				continue
			}
			bv, err := parseBucketValue(bucket, named.Name, entry)
			if err != nil {
				return nil, err
			}
			result.Buckets = append(result.Buckets, bv)
		}
	case nil:
		// Single-bucket aggregations (reverse nested) expose a bare doc_count.
		if count, ok := obj["doc_count"]; ok {
			result.Buckets = append(result.Buckets, search.BucketValue{
				Key:   bucket.BucketName(),
				Count: asInt64(count),
			})
		}
	default:
		return nil, fmt.Errorf("parse aggregation %q: unexpected buckets shape", bucket.BucketName())
	}

	if terms, ok := bucket.(*aggregation.Terms); ok && terms.SortOrder == aggregation.SortOrderManual {
		result.Buckets = reorderManual(result.Buckets, terms.Include)
	}
	return result, nil
}

func parseBucketValue(bucket aggregation.Bucket, key any, entry map[string]any) (search.BucketValue, error) {
	bv := search.BucketValue{
		Key:   key,
		Count: asInt64(entry["doc_count"]),
	}
	if children := bucket.Children(); len(children) > 0 {
		sub, err := parseAggregations(children, entry)
		if err != nil {
			return search.BucketValue{}, err
		}
		if len(sub) > 0 {
			bv.SubAggregations = sub
		}
	}
	return bv, nil
}

// bucketKey prefers the formatted key when the engine provides one (dates,
// booleans).
func bucketKey(entry map[string]any) any {
	if s, ok := entry["key_as_string"]; ok {
		return s
	}
	return entry["key"]
}

// reorderManual sorts buckets into the configured candidate order. Buckets
// outside the candidate list keep their relative order at the tail.
func reorderManual(buckets []search.BucketValue, order []any) []search.BucketValue {
	if len(order) == 0 {
		return buckets
	}
	rank := make(map[string]int, len(order))
	for i, v := range order {
		rank[fmt.Sprint(v)] = i
	}
	ordered := make([]search.BucketValue, 0, len(buckets))
	var tail []search.BucketValue
	for _, want := range order {
		for _, b := range buckets {
			if fmt.Sprint(b.Key) == fmt.Sprint(want) {
				ordered = append(ordered, b)
				break
			}
		}
	}
	for _, b := range buckets {
		if _, ok := rank[fmt.Sprint(b.Key)]; !ok {
			tail = append(tail, b)
		}
	}
	return append(ordered, tail...)
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}
