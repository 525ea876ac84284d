package elasticsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/spellcheck"
)

func newTestRequest(t *testing.T, opts ...search.RequestOption) *search.Request {
	t.Helper()
	req, err := search.NewRequest("search", "catalog_b2c_fr_product", nil, opts...)
	require.NoError(t, err)
	return req
}

func TestParseResponse_Hits(t *testing.T) {
	body := `{
		"took": 12,
		"hits": {
			"total": {"value": 42, "relation": "eq"},
			"hits": [
				{"_id": "p-1", "_score": 3.5, "_source": {"sku": "SKU-1"}},
				{"_id": "p-2", "_score": null, "_source": {"sku": "SKU-2"}, "sort": [19.9, "p-2"]}
			]
		}
	}`

	req := newTestRequest(t)
	req.SpellingType = spellcheck.SpellingFuzzy

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.TotalHits)
	assert.Equal(t, int64(12), resp.TookMs)
	assert.Equal(t, spellcheck.SpellingFuzzy, resp.SpellingType)
	// 42 total hits against the default 20-document window.
	assert.True(t, resp.IsMoreResults)
	require.Len(t, resp.Hits, 2)

	assert.Equal(t, "p-1", resp.Hits[0].ID)
	assert.Equal(t, 3.5, resp.Hits[0].Score)
	assert.JSONEq(t, `{"sku":"SKU-1"}`, string(resp.Hits[0].Source))

	// Score is null when sorting by field values.
	assert.Zero(t, resp.Hits[1].Score)
	assert.Equal(t, []any{19.9, "p-2"}, resp.Hits[1].Sort)
}

func TestParseResponse_TermsAggregation(t *testing.T) {
	bucket, err := aggregation.NewTerms("color", "color.value", nil)
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	body := `{
		"hits": {"total": {"value": 3}, "hits": []},
		"aggregations": {
			"color": {
				"buckets": [
					{"key": "red", "doc_count": 2},
					{"key": "blue", "doc_count": 1}
				]
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	// The window covers all three hits.
	assert.False(t, resp.IsMoreResults)

	result := resp.Aggregations["color"]
	require.NotNil(t, result)
	assert.Equal(t, "color.value", result.Field)
	require.Len(t, result.Buckets, 2)
	assert.Equal(t, "red", result.Buckets[0].Key)
	assert.Equal(t, int64(2), result.Buckets[0].Count)
}

func TestParseResponse_UnwrapsEnvelopes(t *testing.T) {
	groupFilter, err := query.NewTerm("price.group_id", "1")
	require.NoError(t, err)
	bucket, err := aggregation.NewHistogram("price", "price.price", 10, 1,
		aggregation.WithNestedPath("price"),
		aggregation.WithNestedFilter(groupFilter))
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	// nested envelope > filter envelope > histogram payload, each level
	// carrying the payload under the bucket name.
	body := `{
		"hits": {"total": {"value": 9}, "hits": []},
		"aggregations": {
			"price": {
				"doc_count": 30,
				"price": {
					"doc_count": 9,
					"price": {
						"buckets": [
							{"key": 0.0, "doc_count": 4},
							{"key": 10.0, "doc_count": 5}
						]
					}
				}
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	result := resp.Aggregations["price"]
	require.NotNil(t, result)
	require.Len(t, result.Buckets, 2)
	assert.Equal(t, 0.0, result.Buckets[0].Key)
	assert.Equal(t, int64(5), result.Buckets[1].Count)
}

func TestParseResponse_KeyedGroupKeepsRequestOrder(t *testing.T) {
	childA, err := query.NewTerm("category.id", "cat-11")
	require.NoError(t, err)
	childB, err := query.NewTerm("category.id", "cat-12")
	require.NoError(t, err)
	bucket, err := aggregation.NewQueryGroup("category", []aggregation.NamedQuery{
		{Name: "cat-11", Query: childA},
		{Name: "cat-12", Query: childB},
	})
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	// JSON object order is not meaningful; the request order is.
	body := `{
		"hits": {"total": {"value": 7}, "hits": []},
		"aggregations": {
			"category": {
				"buckets": {
					"cat-12": {"doc_count": 5},
					"cat-11": {"doc_count": 2}
				}
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	result := resp.Aggregations["category"]
	require.Len(t, result.Buckets, 2)
	assert.Equal(t, "cat-11", result.Buckets[0].Key)
	assert.Equal(t, int64(2), result.Buckets[0].Count)
	assert.Equal(t, "cat-12", result.Buckets[1].Key)
}

func TestParseResponse_ManualOrderReordersBuckets(t *testing.T) {
	bucket, err := aggregation.NewTerms("color", "color.value", []aggregation.TermsOption{
		aggregation.WithSortOrder(aggregation.SortOrderManual),
		aggregation.WithInclude("green", "red"),
	})
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	body := `{
		"hits": {"total": {"value": 5}, "hits": []},
		"aggregations": {
			"color": {
				"buckets": [
					{"key": "red", "doc_count": 3},
					{"key": "blue", "doc_count": 1},
					{"key": "green", "doc_count": 1}
				]
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	result := resp.Aggregations["color"]
	require.Len(t, result.Buckets, 3)
	assert.Equal(t, "green", result.Buckets[0].Key)
	assert.Equal(t, "red", result.Buckets[1].Key)
	// Buckets outside the candidate list trail in response order.
	assert.Equal(t, "blue", result.Buckets[2].Key)
}

func TestParseResponse_SubAggregations(t *testing.T) {
	label, err := aggregation.NewTerms("label", "color.label", nil)
	require.NoError(t, err)
	bucket, err := aggregation.NewTerms("color", "color.value", nil,
		aggregation.WithChildren(label))
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	body := `{
		"hits": {"total": {"value": 2}, "hits": []},
		"aggregations": {
			"color": {
				"buckets": [
					{
						"key": "red",
						"doc_count": 2,
						"label": {"buckets": [{"key": "Red", "doc_count": 2}]}
					}
				]
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)

	buckets := resp.Aggregations["color"].Buckets
	require.Len(t, buckets, 1)
	sub := buckets[0].SubAggregations["label"]
	require.NotNil(t, sub)
	require.Len(t, sub.Buckets, 1)
	assert.Equal(t, "Red", sub.Buckets[0].Key)
}

func TestParseResponse_KeyAsStringPreferred(t *testing.T) {
	bucket, err := aggregation.NewDateHistogram("created_at", "created_at", "1M", "yyyy-MM-dd", 0)
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	body := `{
		"hits": {"total": {"value": 1}, "hits": []},
		"aggregations": {
			"created_at": {
				"buckets": [
					{"key": 1767225600000, "key_as_string": "2026-01-01", "doc_count": 1}
				]
			}
		}
	}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", resp.Aggregations["created_at"].Buckets[0].Key)
}

func TestParseResponse_MissingAggregationSkipped(t *testing.T) {
	bucket, err := aggregation.NewTerms("color", "color.value", nil)
	require.NoError(t, err)
	req := newTestRequest(t, search.WithAggregations(bucket))

	body := `{"hits": {"total": {"value": 0}, "hits": []}, "aggregations": {}}`

	resp, err := ParseResponse(req, strings.NewReader(body))
	require.NoError(t, err)
	assert.NotContains(t, resp.Aggregations, "color")
}

func TestParseResponse_InvalidJSON(t *testing.T) {
	_, err := ParseResponse(newTestRequest(t), strings.NewReader("{"))
	require.Error(t, err)
}
