package elasticsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

func TestAssembleRequest(t *testing.T) {
	filter, err := query.NewTerm("stock.status", true)
	require.NoError(t, err)
	colorAgg, err := aggregation.NewTerms("color", "color.value", nil)
	require.NoError(t, err)

	req, err := search.NewRequest("search", "catalog_b2c_fr_product", query.NewFiltered(nil, filter),
		search.WithPagination(20, 10),
		search.WithSortOrders(search.SortOrder{Field: "name.sortable", Direction: search.SortDesc}),
		search.WithAggregations(colorAgg),
	)
	require.NoError(t, err)

	body, err := AssembleRequest(req)
	require.NoError(t, err)

	assert.Equal(t, 20, body["from"])
	assert.Equal(t, 10, body["size"])
	assert.Equal(t, true, body["track_total_hits"])
	assert.Contains(t, body["query"].(map[string]any), "bool")

	sorts := body["sort"].([]map[string]any)
	require.Len(t, sorts, 1)
	assert.Equal(t, map[string]any{"order": "desc"}, sorts[0]["name.sortable"])

	aggs := body["aggregations"].(map[string]any)
	assert.Contains(t, aggs, "color")
}

func TestAssembleRequest_TrackTotalHitsLimit(t *testing.T) {
	req, err := search.NewRequest("search", "idx", nil,
		search.WithTrackTotalHits(search.TrackTotalHits{Limit: 1000}))
	require.NoError(t, err)

	body, err := AssembleRequest(req)
	require.NoError(t, err)
	assert.Equal(t, 1000, body["track_total_hits"])
}

func TestAssembleRequest_MatchAllWithoutQuery(t *testing.T) {
	req, err := search.NewRequest("search", "idx", nil)
	require.NoError(t, err)

	body, err := AssembleRequest(req)
	require.NoError(t, err)
	assert.Contains(t, body["query"].(map[string]any), "match_all")
}
