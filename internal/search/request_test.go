package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/spellcheck"
)

func TestNewRequest_Defaults(t *testing.T) {
	req, err := NewRequest("search", "catalog_b2c_fr_product", nil)
	require.NoError(t, err)

	assert.Equal(t, "catalog_b2c_fr_product", req.IndexName)
	assert.Equal(t, 0, req.From)
	assert.Equal(t, DefaultPageSize, req.Size)
	assert.Equal(t, spellcheck.SpellingExact, req.SpellingType)
	assert.True(t, req.TrackTotalHits.Enabled)

	// A nil query means match everything.
	require.NotNil(t, req.Query)
	assert.Equal(t, query.TypeMatchAll, req.Query.QueryType())
}

func TestNewRequest_Validation(t *testing.T) {
	_, err := NewRequest("", "catalog_b2c_fr_product", nil)
	require.Error(t, err)

	_, err = NewRequest("search", "", nil)
	require.Error(t, err)
}

func TestNewRequest_DuplicateAggregationNames(t *testing.T) {
	a, err := aggregation.NewTerms("color", "color.value", nil)
	require.NoError(t, err)
	b, err := aggregation.NewTerms("color", "color.label", nil)
	require.NoError(t, err)

	_, err = NewRequest("search", "catalog_b2c_fr_product", nil, WithAggregations(a, b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate aggregation name "color"`)
}

func TestWithPagination(t *testing.T) {
	tests := []struct {
		name     string
		from     int
		size     int
		wantFrom int
		wantSize int
	}{
		{name: "plain", from: 40, size: 20, wantFrom: 40, wantSize: 20},
		{name: "negative from", from: -5, size: 20, wantFrom: 0, wantSize: 20},
		{name: "zero size defaults", from: 0, size: 0, wantFrom: 0, wantSize: DefaultPageSize},
		{name: "size clamped", from: 0, size: 5000, wantFrom: 0, wantSize: MaxPageSize},
		{name: "window clamped", from: 99990, size: 100, wantFrom: MaxResultWindow - MaxPageSize, wantSize: MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewRequest("search", "idx", nil, WithPagination(tt.from, tt.size))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, req.From)
			assert.Equal(t, tt.wantSize, req.Size)
		})
	}
}
