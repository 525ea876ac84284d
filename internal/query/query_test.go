package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTerm_RequiresFieldAndValue(t *testing.T) {
	_, err := NewTerm("", "red")
	assert.Error(t, err)

	_, err = NewTerm("color", nil)
	assert.Error(t, err)

	q, err := NewTerm("color", "red")
	require.NoError(t, err)
	assert.Equal(t, TypeTerm, q.QueryType())
	assert.Equal(t, "color", q.Field)
	assert.Equal(t, "red", q.Value)
}

func TestNewTerms_RequiresValues(t *testing.T) {
	_, err := NewTerms("color", nil)
	assert.Error(t, err)

	q, err := NewTerms("color", []any{"red", "blue"})
	require.NoError(t, err)
	assert.Equal(t, TypeTerms, q.QueryType())
	assert.Len(t, q.Values, 2)
}

func TestDefaultBoostAndName(t *testing.T) {
	q, err := NewTerm("color", "red")
	require.NoError(t, err)
	assert.Equal(t, DefaultBoost, q.Boost())
	assert.Empty(t, q.QueryName())

	named, err := NewTerm("color", "red", WithName("color_filter"), WithBoost(2.5))
	require.NoError(t, err)
	assert.Equal(t, "color_filter", named.QueryName())
	assert.Equal(t, 2.5, named.Boost())
}

func TestNewBool_Clauses(t *testing.T) {
	must, err := NewTerm("status", "enabled")
	require.NoError(t, err)
	should, err := NewTerm("color", "red")
	require.NoError(t, err)

	q := NewBool([]BoolOption{
		WithMust(must),
		WithShould(should),
		WithMinimumShouldMatch(1),
	})
	assert.Equal(t, TypeBool, q.QueryType())
	assert.Len(t, q.Must, 1)
	assert.Len(t, q.Should, 1)
	assert.Equal(t, 1, q.MinimumShouldMatch)
}

func TestNewFiltered_AcceptsNilParts(t *testing.T) {
	q := NewFiltered(nil, nil)
	assert.Equal(t, TypeFiltered, q.QueryType())
	assert.Nil(t, q.Query)
	assert.Nil(t, q.Filter)
}

func TestNewNested_RequiresPathAndQuery(t *testing.T) {
	inner, err := NewTerm("price.group_id", "1")
	require.NoError(t, err)

	_, err = NewNested("", inner)
	assert.Error(t, err)

	_, err = NewNested("price", nil)
	assert.Error(t, err)

	q, err := NewNested("price", inner)
	require.NoError(t, err)
	assert.Equal(t, ScoreModeNone, q.ScoreMode)
}

func TestNewMultiMatch_Validation(t *testing.T) {
	fields := map[string]float64{"name.search": 5}

	_, err := NewMultiMatch("", fields, nil)
	assert.Error(t, err)

	_, err = NewMultiMatch("laptop", nil, nil)
	assert.Error(t, err)

	q, err := NewMultiMatch("laptop", fields, []MultiMatchOption{
		WithMatchMinimum("100%"),
		WithTieBreaker(1.0),
	})
	require.NoError(t, err)
	assert.Equal(t, MatchTypeBestFields, q.MatchType)
	assert.Equal(t, "100%", q.MinimumShouldMatch)
}

func TestNewRange_RequiresBound(t *testing.T) {
	_, err := NewRange("price", Bounds{})
	assert.Error(t, err)

	q, err := NewRange("price", Bounds{Gte: 10, Lt: 100})
	require.NoError(t, err)
	assert.Equal(t, 10, q.Bounds.Gte)
	assert.Equal(t, 100, q.Bounds.Lt)
}

func TestNewDateRange_DefaultFormat(t *testing.T) {
	q, err := NewDateRange("created_at", Bounds{Gte: "2026-01-01"}, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultDateFormat, q.Format)
}

func TestNewGeoDistance_Defaults(t *testing.T) {
	q, err := NewGeoDistance("location", "48.86,2.35", "10km")
	require.NoError(t, err)
	assert.Equal(t, DefaultDistanceType, q.DistanceType)
	assert.Equal(t, DefaultValidationMethod, q.ValidationMethod)
}

func TestNewSpanNear_RejectsNonSpanClauses(t *testing.T) {
	span, err := NewSpanTerm("search.whitespace", "wireless")
	require.NoError(t, err)
	term, err := NewTerm("color", "red")
	require.NoError(t, err)

	_, err = NewSpanNear([]Query{span, term}, 1, true)
	assert.Error(t, err)

	_, err = NewSpanNear(nil, 1, true)
	assert.Error(t, err)

	q, err := NewSpanNear([]Query{span}, 1, true)
	require.NoError(t, err)
	assert.True(t, q.InOrder)
}
