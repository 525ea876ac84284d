package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

func TestFilterQueryBuilder_EmptySet(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, nil)
	assert.Nil(t, q)
	assert.Empty(t, messages)
}

func TestFilterQueryBuilder_SelectEquality(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"color": {OpEq: "red"},
	})
	require.Empty(t, messages)

	term, ok := q.(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "color.value", term.Field)
	assert.Equal(t, "red", term.Value)
}

func TestFilterQueryBuilder_TextEqualityUsesUntouched(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"name": {OpEq: "Wireless Mouse"},
	})
	require.Empty(t, messages)

	term, ok := q.(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "name.untouched", term.Field)
}

func TestFilterQueryBuilder_InOperator(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"color": {OpIn: []any{"red", "blue"}},
	})
	require.Empty(t, messages)

	terms, ok := q.(*query.Terms)
	require.True(t, ok)
	assert.Equal(t, "color.value", terms.Field)
	assert.Equal(t, []any{"red", "blue"}, terms.Values)
}

func TestFilterQueryBuilder_InRequiresList(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"color": {OpIn: "red"},
	})
	assert.Nil(t, q)
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "non-empty list")
}

func TestFilterQueryBuilder_RangeBoundsMerge(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"rating": {OpGte: 3, OpLt: 5},
	})
	require.Empty(t, messages)

	r, ok := q.(*query.Range)
	require.True(t, ok)
	assert.Equal(t, "rating", r.Field)
	assert.Equal(t, 3, r.Bounds.Gte)
	assert.Equal(t, 5, r.Bounds.Lt)
}

func TestFilterQueryBuilder_DateRangeGetsFormat(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"created_at": {OpGte: "2026-01-01"},
	})
	require.Empty(t, messages)

	r, ok := q.(*query.DateRange)
	require.True(t, ok)
	assert.Equal(t, query.DefaultDateFormat, r.Format)
}

func TestFilterQueryBuilder_NestedFieldIsWrapped(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"stock": {OpEq: true},
	})
	require.Empty(t, messages)

	nested, ok := q.(*query.Nested)
	require.True(t, ok)
	assert.Equal(t, "stock", nested.Path)

	term, ok := nested.Query.(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "stock.status", term.Field)
}

func TestFilterQueryBuilder_PriceFilterConstrainedToGroup(t *testing.T) {
	b := NewFilterQueryBuilder()
	sctx := search.Context{PriceGroupID: "1"}
	q, messages := b.Create(testConfig(), sctx, FilterSet{
		"price": {OpGte: 10, OpLte: 50},
	})
	require.Empty(t, messages)

	nested, ok := q.(*query.Nested)
	require.True(t, ok)
	assert.Equal(t, "price", nested.Path)

	boolQuery, ok := nested.Query.(*query.Bool)
	require.True(t, ok)
	require.Len(t, boolQuery.Must, 2)

	r, ok := boolQuery.Must[0].(*query.Range)
	require.True(t, ok)
	assert.Equal(t, "price.price", r.Field)

	group, ok := boolQuery.Must[1].(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "price.group_id", group.Field)
	assert.Equal(t, "1", group.Value)
}

func TestFilterQueryBuilder_MultipleFieldsCombineAsMust(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"color":  {OpEq: "red"},
		"rating": {OpGte: 4},
	})
	require.Empty(t, messages)

	boolQuery, ok := q.(*query.Bool)
	require.True(t, ok)
	assert.Len(t, boolQuery.Must, 2)
}

func TestFilterQueryBuilder_CollectsAllProblems(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"unknown":     {OpEq: "x"},
		"description": {OpEq: "not filterable"},
		"color":       {Operator("like"): "red"},
	})
	assert.Nil(t, q)
	assert.Len(t, messages, 3)
}

func TestFilterQueryBuilder_ExistsOperator(t *testing.T) {
	b := NewFilterQueryBuilder()
	q, messages := b.Create(testConfig(), search.Context{}, FilterSet{
		"rating": {OpExists: true},
	})
	require.Empty(t, messages)

	exists, ok := q.(*query.Exists)
	require.True(t, ok)
	assert.Equal(t, "rating", exists.Field)
}
