package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/spellcheck"
)

func TestFulltextQueryBuilder_NoTextYieldsNil(t *testing.T) {
	b := NewFulltextQueryBuilder()
	assert.Nil(t, b.Create(testConfig(), search.Context{}, spellcheck.SpellingExact))
	assert.Nil(t, b.Create(testConfig(), search.Context{QueryText: "   "}, spellcheck.SpellingExact))
}

func TestFulltextQueryBuilder_SingleTermExact(t *testing.T) {
	b := NewFulltextQueryBuilder()
	sctx := search.Context{QueryText: "mouse"}
	q := b.Create(testConfig(), sctx, spellcheck.SpellingExact)

	// A single term gets no phrase or span boost.
	mm, ok := q.(*query.MultiMatch)
	require.True(t, ok)
	assert.Equal(t, "mouse", mm.QueryText)
	assert.Equal(t, "100%", mm.MinimumShouldMatch)
	assert.Contains(t, mm.Fields, "name.search")
	assert.Contains(t, mm.Fields, "sku.search")
	assert.Equal(t, float64(10), mm.Fields["sku.search"])
}

func TestFulltextQueryBuilder_MultiTermExactCarriesBoosts(t *testing.T) {
	b := NewFulltextQueryBuilder()
	sctx := search.Context{QueryText: "wireless mouse"}
	q := b.Create(testConfig(), sctx, spellcheck.SpellingExact)

	boolQuery, ok := q.(*query.Bool)
	require.True(t, ok)
	require.Len(t, boolQuery.Must, 1)
	require.Len(t, boolQuery.Should, 2)

	phrase, ok := boolQuery.Should[0].(*query.MultiMatch)
	require.True(t, ok)
	assert.Equal(t, query.MatchTypePhrase, phrase.MatchType)

	span, ok := boolQuery.Should[1].(*query.SpanNear)
	require.True(t, ok)
	require.Len(t, span.Clauses, 2)
	assert.True(t, span.InOrder)
	assert.Equal(t, testConfig().Relevance.PhraseBoost, span.Boost())

	first, ok := span.Clauses[0].(*query.SpanTerm)
	require.True(t, ok)
	assert.Equal(t, "search.whitespace", first.Field)
	assert.Equal(t, "wireless", first.Value)
}

func TestFulltextQueryBuilder_FuzzyUsesSpellcheckedFields(t *testing.T) {
	b := NewFulltextQueryBuilder()
	sctx := search.Context{QueryText: "wirless mose"}
	q := b.Create(testConfig(), sctx, spellcheck.SpellingFuzzy)

	boolQuery, ok := q.(*query.Bool)
	require.True(t, ok)
	require.Len(t, boolQuery.Must, 1)

	fuzzy, ok := boolQuery.Must[0].(*query.MultiMatch)
	require.True(t, ok)
	require.NotNil(t, fuzzy.Fuzziness)
	assert.Equal(t, "AUTO", fuzzy.Fuzziness.Value)
	// Only spellchecked fields participate in fuzzy matching.
	assert.Contains(t, fuzzy.Fields, "name.whitespace")
	assert.Contains(t, fuzzy.Fields, "description.whitespace")
	assert.NotContains(t, fuzzy.Fields, "sku.search")
}

func TestFulltextQueryBuilder_PureStopwordsUsesWhitespace(t *testing.T) {
	b := NewFulltextQueryBuilder()
	sctx := search.Context{QueryText: "the"}
	q := b.Create(testConfig(), sctx, spellcheck.SpellingPureStopwords)

	mm, ok := q.(*query.MultiMatch)
	require.True(t, ok)
	assert.Contains(t, mm.Fields, "name.whitespace")
	assert.Nil(t, mm.Fuzziness)
}
