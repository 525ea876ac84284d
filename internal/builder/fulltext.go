package builder

import (
	"strings"

	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/spellcheck"
)

// UnifiedSearchField is the index-level catch-all field every searchable
// property is copied into. Phrase and proximity boosts run against it so they
// see the query terms in document order.
const UnifiedSearchField = "search"

// FulltextQueryBuilder builds the scored part of a request from its free
// text. The shape of the produced query depends on the spellcheck
// classification of the text: exact queries favor precision, fuzzy ones
// recall.
type FulltextQueryBuilder struct{}

// NewFulltextQueryBuilder creates a fulltext query builder.
func NewFulltextQueryBuilder() *FulltextQueryBuilder {
	return &FulltextQueryBuilder{}
}

// Create builds the fulltext query for the request context. It returns nil
// when the context carries no query text.
func (b *FulltextQueryBuilder) Create(cfg *container.Config, sctx search.Context, spelling spellcheck.SpellingType) query.Query {
	text := strings.TrimSpace(sctx.QueryText)
	if text == "" {
		return nil
	}

	switch spelling {
	case spellcheck.SpellingPureStopwords:
		return b.stopwordsQuery(cfg, text)
	case spellcheck.SpellingFuzzy, spellcheck.SpellingMostFuzzy:
		return b.fuzzyQuery(cfg, text)
	default:
		return b.exactQuery(cfg, text)
	}
}

// exactQuery matches the analyzed search properties of every searchable
// field, with a phrase boost and a span proximity boost rewarding documents
// containing the terms close together and in order.
func (b *FulltextQueryBuilder) exactQuery(cfg *container.Config, text string) query.Query {
	relevance := cfg.Relevance

	matchOpts := []query.MultiMatchOption{
		query.WithMatchMinimum(relevance.MinimumShouldMatch),
		query.WithTieBreaker(relevance.TieBreaker),
	}
	if relevance.CutoffFrequency > 0 {
		matchOpts = append(matchOpts, query.WithCutoffFrequency(relevance.CutoffFrequency))
	}
	base, err := query.NewMultiMatch(text, cfg.Mapping.WeightedSearchProperties("", 1), matchOpts)
	if err != nil {
		return nil
	}

	boosts := b.precisionBoosts(cfg, text)
	if len(boosts) == 0 {
		return base
	}
	return query.NewBool([]query.BoolOption{
		query.WithMust(base),
		query.WithShould(boosts...),
	})
}

// fuzzyQuery matches the whitespace subfields of the spellchecked fields
// with fuzziness enabled, keeping a non-fuzzy clause as a should so exact
// matches still rank first.
func (b *FulltextQueryBuilder) fuzzyQuery(cfg *container.Config, text string) query.Query {
	relevance := cfg.Relevance

	fuzzyProps := spellcheckedProperties(cfg.Mapping)
	matchOpts := []query.MultiMatchOption{
		query.WithMatchMinimum(relevance.MinimumShouldMatch),
		query.WithTieBreaker(relevance.TieBreaker),
	}
	if relevance.Fuzziness != nil {
		matchOpts = append(matchOpts, query.WithFuzziness(*relevance.Fuzziness))
	}
	fuzzy, err := query.NewMultiMatch(text, fuzzyProps, matchOpts)
	if err != nil {
		return nil
	}

	exact, err := query.NewMultiMatch(text, cfg.Mapping.WeightedSearchProperties("", 1), []query.MultiMatchOption{
		query.WithTieBreaker(relevance.TieBreaker),
	})
	if err != nil {
		return fuzzy
	}
	return query.NewBool([]query.BoolOption{
		query.WithMust(fuzzy),
		query.WithShould(exact),
	})
}

// stopwordsQuery runs the text through the whitespace subfields only. The
// standard analyzer would strip every token of a pure-stopword query and
// match nothing.
func (b *FulltextQueryBuilder) stopwordsQuery(cfg *container.Config, text string) query.Query {
	q, err := query.NewMultiMatch(
		text,
		cfg.Mapping.WeightedSearchProperties(metadata.SubfieldWhitespace, 1),
		[]query.MultiMatchOption{query.WithMatchMinimum(cfg.Relevance.MinimumShouldMatch)},
	)
	if err != nil {
		return nil
	}
	return q
}

// precisionBoosts builds the optional phrase and span clauses of an exact
// query. Both only make sense for multi-term texts.
func (b *FulltextQueryBuilder) precisionBoosts(cfg *container.Config, text string) []query.Query {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) < 2 {
		return nil
	}
	relevance := cfg.Relevance

	var boosts []query.Query
	phrase, err := query.NewMultiMatch(
		text,
		cfg.Mapping.WeightedSearchProperties(metadata.SubfieldWhitespace, relevance.PhraseBoost),
		[]query.MultiMatchOption{query.WithMatchType(query.MatchTypePhrase)},
	)
	if err == nil {
		boosts = append(boosts, phrase)
	}

	property := UnifiedSearchField + "." + metadata.SubfieldWhitespace
	clauses := make([]query.Query, 0, len(tokens))
	for _, token := range tokens {
		span, err := query.NewSpanTerm(property, token)
		if err != nil {
			return boosts
		}
		clauses = append(clauses, span)
	}
	span, err := query.NewSpanNear(clauses, relevance.SpanSlop, true, query.WithBoost(relevance.PhraseBoost))
	if err == nil {
		boosts = append(boosts, span)
	}
	return boosts
}

// spellcheckedProperties expands the spellchecked fields into the weighted
// whitespace properties fuzzy matching runs on.
func spellcheckedProperties(mapping *metadata.Mapping) map[string]float64 {
	props := make(map[string]float64)
	for _, f := range mapping.SpellcheckedFields() {
		props[metadata.SearchProperty(f, metadata.SubfieldWhitespace)] = float64(f.Weight())
	}
	return props
}
