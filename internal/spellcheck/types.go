// Package spellcheck classifies the spelling quality of a full-text query
// from term-vector statistics. The classification drives the fulltext query
// builder's choice between exact and fuzzy matching strategies.
package spellcheck

// SpellingType is the spelling quality classification of a query.
type SpellingType string

const (
	// SpellingExact means every meaningful term exists verbatim in the index.
	SpellingExact SpellingType = "exact"
	// SpellingMostExact means every term was found, some only through the
	// standard analyzer.
	SpellingMostExact SpellingType = "most_exact"
	// SpellingMostFuzzy means some terms were found but at least one is
	// missing from the index.
	SpellingMostFuzzy SpellingType = "most_fuzzy"
	// SpellingFuzzy means no term could be confirmed; full fuzzy matching is
	// required. It is also the fallback when classification fails.
	SpellingFuzzy SpellingType = "fuzzy"
	// SpellingPureStopwords means the query consists only of ultra-frequent
	// terms.
	SpellingPureStopwords SpellingType = "pure_stopwords"
)

// TermStats aggregates the per-position term statistics of a query.
type TermStats struct {
	Total    int
	Stop     int
	Exact    int
	Standard int
	Missing  int
}

// Classify maps aggregated term statistics to a spelling type. The rule
// order matters and is fixed: pure stopwords before exact, exact before
// most-exact, and so on.
func Classify(s TermStats) SpellingType {
	switch {
	case s.Total > 0 && s.Total == s.Stop:
		return SpellingPureStopwords
	case s.Total > 0 && s.Stop+s.Exact == s.Total:
		return SpellingExact
	case s.Total > 0 && s.Missing == 0:
		return SpellingMostExact
	case s.Total-s.Missing > 0:
		return SpellingMostFuzzy
	default:
		return SpellingFuzzy
	}
}

// IsFuzzy reports whether the spelling type requires approximate matching.
func (t SpellingType) IsFuzzy() bool {
	return t == SpellingFuzzy || t == SpellingMostFuzzy
}
