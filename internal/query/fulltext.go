package query

import "fmt"

// Match types supported by multi match queries.
const (
	MatchTypeBestFields   = "best_fields"
	MatchTypeMostFields   = "most_fields"
	MatchTypeCrossFields  = "cross_fields"
	MatchTypePhrase       = "phrase"
	MatchTypePhrasePrefix = "phrase_prefix"
)

// Fuzziness configures approximate matching for a multi match query.
type Fuzziness struct {
	Value        string
	PrefixLength int
	MaxExpansion int
}

// AutoFuzziness is the engine-computed edit-distance setting.
func AutoFuzziness() Fuzziness {
	return Fuzziness{Value: "AUTO", PrefixLength: 1, MaxExpansion: 10}
}

// MultiMatch matches query text against several weighted fields.
type MultiMatch struct {
	base
	QueryText          string
	Fields             map[string]float64
	MinimumShouldMatch string
	TieBreaker         float64
	MatchType          string
	Fuzziness          *Fuzziness
	CutoffFrequency    float64
}

// MultiMatchOption customizes a multi match query under construction.
type MultiMatchOption func(*MultiMatch)

// WithMatchMinimum sets the minimum-should-match expression (e.g. "100%").
func WithMatchMinimum(m string) MultiMatchOption {
	return func(q *MultiMatch) { q.MinimumShouldMatch = m }
}

// WithTieBreaker sets the score tie breaker between matching fields.
func WithTieBreaker(t float64) MultiMatchOption {
	return func(q *MultiMatch) { q.TieBreaker = t }
}

// WithMatchType overrides the default best_fields match type.
func WithMatchType(t string) MultiMatchOption {
	return func(q *MultiMatch) { q.MatchType = t }
}

// WithFuzziness enables approximate matching.
func WithFuzziness(f Fuzziness) MultiMatchOption {
	return func(q *MultiMatch) { q.Fuzziness = &f }
}

// WithCutoffFrequency sets the frequency above which terms are treated as stopwords.
func WithCutoffFrequency(f float64) MultiMatchOption {
	return func(q *MultiMatch) { q.CutoffFrequency = f }
}

// NewMultiMatch creates a multi match query. Query text and at least one
// field are required.
func NewMultiMatch(text string, fields map[string]float64, matchOpts []MultiMatchOption, opts ...Option) (*MultiMatch, error) {
	if text == "" {
		return nil, fmt.Errorf("multi match query: query text is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("multi match query: at least one field is required")
	}
	q := &MultiMatch{
		base:      newBase(opts),
		QueryText: text,
		Fields:    fields,
		MatchType: MatchTypeBestFields,
	}
	for _, opt := range matchOpts {
		opt(q)
	}
	return q, nil
}

func (*MultiMatch) QueryType() Type { return TypeMultiMatch }

// SpanTerm matches a single term for use inside span queries.
type SpanTerm struct {
	base
	Field string
	Value any
}

// NewSpanTerm creates a span term clause.
func NewSpanTerm(field string, value any, opts ...Option) (*SpanTerm, error) {
	if field == "" {
		return nil, fmt.Errorf("span term query: field is required")
	}
	if value == nil {
		return nil, fmt.Errorf("span term query: value is required")
	}
	return &SpanTerm{base: newBase(opts), Field: field, Value: value}, nil
}

func (*SpanTerm) QueryType() Type { return TypeSpanTerm }

// SpanNear matches span clauses occurring within slop positions of each other.
type SpanNear struct {
	base
	Clauses []Query
	Slop    int
	InOrder bool
}

// NewSpanNear creates a span near query over the ordered clauses.
func NewSpanNear(clauses []Query, slop int, inOrder bool, opts ...Option) (*SpanNear, error) {
	if len(clauses) == 0 {
		return nil, fmt.Errorf("span near query: at least one clause is required")
	}
	for _, c := range clauses {
		if c.QueryType() != TypeSpanTerm && c.QueryType() != TypeSpanNear {
			return nil, fmt.Errorf("span near query: clause must be a span query, got %q", c.QueryType())
		}
	}
	return &SpanNear{base: newBase(opts), Clauses: clauses, Slop: slop, InOrder: inOrder}, nil
}

func (*SpanNear) QueryType() Type { return TypeSpanNear }
