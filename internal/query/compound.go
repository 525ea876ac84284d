package query

import "fmt"

// Bool combines sub-queries with must/should/mustNot semantics.
type Bool struct {
	base
	Must               []Query
	Should             []Query
	MustNot            []Query
	MinimumShouldMatch int
}

// BoolOption customizes a bool query under construction.
type BoolOption func(*Bool)

// WithMust appends must clauses.
func WithMust(queries ...Query) BoolOption {
	return func(b *Bool) { b.Must = append(b.Must, queries...) }
}

// WithShould appends should clauses.
func WithShould(queries ...Query) BoolOption {
	return func(b *Bool) { b.Should = append(b.Should, queries...) }
}

// WithMustNot appends must-not clauses.
func WithMustNot(queries ...Query) BoolOption {
	return func(b *Bool) { b.MustNot = append(b.MustNot, queries...) }
}

// WithMinimumShouldMatch sets the minimum number of should clauses to match.
func WithMinimumShouldMatch(n int) BoolOption {
	return func(b *Bool) { b.MinimumShouldMatch = n }
}

// NewBool creates a bool query from the given clause options.
func NewBool(boolOpts []BoolOption, opts ...Option) *Bool {
	b := &Bool{base: newBase(opts)}
	for _, opt := range boolOpts {
		opt(b)
	}
	return b
}

func (*Bool) QueryType() Type { return TypeBool }

// Filtered pairs a scoring query with a non-scoring filter. Either part may
// be nil; both nil is a valid match-everything request.
type Filtered struct {
	base
	Query  Query
	Filter Query
}

// NewFiltered creates a filtered query wrapper.
func NewFiltered(q, filter Query, opts ...Option) *Filtered {
	return &Filtered{base: newBase(opts), Query: q, Filter: filter}
}

func (*Filtered) QueryType() Type { return TypeFiltered }

// Nested score modes.
const (
	ScoreModeNone = "none"
	ScoreModeAvg  = "avg"
	ScoreModeSum  = "sum"
	ScoreModeMax  = "max"
	ScoreModeMin  = "min"
)

// Nested scopes an inner query to documents under a nested mapping path.
type Nested struct {
	base
	Path      string
	Query     Query
	ScoreMode string
}

// NewNested creates a nested query. Path and the inner query are required.
func NewNested(path string, inner Query, opts ...Option) (*Nested, error) {
	if path == "" {
		return nil, fmt.Errorf("nested query: path is required")
	}
	if inner == nil {
		return nil, fmt.Errorf("nested query: inner query is required")
	}
	return &Nested{base: newBase(opts), Path: path, Query: inner, ScoreMode: ScoreModeNone}, nil
}

// NewNestedScored creates a nested query with an explicit score mode.
func NewNestedScored(path string, inner Query, scoreMode string, opts ...Option) (*Nested, error) {
	n, err := NewNested(path, inner, opts...)
	if err != nil {
		return nil, err
	}
	n.ScoreMode = scoreMode
	return n, nil
}

func (*Nested) QueryType() Type { return TypeNested }
