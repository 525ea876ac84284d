package query

import "fmt"

// Term matches documents where field holds exactly value.
type Term struct {
	base
	Field string
	Value any
}

// NewTerm creates a term query. Field and value are required.
func NewTerm(field string, value any, opts ...Option) (*Term, error) {
	if field == "" {
		return nil, fmt.Errorf("term query: field is required")
	}
	if value == nil {
		return nil, fmt.Errorf("term query: value is required")
	}
	return &Term{base: newBase(opts), Field: field, Value: value}, nil
}

func (*Term) QueryType() Type { return TypeTerm }

// Terms matches documents where field holds any of the given values.
type Terms struct {
	base
	Field  string
	Values []any
}

// NewTerms creates a terms query. Field and at least one value are required.
func NewTerms(field string, values []any, opts ...Option) (*Terms, error) {
	if field == "" {
		return nil, fmt.Errorf("terms query: field is required")
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("terms query: at least one value is required")
	}
	return &Terms{base: newBase(opts), Field: field, Values: values}, nil
}

func (*Terms) QueryType() Type { return TypeTerms }

// Exists matches documents where field has any value.
type Exists struct {
	base
	Field string
}

// NewExists creates an exists query.
func NewExists(field string, opts ...Option) (*Exists, error) {
	if field == "" {
		return nil, fmt.Errorf("exists query: field is required")
	}
	return &Exists{base: newBase(opts), Field: field}, nil
}

func (*Exists) QueryType() Type { return TypeExists }

// MatchAll matches every document.
type MatchAll struct {
	base
}

// NewMatchAll creates a match-all query.
func NewMatchAll(opts ...Option) *MatchAll {
	return &MatchAll{base: newBase(opts)}
}

func (*MatchAll) QueryType() Type { return TypeMatchAll }
