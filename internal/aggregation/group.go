package aggregation

import (
	"fmt"

	"github.com/avelora/catalogsearch/internal/query"
)

// NamedQuery pairs a response key with its sub-query inside a query group.
type NamedQuery struct {
	Name  string
	Query query.Query
}

// QueryGroup buckets documents by a fixed set of named sub-queries instead of
// a field (e.g. one bucket per child category).
type QueryGroup struct {
	base
	Queries []NamedQuery
}

// NewQueryGroup creates a query group bucket. The group may be empty (e.g. a
// category with no children) and then yields no buckets.
func NewQueryGroup(name string, queries []NamedQuery, opts ...Option) (*QueryGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("query group bucket: name is required")
	}
	for _, nq := range queries {
		if nq.Name == "" || nq.Query == nil {
			return nil, fmt.Errorf("query group bucket: every entry needs a name and a query")
		}
	}
	return &QueryGroup{base: newBase(name, "", opts), Queries: queries}, nil
}

func (*QueryGroup) BucketType() Type { return TypeQueryGroup }

// ReverseNested steps back out of a nested context so child aggregations can
// count root documents.
type ReverseNested struct {
	base
}

// NewReverseNested creates a reverse nested bucket.
func NewReverseNested(name string, opts ...Option) (*ReverseNested, error) {
	if name == "" {
		return nil, fmt.Errorf("reverse nested bucket: name is required")
	}
	return &ReverseNested{base: newBase(name, "", opts)}, nil
}

func (*ReverseNested) BucketType() Type { return TypeReverseNested }
