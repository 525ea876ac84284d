package aggregation

import "fmt"

// SortOrder controls the ordering of term buckets in a response.
type SortOrder string

const (
	// SortOrderCountDesc orders buckets by descending document count (default).
	SortOrderCountDesc SortOrder = "result_count"
	// SortOrderTermAsc orders buckets by ascending term.
	SortOrderTermAsc SortOrder = "term_asc"
	// SortOrderTermDesc orders buckets by descending term.
	SortOrderTermDesc SortOrder = "term_desc"
	// SortOrderManual keeps the caller-supplied candidate order; the fixed
	// candidate list is carried by Include and the size limit is lifted.
	SortOrderManual SortOrder = "manual"
)

// Terms buckets documents by the distinct values of a field.
type Terms struct {
	base
	Size        int
	SortOrder   SortOrder
	Include     []any
	Exclude     []any
	MinDocCount int
}

// TermsOption customizes a terms bucket under construction.
type TermsOption func(*Terms)

// WithSize requests a bucket count limit (0 = unbounded, clamped to the ceiling).
func WithSize(size int) TermsOption {
	return func(t *Terms) { t.Size = CoerceSize(size) }
}

// WithSortOrder overrides the default count-descending bucket order.
func WithSortOrder(order SortOrder) TermsOption {
	return func(t *Terms) { t.SortOrder = order }
}

// WithInclude restricts bucketing to the given candidate values.
func WithInclude(values ...any) TermsOption {
	return func(t *Terms) { t.Include = append(t.Include, values...) }
}

// WithExclude removes the given values from bucketing.
func WithExclude(values ...any) TermsOption {
	return func(t *Terms) { t.Exclude = append(t.Exclude, values...) }
}

// WithMinDocCount sets the minimum document count for a bucket to be returned.
func WithMinDocCount(n int) TermsOption {
	return func(t *Terms) { t.MinDocCount = n }
}

// NewTerms creates a terms bucket on the given field.
func NewTerms(name, field string, termsOpts []TermsOption, opts ...Option) (*Terms, error) {
	if name == "" {
		return nil, fmt.Errorf("terms bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("terms bucket: field is required")
	}
	t := &Terms{
		base:      newBase(name, field, opts),
		Size:      CoerceSize(0),
		SortOrder: SortOrderCountDesc,
	}
	for _, opt := range termsOpts {
		opt(t)
	}
	return t, nil
}

func (*Terms) BucketType() Type { return TypeTerms }

// SignificantTerms algorithm heuristics.
type Algorithm string

const (
	AlgorithmGND               Algorithm = "gnd"
	AlgorithmChiSquare         Algorithm = "chi_square"
	AlgorithmJLH               Algorithm = "jlh"
	AlgorithmMutualInformation Algorithm = "mutual_information"
	AlgorithmPercentage        Algorithm = "percentage"
)

// SignificantTerms buckets documents by terms that are unusually frequent in
// the result set compared to the index background.
type SignificantTerms struct {
	base
	Size        int
	MinDocCount int
	Algorithm   Algorithm
}

// NewSignificantTerms creates a significant terms bucket. The GND heuristic
// is used unless overridden.
func NewSignificantTerms(name, field string, size, minDocCount int, algorithm Algorithm, opts ...Option) (*SignificantTerms, error) {
	if name == "" {
		return nil, fmt.Errorf("significant terms bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("significant terms bucket: field is required")
	}
	if algorithm == "" {
		algorithm = AlgorithmGND
	}
	return &SignificantTerms{
		base:        newBase(name, field, opts),
		Size:        CoerceSize(size),
		MinDocCount: minDocCount,
		Algorithm:   algorithm,
	}, nil
}

func (*SignificantTerms) BucketType() Type { return TypeSignificantTerms }
