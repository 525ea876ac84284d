package aggregation

import "fmt"

// Histogram buckets documents by fixed-width numeric intervals.
type Histogram struct {
	base
	Interval    float64
	MinDocCount int
}

// NewHistogram creates a numeric histogram bucket.
func NewHistogram(name, field string, interval float64, minDocCount int, opts ...Option) (*Histogram, error) {
	if name == "" {
		return nil, fmt.Errorf("histogram bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("histogram bucket: field is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("histogram bucket: interval must be positive")
	}
	return &Histogram{
		base:        newBase(name, field, opts),
		Interval:    interval,
		MinDocCount: minDocCount,
	}, nil
}

func (*Histogram) BucketType() Type { return TypeHistogram }

// DateHistogram buckets documents by calendar intervals (e.g. "1M", "1y").
type DateHistogram struct {
	base
	Interval    string
	Format      string
	MinDocCount int
}

// NewDateHistogram creates a date histogram bucket.
func NewDateHistogram(name, field, interval, format string, minDocCount int, opts ...Option) (*DateHistogram, error) {
	if name == "" {
		return nil, fmt.Errorf("date histogram bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("date histogram bucket: field is required")
	}
	if interval == "" {
		return nil, fmt.Errorf("date histogram bucket: interval is required")
	}
	if format == "" {
		format = "yyyy-MM-dd"
	}
	return &DateHistogram{
		base:        newBase(name, field, opts),
		Interval:    interval,
		Format:      format,
		MinDocCount: minDocCount,
	}, nil
}

func (*DateHistogram) BucketType() Type { return TypeDateHistogram }
