package aggregation

import "fmt"

// RangeSpec is a single half-open range of a ranged bucket. At least one of
// From/To must be set.
type RangeSpec struct {
	From any `json:"from,omitempty"`
	To   any `json:"to,omitempty"`
}

func validateRanges(kind string, ranges []RangeSpec) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%s bucket: at least one range is required", kind)
	}
	for i, r := range ranges {
		if r.From == nil && r.To == nil {
			return fmt.Errorf("%s bucket: range %d needs 'from' and/or 'to'", kind, i)
		}
	}
	return nil
}

// DateRange buckets documents into explicit date ranges.
type DateRange struct {
	base
	Ranges []RangeSpec
	Format string
}

// NewDateRange creates a date range bucket over the given ranges.
func NewDateRange(name, field string, ranges []RangeSpec, format string, opts ...Option) (*DateRange, error) {
	if name == "" {
		return nil, fmt.Errorf("date range bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("date range bucket: field is required")
	}
	if err := validateRanges("date range", ranges); err != nil {
		return nil, err
	}
	if format == "" {
		format = "yyyy-MM-dd"
	}
	return &DateRange{
		base:   newBase(name, field, opts),
		Ranges: ranges,
		Format: format,
	}, nil
}

func (*DateRange) BucketType() Type { return TypeDateRange }

// GeoDistance buckets documents into distance rings around an origin.
type GeoDistance struct {
	base
	Origin string
	Unit   string
	Ranges []RangeSpec
}

// NewGeoDistance creates a geo distance bucket. Origin uses the "lat,lon"
// string form; unit defaults to kilometers.
func NewGeoDistance(name, field, origin, unit string, ranges []RangeSpec, opts ...Option) (*GeoDistance, error) {
	if name == "" {
		return nil, fmt.Errorf("geo distance bucket: name is required")
	}
	if field == "" {
		return nil, fmt.Errorf("geo distance bucket: field is required")
	}
	if origin == "" {
		return nil, fmt.Errorf("geo distance bucket: origin is required")
	}
	if err := validateRanges("geo distance", ranges); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = "km"
	}
	return &GeoDistance{
		base:   newBase(name, field, opts),
		Origin: origin,
		Unit:   unit,
		Ranges: ranges,
	}, nil
}

func (*GeoDistance) BucketType() Type { return TypeGeoDistance }
