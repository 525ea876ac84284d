package query

import "fmt"

// Bounds holds the open/closed bounds of a range query. Nil bounds are omitted.
type Bounds struct {
	Gte any
	Gt  any
	Lte any
	Lt  any
}

// IsEmpty reports whether no bound is set.
func (b Bounds) IsEmpty() bool {
	return b.Gte == nil && b.Gt == nil && b.Lte == nil && b.Lt == nil
}

// Range matches documents whose field value falls within bounds.
type Range struct {
	base
	Field  string
	Bounds Bounds
}

// NewRange creates a range query. Field and at least one bound are required.
func NewRange(field string, bounds Bounds, opts ...Option) (*Range, error) {
	if field == "" {
		return nil, fmt.Errorf("range query: field is required")
	}
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("range query: at least one bound is required")
	}
	return &Range{base: newBase(opts), Field: field, Bounds: bounds}, nil
}

func (*Range) QueryType() Type { return TypeRange }

// DefaultDateFormat is the date format applied when none is configured.
const DefaultDateFormat = "yyyy-MM-dd"

// DateRange matches documents whose date field falls within bounds, parsed
// with the given format.
type DateRange struct {
	base
	Field  string
	Bounds Bounds
	Format string
}

// NewDateRange creates a date range query.
func NewDateRange(field string, bounds Bounds, format string, opts ...Option) (*DateRange, error) {
	if field == "" {
		return nil, fmt.Errorf("date range query: field is required")
	}
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("date range query: at least one bound is required")
	}
	if format == "" {
		format = DefaultDateFormat
	}
	return &DateRange{base: newBase(opts), Field: field, Bounds: bounds, Format: format}, nil
}

func (*DateRange) QueryType() Type { return TypeDateRange }

// Geo distance defaults.
const (
	DefaultDistanceType     = "arc"
	DefaultValidationMethod = "STRICT"
)

// GeoDistance matches documents within distance of a reference location.
// Location uses the "lat,lon" string form.
type GeoDistance struct {
	base
	Field            string
	Location         string
	Distance         string
	DistanceType     string
	ValidationMethod string
}

// NewGeoDistance creates a geo distance query.
func NewGeoDistance(field, location, distance string, opts ...Option) (*GeoDistance, error) {
	if field == "" {
		return nil, fmt.Errorf("geo distance query: field is required")
	}
	if location == "" {
		return nil, fmt.Errorf("geo distance query: location is required")
	}
	if distance == "" {
		return nil, fmt.Errorf("geo distance query: distance is required")
	}
	return &GeoDistance{
		base:             newBase(opts),
		Field:            field,
		Location:         location,
		Distance:         distance,
		DistanceType:     DefaultDistanceType,
		ValidationMethod: DefaultValidationMethod,
	}, nil
}

func (*GeoDistance) QueryType() Type { return TypeGeoDistance }
