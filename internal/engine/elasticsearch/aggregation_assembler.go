package elasticsearch

import (
	"fmt"

	"github.com/avelora/catalogsearch/internal/aggregation"
)

// bucketAssembler translates one bucket kind into its DSL body.
type bucketAssembler func(b aggregation.Bucket) (map[string]any, error)

var bucketAssemblers = map[aggregation.Type]bucketAssembler{
	aggregation.TypeTerms:            assembleTermsBucket,
	aggregation.TypeHistogram:        assembleHistogramBucket,
	aggregation.TypeDateHistogram:    assembleDateHistogramBucket,
	aggregation.TypeDateRange:        assembleDateRangeBucket,
	aggregation.TypeGeoDistance:      assembleGeoDistanceBucket,
	aggregation.TypeQueryGroup:       assembleQueryGroupBucket,
	aggregation.TypeSignificantTerms: assembleSignificantTermsBucket,
	aggregation.TypeReverseNested:    assembleReverseNestedBucket,
}

// AssembleAggregations translates request buckets into the "aggregations"
// section of a search body.
func AssembleAggregations(buckets []aggregation.Bucket) (map[string]any, error) {
	aggs := make(map[string]any, len(buckets))
	for _, bucket := range buckets {
		body, err := AssembleBucket(bucket)
		if err != nil {
			return nil, err
		}
		aggs[bucket.BucketName()] = body
	}
	return aggs, nil
}

// AssembleBucket translates one bucket into its DSL body, wrapping it in
// filter and nested envelopes as the bucket options require. Envelopes reuse
// the bucket name so response parsing can unwrap them level by level.
func AssembleBucket(bucket aggregation.Bucket) (map[string]any, error) {
	if bucket == nil {
		return nil, fmt.Errorf("assemble bucket: bucket is nil")
	}
	assemble, ok := bucketAssemblers[bucket.BucketType()]
	if !ok {
		return nil, fmt.Errorf("assemble bucket: unsupported bucket type %q", bucket.BucketType())
	}
	body, err := assemble(bucket)
	if err != nil {
		return nil, err
	}

	if children := bucket.Children(); len(children) > 0 {
		childAggs, err := AssembleAggregations(children)
		if err != nil {
			return nil, fmt.Errorf("bucket %q children: %w", bucket.BucketName(), err)
		}
		body["aggregations"] = childAggs
	}

	if filter := bucket.NestedFilter(); filter != nil {
		assembled, err := AssembleQuery(filter)
		if err != nil {
			return nil, fmt.Errorf("bucket %q nested filter: %w", bucket.BucketName(), err)
		}
		body = wrap(bucket.BucketName(), map[string]any{"filter": assembled}, body)
	}

	if path := bucket.NestedPath(); path != "" {
		body = wrap(bucket.BucketName(), map[string]any{"nested": map[string]any{"path": path}}, body)
	}

	if filter := bucket.Filter(); filter != nil {
		assembled, err := AssembleQuery(filter)
		if err != nil {
			return nil, fmt.Errorf("bucket %q filter: %w", bucket.BucketName(), err)
		}
		body = wrap(bucket.BucketName(), map[string]any{"filter": assembled}, body)
	}

	return body, nil
}

// wrap nests inner under an envelope aggregation keyed by the bucket name.
func wrap(name string, envelope, inner map[string]any) map[string]any {
	envelope["aggregations"] = map[string]any{name: inner}
	return envelope
}

func assembleTermsBucket(b aggregation.Bucket) (map[string]any, error) {
	terms, ok := b.(*aggregation.Terms)
	if !ok {
		return nil, fmt.Errorf("terms bucket assembler: invalid bucket type %q", b.BucketType())
	}
	params := map[string]any{
		"field": terms.Field(),
		"size":  terms.Size,
	}
	switch terms.SortOrder {
	case aggregation.SortOrderTermAsc:
		params["order"] = map[string]any{"_key": "asc"}
	case aggregation.SortOrderTermDesc:
		params["order"] = map[string]any{"_key": "desc"}
	default:
		// Count descending is the engine default; manual ordering is applied
		// by the caller on the returned candidate set.
	}
	if len(terms.Include) > 0 {
		params["include"] = terms.Include
	}
	if len(terms.Exclude) > 0 {
		params["exclude"] = terms.Exclude
	}
	if terms.MinDocCount > 0 {
		params["min_doc_count"] = terms.MinDocCount
	}
	return map[string]any{"terms": params}, nil
}

func assembleHistogramBucket(b aggregation.Bucket) (map[string]any, error) {
	h, ok := b.(*aggregation.Histogram)
	if !ok {
		return nil, fmt.Errorf("histogram bucket assembler: invalid bucket type %q", b.BucketType())
	}
	return map[string]any{"histogram": map[string]any{
		"field":         h.Field(),
		"interval":      h.Interval,
		"min_doc_count": h.MinDocCount,
	}}, nil
}

func assembleDateHistogramBucket(b aggregation.Bucket) (map[string]any, error) {
	h, ok := b.(*aggregation.DateHistogram)
	if !ok {
		return nil, fmt.Errorf("date histogram bucket assembler: invalid bucket type %q", b.BucketType())
	}
	return map[string]any{"date_histogram": map[string]any{
		"field":             h.Field(),
		"calendar_interval": h.Interval,
		"format":            h.Format,
		"min_doc_count":     h.MinDocCount,
	}}, nil
}

func assembleDateRangeBucket(b aggregation.Bucket) (map[string]any, error) {
	r, ok := b.(*aggregation.DateRange)
	if !ok {
		return nil, fmt.Errorf("date range bucket assembler: invalid bucket type %q", b.BucketType())
	}
	return map[string]any{"date_range": map[string]any{
		"field":  r.Field(),
		"format": r.Format,
		"ranges": rangeSpecs(r.Ranges),
	}}, nil
}

func assembleGeoDistanceBucket(b aggregation.Bucket) (map[string]any, error) {
	g, ok := b.(*aggregation.GeoDistance)
	if !ok {
		return nil, fmt.Errorf("geo distance bucket assembler: invalid bucket type %q", b.BucketType())
	}
	return map[string]any{"geo_distance": map[string]any{
		"field":  g.Field(),
		"origin": g.Origin,
		"unit":   g.Unit,
		"ranges": rangeSpecs(g.Ranges),
	}}, nil
}

// assembleQueryGroupBucket renders a query group as a keyed filters
// aggregation: one named bucket per sub-query.
func assembleQueryGroupBucket(b aggregation.Bucket) (map[string]any, error) {
	group, ok := b.(*aggregation.QueryGroup)
	if !ok {
		return nil, fmt.Errorf("query group bucket assembler: invalid bucket type %q", b.BucketType())
	}
	filters := make(map[string]any, len(group.Queries))
	for _, named := range group.Queries {
		assembled, err := AssembleQuery(named.Query)
		if err != nil {
			return nil, fmt.Errorf("query group %q entry %q: %w", group.BucketName(), named.Name, err)
		}
		filters[named.Name] = assembled
	}
	return map[string]any{"filters": map[string]any{"filters": filters}}, nil
}

func assembleSignificantTermsBucket(b aggregation.Bucket) (map[string]any, error) {
	st, ok := b.(*aggregation.SignificantTerms)
	if !ok {
		return nil, fmt.Errorf("significant terms bucket assembler: invalid bucket type %q", b.BucketType())
	}
	params := map[string]any{
		"field":              st.Field(),
		"size":               st.Size,
		"min_doc_count":      st.MinDocCount,
		string(st.Algorithm): map[string]any{},
	}
	return map[string]any{"significant_terms": params}, nil
}

func assembleReverseNestedBucket(b aggregation.Bucket) (map[string]any, error) {
	if _, ok := b.(*aggregation.ReverseNested); !ok {
		return nil, fmt.Errorf("reverse nested bucket assembler: invalid bucket type %q", b.BucketType())
	}
	return map[string]any{"reverse_nested": map[string]any{}}, nil
}

func rangeSpecs(ranges []aggregation.RangeSpec) []map[string]any {
	out := make([]map[string]any, 0, len(ranges))
	for _, r := range ranges {
		spec := make(map[string]any, 2)
		if r.From != nil {
			spec["from"] = r.From
		}
		if r.To != nil {
			spec["to"] = r.To
		}
		out = append(out, spec)
	}
	return out
}
