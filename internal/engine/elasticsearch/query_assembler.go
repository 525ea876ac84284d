// Package elasticsearch adapts compiled search requests to the Elasticsearch
// query DSL and reshapes raw responses back into the engine-agnostic model.
package elasticsearch

import (
	"fmt"
	"sort"

	"github.com/avelora/catalogsearch/internal/query"
)

// queryAssembler translates one query kind into its DSL body.
type queryAssembler func(q query.Query) (map[string]any, error)

// queryAssemblers maps every discriminant of the query union to its
// assembler. A query kind missing here cannot be executed.
var queryAssemblers map[query.Type]queryAssembler

// The map is populated in init rather than at declaration to break the
// compiler-reported initialization cycle between queryAssemblers and the
// recursive assemblers that dispatch through AssembleQuery.
func init() {
	queryAssemblers = map[query.Type]queryAssembler{
		query.TypeTerm:        assembleTerm,
		query.TypeTerms:       assembleTerms,
		query.TypeBool:        assembleBool,
		query.TypeMultiMatch:  assembleMultiMatch,
		query.TypeNested:      assembleNested,
		query.TypeFiltered:    assembleFiltered,
		query.TypeExists:      assembleExists,
		query.TypeRange:       assembleRange,
		query.TypeDateRange:   assembleDateRange,
		query.TypeGeoDistance: assembleGeoDistance,
		query.TypeSpanTerm:    assembleSpanTerm,
		query.TypeSpanNear:    assembleSpanNear,
		query.TypeMatchAll:    assembleMatchAll,
	}
}

// AssembleQuery translates a query tree into its Elasticsearch DSL body.
func AssembleQuery(q query.Query) (map[string]any, error) {
	if q == nil {
		return nil, fmt.Errorf("assemble query: query is nil")
	}
	assemble, ok := queryAssemblers[q.QueryType()]
	if !ok {
		return nil, fmt.Errorf("assemble query: unsupported query type %q", q.QueryType())
	}
	return assemble(q)
}

func assembleTerm(q query.Query) (map[string]any, error) {
	term, ok := q.(*query.Term)
	if !ok {
		return nil, fmt.Errorf("term assembler: invalid query type %q", q.QueryType())
	}
	params := map[string]any{
		"value": term.Value,
		"boost": term.Boost(),
	}
	if term.QueryName() != "" {
		params["_name"] = term.QueryName()
	}
	return map[string]any{"term": map[string]any{term.Field: params}}, nil
}

func assembleTerms(q query.Query) (map[string]any, error) {
	terms, ok := q.(*query.Terms)
	if !ok {
		return nil, fmt.Errorf("terms assembler: invalid query type %q", q.QueryType())
	}
	body := map[string]any{
		terms.Field: terms.Values,
		"boost":     terms.Boost(),
	}
	if terms.QueryName() != "" {
		body["_name"] = terms.QueryName()
	}
	return map[string]any{"terms": body}, nil
}

func assembleBool(q query.Query) (map[string]any, error) {
	b, ok := q.(*query.Bool)
	if !ok {
		return nil, fmt.Errorf("bool assembler: invalid query type %q", q.QueryType())
	}
	body := map[string]any{"boost": b.Boost()}
	for clause, queries := range map[string][]query.Query{
		"must":     b.Must,
		"should":   b.Should,
		"must_not": b.MustNot,
	} {
		if len(queries) == 0 {
			continue
		}
		assembled, err := assembleAll(queries)
		if err != nil {
			return nil, fmt.Errorf("bool %s clause: %w", clause, err)
		}
		body[clause] = assembled
	}
	if b.MinimumShouldMatch > 0 {
		body["minimum_should_match"] = b.MinimumShouldMatch
	}
	if b.QueryName() != "" {
		body["_name"] = b.QueryName()
	}
	return map[string]any{"bool": body}, nil
}

func assembleMultiMatch(q query.Query) (map[string]any, error) {
	mm, ok := q.(*query.MultiMatch)
	if !ok {
		return nil, fmt.Errorf("multi match assembler: invalid query type %q", q.QueryType())
	}

	// Weighted fields are rendered "property^weight", sorted for
	// deterministic bodies.
	fields := make([]string, 0, len(mm.Fields))
	for property, weight := range mm.Fields {
		fields = append(fields, fmt.Sprintf("%s^%g", property, weight))
	}
	sort.Strings(fields)

	body := map[string]any{
		"query":  mm.QueryText,
		"fields": fields,
		"type":   mm.MatchType,
		"boost":  mm.Boost(),
	}
	if mm.MinimumShouldMatch != "" {
		body["minimum_should_match"] = mm.MinimumShouldMatch
	}
	if mm.TieBreaker > 0 {
		body["tie_breaker"] = mm.TieBreaker
	}
	if mm.CutoffFrequency > 0 {
		body["cutoff_frequency"] = mm.CutoffFrequency
	}
	if mm.Fuzziness != nil {
		body["fuzziness"] = mm.Fuzziness.Value
		body["prefix_length"] = mm.Fuzziness.PrefixLength
		body["max_expansions"] = mm.Fuzziness.MaxExpansion
	}
	if mm.QueryName() != "" {
		body["_name"] = mm.QueryName()
	}
	return map[string]any{"multi_match": body}, nil
}

func assembleNested(q query.Query) (map[string]any, error) {
	nested, ok := q.(*query.Nested)
	if !ok {
		return nil, fmt.Errorf("nested assembler: invalid query type %q", q.QueryType())
	}
	inner, err := AssembleQuery(nested.Query)
	if err != nil {
		return nil, fmt.Errorf("nested query: %w", err)
	}
	body := map[string]any{
		"path":       nested.Path,
		"score_mode": nested.ScoreMode,
		"query":      inner,
		"boost":      nested.Boost(),
	}
	if nested.QueryName() != "" {
		body["_name"] = nested.QueryName()
	}
	return map[string]any{"nested": body}, nil
}

// assembleFiltered renders the query/filter pair as a bool query: the filter
// part constrains the result set without contributing to scoring.
func assembleFiltered(q query.Query) (map[string]any, error) {
	filtered, ok := q.(*query.Filtered)
	if !ok {
		return nil, fmt.Errorf("filtered assembler: invalid query type %q", q.QueryType())
	}

	body := map[string]any{"boost": filtered.Boost()}
	if filtered.Query != nil {
		must, err := AssembleQuery(filtered.Query)
		if err != nil {
			return nil, fmt.Errorf("filtered query part: %w", err)
		}
		body["must"] = []map[string]any{must}
	}
	if filtered.Filter != nil {
		filter, err := AssembleQuery(filtered.Filter)
		if err != nil {
			return nil, fmt.Errorf("filtered filter part: %w", err)
		}
		body["filter"] = []map[string]any{filter}
	}
	if filtered.Query == nil && filtered.Filter == nil {
		return map[string]any{"match_all": map[string]any{"boost": filtered.Boost()}}, nil
	}
	if filtered.QueryName() != "" {
		body["_name"] = filtered.QueryName()
	}
	return map[string]any{"bool": body}, nil
}

func assembleExists(q query.Query) (map[string]any, error) {
	exists, ok := q.(*query.Exists)
	if !ok {
		return nil, fmt.Errorf("exists assembler: invalid query type %q", q.QueryType())
	}
	return map[string]any{"exists": map[string]any{"field": exists.Field}}, nil
}

func assembleRange(q query.Query) (map[string]any, error) {
	r, ok := q.(*query.Range)
	if !ok {
		return nil, fmt.Errorf("range assembler: invalid query type %q", q.QueryType())
	}
	params := boundsParams(r.Bounds)
	params["boost"] = r.Boost()
	return map[string]any{"range": map[string]any{r.Field: params}}, nil
}

func assembleDateRange(q query.Query) (map[string]any, error) {
	r, ok := q.(*query.DateRange)
	if !ok {
		return nil, fmt.Errorf("date range assembler: invalid query type %q", q.QueryType())
	}
	params := boundsParams(r.Bounds)
	params["format"] = r.Format
	params["boost"] = r.Boost()
	return map[string]any{"range": map[string]any{r.Field: params}}, nil
}

func assembleGeoDistance(q query.Query) (map[string]any, error) {
	g, ok := q.(*query.GeoDistance)
	if !ok {
		return nil, fmt.Errorf("geo distance assembler: invalid query type %q", q.QueryType())
	}
	return map[string]any{"geo_distance": map[string]any{
		"distance":          g.Distance,
		"distance_type":     g.DistanceType,
		"validation_method": g.ValidationMethod,
		"boost":             g.Boost(),
		g.Field:             g.Location,
	}}, nil
}

func assembleSpanTerm(q query.Query) (map[string]any, error) {
	span, ok := q.(*query.SpanTerm)
	if !ok {
		return nil, fmt.Errorf("span term assembler: invalid query type %q", q.QueryType())
	}
	return map[string]any{"span_term": map[string]any{
		span.Field: map[string]any{
			"value": span.Value,
			"boost": span.Boost(),
		},
	}}, nil
}

func assembleSpanNear(q query.Query) (map[string]any, error) {
	span, ok := q.(*query.SpanNear)
	if !ok {
		return nil, fmt.Errorf("span near assembler: invalid query type %q", q.QueryType())
	}
	clauses, err := assembleAll(span.Clauses)
	if err != nil {
		return nil, fmt.Errorf("span near clauses: %w", err)
	}
	return map[string]any{"span_near": map[string]any{
		"clauses":  clauses,
		"slop":     span.Slop,
		"in_order": span.InOrder,
		"boost":    span.Boost(),
	}}, nil
}

func assembleMatchAll(q query.Query) (map[string]any, error) {
	if _, ok := q.(*query.MatchAll); !ok {
		return nil, fmt.Errorf("match all assembler: invalid query type %q", q.QueryType())
	}
	return map[string]any{"match_all": map[string]any{"boost": q.Boost()}}, nil
}

func assembleAll(queries []query.Query) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(queries))
	for _, q := range queries {
		assembled, err := AssembleQuery(q)
		if err != nil {
			return nil, err
		}
		out = append(out, assembled)
	}
	return out, nil
}

func boundsParams(b query.Bounds) map[string]any {
	params := make(map[string]any, 5)
	if b.Gte != nil {
		params["gte"] = b.Gte
	}
	if b.Gt != nil {
		params["gt"] = b.Gt
	}
	if b.Lte != nil {
		params["lte"] = b.Lte
	}
	if b.Lt != nil {
		params["lt"] = b.Lt
	}
	return params
}
