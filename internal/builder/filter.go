// Package builder turns abstract search input (free text, structured
// filters, sort and facet requests) into the compiled query model, using the
// container configuration resolved for the request scope.
package builder

import (
	"fmt"
	"sort"

	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

// Operator is a structured filter operator.
type Operator string

const (
	OpEq     Operator = "eq"
	OpIn     Operator = "in"
	OpGte    Operator = "gte"
	OpGt     Operator = "gt"
	OpLte    Operator = "lte"
	OpLt     Operator = "lt"
	OpExists Operator = "exists"
	OpMatch  Operator = "match"
)

// FilterSet maps field codes to their requested operator/value pairs.
type FilterSet map[string]map[Operator]any

// FilterQueryBuilder translates a filter set into a query tree. Fields whose
// mapping places them under a nested path are automatically wrapped in a
// nested query scoped to that path.
//
// Invalid input never aborts the build: problems are collected as
// human-readable messages so the caller can report them all at once.
type FilterQueryBuilder struct{}

// NewFilterQueryBuilder creates a filter query builder.
func NewFilterQueryBuilder() *FilterQueryBuilder {
	return &FilterQueryBuilder{}
}

// Create builds the filter query for the given set. It returns nil when the
// set is empty or nothing valid remains, together with any validation
// messages.
func (b *FilterQueryBuilder) Create(cfg *container.Config, sctx search.Context, filters FilterSet) (query.Query, []string) {
	if len(filters) == 0 {
		return nil, nil
	}

	// Deterministic field order regardless of map iteration.
	codes := make([]string, 0, len(filters))
	for code := range filters {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var clauses []query.Query
	var messages []string

	for _, code := range codes {
		field, ok := cfg.Mapping.Field(code)
		if !ok {
			messages = append(messages, fmt.Sprintf("unknown filter field %q", code))
			continue
		}
		if !field.Filterable {
			messages = append(messages, fmt.Sprintf("field %q is not filterable", code))
			continue
		}

		clause, msgs := b.buildFieldFilter(field, sctx, filters[code])
		messages = append(messages, msgs...)
		if clause == nil {
			continue
		}

		if field.IsNested() {
			nested, err := query.NewNested(field.NestedPath, clause)
			if err != nil {
				messages = append(messages, fmt.Sprintf("field %q: %v", code, err))
				continue
			}
			clause = nested
		}
		clauses = append(clauses, clause)
	}

	switch len(clauses) {
	case 0:
		return nil, messages
	case 1:
		return clauses[0], messages
	default:
		return query.NewBool([]query.BoolOption{query.WithMust(clauses...)}), messages
	}
}

// buildFieldFilter builds the leaf query for one field. Range operators of
// the same field are merged into a single range query.
func (b *FilterQueryBuilder) buildFieldFilter(field metadata.Field, sctx search.Context, operators map[Operator]any) (query.Query, []string) {
	var clauses []query.Query
	var messages []string
	var bounds query.Bounds

	// Deterministic operator order.
	ops := make([]string, 0, len(operators))
	for op := range operators {
		ops = append(ops, string(op))
	}
	sort.Strings(ops)

	property := FilterProperty(field)

	for _, opName := range ops {
		op := Operator(opName)
		value := operators[op]

		switch op {
		case OpEq:
			clause, err := equalityQuery(property, value)
			if err != nil {
				messages = append(messages, fmt.Sprintf("field %q: %v", field.Code, err))
				continue
			}
			clauses = append(clauses, clause)

		case OpIn:
			values, ok := toSlice(value)
			if !ok || len(values) == 0 {
				messages = append(messages, fmt.Sprintf("field %q: 'in' requires a non-empty list", field.Code))
				continue
			}
			clause, err := query.NewTerms(property, values)
			if err != nil {
				messages = append(messages, fmt.Sprintf("field %q: %v", field.Code, err))
				continue
			}
			clauses = append(clauses, clause)

		case OpGte:
			bounds.Gte = value
		case OpGt:
			bounds.Gt = value
		case OpLte:
			bounds.Lte = value
		case OpLt:
			bounds.Lt = value

		case OpExists:
			clause, err := query.NewExists(field.Code)
			if err != nil {
				messages = append(messages, fmt.Sprintf("field %q: %v", field.Code, err))
				continue
			}
			clauses = append(clauses, clause)

		case OpMatch:
			text, ok := value.(string)
			if !ok || text == "" {
				messages = append(messages, fmt.Sprintf("field %q: 'match' requires a non-empty string", field.Code))
				continue
			}
			matchProperty := metadata.SearchProperty(field, "")
			clause, err := query.NewMultiMatch(text, map[string]float64{matchProperty: float64(field.Weight())}, nil)
			if err != nil {
				messages = append(messages, fmt.Sprintf("field %q: %v", field.Code, err))
				continue
			}
			clauses = append(clauses, clause)

		default:
			messages = append(messages, fmt.Sprintf("field %q: unsupported operator %q", field.Code, op))
		}
	}

	if !bounds.IsEmpty() {
		clause, err := rangeQuery(field, property, bounds)
		if err != nil {
			messages = append(messages, fmt.Sprintf("field %q: %v", field.Code, err))
		} else {
			clauses = append(clauses, clause)
		}
	}

	// Price filters are additionally constrained to the caller's price group
	// so a customer only filters within the prices it actually sees.
	if field.Type == metadata.FieldTypePrice && sctx.PriceGroupID != "" && len(clauses) > 0 {
		group, err := query.NewTerm(field.Code+".group_id", sctx.PriceGroupID)
		if err == nil {
			clauses = append(clauses, group)
		}
	}

	switch len(clauses) {
	case 0:
		return nil, messages
	case 1:
		return clauses[0], messages
	default:
		return query.NewBool([]query.BoolOption{query.WithMust(clauses...)}), messages
	}
}

// FilterProperty returns the index property a structured filter should
// address for the given field: analyzed types are filtered through their
// normalized subfield, composite types through their value component.
func FilterProperty(f metadata.Field) string {
	switch f.Type {
	case metadata.FieldTypeText:
		return f.Code + "." + metadata.SubfieldUntouched
	case metadata.FieldTypeSelect:
		return f.Code + ".value"
	case metadata.FieldTypeCategory:
		return f.Code + ".id"
	case metadata.FieldTypeStock:
		return f.Code + ".status"
	case metadata.FieldTypePrice:
		return f.Code + ".price"
	default:
		return f.Code
	}
}

func equalityQuery(property string, value any) (query.Query, error) {
	if values, ok := toSlice(value); ok {
		return query.NewTerms(property, values)
	}
	return query.NewTerm(property, value)
}

func rangeQuery(field metadata.Field, property string, bounds query.Bounds) (query.Query, error) {
	if field.Type == metadata.FieldTypeDate {
		return query.NewDateRange(property, bounds, "")
	}
	return query.NewRange(property, bounds)
}

// toSlice normalizes list-valued filter input.
func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
