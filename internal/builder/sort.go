package builder

import (
	"fmt"

	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
)

// SortSpec is a caller-provided sort request.
type SortSpec struct {
	Field     string
	Direction search.Direction
}

// SortOrderBuilder resolves sort requests against the container mapping and
// appends the tie breaker that keeps pagination stable when the primary
// criterion has duplicate values.
type SortOrderBuilder struct{}

// NewSortOrderBuilder creates a sort order builder.
func NewSortOrderBuilder() *SortOrderBuilder {
	return &SortOrderBuilder{}
}

// Create resolves the given specs into sort orders. When no valid spec is
// provided the container's default sort applies, falling back to relevance.
func (b *SortOrderBuilder) Create(cfg *container.Config, sctx search.Context, specs []SortSpec) ([]search.SortOrder, []string) {
	var orders []search.SortOrder
	var messages []string

	for _, spec := range specs {
		order, err := b.resolve(cfg, spec)
		if err != nil {
			messages = append(messages, err.Error())
			continue
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		if cfg.DefaultSort != nil {
			orders = cfg.DefaultSort.DefaultSort(sctx)
		}
		if len(orders) == 0 {
			orders = []search.SortOrder{{Field: search.SortFieldScore, Direction: search.SortDesc}}
		}
	}

	return appendTieBreaker(orders), messages
}

func (b *SortOrderBuilder) resolve(cfg *container.Config, spec SortSpec) (search.SortOrder, error) {
	direction := spec.Direction
	if direction == "" {
		direction = search.SortAsc
	}
	if direction != search.SortAsc && direction != search.SortDesc {
		return search.SortOrder{}, fmt.Errorf("invalid sort direction %q for field %q", spec.Direction, spec.Field)
	}

	switch spec.Field {
	case "":
		return search.SortOrder{}, fmt.Errorf("sort field is required")
	case search.SortFieldScore, search.SortFieldDoc:
		return search.SortOrder{Field: spec.Field, Direction: direction}, nil
	}

	field, ok := cfg.Mapping.Field(spec.Field)
	if !ok {
		return search.SortOrder{}, fmt.Errorf("unknown sort field %q", spec.Field)
	}
	if !field.Sortable {
		return search.SortOrder{}, fmt.Errorf("field %q is not sortable", spec.Field)
	}
	return search.SortOrder{Field: SortProperty(field), Direction: direction}, nil
}

// SortProperty returns the index property sorting addresses for a field.
// Analyzed types sort through their normalized keyword subfield.
func SortProperty(f metadata.Field) string {
	switch f.Type {
	case metadata.FieldTypeText, metadata.FieldTypeSelect:
		return f.Code + "." + metadata.SubfieldSortable
	case metadata.FieldTypePrice:
		return f.Code + ".price"
	default:
		return f.Code
	}
}

// appendTieBreaker adds a document id sort after the last order unless one is
// already present.
func appendTieBreaker(orders []search.SortOrder) []search.SortOrder {
	for _, order := range orders {
		if order.Field == search.SortFieldDoc {
			return orders
		}
	}
	return append(orders, search.SortOrder{Field: search.SortFieldDoc, Direction: search.SortAsc})
}
