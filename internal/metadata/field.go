package metadata

// FieldType identifies the functional type of a source field. It drives
// aggregation resolution, filter construction and fulltext weighting.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeKeyword   FieldType = "keyword"
	FieldTypeSelect    FieldType = "select"
	FieldTypePrice     FieldType = "price"
	FieldTypeStock     FieldType = "stock"
	FieldTypeCategory  FieldType = "category"
	FieldTypeDate      FieldType = "date"
	FieldTypeLocation  FieldType = "location"
	FieldTypeInt       FieldType = "int"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeReference FieldType = "reference"
)

// Field describes a single source field of an entity as exposed by the
// metadata provider.
type Field struct {
	Code         string    `json:"code"`
	Type         FieldType `json:"type"`
	NestedPath   string    `json:"nested_path,omitempty"`
	Searchable   bool      `json:"is_searchable"`
	Filterable   bool      `json:"is_filterable"`
	Sortable     bool      `json:"is_sortable"`
	Spellchecked bool      `json:"is_spellchecked"`
	SearchWeight int       `json:"search_weight"`
}

// IsNested reports whether the field lives inside a nested document.
func (f Field) IsNested() bool {
	return f.NestedPath != ""
}

// Weight returns the configured search weight, defaulting to 1.
func (f Field) Weight() int {
	if f.SearchWeight <= 0 {
		return 1
	}
	return f.SearchWeight
}

// Facet sort order values carried by facet configurations.
const (
	FacetSortResultCount = "result_count"
	FacetSortTermAsc     = "term_asc"
	FacetSortTermDesc    = "term_desc"
	FacetSortManual      = "manual"
)

// FacetConfiguration holds the per-field, per-category facet display settings.
type FacetConfiguration struct {
	SortOrder   string   `json:"sort_order"`
	MaxSize     int      `json:"max_size"`
	DisplayMode string   `json:"display_mode"`
	ManualOrder []string `json:"manual_order,omitempty"`
}
