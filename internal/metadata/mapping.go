package metadata

// Subfield suffixes produced by the index analysis chain. Text fields are
// indexed under several analyzers so that the fulltext builder and the
// spellchecker can pick the matching strategy per spelling quality.
const (
	SubfieldSearch     = "search"
	SubfieldWhitespace = "whitespace"
	SubfieldReference  = "reference"
	SubfieldEdgeNgram  = "edge_ngram"
	SubfieldSortable   = "sortable"
	SubfieldUntouched  = "untouched"
)

// Mapping is the resolved field mapping of one container configuration:
// every source field of the entity, keyed by code, in provider order.
type Mapping struct {
	byCode  map[string]Field
	ordered []Field
}

// NewMapping builds a mapping from a field list. Later duplicates of a code
// override earlier ones.
func NewMapping(fields []Field) *Mapping {
	m := &Mapping{
		byCode:  make(map[string]Field, len(fields)),
		ordered: make([]Field, 0, len(fields)),
	}
	position := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, exists := position[f.Code]; exists {
			// A duplicate keeps the first occurrence's position but
			// carries the later definition.
			m.ordered[i] = f
		} else {
			position[f.Code] = len(m.ordered)
			m.ordered = append(m.ordered, f)
		}
		m.byCode[f.Code] = f
	}
	return m
}

// Field looks up a field by code.
func (m *Mapping) Field(code string) (Field, bool) {
	f, ok := m.byCode[code]
	return f, ok
}

// Fields returns all fields in provider order.
func (m *Mapping) Fields() []Field {
	out := make([]Field, len(m.ordered))
	copy(out, m.ordered)
	return out
}

// SearchableFields returns the fields flagged searchable, in provider order.
func (m *Mapping) SearchableFields() []Field {
	return m.filter(func(f Field) bool { return f.Searchable })
}

// FilterableFields returns the fields flagged filterable, in provider order.
func (m *Mapping) FilterableFields() []Field {
	return m.filter(func(f Field) bool { return f.Filterable })
}

// SortableFields returns the fields flagged sortable, in provider order.
func (m *Mapping) SortableFields() []Field {
	return m.filter(func(f Field) bool { return f.Sortable })
}

// SpellcheckedFields returns the fields included in spellcheck analysis.
func (m *Mapping) SpellcheckedFields() []Field {
	return m.filter(func(f Field) bool { return f.Spellchecked })
}

func (m *Mapping) filter(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range m.ordered {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// WeightedSearchProperties expands the searchable fields into the
// "property^weight" map consumed by multi match queries. Text fields are
// addressed through their analyzed subfield; an optional subfield (e.g.
// whitespace) selects an alternate analyzer.
func (m *Mapping) WeightedSearchProperties(subfield string, boost float64) map[string]float64 {
	if boost <= 0 {
		boost = 1
	}
	props := make(map[string]float64)
	for _, f := range m.SearchableFields() {
		props[SearchProperty(f, subfield)] = float64(f.Weight()) * boost
	}
	return props
}

// SearchProperty returns the index property a fulltext query should address
// for the given field. Analyzed types expose subfields under the field code.
func SearchProperty(f Field, subfield string) string {
	switch f.Type {
	case FieldTypeText, FieldTypeSelect, FieldTypeCategory, FieldTypeReference:
		if subfield == "" {
			subfield = SubfieldSearch
		}
		return f.Code + "." + subfield
	default:
		return f.Code
	}
}
