package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMappingFields() []Field {
	return []Field{
		{Code: "sku", Type: FieldTypeReference, Searchable: true, SearchWeight: 10},
		{Code: "name", Type: FieldTypeText, Searchable: true, SearchWeight: 5, Sortable: true, Spellchecked: true},
		{Code: "color", Type: FieldTypeSelect, Filterable: true},
		{Code: "price", Type: FieldTypePrice, NestedPath: "price", Filterable: true, Sortable: true},
		{Code: "created_at", Type: FieldTypeDate, Filterable: true},
	}
}

func TestMapping_Lookup(t *testing.T) {
	m := NewMapping(testMappingFields())

	f, ok := m.Field("name")
	require.True(t, ok)
	assert.Equal(t, FieldTypeText, f.Type)

	_, ok = m.Field("missing")
	assert.False(t, ok)
}

func TestMapping_PreservesProviderOrder(t *testing.T) {
	m := NewMapping(testMappingFields())

	var codes []string
	for _, f := range m.Fields() {
		codes = append(codes, f.Code)
	}
	assert.Equal(t, []string{"sku", "name", "color", "price", "created_at"}, codes)
}

func TestMapping_LaterDuplicateOverrides(t *testing.T) {
	m := NewMapping([]Field{
		{Code: "name", Type: FieldTypeText, Searchable: true},
		{Code: "brand", Type: FieldTypeSelect},
		{Code: "name", Type: FieldTypeText, Sortable: true},
	})

	f, _ := m.Field("name")
	assert.True(t, f.Sortable)

	// The ordered views serve the overriding definition at the original
	// position.
	fields := m.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Code)
	assert.True(t, fields[0].Sortable)

	sortable := m.SortableFields()
	require.Len(t, sortable, 1)
	assert.Equal(t, "name", sortable[0].Code)
	assert.Empty(t, m.SearchableFields())
}

func TestMapping_FlagFilters(t *testing.T) {
	m := NewMapping(testMappingFields())

	assert.Len(t, m.SearchableFields(), 2)
	assert.Len(t, m.FilterableFields(), 3)
	assert.Len(t, m.SortableFields(), 2)

	spellchecked := m.SpellcheckedFields()
	require.Len(t, spellchecked, 1)
	assert.Equal(t, "name", spellchecked[0].Code)
}

func TestMapping_WeightedSearchProperties(t *testing.T) {
	m := NewMapping(testMappingFields())

	props := m.WeightedSearchProperties("", 1)
	assert.Equal(t, map[string]float64{
		"sku.search":  10,
		"name.search": 5,
	}, props)

	// An explicit subfield switches the analyzer; boost scales the weights.
	props = m.WeightedSearchProperties(SubfieldWhitespace, 2)
	assert.Equal(t, map[string]float64{
		"sku.whitespace":  20,
		"name.whitespace": 10,
	}, props)
}

func TestSearchProperty(t *testing.T) {
	assert.Equal(t, "name.search", SearchProperty(Field{Code: "name", Type: FieldTypeText}, ""))
	assert.Equal(t, "name.edge_ngram", SearchProperty(Field{Code: "name", Type: FieldTypeText}, SubfieldEdgeNgram))
	// Non-analyzed types are addressed directly.
	assert.Equal(t, "rating", SearchProperty(Field{Code: "rating", Type: FieldTypeFloat}, SubfieldSearch))
}

func TestFieldWeight(t *testing.T) {
	assert.Equal(t, 1, Field{}.Weight())
	assert.Equal(t, 7, Field{SearchWeight: 7}.Weight())
}
