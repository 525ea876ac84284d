package app

import "github.com/avelora/catalogsearch/internal/metadata"

// newStaticMetadata seeds a product catalog definition usable without a
// metadata service. Local development only.
func newStaticMetadata() *metadata.StaticProvider {
	provider := metadata.NewStaticProvider()
	provider.RegisterEntity("product", []metadata.Field{
		{Code: "sku", Type: metadata.FieldTypeReference, Searchable: true, Filterable: true, SearchWeight: 10},
		{Code: "name", Type: metadata.FieldTypeText, Searchable: true, Filterable: true, Sortable: true, Spellchecked: true, SearchWeight: 5},
		{Code: "description", Type: metadata.FieldTypeText, Searchable: true, Spellchecked: true},
		{Code: "brand", Type: metadata.FieldTypeSelect, Searchable: true, Filterable: true, SearchWeight: 2},
		{Code: "color", Type: metadata.FieldTypeSelect, Filterable: true},
		{Code: "category", Type: metadata.FieldTypeCategory, NestedPath: "category", Filterable: true},
		{Code: "price", Type: metadata.FieldTypePrice, NestedPath: "price", Filterable: true, Sortable: true},
		{Code: "stock", Type: metadata.FieldTypeStock, NestedPath: "stock", Filterable: true},
		{Code: "created_at", Type: metadata.FieldTypeDate, Filterable: true, Sortable: true},
	})
	return provider
}
