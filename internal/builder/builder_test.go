package builder

import (
	"io"
	"log/slog"

	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFields() []metadata.Field {
	return []metadata.Field{
		{Code: "sku", Type: metadata.FieldTypeReference, Searchable: true, Filterable: true, SearchWeight: 10},
		{Code: "name", Type: metadata.FieldTypeText, Searchable: true, Filterable: true, Sortable: true, Spellchecked: true, SearchWeight: 5},
		{Code: "description", Type: metadata.FieldTypeText, Searchable: true, Spellchecked: true},
		{Code: "color", Type: metadata.FieldTypeSelect, Filterable: true},
		{Code: "category", Type: metadata.FieldTypeCategory, NestedPath: "category", Filterable: true},
		{Code: "price", Type: metadata.FieldTypePrice, NestedPath: "price", Filterable: true, Sortable: true},
		{Code: "stock", Type: metadata.FieldTypeStock, NestedPath: "stock", Filterable: true},
		{Code: "rating", Type: metadata.FieldTypeFloat, Filterable: true},
		{Code: "created_at", Type: metadata.FieldTypeDate, Filterable: true, Sortable: true},
		{Code: "is_new", Type: metadata.FieldTypeBoolean, Filterable: true},
	}
}

func testConfig() *container.Config {
	return &container.Config{
		EntityType:  "product",
		RequestType: container.RequestTypeSearch,
		Catalog:     search.LocalizedCatalog{Code: "b2c_fr", Locale: "fr_FR", Currency: "EUR"},
		IndexName:   "catalog_b2c_fr_product",
		Mapping:     metadata.NewMapping(testFields()),
		Relevance:   container.DefaultRelevance(),
	}
}
