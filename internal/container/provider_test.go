package container

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMetadata() *metadata.StaticProvider {
	static := metadata.NewStaticProvider()
	static.RegisterEntity("product", []metadata.Field{
		{Code: "name", Type: metadata.FieldTypeText, Searchable: true},
	})
	static.RegisterEntity("category", []metadata.Field{
		{Code: "name", Type: metadata.FieldTypeText, Searchable: true},
	})
	return static
}

func testCatalog() search.LocalizedCatalog {
	return search.LocalizedCatalog{Code: "b2c_fr", Locale: "fr_FR", Currency: "EUR"}
}

func TestProvider_Get(t *testing.T) {
	p := NewProvider(newTestLogger())
	p.Register(GenericEntityType, RequestTypeSearch, &BaseFactory{
		RequestType: RequestTypeSearch,
		IndexPrefix: "catalog",
		Metadata:    newTestMetadata(),
		Relevance:   DefaultRelevance(),
	})

	cfg, err := p.Get(context.Background(), "product", testCatalog(), RequestTypeSearch)
	require.NoError(t, err)

	assert.Equal(t, "product", cfg.EntityType)
	assert.Equal(t, RequestTypeSearch, cfg.RequestType)
	assert.Equal(t, "catalog_b2c_fr_product", cfg.IndexName)
	assert.True(t, cfg.TrackTotalHits.Enabled)
}

func TestProvider_CachesPerScope(t *testing.T) {
	p := NewProvider(newTestLogger())
	p.Register(GenericEntityType, RequestTypeSearch, &BaseFactory{
		RequestType: RequestTypeSearch,
		IndexPrefix: "catalog",
		Metadata:    newTestMetadata(),
	})

	first, err := p.Get(context.Background(), "product", testCatalog(), RequestTypeSearch)
	require.NoError(t, err)
	second, err := p.Get(context.Background(), "product", testCatalog(), RequestTypeSearch)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := p.Get(context.Background(), "product", search.LocalizedCatalog{Code: "b2c_en"}, RequestTypeSearch)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestProvider_EntitySpecificFactoryWins(t *testing.T) {
	p := NewProvider(newTestLogger())
	p.Register(GenericEntityType, RequestTypeSearch, &BaseFactory{
		RequestType: RequestTypeSearch,
		IndexPrefix: "catalog",
		Metadata:    newTestMetadata(),
	})
	p.Register("product", RequestTypeSearch, &BaseFactory{
		RequestType: RequestTypeSearch,
		IndexPrefix: "dedicated",
		Metadata:    newTestMetadata(),
	})

	cfg, err := p.Get(context.Background(), "product", testCatalog(), RequestTypeSearch)
	require.NoError(t, err)
	assert.Equal(t, "dedicated_b2c_fr_product", cfg.IndexName)

	// Entities without a dedicated factory fall back to the generic one.
	cfg, err = p.Get(context.Background(), "category", testCatalog(), RequestTypeSearch)
	require.NoError(t, err)
	assert.Equal(t, "catalog_b2c_fr_category", cfg.IndexName)
}

func TestProvider_EmptyRequestTypeResolvesGeneric(t *testing.T) {
	p := NewProvider(newTestLogger())
	p.Register(GenericEntityType, RequestTypeGeneric, &BaseFactory{
		RequestType: RequestTypeGeneric,
		IndexPrefix: "catalog",
		Metadata:    newTestMetadata(),
	})

	cfg, err := p.Get(context.Background(), "product", testCatalog(), "")
	require.NoError(t, err)
	assert.Equal(t, RequestTypeGeneric, cfg.RequestType)
}

func TestProvider_UnknownRequestType(t *testing.T) {
	p := NewProvider(newTestLogger())

	_, err := p.Get(context.Background(), "product", testCatalog(), "suggest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `request type "suggest" is not defined for entity "product"`)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "catalog_b2c_fr_product", IndexName("catalog", testCatalog(), "product"))
}
