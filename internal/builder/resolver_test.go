package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/aggregation"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/query"
	"github.com/avelora/catalogsearch/internal/search"
)

func testChain(categories metadata.CategoryProvider) *ResolverChain {
	return NewResolverChain(categories, DefaultAggregationSettings())
}

func mustField(t *testing.T, code string) metadata.Field {
	t.Helper()
	f, ok := testConfig().Mapping.Field(code)
	require.True(t, ok)
	return f
}

func TestResolverChain_SelectFacet(t *testing.T) {
	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "color"))
	require.NoError(t, err)

	terms, ok := bucket.(*aggregation.Terms)
	require.True(t, ok)
	assert.Equal(t, "color", terms.BucketName())
	assert.Equal(t, "color.value", terms.Field())

	// The display label rides along as a single-bucket child.
	require.Len(t, terms.Children(), 1)
	label, ok := terms.Children()[0].(*aggregation.Terms)
	require.True(t, ok)
	assert.Equal(t, "color.label", label.Field())
	assert.Equal(t, 1, label.Size)
}

func TestResolverChain_CategoryFacetFromChildren(t *testing.T) {
	categories := metadata.NewStaticProvider()
	categories.RegisterChildren("cat-10", []string{"cat-11", "cat-12"})

	chain := testChain(categories)
	sctx := search.Context{CurrentCategoryID: "cat-10"}
	bucket, err := chain.Resolve(context.Background(), sctx, testConfig(), mustField(t, "category"))
	require.NoError(t, err)

	group, ok := bucket.(*aggregation.QueryGroup)
	require.True(t, ok)
	assert.Equal(t, "category", group.BucketName())
	assert.Equal(t, "category", group.NestedPath())
	require.Len(t, group.Queries, 2)
	assert.Equal(t, "cat-11", group.Queries[0].Name)

	term, ok := group.Queries[0].Query.(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "category.id", term.Field)
	assert.Equal(t, "cat-11", term.Value)
}

func TestResolverChain_CategoryWithoutChildrenYieldsNothing(t *testing.T) {
	chain := testChain(metadata.NewStaticProvider())
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "category"))
	require.NoError(t, err)
	assert.Nil(t, bucket)
}

func TestResolverChain_PriceFacetFilteredByGroup(t *testing.T) {
	chain := testChain(nil)
	sctx := search.Context{PriceGroupID: "1"}
	bucket, err := chain.Resolve(context.Background(), sctx, testConfig(), mustField(t, "price"))
	require.NoError(t, err)

	histogram, ok := bucket.(*aggregation.Histogram)
	require.True(t, ok)
	assert.Equal(t, "price.price", histogram.Field())
	assert.Equal(t, 1, histogram.MinDocCount)
	assert.Equal(t, "price", histogram.NestedPath())

	group, ok := histogram.NestedFilter().(*query.Term)
	require.True(t, ok)
	assert.Equal(t, "price.group_id", group.Field)
	assert.Equal(t, "1", group.Value)
}

func TestResolverChain_NumericFacet(t *testing.T) {
	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "rating"))
	require.NoError(t, err)

	histogram, ok := bucket.(*aggregation.Histogram)
	require.True(t, ok)
	assert.Equal(t, "rating", histogram.Field())
	assert.Equal(t, 1, histogram.MinDocCount)
}

func TestResolverChain_DateFacet(t *testing.T) {
	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "created_at"))
	require.NoError(t, err)

	histogram, ok := bucket.(*aggregation.DateHistogram)
	require.True(t, ok)
	assert.Equal(t, "1M", histogram.Interval)
}

func TestResolverChain_StockFacet(t *testing.T) {
	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "stock"))
	require.NoError(t, err)

	terms, ok := bucket.(*aggregation.Terms)
	require.True(t, ok)
	assert.Equal(t, "stock.status", terms.Field())
	assert.Equal(t, "stock", terms.NestedPath())
}

func TestResolverChain_LocationNeedsReference(t *testing.T) {
	cfg := testConfig()
	field := metadata.Field{Code: "store_location", Type: metadata.FieldTypeLocation, Filterable: true}

	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, cfg, field)
	require.NoError(t, err)
	assert.Nil(t, bucket)

	sctx := search.Context{ReferenceLocation: "48.86,2.35"}
	bucket, err = chain.Resolve(context.Background(), sctx, cfg, field)
	require.NoError(t, err)

	geo, ok := bucket.(*aggregation.GeoDistance)
	require.True(t, ok)
	assert.Equal(t, "48.86,2.35", geo.Origin)
	assert.NotEmpty(t, geo.Ranges)
}

func TestResolverChain_FallbackIsTerms(t *testing.T) {
	chain := testChain(nil)
	bucket, err := chain.Resolve(context.Background(), search.Context{}, testConfig(), mustField(t, "is_new"))
	require.NoError(t, err)

	terms, ok := bucket.(*aggregation.Terms)
	require.True(t, ok)
	assert.Equal(t, "is_new", terms.Field())
}
