package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelora/catalogsearch/internal/builder"
	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/metadata"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/spellcheck"
	apperrors "github.com/avelora/catalogsearch/pkg/errors"
)

type stubEngine struct {
	response *search.Response
	err      error
	lastReq  *search.Request
}

func (s *stubEngine) Execute(_ context.Context, req *search.Request) (*search.Response, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func (s *stubEngine) Ping(context.Context) error { return nil }

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(e *stubEngine) *SearchService {
	static := metadata.NewStaticProvider()
	static.RegisterEntity("product", []metadata.Field{
		{Code: "sku", Type: metadata.FieldTypeReference, Searchable: true, SearchWeight: 10},
		{Code: "name", Type: metadata.FieldTypeText, Searchable: true, SearchWeight: 5, Sortable: true},
		{Code: "color", Type: metadata.FieldTypeSelect, Filterable: true},
	})

	containers := container.NewProvider(newTestLogger())
	for _, requestType := range []string{container.RequestTypeCatalog, container.RequestTypeSearch} {
		containers.Register(container.GenericEntityType, requestType, &container.BaseFactory{
			RequestType: requestType,
			IndexPrefix: "catalog",
			Metadata:    static,
			Relevance:   container.DefaultRelevance(),
		})
	}

	requestBuilder := builder.NewRequestBuilder(containers, nil, newTestLogger())
	return NewSearchService(requestBuilder, e, newTestLogger())
}

func TestSearchService_Search(t *testing.T) {
	e := &stubEngine{response: &search.Response{TotalHits: 3, SpellingType: spellcheck.SpellingExact}}
	svc := newTestService(e)

	resp, err := svc.Search(context.Background(), &SearchInput{
		EntityType: "product",
		Catalog:    search.LocalizedCatalog{Code: "b2c_fr"},
		Query:      "wireless mouse",
		Page:       2,
		PerPage:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalHits)

	require.NotNil(t, e.lastReq)
	assert.Equal(t, "catalog_b2c_fr_product", e.lastReq.IndexName)
	assert.Equal(t, container.RequestTypeSearch, e.lastReq.Name)
	assert.Equal(t, 10, e.lastReq.From)
	assert.Equal(t, 10, e.lastReq.Size)
}

func TestSearchService_InfersRequestType(t *testing.T) {
	e := &stubEngine{response: &search.Response{}}
	svc := newTestService(e)

	_, err := svc.Search(context.Background(), &SearchInput{
		EntityType: "product",
		Catalog:    search.LocalizedCatalog{Code: "b2c_fr"},
	})
	require.NoError(t, err)
	assert.Equal(t, container.RequestTypeCatalog, e.lastReq.Name)

	_, err = svc.Search(context.Background(), &SearchInput{
		EntityType: "product",
		Catalog:    search.LocalizedCatalog{Code: "b2c_fr"},
		Query:      "mouse",
	})
	require.NoError(t, err)
	assert.Equal(t, container.RequestTypeSearch, e.lastReq.Name)
}

func TestSearchService_InputValidation(t *testing.T) {
	svc := newTestService(&stubEngine{})

	_, err := svc.Search(context.Background(), &SearchInput{
		Catalog: search.LocalizedCatalog{Code: "b2c_fr"},
	})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_INPUT", appErr.Code)

	_, err = svc.Search(context.Background(), &SearchInput{EntityType: "product"})
	require.Error(t, err)
}

func TestSearchService_FilterProblemsPropagate(t *testing.T) {
	svc := newTestService(&stubEngine{})

	_, err := svc.Search(context.Background(), &SearchInput{
		EntityType: "product",
		Catalog:    search.LocalizedCatalog{Code: "b2c_fr"},
		Filters:    builder.FilterSet{"nope": {builder.OpEq: "x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter field")
}

func TestSearchService_EngineErrorWrapped(t *testing.T) {
	e := &stubEngine{err: errors.New("connection refused")}
	svc := newTestService(e)

	_, err := svc.Search(context.Background(), &SearchInput{
		EntityType: "product",
		Catalog:    search.LocalizedCatalog{Code: "b2c_fr"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute search")
}
