// Package service implements the application use cases on top of the request
// builder and the search engine.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelora/catalogsearch/internal/builder"
	"github.com/avelora/catalogsearch/internal/container"
	"github.com/avelora/catalogsearch/internal/engine"
	"github.com/avelora/catalogsearch/internal/search"
	apperrors "github.com/avelora/catalogsearch/pkg/errors"
)

// SearchInput is the application-level search request.
type SearchInput struct {
	EntityType  string
	RequestType string
	Catalog     search.LocalizedCatalog

	Query   string
	Filters builder.FilterSet
	Sorts   []builder.SortSpec

	Page    int
	PerPage int

	CurrentCategoryID string
	PriceGroupID      string
	ReferenceLocation string

	WithAggregations bool
}

// SearchService compiles and executes search requests.
type SearchService struct {
	builder *builder.RequestBuilder
	engine  engine.Engine
	logger  *slog.Logger
}

// NewSearchService creates a search service.
func NewSearchService(b *builder.RequestBuilder, e engine.Engine, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{builder: b, engine: e, logger: logger}
}

// Search compiles the input into an engine request, executes it and returns
// the reshaped response.
func (s *SearchService) Search(ctx context.Context, in *SearchInput) (*search.Response, error) {
	if in.EntityType == "" {
		return nil, apperrors.InvalidInput("entity type is required")
	}
	if in.Catalog.Code == "" {
		return nil, apperrors.InvalidInput("localized catalog is required")
	}

	requestType := in.RequestType
	if requestType == "" {
		requestType = inferRequestType(in)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PerPage
	if size <= 0 {
		size = search.DefaultPageSize
	}

	req, err := s.builder.Build(ctx, builder.BuildInput{
		EntityType:  in.EntityType,
		RequestType: requestType,
		Catalog:     in.Catalog,
		Context: search.Context{
			QueryText:         in.Query,
			CurrentCategoryID: in.CurrentCategoryID,
			PriceGroupID:      in.PriceGroupID,
			ReferenceLocation: in.ReferenceLocation,
		},
		Filters:          in.Filters,
		Sorts:            in.Sorts,
		From:             (page - 1) * size,
		Size:             size,
		WithAggregations: in.WithAggregations,
	})
	if err != nil {
		return nil, err
	}

	response, err := s.engine.Execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	s.logger.InfoContext(ctx, "search executed",
		slog.String("entity_type", in.EntityType),
		slog.String("request_type", requestType),
		slog.String("catalog", in.Catalog.Code),
		slog.Int64("total_hits", response.TotalHits),
	)
	return response, nil
}

// inferRequestType picks the request type when the caller leaves it open:
// free text means a search, plain browsing means a catalog listing.
func inferRequestType(in *SearchInput) string {
	if in.Query != "" {
		return container.RequestTypeSearch
	}
	return container.RequestTypeCatalog
}
