package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avelora/catalogsearch/internal/builder"
	"github.com/avelora/catalogsearch/internal/search"
	"github.com/avelora/catalogsearch/internal/service"
	"github.com/avelora/catalogsearch/pkg/httputil"
	"github.com/avelora/catalogsearch/pkg/validator"
)

// SearchHandler handles HTTP requests for search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SortClause is one entry of a requested sort order.
type SortClause struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// SearchRequest is the JSON request body for a search.
type SearchRequest struct {
	RequestType string `json:"request_type" validate:"omitempty,oneof=generic catalog search autocomplete"`
	Catalog     string `json:"catalog" validate:"required"`
	Locale      string `json:"locale"`
	Currency    string `json:"currency"`

	Query   string                    `json:"query"`
	Filters map[string]map[string]any `json:"filters"`
	Sort    []SortClause              `json:"sort" validate:"omitempty,max=5,dive"`

	Page    int `json:"page" validate:"omitempty,min=1"`
	PerPage int `json:"per_page" validate:"omitempty,min=1,max=100"`

	CurrentCategoryID string `json:"current_category_id"`
	PriceGroupID      string `json:"price_group_id"`
	ReferenceLocation string `json:"reference_location"`

	WithAggregations bool `json:"with_aggregations"`
}

// --- Handlers ---

// Search handles POST /api/v1/search/{entityType}
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")

	var req SearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		var valErr *validator.ValidationError
		if errors.As(err, &valErr) {
			httputil.WriteValidationError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	response, err := h.service.Search(r.Context(), &service.SearchInput{
		EntityType:  entityType,
		RequestType: req.RequestType,
		Catalog: search.LocalizedCatalog{
			Code:     req.Catalog,
			Locale:   req.Locale,
			Currency: req.Currency,
		},
		Query:             req.Query,
		Filters:           toFilterSet(req.Filters),
		Sorts:             toSortSpecs(req.Sort),
		Page:              req.Page,
		PerPage:           req.PerPage,
		CurrentCategoryID: req.CurrentCategoryID,
		PriceGroupID:      req.PriceGroupID,
		ReferenceLocation: req.ReferenceLocation,
		WithAggregations:  req.WithAggregations,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: response})
}

func toFilterSet(filters map[string]map[string]any) builder.FilterSet {
	if len(filters) == 0 {
		return nil
	}
	set := make(builder.FilterSet, len(filters))
	for field, operators := range filters {
		ops := make(map[builder.Operator]any, len(operators))
		for op, value := range operators {
			ops[builder.Operator(op)] = value
		}
		set[field] = ops
	}
	return set
}

func toSortSpecs(clauses []SortClause) []builder.SortSpec {
	if len(clauses) == 0 {
		return nil
	}
	specs := make([]builder.SortSpec, 0, len(clauses))
	for _, clause := range clauses {
		specs = append(specs, builder.SortSpec{
			Field:     clause.Field,
			Direction: search.Direction(clause.Direction),
		})
	}
	return specs
}
