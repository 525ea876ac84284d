package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avelora/catalogsearch/pkg/httpclient"
)

// HTTPClient is a metadata provider backed by the catalog management
// service's REST API, protected by a circuit breaker.
type HTTPClient struct {
	baseURL string
	client  *httpclient.CircuitBreakerClient
}

// NewHTTPClient creates a metadata client for the given base URL.
func NewHTTPClient(baseURL string, client *httpclient.CircuitBreakerClient) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  client,
	}
}

type fieldsResponse struct {
	Data []Field `json:"data"`
}

type facetResponse struct {
	Data FacetConfiguration `json:"data"`
}

type childrenResponse struct {
	Data []string `json:"data"`
}

// Fields implements Provider via GET /api/v1/metadata/{entity}/fields.
func (c *HTTPClient) Fields(ctx context.Context, entityType string) ([]Field, error) {
	endpoint := fmt.Sprintf("%s/api/v1/metadata/%s/fields", c.baseURL, url.PathEscape(entityType))

	resp, err := c.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("metadata fields: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "metadata service")
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded fieldsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("metadata fields: decode response: %w", err)
	}
	return decoded.Data, nil
}

// FacetConfiguration implements FacetConfigurationProvider via
// GET /api/v1/facets/{field}?category_id=...
func (c *HTTPClient) FacetConfiguration(ctx context.Context, fieldCode, categoryID string) (FacetConfiguration, error) {
	endpoint := fmt.Sprintf("%s/api/v1/facets/%s", c.baseURL, url.PathEscape(fieldCode))
	if categoryID != "" {
		endpoint += "?category_id=" + url.QueryEscape(categoryID)
	}

	resp, err := c.client.Get(ctx, endpoint)
	if err != nil {
		return FacetConfiguration{}, fmt.Errorf("facet configuration: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return FacetConfiguration{}, httpclient.ParseResponseError(resp, "metadata service")
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded facetResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return FacetConfiguration{}, fmt.Errorf("facet configuration: decode response: %w", err)
	}
	return decoded.Data, nil
}

// ChildCategories implements CategoryProvider via
// GET /api/v1/categories/{id}/children.
func (c *HTTPClient) ChildCategories(ctx context.Context, categoryID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/v1/categories/%s/children", c.baseURL, url.PathEscape(categoryID))

	resp, err := c.client.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("child categories: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "metadata service")
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded childrenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("child categories: decode response: %w", err)
	}
	return decoded.Data, nil
}
