package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/avelora/catalogsearch/internal/search"
)

// Engine executes compiled requests against an Elasticsearch cluster.
type Engine struct {
	client *elasticsearch.Client
	logger *slog.Logger
}

// esErrorResponse is used to decode Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates an engine connected to the given addresses.
func New(addresses []string, logger *slog.Logger) (*Engine, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient creates an engine over an existing client.
func NewWithClient(client *elasticsearch.Client, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{client: client, logger: logger}
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// Execute runs a compiled request and reshapes the raw response.
func (e *Engine) Execute(ctx context.Context, req *search.Request) (*search.Response, error) {
	body, err := AssembleRequest(req)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal body: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(req.IndexName),
		e.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil && errResp.Error.Type != "" {
			return nil, fmt.Errorf("elasticsearch search: %s — %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	response, err := ParseResponse(req, res.Body)
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "search executed",
		slog.String("index", req.IndexName),
		slog.Int64("total_hits", response.TotalHits),
		slog.Int64("took_ms", response.TookMs),
	)
	return response, nil
}

// AssembleRequest translates a compiled request into a search body.
func AssembleRequest(req *search.Request) (map[string]any, error) {
	body := map[string]any{
		"from": req.From,
		"size": req.Size,
	}

	if req.Query != nil {
		q, err := AssembleQuery(req.Query)
		if err != nil {
			return nil, err
		}
		body["query"] = q
	}

	if len(req.SortOrders) > 0 {
		sorts := make([]map[string]any, 0, len(req.SortOrders))
		for _, order := range req.SortOrders {
			sorts = append(sorts, map[string]any{
				order.Field: map[string]any{"order": string(order.Direction)},
			})
		}
		body["sort"] = sorts
	}

	if len(req.Aggregations) > 0 {
		aggs, err := AssembleAggregations(req.Aggregations)
		if err != nil {
			return nil, err
		}
		body["aggregations"] = aggs
	}

	switch {
	case req.TrackTotalHits.Limit > 0:
		body["track_total_hits"] = req.TrackTotalHits.Limit
	default:
		body["track_total_hits"] = req.TrackTotalHits.Enabled
	}

	return body, nil
}
