// Package event consumes index lifecycle events so cached per-index state
// (container configurations, spelling classifications) is dropped when an
// index is rebuilt.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avelora/catalogsearch/internal/cache"
	"github.com/avelora/catalogsearch/pkg/kafka"
)

// Index lifecycle event types.
const (
	EventTypeIndexInstalled = "index.installed"
	EventTypeIndexDeleted   = "index.deleted"
)

// TopicIndexLifecycle is the Kafka topic carrying index lifecycle events.
const TopicIndexLifecycle = "catalog.index.lifecycle"

// IndexLifecycleData is the payload of index lifecycle events.
type IndexLifecycleData struct {
	IndexName string `json:"index_name"`
}

// IndexLifecycleHandler invalidates index-scoped cache entries when an index
// is installed or deleted.
type IndexLifecycleHandler struct {
	cache  cache.Cache
	logger *slog.Logger
}

// NewIndexLifecycleHandler creates an index lifecycle handler.
func NewIndexLifecycleHandler(c cache.Cache, logger *slog.Logger) *IndexLifecycleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexLifecycleHandler{cache: c, logger: logger}
}

// Handle implements kafka.Handler.
func (h *IndexLifecycleHandler) Handle(ctx context.Context, event *kafka.Event) error {
	switch event.EventType {
	case EventTypeIndexInstalled, EventTypeIndexDeleted:
	default:
		h.logger.DebugContext(ctx, "ignoring event", slog.String("event_type", event.EventType))
		return nil
	}

	var data IndexLifecycleData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal index lifecycle event: %w", err)
	}
	if data.IndexName == "" {
		return fmt.Errorf("index lifecycle event %s has no index name", event.EventID)
	}

	if err := h.cache.InvalidateTags(ctx, cache.IndexTag(data.IndexName)); err != nil {
		return fmt.Errorf("invalidate index cache for %q: %w", data.IndexName, err)
	}

	h.logger.InfoContext(ctx, "index cache invalidated",
		slog.String("event_type", event.EventType),
		slog.String("index", data.IndexName),
	)
	return nil
}
