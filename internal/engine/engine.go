// Package engine defines the execution boundary between compiled search
// requests and the backing search cluster.
package engine

import (
	"context"

	"github.com/avelora/catalogsearch/internal/search"
)

// Engine executes compiled requests against a search backend.
type Engine interface {
	// Execute runs the request and returns the reshaped response.
	Execute(ctx context.Context, req *search.Request) (*search.Response, error)

	// Ping checks backend reachability.
	Ping(ctx context.Context) error
}
