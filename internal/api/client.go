package api

import (
	"context"
	"net/http"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// HTTPClient is the interface API clients use for HTTP operations
// (allows mocking in tests). A single *http.Client instance is created
// in the composition root and shared by every concurrent request; it is
// never mutated after creation and needs no teardown.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client defines the operations the aggregation and enrichment logic
// needs from a merge request API. Consumers depend on this interface,
// not on a concrete implementation.
type Client interface {
	// ListMergeRequests returns the merge requests matching the query
	// within one target (author or project). Order is the remote API's
	// own result order.
	ListMergeRequests(ctx context.Context, target domain.Target, query domain.Query) ([]domain.MergeRequest, error)

	// GetMergeRequest returns the full detail of one merge request
	// addressed by its (projectID, iid) identity pair.
	GetMergeRequest(ctx context.Context, projectID, iid int64) (*domain.MergeRequest, error)
}

// ClientConfig holds common configuration for API clients. The token is
// supplied by the caller wiring; the transport itself persists no
// credentials beyond this value.
type ClientConfig struct {
	BaseURL string
	Token   string
}
