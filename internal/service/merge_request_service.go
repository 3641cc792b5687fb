package service

import (
	"context"
	"log"
	"sync"

	"github.com/vilaca/mr-dashboard/internal/api"
	"github.com/vilaca/mr-dashboard/internal/domain"
)

// Logger is the logging interface the service depends on.
type Logger interface {
	Printf(format string, v ...interface{})
}

// MergeRequestService orchestrates the two-pass merge request fetch:
// an aggregation pass that fans one listing call out per target, and an
// enrichment pass that fans one detail call out per merge request.
type MergeRequestService struct {
	client api.Client
	logger Logger
}

// NewMergeRequestService creates a new service around the given API
// client. A nil logger falls back to the standard logger.
func NewMergeRequestService(client api.Client, logger Logger) *MergeRequestService {
	if logger == nil {
		logger = log.Default()
	}
	return &MergeRequestService{
		client: client,
		logger: logger,
	}
}

// FetchMergeRequests retrieves the merge requests matching query across
// all targets. One listing call is issued per target, concurrently; the
// call waits for every target to complete, then fails with the first
// error in target order if any target failed. Partial results are never
// returned: an aggregated list is only trustworthy if every requested
// target was observed.
//
// On success the per-target lists are concatenated in target order. The
// result is not deduplicated and no ordering is guaranteed across
// targets; within a target the remote API's own order is preserved.
func (s *MergeRequestService) FetchMergeRequests(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
	s.logger.Printf("fetching merge requests for %d targets", len(targets))

	results := make([][]domain.MergeRequest, len(targets))
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.Target) {
			defer wg.Done()
			results[i], errs[i] = s.client.ListMergeRequests(ctx, target, query)
		}(i, target)
	}
	// wait for every in-flight target; siblings are not cancelled when
	// one of them fails
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var all []domain.MergeRequest
	for _, mrs := range results {
		all = append(all, mrs...)
	}
	s.logger.Printf("fetched %d merge requests", len(all))
	return all, nil
}

// EnrichMergeRequests refetches every merge request individually to get
// its full detail (notably the head pipeline, which listing responses
// omit). One detail call is issued per item, concurrently. Each slot is
// upgraded to the fetched detail when its call succeeds and keeps the
// original item when it fails for any reason, so the output always has
// the same length and order as the input. Enrichment never fails as a
// whole.
func (s *MergeRequestService) EnrichMergeRequests(ctx context.Context, mrs []domain.MergeRequest) []domain.MergeRequest {
	enriched := make([]domain.MergeRequest, len(mrs))
	copy(enriched, mrs)

	var wg sync.WaitGroup
	for i := range mrs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			detail, err := s.client.GetMergeRequest(ctx, mrs[i].ProjectID, mrs[i].IID)
			if err != nil {
				// keep the stale item; the caller gets no signal
				s.logger.Printf("keeping stale data for %s: %v", mrs[i].References.Full, err)
				return
			}
			enriched[i] = *detail
		}(i)
	}
	wg.Wait()

	return enriched
}
