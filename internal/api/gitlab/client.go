package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vilaca/mr-dashboard/internal/api"
	"github.com/vilaca/mr-dashboard/internal/domain"
)

// Client implements api.Client against the GitLab REST API.
// The base URL is expected to include the API prefix
// (e.g. "https://gitlab.com/api/v4").
type Client struct {
	baseURL    string
	token      string
	httpClient api.HTTPClient
}

// NewClient creates a new GitLab client. The HTTPClient is injected so
// tests can substitute a double; production wiring passes one shared
// *http.Client.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	return &Client{
		baseURL:    config.BaseURL,
		token:      config.Token,
		httpClient: httpClient,
	}
}

// compile-time interface check
var _ api.Client = (*Client)(nil)

// ListMergeRequests retrieves the merge requests matching query within
// one target. Author targets hit the global listing endpoint filtered by
// author_username; project targets hit the project-scoped endpoint keyed
// by the percent-encoded project path.
func (c *Client) ListMergeRequests(ctx context.Context, target domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
	params := query.Values()

	var url string
	if username, ok := target.AuthorUsername(); ok {
		params.Set("author_username", username)
		url = fmt.Sprintf("%s/merge_requests", c.baseURL)
	} else if encodedPath, ok := target.EncodedProjectPath(); ok {
		url = fmt.Sprintf("%s/projects/%s/merge_requests", c.baseURL, encodedPath)
	}
	url = url + "?" + params.Encode()

	var mrs []domain.MergeRequest
	if err := c.doRequest(ctx, url, &mrs); err != nil {
		return nil, fmt.Errorf("fetching merge requests for %s: %w", target, err)
	}
	return mrs, nil
}

// GetMergeRequest retrieves the full detail of one merge request,
// including its head pipeline, addressed by the (projectID, iid)
// identity pair.
func (c *Client) GetMergeRequest(ctx context.Context, projectID, iid int64) (*domain.MergeRequest, error) {
	url := fmt.Sprintf("%s/projects/%d/merge_requests/%d", c.baseURL, projectID, iid)

	var mr domain.MergeRequest
	if err := c.doRequest(ctx, url, &mr); err != nil {
		return nil, fmt.Errorf("fetching merge request %d!%d: %w", projectID, iid, err)
	}
	return &mr, nil
}

// doRequest performs an authenticated GET against the GitLab API and
// decodes the JSON body into result. The body is decoded only when the
// status indicates success; any other status becomes an
// api.BadStatusError without the body being parsed.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &api.BadStatusError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &api.DecodeError{Err: err}
	}

	return nil
}
