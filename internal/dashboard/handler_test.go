package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// mockRenderer is a test double for Renderer. It records the last view
// it was asked to render.
type mockRenderer struct {
	healthErr    error
	dashboardErr error
	jsonErr      error
	lastView     DashboardView
}

func (m *mockRenderer) RenderHealth(w io.Writer) error {
	if m.healthErr != nil {
		return m.healthErr
	}
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

func (m *mockRenderer) RenderDashboard(w io.Writer, view DashboardView) error {
	m.lastView = view
	if m.dashboardErr != nil {
		return m.dashboardErr
	}
	_, err := w.Write([]byte("mock dashboard"))
	return err
}

func (m *mockRenderer) RenderMergeRequestsJSON(w io.Writer, mrs []domain.MergeRequest) error {
	if m.jsonErr != nil {
		return m.jsonErr
	}
	_, err := fmt.Fprintf(w, `{"count":%d}`, len(mrs))
	return err
}

// mockLogger is a test double for Logger.
type mockLogger struct {
	messages []string
}

func (m *mockLogger) Printf(format string, v ...interface{}) {
	m.messages = append(m.messages, format)
}

// mockMergeRequestService is a test double for MergeRequestService.
type mockMergeRequestService struct {
	fetchFunc   func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error)
	enrichCalls int
}

func (m *mockMergeRequestService) FetchMergeRequests(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, targets, query)
	}
	return []domain.MergeRequest{}, nil
}

func (m *mockMergeRequestService) EnrichMergeRequests(ctx context.Context, mrs []domain.MergeRequest) []domain.MergeRequest {
	m.enrichCalls++
	return mrs
}

func newTestHandler(renderer *mockRenderer, svc *mockMergeRequestService) *Handler {
	return NewHandler(HandlerConfig{
		Renderer:            renderer,
		Logger:              &mockLogger{},
		MergeRequestService: svc,
		DefaultTargets:      []domain.Target{domain.ByAuthor("alice")},
		DefaultQuery:        domain.Query{Scope: domain.ScopeAll},
	})
}

// TestHandleHealth tests the health check endpoint.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestHandleHealth(t *testing.T) {
	// Arrange
	handler := newTestHandler(&mockRenderer{}, &mockMergeRequestService{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleHealth(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("expected ok body, got %q", rec.Body.String())
	}
}

// TestHandleDashboard_NoFetch tests that the bare page issues no API
// calls and echoes the configured defaults into the form.
func TestHandleDashboard_NoFetch(t *testing.T) {
	// Arrange
	renderer := &mockRenderer{}
	svc := &mockMergeRequestService{
		fetchFunc: func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
			t.Error("no fetch expected without fetch parameter")
			return nil, nil
		},
	}
	handler := newTestHandler(renderer, svc)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleDashboard(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if renderer.lastView.Fetched {
		t.Error("expected view without fetch")
	}
	if renderer.lastView.Authors != "alice" {
		t.Errorf("expected default author echoed into form, got %q", renderer.lastView.Authors)
	}
}

// TestHandleDashboard_Fetch tests the fetch-and-enrich flow.
func TestHandleDashboard_Fetch(t *testing.T) {
	// Arrange
	renderer := &mockRenderer{}
	var gotTargets []domain.Target
	var gotQuery domain.Query
	svc := &mockMergeRequestService{
		fetchFunc: func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
			gotTargets = targets
			gotQuery = query
			return []domain.MergeRequest{{IID: 1, ProjectID: 2}}, nil
		},
	}
	handler := newTestHandler(renderer, svc)
	req := httptest.NewRequest(http.MethodGet, "/?fetch=1&authors=bob+carol&projects=grp%2Fapp&state=opened&sort=asc", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleDashboard(rec, req)

	// Assert
	if len(gotTargets) != 3 {
		t.Fatalf("expected 3 targets (2 authors + 1 project), got %d", len(gotTargets))
	}
	if username, ok := gotTargets[0].AuthorUsername(); !ok || username != "bob" {
		t.Errorf("expected first target author:bob, got %v", gotTargets[0])
	}
	if path, ok := gotTargets[2].ProjectPath(); !ok || path != "grp/app" {
		t.Errorf("expected project target grp/app, got %v", gotTargets[2])
	}
	if gotQuery.State != domain.StateOpened {
		t.Errorf("expected state filter opened, got %q", gotQuery.State)
	}
	if gotQuery.Sort != domain.SortAsc {
		t.Errorf("expected sort asc, got %q", gotQuery.Sort)
	}
	// the configured default survives when the request does not override it
	if gotQuery.Scope != domain.ScopeAll {
		t.Errorf("expected default scope all, got %q", gotQuery.Scope)
	}

	if svc.enrichCalls != 1 {
		t.Errorf("expected one enrichment pass, got %d", svc.enrichCalls)
	}
	if !renderer.lastView.Fetched {
		t.Error("expected fetched view")
	}
	if len(renderer.lastView.MergeRequests) != 1 {
		t.Errorf("expected 1 merge request in view, got %d", len(renderer.lastView.MergeRequests))
	}
}

// TestHandleDashboard_FetchError tests that an aggregation failure
// surfaces as a single error in the view, with no partial list.
func TestHandleDashboard_FetchError(t *testing.T) {
	// Arrange
	renderer := &mockRenderer{}
	svc := &mockMergeRequestService{
		fetchFunc: func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
			return nil, errors.New("API returned status 404")
		},
	}
	handler := newTestHandler(renderer, svc)
	req := httptest.NewRequest(http.MethodGet, "/?fetch=1", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleDashboard(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 with error banner, got %d", rec.Code)
	}
	if renderer.lastView.Error == "" {
		t.Error("expected error in view")
	}
	if len(renderer.lastView.MergeRequests) != 0 {
		t.Error("expected no merge requests alongside the error")
	}
	if svc.enrichCalls != 0 {
		t.Error("expected no enrichment after a failed aggregation")
	}
}

// TestHandleDashboard_NotFound tests unknown paths under "/".
func TestHandleDashboard_NotFound(t *testing.T) {
	// Arrange
	handler := newTestHandler(&mockRenderer{}, &mockMergeRequestService{})
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleDashboard(rec, req)

	// Assert
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

// TestHandleMergeRequestsJSON tests the JSON endpoint.
func TestHandleMergeRequestsJSON(t *testing.T) {
	// Arrange
	renderer := &mockRenderer{}
	svc := &mockMergeRequestService{
		fetchFunc: func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
			return []domain.MergeRequest{{IID: 1}, {IID: 2}}, nil
		},
	}
	handler := newTestHandler(renderer, svc)
	req := httptest.NewRequest(http.MethodGet, "/api/merge_requests", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleMergeRequestsJSON(rec, req)

	// Assert
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"count":2}` {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %q", rec.Header().Get("Content-Type"))
	}
}

// TestHandleMergeRequestsJSON_FetchError tests the JSON error path.
func TestHandleMergeRequestsJSON_FetchError(t *testing.T) {
	// Arrange
	renderer := &mockRenderer{}
	svc := &mockMergeRequestService{
		fetchFunc: func(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error) {
			return nil, errors.New("request failed: connection refused")
		},
	}
	handler := newTestHandler(renderer, svc)
	req := httptest.NewRequest(http.MethodGet, "/api/merge_requests", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.handleMergeRequestsJSON(rec, req)

	// Assert
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", rec.Code)
	}
}
