package dashboard

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	renderer       Renderer
	logger         Logger
	mergeRequests  MergeRequestService
	defaultTargets []domain.Target
	defaultQuery   domain.Query
}

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// MergeRequestService interface for the aggregation and enrichment
// operations the dashboard consumes.
type MergeRequestService interface {
	FetchMergeRequests(ctx context.Context, targets []domain.Target, query domain.Query) ([]domain.MergeRequest, error)
	EnrichMergeRequests(ctx context.Context, mrs []domain.MergeRequest) []domain.MergeRequest
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Renderer            Renderer
	Logger              Logger
	MergeRequestService MergeRequestService
	DefaultTargets      []domain.Target
	DefaultQuery        domain.Query
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		renderer:       cfg.Renderer,
		logger:         cfg.Logger,
		mergeRequests:  cfg.MergeRequestService,
		defaultTargets: cfg.DefaultTargets,
		defaultQuery:   cfg.DefaultQuery,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.handleDashboard)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/merge_requests", h.handleMergeRequestsJSON)
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Printf("failed to render health: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleDashboard serves the query form plus the merge request list.
// Form fields arrive as URL query parameters; a request without a
// "fetch" parameter renders the form only, without calling the API.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")

	view := h.buildView(r)
	if err := h.renderer.RenderDashboard(w, view); err != nil {
		h.logger.Printf("failed to render dashboard: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleMergeRequestsJSON serves the fetched merge requests as JSON.
func (h *Handler) handleMergeRequestsJSON(w http.ResponseWriter, r *http.Request) {
	targets, query := h.parseRequest(r)

	mrs, err := h.mergeRequests.FetchMergeRequests(r.Context(), targets, query)
	if err != nil {
		h.logger.Printf("failed to fetch merge requests: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	mrs = h.mergeRequests.EnrichMergeRequests(r.Context(), mrs)

	w.Header().Set("Content-Type", "application/json")
	if err := h.renderer.RenderMergeRequestsJSON(w, mrs); err != nil {
		h.logger.Printf("failed to render merge requests JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// buildView assembles the dashboard view model, fetching merge requests
// when the request asks for it. A failed aggregation becomes a single
// error banner; enrichment failures are invisible here, affected items
// simply keep their listing-level data.
func (h *Handler) buildView(r *http.Request) DashboardView {
	targets, query := h.parseRequest(r)

	view := DashboardView{
		Authors:  r.URL.Query().Get("authors"),
		Projects: r.URL.Query().Get("projects"),
		Query:    query,
	}
	if view.Authors == "" && view.Projects == "" {
		view.Authors = strings.Join(targetValues(targets, true), " ")
		view.Projects = strings.Join(targetValues(targets, false), " ")
	}

	if r.URL.Query().Get("fetch") == "" {
		return view
	}
	view.Fetched = true

	mrs, err := h.mergeRequests.FetchMergeRequests(r.Context(), targets, query)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.MergeRequests = h.mergeRequests.EnrichMergeRequests(r.Context(), mrs)
	return view
}

// parseRequest extracts fetch targets and query filters from URL query
// parameters, falling back to the configured defaults when the request
// names no targets. Values are passed through without cross-field
// validation; the remote API is the arbiter of inconsistent input.
func (h *Handler) parseRequest(r *http.Request) ([]domain.Target, domain.Query) {
	params := r.URL.Query()

	var targets []domain.Target
	for _, author := range strings.Fields(params.Get("authors")) {
		targets = append(targets, domain.ByAuthor(author))
	}
	for _, project := range strings.Fields(params.Get("projects")) {
		targets = append(targets, domain.ByProject(project))
	}
	if len(targets) == 0 {
		targets = h.defaultTargets
	}

	query := h.defaultQuery
	if v := params.Get("order_by"); v != "" {
		query.OrderBy = domain.OrderBy(v)
	}
	if v := params.Get("sort"); v != "" {
		query.Sort = domain.Sort(v)
	}
	if v := params.Get("scope"); v != "" {
		query.Scope = domain.Scope(v)
	}
	if v := params.Get("state"); v != "" {
		query.State = domain.State(v)
	}
	if v := params.Get("wip"); v != "" {
		query.Draft = domain.Draft(v)
	}
	if t := parseTimeParam(params.Get("created_after")); t != nil {
		query.CreatedAfter = t
	}
	if t := parseTimeParam(params.Get("created_before")); t != nil {
		query.CreatedBefore = t
	}
	if t := parseTimeParam(params.Get("updated_after")); t != nil {
		query.UpdatedAfter = t
	}
	if t := parseTimeParam(params.Get("updated_before")); t != nil {
		query.UpdatedBefore = t
	}

	return targets, query
}

// parseTimeParam parses an RFC 3339 timestamp or a plain date,
// returning nil for anything else.
func parseTimeParam(v string) *time.Time {
	if v == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t
	}
	return nil
}

// targetValues returns the raw values of either the author targets or
// the project targets.
func targetValues(targets []domain.Target, authors bool) []string {
	var values []string
	for _, t := range targets {
		if v, ok := t.AuthorUsername(); ok && authors {
			values = append(values, v)
		}
		if v, ok := t.ProjectPath(); ok && !authors {
			values = append(values, v)
		}
	}
	return values
}

// StdLogger wraps the standard log package to implement Logger interface.
type StdLogger struct{}

func NewStdLogger() *StdLogger {
	return &StdLogger{}
}

func (l *StdLogger) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}
