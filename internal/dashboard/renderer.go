package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// DashboardView is the view model for the main page.
type DashboardView struct {
	// Form state, echoed back into the inputs.
	Authors  string
	Projects string
	Query    domain.Query

	// Fetched is true when the request asked for a fetch; it
	// distinguishes "not queried yet" from "queried, zero results".
	Fetched       bool
	MergeRequests []domain.MergeRequest
	Error         string
}

// Renderer handles rendering responses to HTTP clients.
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderDashboard(w io.Writer, view DashboardView) error
	RenderMergeRequestsJSON(w io.Writer, mrs []domain.MergeRequest) error
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct {
	// All HTML is embedded in methods, no external templates needed
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderMergeRequestsJSON writes the merge requests as a JSON array.
func (r *HTMLRenderer) RenderMergeRequestsJSON(w io.Writer, mrs []domain.MergeRequest) error {
	if mrs == nil {
		mrs = []domain.MergeRequest{}
	}
	return json.NewEncoder(w).Encode(mrs)
}

// RenderDashboard renders the query form and, when a fetch happened,
// either the merge request list or a single error banner.
func (r *HTMLRenderer) RenderDashboard(w io.Writer, view DashboardView) error {
	var sb strings.Builder

	sb.WriteString(htmlHead("Merge Requests"))
	sb.WriteString(`<body><div class="container">`)

	sb.WriteString(`<div class="header"><h1>MR Dashboard</h1>`)
	if view.Fetched && view.Error == "" {
		sb.WriteString(fmt.Sprintf(`<span class="count">%d</span>`, len(view.MergeRequests)))
	}
	sb.WriteString(`</div>`)

	r.renderQueryForm(&sb, view)

	switch {
	case view.Error != "":
		sb.WriteString(fmt.Sprintf(`<div class="error-banner">%s</div>`, escapeHTML(view.Error)))
	case view.Fetched:
		r.renderMergeRequestList(&sb, view.MergeRequests)
	}

	sb.WriteString(`</div></body></html>`)

	_, err := w.Write([]byte(sb.String()))
	return err
}

// renderQueryForm renders the filter form. Submitting it reloads the
// page with the form state as URL query parameters plus fetch=1.
func (r *HTMLRenderer) renderQueryForm(sb *strings.Builder, view DashboardView) {
	sb.WriteString(`<form class="query-form" method="get" action="/">`)
	sb.WriteString(`<input type="hidden" name="fetch" value="1">`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(textField("authors", "Authors", view.Authors, "usernames, space separated"))
	sb.WriteString(textField("projects", "Projects", view.Projects, "project paths, space separated"))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(selectField("order_by", "Order by", string(view.Query.OrderBy),
		[]string{"created_at", "updated_at", "title"}, false))
	sb.WriteString(selectField("sort", "Sort", string(view.Query.Sort),
		[]string{"asc", "desc"}, false))
	sb.WriteString(selectField("scope", "Scope", string(view.Query.Scope),
		[]string{"created_by_me", "assigned_to_me", "all"}, false))
	sb.WriteString(selectField("state", "State", string(view.Query.State),
		[]string{"opened", "closed", "locked", "merged"}, true))
	sb.WriteString(selectField("wip", "Draft", string(view.Query.Draft),
		[]string{"yes", "no"}, true))
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="form-row">`)
	sb.WriteString(dateField("created_after", "Created after", view.Query.CreatedAfter))
	sb.WriteString(dateField("created_before", "Created before", view.Query.CreatedBefore))
	sb.WriteString(dateField("updated_after", "Updated after", view.Query.UpdatedAfter))
	sb.WriteString(dateField("updated_before", "Updated before", view.Query.UpdatedBefore))
	sb.WriteString(`<button type="submit">Query</button>`)
	sb.WriteString(`</div>`)

	sb.WriteString(`</form>`)
}

// renderMergeRequestList renders one row per merge request.
func (r *HTMLRenderer) renderMergeRequestList(sb *strings.Builder, mrs []domain.MergeRequest) {
	if len(mrs) == 0 {
		sb.WriteString(`<p class="empty">No merge requests matched the query.</p>`)
		return
	}

	sb.WriteString(`<ul class="mr-list">`)
	for _, mr := range mrs {
		r.renderMergeRequest(sb, mr)
	}
	sb.WriteString(`</ul>`)
}

func (r *HTMLRenderer) renderMergeRequest(sb *strings.Builder, mr domain.MergeRequest) {
	sb.WriteString(`<li class="mr-row">`)

	// left column: title, reference, author
	sb.WriteString(`<div class="mr-main">`)
	sb.WriteString(fmt.Sprintf(`<div class="mr-title"><a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		escapeHTML(mr.WebURL), escapeHTML(mr.Title)))
	sb.WriteString(fmt.Sprintf(` <span class="mr-branch" title="source branch">%s</span></div>`,
		escapeHTML(mr.SourceBranch)))
	sb.WriteString(fmt.Sprintf(`<div class="mr-meta"><span class="mr-ref">%s</span> created %s by <a href="%s">%s</a></div>`,
		escapeHTML(mr.References.Full),
		formatTimeAgo(mr.CreatedAt),
		escapeHTML(mr.Author.WebURL),
		escapeHTML(mr.Author.Username)))
	r.renderReviewers(sb, mr.Reviewers)
	sb.WriteString(`</div>`)

	// right column: merge status, comments, pipeline, updated
	sb.WriteString(`<div class="mr-side">`)
	sb.WriteString(fmt.Sprintf(`<span class="status %s" title="%s:%s">%s</span>`,
		mergeStatusClass(mr),
		escapeHTML(string(mr.State)),
		escapeHTML(string(mr.DetailedMergeStatus)),
		escapeHTML(mergeStatusLabel(mr))))
	sb.WriteString(fmt.Sprintf(`<span class="comments" title="comments">&#128172; %d</span>`, mr.UserNotesCount))
	r.renderPipeline(sb, mr.HeadPipeline)
	sb.WriteString(fmt.Sprintf(`<span class="mr-updated">updated %s</span>`, formatTimeAgo(mr.UpdatedAt)))
	sb.WriteString(`</div>`)

	sb.WriteString(`</li>`)
}

func (r *HTMLRenderer) renderReviewers(sb *strings.Builder, reviewers []domain.User) {
	sb.WriteString(`<div class="mr-reviewers">reviewers: `)
	if len(reviewers) == 0 {
		sb.WriteString(`none`)
	}
	for i, reviewer := range reviewers {
		if i > 0 {
			sb.WriteString(` `)
		}
		sb.WriteString(fmt.Sprintf(`<a href="%s">%s</a>`,
			escapeHTML(reviewer.WebURL), escapeHTML(reviewer.Username)))
	}
	sb.WriteString(`</div>`)
}

// renderPipeline renders the head pipeline chip. Listing responses carry
// no pipeline, so before enrichment this renders the unknown state.
func (r *HTMLRenderer) renderPipeline(sb *strings.Builder, pipeline *domain.Pipeline) {
	status := domain.PipelineStatusUnknown
	webURL := ""
	var duration, queued time.Duration
	if pipeline != nil {
		status = pipeline.Status
		webURL = pipeline.WebURL
		duration = pipeline.Duration.Duration()
		queued = pipeline.QueuedDuration.Duration()
	}

	label := fmt.Sprintf(`<span class="status %s" title="pipeline:%s">%s %dm</span>`,
		pipelineStatusClass(status),
		escapeHTML(string(status)),
		escapeHTML(string(status)),
		int(duration.Minutes()))
	if webURL != "" {
		sb.WriteString(fmt.Sprintf(`<a href="%s" title="duration: %dm queued: %dm">%s</a>`,
			escapeHTML(webURL), int(duration.Minutes()), int(queued.Minutes()), label))
	} else {
		sb.WriteString(label)
	}
}
