package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/vilaca/mr-dashboard/internal/domain"
)

// htmlHead returns the common HTML head section.
func htmlHead(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<meta name="description" content="Monitor GitLab merge requests across authors and projects in one dashboard">

	<title>%s - MR Dashboard</title>
	%s
</head>`, title, commonCSS())
}

// commonCSS returns the shared CSS styles.
func commonCSS() string {
	return `<style>
		:root {
			--bg-primary: #f5f5f5;
			--bg-secondary: white;
			--text-primary: #333;
			--text-secondary: #666;
			--link-color: #0066cc;
			--button-bg: #0066cc;
			--button-hover: #0052a3;
			--border-color: #e0e0e0;
			--success-bg: #d4edda;
			--success-text: #155724;
			--failed-bg: #f8d7da;
			--failed-text: #721c24;
			--running-bg: #d1ecf1;
			--running-text: #0c5460;
			--pending-bg: #fff3cd;
			--pending-text: #856404;
			--canceled-bg: #e2e3e5;
			--canceled-text: #383d41;
		}
		body { font-family: system-ui, -apple-system, sans-serif; margin: 0; padding: 20px; background: var(--bg-primary); color: var(--text-primary); }
		.container { max-width: 1000px; margin: 0 auto; }
		a { color: var(--link-color); text-decoration: none; }
		a:hover { text-decoration: underline; }
		.header { display: flex; align-items: baseline; gap: 12px; }
		.header h1 { margin: 0 0 16px 0; }
		.count { font-size: 1.2em; color: var(--text-secondary); }
		.query-form { background: var(--bg-secondary); border: 1px solid var(--border-color); border-radius: 6px; padding: 12px 16px; margin-bottom: 16px; }
		.form-row { display: flex; flex-wrap: wrap; gap: 12px; align-items: flex-end; margin-bottom: 8px; }
		.form-row label { display: flex; flex-direction: column; font-size: 0.8em; color: var(--text-secondary); gap: 2px; }
		.form-row input, .form-row select { padding: 4px 6px; border: 1px solid var(--border-color); border-radius: 4px; font-size: 0.9em; }
		.form-row button { padding: 6px 18px; border: none; border-radius: 4px; background: var(--button-bg); color: white; cursor: pointer; }
		.form-row button:hover { background: var(--button-hover); }
		.error-banner { background: var(--failed-bg); color: var(--failed-text); border-radius: 6px; padding: 12px 16px; margin-bottom: 16px; }
		.empty { color: var(--text-secondary); }
		.mr-list { list-style: none; margin: 0; padding: 0; }
		.mr-row { display: flex; justify-content: space-between; gap: 16px; background: var(--bg-secondary); border-bottom: 1px solid var(--border-color); padding: 10px 16px; }
		.mr-title { font-size: 0.95em; }
		.mr-branch { font-family: monospace; font-size: 0.8em; color: var(--text-secondary); }
		.mr-meta, .mr-reviewers, .mr-updated { font-size: 0.8em; color: var(--text-secondary); }
		.mr-side { display: flex; flex-direction: column; align-items: flex-end; gap: 4px; white-space: nowrap; }
		.comments { font-size: 0.85em; color: var(--text-secondary); }
		.status { display: inline-block; border-radius: 10px; padding: 1px 10px; font-size: 0.78em; }
		.status.success { background: var(--success-bg); color: var(--success-text); }
		.status.failed { background: var(--failed-bg); color: var(--failed-text); }
		.status.running { background: var(--running-bg); color: var(--running-text); }
		.status.pending { background: var(--pending-bg); color: var(--pending-text); }
		.status.canceled { background: var(--canceled-bg); color: var(--canceled-text); }
	</style>`
}

// escapeHTML escapes special HTML characters to prevent XSS.
func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}

// textField renders a labelled text input.
func textField(name, label, value, placeholder string) string {
	return fmt.Sprintf(`<label>%s<input type="text" name="%s" value="%s" placeholder="%s"></label>`,
		escapeHTML(label), name, escapeHTML(value), escapeHTML(placeholder))
}

// dateField renders a labelled date input.
func dateField(name, label string, value *time.Time) string {
	v := ""
	if value != nil {
		v = value.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf(`<label>%s<input type="date" name="%s" value="%s"></label>`,
		escapeHTML(label), name, v)
}

// selectField renders a labelled select. When withEmpty is true an empty
// option is prepended, meaning "no filter".
func selectField(name, label, selected string, options []string, withEmpty bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<label>%s<select name="%s">`, escapeHTML(label), name))
	if withEmpty {
		sb.WriteString(`<option value=""></option>`)
	}
	for _, option := range options {
		marker := ""
		if option == selected {
			marker = ` selected`
		}
		sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`, option, marker, option))
	}
	sb.WriteString(`</select></label>`)
	return sb.String()
}

// mergeStatusClass buckets a merge request into a status CSS class,
// mirroring the state/merge-status combinations the original UI colours.
func mergeStatusClass(mr domain.MergeRequest) string {
	if mr.State == domain.StateUnknown || mr.DetailedMergeStatus == domain.MergeStatusUnknown {
		return "failed"
	}
	switch mr.State {
	case domain.StateClosed, domain.StateLocked:
		return "canceled"
	case domain.StateMerged:
		return "success"
	}
	// opened
	if mr.DetailedMergeStatus == domain.MergeStatusMergeable {
		if mr.MergeWhenPipelineSucceeds {
			return "running"
		}
		return "success"
	}
	return "pending"
}

// mergeStatusLabel is the short human label shown in the status chip.
func mergeStatusLabel(mr domain.MergeRequest) string {
	switch mr.State {
	case domain.StateMerged:
		return "merged"
	case domain.StateClosed:
		return "closed"
	case domain.StateLocked:
		return "locked"
	case domain.StateUnknown:
		return "unknown"
	}
	if mr.DetailedMergeStatus == domain.MergeStatusMergeable {
		if mr.MergeWhenPipelineSucceeds {
			return "auto-merge"
		}
		return "mergeable"
	}
	return string(mr.DetailedMergeStatus)
}

// pipelineStatusClass maps a pipeline status onto a status CSS class.
func pipelineStatusClass(status domain.PipelineStatus) string {
	switch status {
	case domain.PipelineStatusSuccess:
		return "success"
	case domain.PipelineStatusFailed, domain.PipelineStatusUnknown:
		return "failed"
	case domain.PipelineStatusCanceled:
		return "canceled"
	default:
		// created, waiting_for_resource, preparing, pending, running,
		// skipped, manual, scheduled
		return "running"
	}
}

// formatTimeAgo formats a time as "X ago" format.
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	}
	if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	}
	if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(duration.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	if days < 7 {
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("Jan 2, 2006")
}
