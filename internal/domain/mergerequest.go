package domain

import (
	"encoding/json"
	"time"
)

// MergeRequest is one merge request as returned by the GitLab API. It is
// an immutable snapshot of one HTTP response; enrichment replaces the
// whole value rather than mutating it. The pair (ProjectID, IID) is the
// identity used to address the detail endpoint and never changes across
// a refetch.
type MergeRequest struct {
	ID                          int64       `json:"id"`
	IID                         int64       `json:"iid"`
	ProjectID                   int64       `json:"project_id"`
	Title                       string      `json:"title"`
	SourceBranch                string      `json:"source_branch"`
	State                       State       `json:"state"`
	DetailedMergeStatus         MergeStatus `json:"detailed_merge_status"`
	Draft                       bool        `json:"draft"`
	HasConflicts                bool        `json:"has_conflicts"`
	BlockingDiscussionsResolved bool        `json:"blocking_discussions_resolved"`
	MergeWhenPipelineSucceeds   bool        `json:"merge_when_pipeline_succeeds"`
	Author                      User        `json:"author"`
	Reviewers                   []User      `json:"reviewers"`
	MergeUser                   *User       `json:"merge_user"`
	HeadPipeline                *Pipeline   `json:"head_pipeline"`
	References                  References  `json:"references"`
	SHA                         *string     `json:"sha"`
	MergeCommitSHA              *string     `json:"merge_commit_sha"`
	UserNotesCount              int64       `json:"user_notes_count"`
	CreatedAt                   time.Time   `json:"created_at"`
	UpdatedAt                   time.Time   `json:"updated_at"`
	MergedAt                    *time.Time  `json:"merged_at"`
	LatestBuildStartedAt        *time.Time  `json:"latest_build_started_at"`
	LatestBuildFinishedAt       *time.Time  `json:"latest_build_finished_at"`
	WebURL                      string      `json:"web_url"`
}

// References holds the canonical reference strings of a merge request
// (e.g. full "group/app!42", short "!42"). The full form is the stable
// key the presentation layer uses.
type References struct {
	Full     string `json:"full"`
	Short    string `json:"short"`
	Relative string `json:"relative"`
}

// State is the lifecycle state of a merge request. Values the API may
// add in the future decode to StateUnknown instead of failing.
type State string

const (
	StateOpened  State = "opened"
	StateClosed  State = "closed"
	StateLocked  State = "locked"
	StateMerged  State = "merged"
	StateUnknown State = "unknown"
)

// UnmarshalJSON decodes any unrecognised state string to StateUnknown.
func (s *State) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch State(v) {
	case StateOpened, StateClosed, StateLocked, StateMerged:
		*s = State(v)
	default:
		*s = StateUnknown
	}
	return nil
}

// MergeStatus is the detailed merge status of a merge request. The set
// of values is defined by the remote API and grows over time, so any
// unrecognised value decodes to MergeStatusUnknown.
type MergeStatus string

const (
	// MergeStatusBlocked: blocked by another merge request.
	MergeStatusBlocked MergeStatus = "blocked_status"
	// MergeStatusChecking: git is testing if a valid merge is possible.
	MergeStatusChecking MergeStatus = "checking"
	// MergeStatusUnchecked: git has not yet tested if a valid merge is possible.
	MergeStatusUnchecked MergeStatus = "unchecked"
	// MergeStatusCIMustPass: a CI/CD pipeline must succeed before merge.
	MergeStatusCIMustPass MergeStatus = "ci_must_pass"
	// MergeStatusCIStillRunning: a CI/CD pipeline is still running.
	MergeStatusCIStillRunning MergeStatus = "ci_still_running"
	// MergeStatusDiscussionsNotResolved: all discussions must be resolved before merge.
	MergeStatusDiscussionsNotResolved MergeStatus = "discussions_not_resolved"
	// MergeStatusDraft: can't merge because the merge request is a draft.
	MergeStatusDraft MergeStatus = "draft_status"
	// MergeStatusExternalStatusChecks: all status checks must pass before merge.
	MergeStatusExternalStatusChecks MergeStatus = "external_status_checks"
	// MergeStatusMergeable: the branch can merge cleanly into the target branch.
	MergeStatusMergeable MergeStatus = "mergeable"
	// MergeStatusNotApproved: approval is required before merge.
	MergeStatusNotApproved MergeStatus = "not_approved"
	// MergeStatusNotOpen: the merge request must be open before merge.
	MergeStatusNotOpen MergeStatus = "not_open"
	// MergeStatusJiraAssociationMissing: the title or description must reference a Jira issue.
	MergeStatusJiraAssociationMissing MergeStatus = "jira_association_missing"
	// MergeStatusNeedRebase: the merge request must be rebased.
	MergeStatusNeedRebase MergeStatus = "need_rebase"
	// MergeStatusConflict: there are conflicts between the source and target branches.
	MergeStatusConflict MergeStatus = "conflict"
	// MergeStatusRequestedChanges: a reviewer has requested changes.
	MergeStatusRequestedChanges MergeStatus = "requested_changes"
	// MergeStatusUnknown: any value not documented by GitLab.
	MergeStatusUnknown MergeStatus = "unknown"
)

var knownMergeStatuses = map[MergeStatus]struct{}{
	MergeStatusBlocked:                {},
	MergeStatusChecking:               {},
	MergeStatusUnchecked:              {},
	MergeStatusCIMustPass:             {},
	MergeStatusCIStillRunning:         {},
	MergeStatusDiscussionsNotResolved: {},
	MergeStatusDraft:                  {},
	MergeStatusExternalStatusChecks:   {},
	MergeStatusMergeable:              {},
	MergeStatusNotApproved:            {},
	MergeStatusNotOpen:                {},
	MergeStatusJiraAssociationMissing: {},
	MergeStatusNeedRebase:             {},
	MergeStatusConflict:               {},
	MergeStatusRequestedChanges:       {},
}

// UnmarshalJSON decodes the merge status, mapping the legacy
// "merge_request_blocked" spelling to MergeStatusBlocked and any
// unrecognised value to MergeStatusUnknown.
func (s *MergeStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	// older GitLab versions report blocked_status under this name
	if v == "merge_request_blocked" {
		*s = MergeStatusBlocked
		return nil
	}
	if _, ok := knownMergeStatuses[MergeStatus(v)]; ok {
		*s = MergeStatus(v)
	} else {
		*s = MergeStatusUnknown
	}
	return nil
}
