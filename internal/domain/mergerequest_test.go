package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want State
	}{
		{"opened", `"opened"`, StateOpened},
		{"closed", `"closed"`, StateClosed},
		{"locked", `"locked"`, StateLocked},
		{"merged", `"merged"`, StateMerged},
		{"unknown passthrough", `"unknown"`, StateUnknown},
		{"future value", `"hibernating"`, StateUnknown},
		{"empty", `""`, StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			require.NoError(t, json.Unmarshal([]byte(tt.json), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestMergeStatusUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want MergeStatus
	}{
		{"mergeable", `"mergeable"`, MergeStatusMergeable},
		{"blocked", `"blocked_status"`, MergeStatusBlocked},
		{"legacy blocked alias", `"merge_request_blocked"`, MergeStatusBlocked},
		{"conflict", `"conflict"`, MergeStatusConflict},
		{"requested changes", `"requested_changes"`, MergeStatusRequestedChanges},
		{"future value", `"quantum_entangled"`, MergeStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s MergeStatus
			require.NoError(t, json.Unmarshal([]byte(tt.json), &s))
			assert.Equal(t, tt.want, s)
		})
	}
}

func TestKnownEnumRoundTrip(t *testing.T) {
	// serialize -> deserialize is the identity for every documented value
	for status := range knownMergeStatuses {
		data, err := json.Marshal(status)
		require.NoError(t, err)

		var back MergeStatus
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, status, back)
	}
	for status := range knownPipelineStatuses {
		data, err := json.Marshal(status)
		require.NoError(t, err)

		var back PipelineStatus
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, status, back)
	}
}

func TestMergeRequestUnmarshal(t *testing.T) {
	payload := `{
		"id": 1000,
		"iid": 42,
		"project_id": 7,
		"title": "Add frobnicator",
		"source_branch": "feature/frob",
		"state": "opened",
		"detailed_merge_status": "not_approved",
		"draft": false,
		"has_conflicts": false,
		"blocking_discussions_resolved": true,
		"merge_when_pipeline_succeeds": false,
		"author": {"id": 1, "username": "alice", "name": "Alice", "avatar_url": "https://example.test/a.png", "web_url": "https://example.test/alice", "state": "active"},
		"reviewers": [{"id": 2, "username": "bob", "name": "Bob", "avatar_url": "", "web_url": "https://example.test/bob", "state": "active"}],
		"references": {"full": "grp/app!42", "short": "!42", "relative": "!42"},
		"sha": "deadbeef",
		"merge_commit_sha": null,
		"user_notes_count": 3,
		"created_at": "2024-03-01T10:00:00Z",
		"updated_at": "2024-03-02T11:00:00Z",
		"merged_at": null,
		"web_url": "https://example.test/grp/app/-/merge_requests/42"
	}`

	var mr MergeRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &mr))

	assert.Equal(t, int64(42), mr.IID)
	assert.Equal(t, int64(7), mr.ProjectID)
	assert.Equal(t, StateOpened, mr.State)
	assert.Equal(t, MergeStatusNotApproved, mr.DetailedMergeStatus)
	assert.Equal(t, "alice", mr.Author.Username)
	require.Len(t, mr.Reviewers, 1)
	assert.Equal(t, "bob", mr.Reviewers[0].Username)
	assert.Equal(t, "grp/app!42", mr.References.Full)
	require.NotNil(t, mr.SHA)
	assert.Equal(t, "deadbeef", *mr.SHA)
	assert.Nil(t, mr.MergeCommitSHA)
	assert.Nil(t, mr.MergedAt)
	// listing responses carry no pipeline
	assert.Nil(t, mr.HeadPipeline)
}

func TestMergeRequestUnmarshal_NoReviewers(t *testing.T) {
	// reviewers may be absent entirely from older API versions
	payload := `{"id": 1, "iid": 2, "project_id": 3, "state": "merged", "detailed_merge_status": "not_open"}`

	var mr MergeRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &mr))
	assert.Empty(t, mr.Reviewers)
	assert.Equal(t, StateMerged, mr.State)
}
