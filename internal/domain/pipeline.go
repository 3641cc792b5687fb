package domain

import (
	"encoding/json"
	"time"
)

// Pipeline is the CI run summary attached to a merge request's head
// commit.
type Pipeline struct {
	ID             int64          `json:"id"`
	SHA            string         `json:"sha"`
	Status         PipelineStatus `json:"status"`
	WebURL         string         `json:"web_url"`
	Duration       Seconds        `json:"duration"`
	QueuedDuration Seconds        `json:"queued_duration"`
}

// PipelineStatus is the state of a CI pipeline. Values the API may add
// in the future decode to PipelineStatusUnknown instead of failing.
type PipelineStatus string

const (
	PipelineStatusCreated            PipelineStatus = "created"
	PipelineStatusWaitingForResource PipelineStatus = "waiting_for_resource"
	PipelineStatusPreparing          PipelineStatus = "preparing"
	PipelineStatusPending            PipelineStatus = "pending"
	PipelineStatusRunning            PipelineStatus = "running"
	PipelineStatusSuccess            PipelineStatus = "success"
	PipelineStatusFailed             PipelineStatus = "failed"
	PipelineStatusCanceled           PipelineStatus = "canceled"
	PipelineStatusSkipped            PipelineStatus = "skipped"
	PipelineStatusManual             PipelineStatus = "manual"
	PipelineStatusScheduled          PipelineStatus = "scheduled"
	PipelineStatusUnknown            PipelineStatus = "unknown"
)

var knownPipelineStatuses = map[PipelineStatus]struct{}{
	PipelineStatusCreated:            {},
	PipelineStatusWaitingForResource: {},
	PipelineStatusPreparing:          {},
	PipelineStatusPending:            {},
	PipelineStatusRunning:            {},
	PipelineStatusSuccess:            {},
	PipelineStatusFailed:             {},
	PipelineStatusCanceled:           {},
	PipelineStatusSkipped:            {},
	PipelineStatusManual:             {},
	PipelineStatusScheduled:          {},
}

// UnmarshalJSON decodes any unrecognised status string to
// PipelineStatusUnknown.
func (s *PipelineStatus) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if _, ok := knownPipelineStatuses[PipelineStatus(v)]; ok {
		*s = PipelineStatus(v)
	} else {
		*s = PipelineStatusUnknown
	}
	return nil
}

// IsTerminal returns true if the pipeline is in a final state.
func (s PipelineStatus) IsTerminal() bool {
	return s == PipelineStatusSuccess || s == PipelineStatusFailed ||
		s == PipelineStatusCanceled || s == PipelineStatusSkipped
}

// Seconds is a duration counted in whole seconds on the wire. A JSON
// null decodes to zero, never to an error; a struct field that is absent
// from the payload stays at its zero value.
type Seconds time.Duration

// UnmarshalJSON decodes a JSON number of seconds, treating null as zero.
func (s *Seconds) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*s = 0
		return nil
	}
	*s = Seconds(time.Duration(*v * float64(time.Second)))
	return nil
}

// MarshalJSON encodes the duration back to whole seconds.
func (s Seconds) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(time.Duration(s) / time.Second))
}

// Duration returns the value as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}
