// Package background is the durable FIFO job queue for deferred work:
// run-task delegations and mcp-search research jobs. Jobs persist in a single
// JSON store file and move through queued, running, and a terminal completed
// or failed state.
package background

import (
	"encoding/json"
	"time"

	"github.com/conductkit/conduct/pkg/models"
)

// storeVersion is the on-disk schema version.
const storeVersion = 1

// JobStatus is the queue state of a background job.
type JobStatus string

const (
	// JobQueued means the job is waiting for dispatch.
	JobQueued JobStatus = "queued"
	// JobRunning means the job has been picked up.
	JobRunning JobStatus = "running"
	// JobCompleted means the job finished successfully. Terminal.
	JobCompleted JobStatus = "completed"
	// JobFailed means the job finished with an error. Terminal.
	JobFailed JobStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s JobStatus) Valid() bool {
	switch s {
	case JobQueued, JobRunning, JobCompleted, JobFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobKind identifies what a background job does when executed.
type JobKind string

const (
	// KindRunTask runs a full delegation for the embedded task.
	KindRunTask JobKind = "run-task"
	// KindSearch runs a research search against a provider.
	KindSearch JobKind = "mcp-search"
)

// Payload is the kind-specific input of a job. Exactly the fields for the
// declared kind are set.
type Payload struct {
	Kind JobKind `json:"kind"`
	// Task is the delegation input for run-task jobs.
	Task *models.Task `json:"task,omitempty"`
	// Provider selects the search adapter for mcp-search jobs.
	Provider string `json:"provider,omitempty"`
	// Query is the search query for mcp-search jobs.
	Query string `json:"query,omitempty"`
	// FeatureID, when set on an mcp-search job, appends the result to that
	// feature's research log.
	FeatureID string `json:"feature_id,omitempty"`
}

// Job is one persisted queue entry.
type Job struct {
	ID         string          `json:"id"`
	Status     JobStatus       `json:"status"`
	Payload    Payload         `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	// Error holds the failure message for failed jobs.
	Error string `json:"error,omitempty"`
	// Result holds the kind-specific outcome for completed jobs.
	Result json.RawMessage `json:"result,omitempty"`
}

// storeFile is the on-disk container. Job ids are unique within Jobs, which
// is ordered by enqueue time.
type storeFile struct {
	Version int   `json:"version"`
	Jobs    []Job `json:"jobs"`
}
