package domain

import "time"

// JobState enumerates remote job lifecycle states. States are server-driven;
// the client only interprets what the status endpoint reports and never
// transitions a job itself.
type JobState string

const (
	JobStateQueued     JobState = "queued"
	JobStateRunning    JobState = "running"
	JobStateProcessing JobState = "processing"
	JobStateSucceeded  JobState = "succeeded"
	JobStateFailed     JobState = "failed"
)

// Terminal reports whether no further transitions are expected for the state.
func (s JobState) Terminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// JobOptions captures the caller-tunable generation parameters. Empty fields
// fall back to the documented defaults (3:4, 2K, png).
type JobOptions struct {
	AspectRatio  string `json:"aspect_ratio,omitempty"`
	Resolution   string `json:"resolution,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
}

// JobSnapshot is one observation of a remote job as reported by the status
// endpoint. ResultJSON is only meaningful when State is succeeded, FailMsg
// only when State is failed.
type JobSnapshot struct {
	JobID      string
	State      JobState
	ResultJSON string
	FailMsg    string
	CreateTime int64
	CostTime   int64
}

// GenerationResult is the tagged outcome of a full generate call. The
// generate path never surfaces an error value; failures arrive here with
// Success false and Error set.
type GenerationResult struct {
	Success          bool      `json:"success"`
	JobID            string    `json:"job_id,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	GenerationTimeMS int64     `json:"generation_time_ms,omitempty"`
	CompletedAt      time.Time `json:"completed_at,omitempty"`
	Error            string    `json:"error,omitempty"`
}
