package jobstore

import "time"

// Status is the persisted lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job is one row of job history.
type Job struct {
	ID              int64
	RunID           int64
	CorrelationID   string
	Status          Status
	Codec           string
	Width           int
	Height          int
	ImageCount      int
	FrameDurationMS int64
	BitRate         int
	Audio           string
	Output          string
	ErrorKind       string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FinishedAt      *time.Time
	Duration        time.Duration
}

// Finished reports whether the job reached a terminal status.
func (j Job) Finished() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}
