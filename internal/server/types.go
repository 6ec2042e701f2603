package server

import (
	"time"

	"reel/internal/gate"
	"reel/internal/jobstore"
)

// StateResponse describes the gate and orchestrator state.
type StateResponse struct {
	Gate          gate.State `json:"gate"`
	Orchestrator  string     `json:"orchestrator"`
	CurrentJob    int64      `json:"current_job,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	LastResult    string     `json:"last_result,omitempty"`
	Codec         string     `json:"codec"`
	Codecs        []string   `json:"codecs"`
}

// CreateRequest optionally overrides the configured inputs. When Wait is
// set the call blocks until the job finishes.
type CreateRequest struct {
	Images []string `json:"images,omitempty"`
	Audio  string   `json:"audio,omitempty"`
	Wait   bool     `json:"wait,omitempty"`
}

// CreateResponse reports an accepted job and, when waited for, its outcome.
type CreateResponse struct {
	JobID     int64  `json:"job_id"`
	Completed bool   `json:"completed"`
	Succeeded bool   `json:"succeeded,omitempty"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CodecRequest selects the codec for subsequent jobs.
type CodecRequest struct {
	Codec string `json:"codec"`
}

// PathResponse carries a single file path.
type PathResponse struct {
	Path string `json:"path"`
}

// JobView is the API form of a job history row.
type JobView struct {
	ID            int64      `json:"id"`
	RunID         int64      `json:"run_id"`
	CorrelationID string     `json:"correlation_id"`
	Status        string     `json:"status"`
	Codec         string     `json:"codec"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	ImageCount    int        `json:"image_count"`
	Output        string     `json:"output,omitempty"`
	ErrorKind     string     `json:"error_kind,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	DurationMS    int64      `json:"duration_ms,omitempty"`
}

// JobListResponse wraps job history rows.
type JobListResponse struct {
	Jobs []JobView `json:"jobs"`
}

func fromJob(job *jobstore.Job) JobView {
	return JobView{
		ID:            job.ID,
		RunID:         job.RunID,
		CorrelationID: job.CorrelationID,
		Status:        string(job.Status),
		Codec:         job.Codec,
		Width:         job.Width,
		Height:        job.Height,
		ImageCount:    job.ImageCount,
		Output:        job.Output,
		ErrorKind:     job.ErrorKind,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		FinishedAt:    job.FinishedAt,
		DurationMS:    job.Duration.Milliseconds(),
	}
}
