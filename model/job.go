package model

import (
	"time"
)

// Job tracks one background contract analysis tied to one uploaded file.
type Job struct {
	ID          string          `json:"id"`
	FileName    string          `json:"filename"`
	Status      string          `json:"status"` // processing, completed, error
	ArtifactKey string          `json:"-"`
	Result      *AnalysisResult `json:"result,omitempty"`
	ErrorMsg    string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	// ExpiresAt is zero until the job reaches a terminal status; it is set
	// exactly once when that happens.
	ExpiresAt time.Time `json:"-"`
}

// Job status constants. Processing starts at submission, so there is no
// queued/pending state.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Terminal reports whether the job has reached a final status.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusError
}
