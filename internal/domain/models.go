package domain

import "time"

// JobStatus is the lifecycle state of an asynchronous consolidation
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobFailed    JobStatus = "FAILED"
)

// IsTerminal reports whether no further transitions are allowed
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is a snapshot of a tracked consolidation
type Job struct {
	ID             string    `json:"id"`
	Status         JobStatus `json:"status"`
	Message        string    `json:"message"`
	OutputPath     string    `json:"outputPath,omitempty"`
	FilesProcessed int       `json:"filesProcessed"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FileEntry is a discovered file that passed the ignore and inclusion rules
type FileEntry struct {
	Path    string // absolute path on disk
	RelPath string // slash-separated path relative to the scan root
	Name    string // base file name
}
