// Package jobs keeps the in-memory registry of asynchronous consolidations.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantmind-br/dirscribe-go/internal/domain"
	"github.com/quantmind-br/dirscribe-go/internal/utils"
)

// Tracker is a concurrency-safe job registry.
// Records live for the lifetime of the process.
type Tracker struct {
	mu     sync.RWMutex
	jobs   map[string]domain.Job
	now    func() time.Time
	logger *utils.Logger
}

// TrackerOptions contains options for creating a Tracker
type TrackerOptions struct {
	Logger *utils.Logger
	// Now overrides the clock, for tests
	Now func() time.Time
}

// NewTracker creates an empty Tracker
func NewTracker(opts TrackerOptions) *Tracker {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		jobs:   make(map[string]domain.Job),
		now:    opts.Now,
		logger: opts.Logger,
	}
}

// Create registers a Pending job and returns its id
func (t *Tracker) Create() string {
	id := uuid.NewString()
	now := t.now()

	t.mu.Lock()
	t.jobs[id] = domain.Job{
		ID:        id,
		Status:    domain.JobPending,
		Message:   "Job created",
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Debug().Str("job_id", id).Msg("Job created")
	}
	return id
}

// Update replaces the mutable fields of a job in one step.
// Unknown ids and jobs already Completed or Failed are left untouched.
func (t *Tracker) Update(id string, status domain.JobStatus, message, outputPath string, filesProcessed int, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok || job.Status.IsTerminal() {
		return
	}

	job.Status = status
	job.Message = message
	job.OutputPath = outputPath
	job.FilesProcessed = filesProcessed
	job.Error = errMsg
	job.UpdatedAt = t.now()
	t.jobs[id] = job
}

// Get returns a copy of the job
func (t *Tracker) Get(id string) (domain.Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	return job, ok
}
