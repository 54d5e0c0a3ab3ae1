package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"vmr2tei/internal/converter"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ConvertRequest is the body of a conversion request.
type ConvertRequest struct {
	// Index is the NTVMR content index to convert, e.g. "Acts.2.45".
	Index string `json:"index"`
}

// Job represents an asynchronous conversion job.
type Job struct {
	ID          string         `json:"id"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"` // 0-100
	Stage       string         `json:"stage,omitempty"`
	Index       string         `json:"index"`
	Book        string         `json:"book,omitempty"`
	Witnesses   int            `json:"witnesses,omitempty"`
	Units       int            `json:"units,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	CompletedAt string         `json:"completed_at,omitempty"`
	tei         []byte
	ctx         context.Context
	cancel      context.CancelFunc
}

// JobStore manages conversion jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

// Create creates a new job for a content index and returns it.
func (s *JobStore) Create(index string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		Index:     index,
		CreatedAt: now,
		UpdatedAt: now,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.jobs[job.ID] = job
	return job
}

// Get retrieves a snapshot of a job by ID.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

// Result returns the finished TEI for a completed job.
func (s *JobStore) Result(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, exists := s.jobs[id]
	if !exists || job.Status != JobStatusCompleted {
		return nil, false
	}
	return job.tei, true
}

// SetProgress records pipeline advancement on a running job.
func (s *JobStore) SetProgress(id, stage string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[id]
	if !exists {
		return
	}
	job.Status = JobStatusRunning
	job.Stage = stage
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Complete marks a job finished with its result.
func (s *JobStore) Complete(id string, res *converter.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[id]
	if !exists {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = JobStatusCompleted
	job.Progress = 100
	job.Stage = converter.StageDone
	job.Book = res.Book
	job.Witnesses = res.Witnesses
	job.Units = res.Units
	job.tei = res.TEI
	job.UpdatedAt = now
	job.CompletedAt = now
}

// Fail marks a job failed.
func (s *JobStore) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[id]
	if !exists {
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	status := JobStatusFailed
	if job.ctx.Err() != nil {
		status = JobStatusCancelled
	}
	job.Status = status
	job.Error = err.Error()
	job.UpdatedAt = now
	job.CompletedAt = now
}

// Cancel cancels a pending or running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}
	if job.Status != JobStatusPending && job.Status != JobStatusRunning {
		return fmt.Errorf("job cannot be cancelled (status: %s)", job.Status)
	}
	job.cancel()
	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = JobStatusCancelled
	job.UpdatedAt = now
	job.CompletedAt = now
	return nil
}

// List returns snapshots of all jobs.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// runJob executes a conversion job in a goroutine, feeding progress to
// the job store and the WebSocket hub.
func (s *Server) runJob(job *Job) {
	go func() {
		s.jobs.SetProgress(job.ID, converter.StageFetch, 0)
		res, err := s.convert(job.ctx, job.Index, func(p converter.Progress) {
			s.jobs.SetProgress(job.ID, p.Stage, p.Percent)
			s.hub.BroadcastProgress(job.ID, p)
		})
		if err != nil {
			s.jobs.Fail(job.ID, err)
			s.hub.BroadcastError(job.ID, job.Index, err.Error())
			return
		}
		s.jobs.Complete(job.ID, res)
		s.hub.BroadcastComplete(job.ID, res)
	}()
}
