package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sharanry/legal-assistant/model"
)

// JobStore is an in-memory store for analysis jobs. Jobs are short-lived:
// a terminal job is kept for a retention window so the client can poll the
// result, then deleted to bound memory growth.
type JobStore struct {
	jobs      map[string]*model.Job
	mu        sync.RWMutex
	retention time.Duration
	maxJobs   int // maximum jobs to keep, 0 = unlimited
}

// NewJobStore creates a job store with the given retention window for
// terminal jobs and an overall capacity bound.
func NewJobStore(retention time.Duration, maxJobs int) *JobStore {
	if maxJobs < 0 {
		maxJobs = 0
	}
	return &JobStore{
		jobs:      make(map[string]*model.Job),
		retention: retention,
		maxJobs:   maxJobs,
	}
}

// Create inserts a new job record with status processing.
func (s *JobStore) Create(job *model.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job.Status = model.StatusProcessing
	job.CreatedAt = now
	job.UpdatedAt = now
	s.jobs[job.ID] = job

	s.evictIfNeeded()
}

// Get returns a snapshot of the job, or ErrJobNotFound for unknown and
// expired IDs. Expired jobs are removed lazily here; the sweeper covers
// jobs that are never polled again.
func (s *JobStore) Get(id string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, ErrJobNotFound
	}
	if !job.ExpiresAt.IsZero() && time.Now().After(job.ExpiresAt) {
		delete(s.jobs, id)
		return model.Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Complete transitions a job to completed with its result. The expiry
// window starts here and is set exactly once; a job never leaves a
// terminal status.
func (s *JobStore) Complete(id string, result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Terminal() {
		return
	}
	job.Status = model.StatusCompleted
	job.Result = result
	job.UpdatedAt = time.Now()
	job.ExpiresAt = job.UpdatedAt.Add(s.retention)
}

// Fail transitions a job to error with a human-readable message.
func (s *JobStore) Fail(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok || job.Terminal() {
		return
	}
	job.Status = model.StatusError
	job.ErrorMsg = errMsg
	job.UpdatedAt = time.Now()
	job.ExpiresAt = job.UpdatedAt.Add(s.retention)
}

// Delete removes a job record.
func (s *JobStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
}

// Count returns the number of jobs in the store.
func (s *JobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// StartSweeper runs a background loop that removes expired jobs until the
// context is cancelled. One sweep loop serves every job; there is no timer
// per job.
func (s *JobStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sweep(); n > 0 {
					slog.Debug("swept expired jobs", "count", n)
				}
			}
		}
	}()
}

func (s *JobStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, job := range s.jobs {
		if !job.ExpiresAt.IsZero() && now.After(job.ExpiresAt) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// evictIfNeeded removes the oldest jobs when the store exceeds maxJobs.
// Must be called with the lock held.
func (s *JobStore) evictIfNeeded() {
	if s.maxJobs <= 0 {
		return
	}
	if len(s.jobs) <= s.maxJobs {
		return
	}

	jobs := make([]*model.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	removeCount := len(jobs) - s.maxJobs
	for i := 0; i < removeCount; i++ {
		slog.Info("evicting old job",
			"job_id", jobs[i].ID,
			"created_at", jobs[i].CreatedAt,
		)
		delete(s.jobs, jobs[i].ID)
	}
}
