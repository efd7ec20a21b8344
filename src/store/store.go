// Package store keeps build job records for the HTTP API. It is a simple
// in-process map: durable job persistence is explicitly out of scope, but
// the API still needs to answer "what happened to build X" while the
// process lives.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/sofmeright/dockhand/src/builder"
	"github.com/sofmeright/dockhand/src/scan"
)

// Status values a job moves through.
const (
	StatusPending  = "pending"
	StatusBuilding = "building"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
)

// Job is one build request and its outcome.
type Job struct {
	BuildID      string          `json:"build_id"`
	RepoRef      string          `json:"repo_ref,omitempty"`
	Status       string          `json:"status"`
	Technologies []string        `json:"technologies,omitempty"`
	Findings     []scan.Finding  `json:"findings,omitempty"`
	Result       *builder.Result `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

// Store is a concurrency-safe job map keyed by build id.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// New returns an empty Store.
func New() *Store {
	return &Store{jobs: map[string]*Job{}}
}

// Create registers a new pending job, replacing any previous record for
// the same build id (callers own build-id uniqueness).
func (s *Store) Create(buildID, repoRef string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{
		BuildID:   buildID,
		RepoRef:   repoRef,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.jobs[buildID] = job
	return s.snapshot(job)
}

// Update applies fn to the job under the lock.
func (s *Store) Update(buildID string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, ok := s.jobs[buildID]; ok {
		fn(job)
	}
}

// Finish records the pipeline result and final status.
func (s *Store) Finish(buildID string, res builder.Result) {
	now := time.Now().UTC()
	s.Update(buildID, func(j *Job) {
		r := res
		j.Result = &r
		j.FinishedAt = &now
		if res.Success {
			j.Status = StatusSuccess
		} else {
			j.Status = StatusFailed
		}
	})
}

// Get returns a copy of the job, or nil.
func (s *Store) Get(buildID string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[buildID]
	if !ok {
		return nil
	}
	return s.snapshot(job)
}

// List returns copies of all jobs, newest first.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, s.snapshot(job))
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs
}

// snapshot copies a job so callers never share the stored pointer, the
// slice backing arrays, or the result.
func (s *Store) snapshot(j *Job) *Job {
	cp := *j
	if j.Technologies != nil {
		cp.Technologies = append([]string(nil), j.Technologies...)
	}
	if j.Findings != nil {
		cp.Findings = append([]scan.Finding(nil), j.Findings...)
	}
	if j.Result != nil {
		r := *j.Result
		cp.Result = &r
	}
	if j.FinishedAt != nil {
		ts := *j.FinishedAt
		cp.FinishedAt = &ts
	}
	return &cp
}
