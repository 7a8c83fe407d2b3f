package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cuongbtq/applog/internal/tracker/domain"
)

// Board bundles every projection for one filter selection.
type Board struct {
	Filter    Filter                  `json:"filter"`
	Jobs      []domain.JobApplication `json:"filtered_jobs"`
	Archived  []domain.JobApplication `json:"archived_jobs"`
	Counts    Counts                  `json:"counts"`
	Locations []string                `json:"unique_locations"`
	Companies []string                `json:"unique_companies"`
	Statuses  []domain.Status         `json:"unique_statuses"`
}

// NewBoard computes a Board from jobs.
func NewBoard(jobs []domain.JobApplication, f Filter) Board {
	return Board{
		Filter:    f,
		Jobs:      Filtered(jobs, f),
		Archived:  Archived(jobs),
		Counts:    CountsFor(jobs, f),
		Locations: UniqueLocations(jobs),
		Companies: UniqueCompanies(jobs),
		Statuses:  UniqueStatuses(jobs),
	}
}

// Source loads the full list of applications. *service.JobService satisfies
// it.
type Source interface {
	GetAll(ctx context.Context) ([]domain.JobApplication, error)
}

// Session holds one user's snapshot of the job list. The snapshot is only
// ever replaced wholesale by Refresh, never edited in place.
type Session struct {
	source Source

	mu          sync.RWMutex
	jobs        []domain.JobApplication
	refreshedAt time.Time
}

// NewSession creates an empty session backed by source.
func NewSession(source Source) *Session {
	return &Session{source: source, jobs: []domain.JobApplication{}}
}

// Refresh reloads the list. On failure the previous snapshot is kept.
func (s *Session) Refresh(ctx context.Context) error {
	jobs, err := s.source.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if jobs == nil {
		jobs = []domain.JobApplication{}
	}

	s.mu.Lock()
	s.jobs = jobs
	s.refreshedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Jobs returns a copy of the current snapshot.
func (s *Session) Jobs() []domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.JobApplication, len(s.jobs))
	for i := range s.jobs {
		out[i] = clone(s.jobs[i])
	}
	return out
}

// RefreshedAt reports when the snapshot was last replaced.
func (s *Session) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Board computes the projections for f over the current snapshot.
func (s *Session) Board(f Filter) Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewBoard(s.jobs, f)
}

// Find returns a copy of the job with id from the snapshot, or nil.
func (s *Session) Find(id int64) *domain.JobApplication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindByID(s.jobs, id)
}
