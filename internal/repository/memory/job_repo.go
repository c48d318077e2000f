package memory

import (
	"context"
	"fmt"
	"sort"

	"campus-placement-backend/internal/domain"
)

type jobRepo struct {
	s *Store
}

func NewJobRepository(s *Store) domain.JobRepository {
	return &jobRepo{s: s}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if job.ExternalID != nil && r.findExternal(job.Source, *job.ExternalID) != nil {
		return domain.ErrDuplicate
	}
	r.s.nextJobID++
	job.ID = r.s.nextJobID
	r.s.jobs[job.ID] = copyJob(*job)
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := copyJob(job)
	return &c, nil
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	jobs := []domain.Job{}
	for _, job := range r.s.jobs {
		if filter.Matches(&job) {
			jobs = append(jobs, copyJob(job))
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := copyJob(*job)
	// origin fields are immutable
	updated.Source = current.Source
	updated.ExternalID = current.ExternalID
	updated.CreatedBy = current.CreatedBy
	updated.CreatedAt = current.CreatedAt
	r.s.jobs[job.ID] = updated
	return nil
}

// Delete removes the job and its applications, mirroring ON DELETE CASCADE.
func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.jobs, id)
	for appID, app := range r.s.applications {
		if app.JobID == id {
			delete(r.s.applications, appID)
		}
	}
	return nil
}

func (r *jobRepo) UpsertExternal(ctx context.Context, job *domain.Job) (bool, error) {
	if job.ExternalID == nil || *job.ExternalID == "" {
		return false, fmt.Errorf("upsert external job: missing external id")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if existing := r.findExternal(job.Source, *job.ExternalID); existing != nil {
		existing.Title = job.Title
		existing.Company = job.Company
		existing.Location = job.Location
		existing.SalaryMin = job.SalaryMin
		existing.SalaryMax = job.SalaryMax
		existing.Salary = job.Salary
		existing.JobType = job.JobType
		existing.Description = job.Description
		existing.ApplyURL = cloneString(job.ApplyURL)
		existing.Active = true
		existing.UpdatedAt = now
		r.s.jobs[existing.ID] = *existing
		job.ID = existing.ID
		return false, nil
	}

	r.s.nextJobID++
	job.ID = r.s.nextJobID
	job.Active = true
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	r.s.jobs[job.ID] = copyJob(*job)
	return true, nil
}

// findExternal must be called with the lock held.
func (r *jobRepo) findExternal(source, externalID string) *domain.Job {
	for _, job := range r.s.jobs {
		if job.Source == source && job.ExternalID != nil && *job.ExternalID == externalID {
			j := job
			return &j
		}
	}
	return nil
}
