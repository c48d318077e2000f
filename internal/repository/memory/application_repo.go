package memory

import (
	"context"
	"sort"

	"campus-placement-backend/internal/domain"
)

type applicationRepo struct {
	s *Store
}

func NewApplicationRepository(s *Store) domain.ApplicationRepository {
	return &applicationRepo{s: s}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[app.JobID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.applications {
		if existing.StudentID == app.StudentID && existing.JobID == app.JobID {
			return domain.ErrDuplicate
		}
	}
	r.s.nextApplicationID++
	app.ID = r.s.nextApplicationID
	r.s.applications[app.ID] = copyApplication(*app)
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := copyApplication(app)
	return &c, nil
}

func (r *applicationRepo) filter(keep func(domain.Application) bool) []domain.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	apps := []domain.Application{}
	for _, app := range r.s.applications {
		if keep(app) {
			apps = append(apps, copyApplication(app))
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].AppliedAt.After(apps[j].AppliedAt)
	})
	return apps
}

func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.StudentID == studentID }), nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.filter(func(a domain.Application) bool { return a.JobID == jobID }), nil
}

func (r *applicationRepo) Update(ctx context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.applications[app.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Status = app.Status
	current.InterviewDate = cloneTime(app.InterviewDate)
	current.InterviewMode = cloneString(app.InterviewMode)
	current.InterviewLocation = cloneString(app.InterviewLocation)
	current.History = append([]domain.StatusChange{}, app.History...)
	current.UpdatedAt = app.UpdatedAt
	r.s.applications[app.ID] = current
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.applications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.applications, id)
	return nil
}

func (r *applicationRepo) CountByStatus(ctx context.Context, studentID string) (map[domain.ApplicationStatus]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.ApplicationStatus]int64)
	for _, app := range r.s.applications {
		if studentID == "" || app.StudentID == studentID {
			counts[app.Status]++
		}
	}
	return counts, nil
}
