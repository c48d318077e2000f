package memory

import (
	"context"

	"campus-placement-backend/internal/domain"
)

type profileRepo struct {
	s *Store
}

func NewProfileRepository(s *Store) domain.ProfileRepository {
	return &profileRepo{s: s}
}

func (r *profileRepo) Create(ctx context.Context, p *domain.StudentProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[p.UserID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.institutions[p.InstitutionID]; !ok {
		return domain.ErrNotFound
	}
	r.s.nextProfileID++
	p.ID = r.s.nextProfileID
	r.s.profiles[p.UserID] = copyProfile(*p)
	return nil
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := copyProfile(p)
	return &c, nil
}

func (r *profileRepo) Update(ctx context.Context, p *domain.StudentProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.profiles[p.UserID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.s.institutions[p.InstitutionID]; !ok {
		return domain.ErrNotFound
	}
	updated := copyProfile(*p)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	r.s.profiles[p.UserID] = updated
	return nil
}
