package memory

import (
	"context"

	"campus-placement-backend/internal/domain"
)

type userRepo struct {
	s *Store
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepo{s: s}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return nil
}
