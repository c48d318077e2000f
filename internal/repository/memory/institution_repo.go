package memory

import (
	"context"
	"sort"
	"strings"

	"campus-placement-backend/internal/domain"
)

type institutionRepo struct {
	s *Store
}

func NewInstitutionRepository(s *Store) domain.InstitutionRepository {
	return &institutionRepo{s: s}
}

func (r *institutionRepo) Create(ctx context.Context, inst *domain.Institution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.institutions {
		if strings.EqualFold(existing.Code, inst.Code) {
			return domain.ErrDuplicate
		}
	}
	r.s.nextInstitutionID++
	inst.ID = r.s.nextInstitutionID
	r.s.institutions[inst.ID] = *inst
	return nil
}

func (r *institutionRepo) GetByID(ctx context.Context, id int64) (*domain.Institution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inst, ok := r.s.institutions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &inst, nil
}

func (r *institutionRepo) List(ctx context.Context) ([]domain.Institution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]domain.Institution, 0, len(r.s.institutions))
	for _, inst := range r.s.institutions {
		list = append(list, inst)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
