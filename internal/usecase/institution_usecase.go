package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"
	"campus-placement-backend/pkg/audit"

	"github.com/go-playground/validator/v10"
)

type institutionUsecase struct {
	repo     domain.InstitutionRepository
	validate *validator.Validate
	audit    *audit.Logger
}

func NewInstitutionUsecase(repo domain.InstitutionRepository, validate *validator.Validate, auditLog *audit.Logger) domain.InstitutionUsecase {
	return &institutionUsecase{repo: repo, validate: validate, audit: auditLog}
}

func (u *institutionUsecase) ListInstitutions(ctx context.Context) ([]domain.Institution, error) {
	list, err := u.repo.List(ctx)
	if err != nil {
		return nil, apperror.Unavailable("Institutions are temporarily unavailable", err)
	}
	return list, nil
}

func (u *institutionUsecase) GetInstitution(ctx context.Context, id int64) (*domain.Institution, error) {
	inst, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Institution not found")
	}
	return inst, nil
}

func (u *institutionUsecase) RegisterInstitution(ctx context.Context, inst *domain.Institution) error {
	inst.Name = strings.TrimSpace(inst.Name)
	inst.Code = strings.ToUpper(strings.TrimSpace(inst.Code))
	if err := validateStruct(u.validate, inst); err != nil {
		return err
	}
	inst.CreatedAt = time.Now()

	if err := u.repo.Create(ctx, inst); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperror.Conflict("An institution with this code already exists")
		}
		return storeError(err, "Institution not found")
	}
	u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionInstitutionAdded, Resource: "institution", ResourceID: inst.ID,
		Details: map[string]interface{}{"code": inst.Code, "registered": inst.Registered},
	})
	return nil
}
