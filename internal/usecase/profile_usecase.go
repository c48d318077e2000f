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

type profileUsecase struct {
	profileRepo     domain.ProfileRepository
	institutionRepo domain.InstitutionRepository
	validate        *validator.Validate
	audit           *audit.Logger
	now             func() time.Time
}

func NewProfileUsecase(
	profileRepo domain.ProfileRepository,
	institutionRepo domain.InstitutionRepository,
	validate *validator.Validate,
	auditLog *audit.Logger,
) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo:     profileRepo,
		institutionRepo: institutionRepo,
		validate:        validate,
		audit:           auditLog,
		now:             time.Now,
	}
}

// authorizeOwner allows a caller to write only their own profile.
func authorizeOwner(ctx context.Context, userID string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if actor.UserID != userID {
		return apperror.Forbidden("Forbidden: You can only modify your own profile")
	}
	return nil
}

func (u *profileUsecase) normalize(p *domain.StudentProfile) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Branch = strings.ToUpper(strings.TrimSpace(p.Branch))
	p.AcademicYear = strings.TrimSpace(p.AcademicYear)
	p.Email = strings.TrimSpace(p.Email)
}

func (u *profileUsecase) checkInstitution(ctx context.Context, id int64) error {
	if _, err := u.institutionRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Validation("Validation failed", []string{"Institution: unknown institution"})
		}
		return storeError(err, "Institution not found")
	}
	return nil
}

// CreateProfile completes onboarding. Each identity gets exactly one profile.
func (u *profileUsecase) CreateProfile(ctx context.Context, p *domain.StudentProfile) error {
	if err := authorizeOwner(ctx, p.UserID); err != nil {
		return err
	}
	u.normalize(p)
	if err := validateStruct(u.validate, p); err != nil {
		return err
	}
	if err := u.checkInstitution(ctx, p.InstitutionID); err != nil {
		return err
	}

	now := u.now()
	p.OnboardingCompleted = true
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := u.profileRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperror.Conflict("Profile already exists for this user")
		}
		return storeError(err, "Institution not found")
	}
	u.audit.Record(ctx, audit.Entry{Action: audit.ActionProfileCreated, Resource: "profile", ResourceID: p.ID})
	return nil
}

// GetProfile returns a profile to its owner or to staff.
func (u *profileUsecase) GetProfile(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	if err := authorizeStudentAccess(ctx, userID, "Forbidden: You can only view your own profile"); err != nil {
		return nil, err
	}
	p, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "Profile not found")
	}
	return p, nil
}

func (u *profileUsecase) UpdateProfile(ctx context.Context, p *domain.StudentProfile) error {
	if err := authorizeOwner(ctx, p.UserID); err != nil {
		return err
	}
	existing, err := u.profileRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return storeError(err, "Profile not found")
	}

	u.normalize(p)
	if err := validateStruct(u.validate, p); err != nil {
		return err
	}
	if p.InstitutionID != existing.InstitutionID {
		if err := u.checkInstitution(ctx, p.InstitutionID); err != nil {
			return err
		}
	}

	p.ID = existing.ID
	p.OnboardingCompleted = true
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = u.now()
	if err := u.profileRepo.Update(ctx, p); err != nil {
		return storeError(err, "Profile not found")
	}
	u.audit.Record(ctx, audit.Entry{Action: audit.ActionProfileUpdated, Resource: "profile", ResourceID: p.ID})
	return nil
}

func (u *profileUsecase) CheckOnboarding(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	if err := authorizeStudentAccess(ctx, userID, "Forbidden: You can only view your own onboarding status"); err != nil {
		return nil, err
	}
	p, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.OnboardingStatus{Completed: false}, nil
		}
		return nil, storeError(err, "Profile not found")
	}
	status := &domain.OnboardingStatus{
		Completed: p.OnboardingCompleted,
		ProfileID: &p.ID,
	}
	if p.OnboardingCompleted {
		completedAt := p.CreatedAt
		status.CompletedAt = &completedAt
	}
	return status, nil
}
