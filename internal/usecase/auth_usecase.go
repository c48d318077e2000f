package usecase

import (
	"context"
	"errors"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"
	"campus-placement-backend/pkg/audit"
)

type authUsecase struct {
	userRepo domain.UserRepository
	audit    *audit.Logger
	now      func() time.Time
}

func NewAuthUsecase(userRepo domain.UserRepository, auditLog *audit.Logger) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo, audit: auditLog, now: time.Now}
}

// ResolveUser is idempotent. Concurrent first requests from the same
// identity race on Create; the loser re-reads the winner's row.
func (u *authUsecase) ResolveUser(ctx context.Context, id, email string) (*domain.User, error) {
	existing, err := u.userRepo.GetByID(ctx, id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Unavailable("Could not load user", err)
	}

	now := u.now()
	user := &domain.User{ID: id, Email: email, Role: domain.RoleStudent, CreatedAt: now, UpdatedAt: now}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return u.GetCurrentUser(ctx, id)
		}
		return nil, apperror.Unavailable("Could not create user", err)
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found")
	}
	return user, nil
}

func (u *authUsecase) AssignRole(ctx context.Context, userID string, role string) error {
	if !domain.IsValidRole(role) {
		return apperror.BadRequest("Role must be one of student, coordinator, admin")
	}
	if actor, ok := domain.ActorFromContext(ctx); ok && actor.UserID == userID && role != domain.RoleAdmin {
		return apperror.BadRequest("Administrators cannot demote themselves")
	}
	if err := u.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return storeError(err, "User not found")
	}
	u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionRoleAssigned, Resource: "user", ResourceID: userID,
		Details: map[string]interface{}{"role": role},
	})
	return nil
}
