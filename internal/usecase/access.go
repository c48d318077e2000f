package usecase

import (
	"context"
	"errors"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"
	"campus-placement-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

func currentActor(ctx context.Context) (domain.Actor, error) {
	actor, ok := domain.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, apperror.Unauthorized("User not authenticated")
	}
	return actor, nil
}

// authorizeStudentAccess lets staff through and restricts students to their own records.
func authorizeStudentAccess(ctx context.Context, studentID, message string) error {
	actor, err := currentActor(ctx)
	if err != nil {
		return err
	}
	if domain.IsStaffRole(actor.Role) || actor.UserID == studentID {
		return nil
	}
	return apperror.Forbidden(message)
}

func validateStruct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return apperror.Validation("Validation failed", validation.FormatValidationErrors(err))
	}
	return nil
}

// storeError maps repository errors that reach the usecase boundary.
func storeError(err error, notFoundMessage string) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFoundMessage)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperror.Unavailable("Request timed out", err)
	default:
		return apperror.Internal(err)
	}
}
