package domain

import (
	"context"
	"time"
)

// Institution is a college or university. Only students of registered
// institutions can see on-campus postings.
type Institution struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name" validate:"required,min=3,max=200"`
	Code       string    `json:"code" validate:"required,alphanum,max=20"`
	City       string    `json:"city" validate:"max=100"`
	Registered bool      `json:"registered"`
	CreatedAt  time.Time `json:"created_at"`
}

type InstitutionRepository interface {
	Create(ctx context.Context, inst *Institution) error
	GetByID(ctx context.Context, id int64) (*Institution, error)
	List(ctx context.Context) ([]Institution, error)
}

type InstitutionUsecase interface {
	ListInstitutions(ctx context.Context) ([]Institution, error)
	GetInstitution(ctx context.Context, id int64) (*Institution, error)
	RegisterInstitution(ctx context.Context, inst *Institution) error
}
