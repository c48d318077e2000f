package domain

import (
	"context"
	"time"
)

// Roles
const (
	RoleStudent     = "student"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// IsValidRole checks a role name
func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleCoordinator || role == RoleAdmin
}

// IsStaffRole reports whether the role manages postings and applications.
func IsStaffRole(role string) bool {
	return role == RoleCoordinator || role == RoleAdmin
}

type User struct {
	ID        string    `json:"id"` // identity provider subject
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateRole(ctx context.Context, id string, role string) error
}

type AuthUsecase interface {
	// ResolveUser returns the local user for a verified identity, creating
	// a student account on first sight.
	ResolveUser(ctx context.Context, id, email string) (*User, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	AssignRole(ctx context.Context, userID string, role string) error
}

// Repositories bundles one store's implementations. A process uses a
// single store for its whole life.
type Repositories struct {
	Jobs         JobRepository
	Applications ApplicationRepository
	Profiles     ProfileRepository
	Institutions InstitutionRepository
	Users        UserRepository
}
