package domain

import (
	"context"
	"time"
)

// Project is a student project listed on the profile
type Project struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"max=1000"`
	Link        string `json:"link,omitempty" validate:"omitempty,url"`
}

// StudentProfile is created once when a student finishes onboarding.
// UserID is the subject issued by the identity provider and is unique.
type StudentProfile struct {
	ID            int64   `json:"id"`
	UserID        string  `json:"user_id" validate:"required"`
	FullName      string  `json:"full_name" validate:"required,min=2,max=100,valid_name"`
	Email         string  `json:"email" validate:"omitempty,email"`
	Phone         string  `json:"phone" validate:"omitempty,valid_phone"`
	InstitutionID int64   `json:"institution_id" validate:"required,gt=0"`
	Branch        string  `json:"branch" validate:"required,branch"`
	CGPA          float64 `json:"cgpa" validate:"cgpa"`
	Semester      int     `json:"semester" validate:"omitempty,min=1,max=12"`
	AcademicYear  string  `json:"academic_year" validate:"required,academic_year"`

	Skills         []string  `json:"skills" validate:"max=50,dive,max=60"`
	Projects       []Project `json:"projects" validate:"max=20,dive"`
	Certifications []string  `json:"certifications" validate:"max=30,dive,max=200"`

	// Google Drive links; files are never stored by this service
	ResumeURL    string `json:"resume_url" validate:"omitempty,url"`
	MarksMemoURL string `json:"marks_memo_url" validate:"omitempty,url"`

	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// OnboardingStatus represents the onboarding completion status
type OnboardingStatus struct {
	Completed   bool       `json:"completed"`
	ProfileID   *int64     `json:"profile_id,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type ProfileRepository interface {
	// Create returns ErrDuplicate when a profile exists for the user.
	Create(ctx context.Context, profile *StudentProfile) error
	GetByUserID(ctx context.Context, userID string) (*StudentProfile, error)
	Update(ctx context.Context, profile *StudentProfile) error
}

type ProfileUsecase interface {
	CreateProfile(ctx context.Context, profile *StudentProfile) error
	GetProfile(ctx context.Context, userID string) (*StudentProfile, error)
	UpdateProfile(ctx context.Context, profile *StudentProfile) error
	CheckOnboarding(ctx context.Context, userID string) (*OnboardingStatus, error)
}
