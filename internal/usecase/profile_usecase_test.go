package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/usecase"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile(userID string, institutionID int64) *domain.StudentProfile {
	return &domain.StudentProfile{
		UserID:        userID,
		FullName:      "Asha Reddy",
		Email:         "asha@college.edu",
		Phone:         "+919876543210",
		InstitutionID: institutionID,
		Branch:        "cse",
		CGPA:          8.4,
		Semester:      7,
		AcademicYear:  "4th Year",
		Skills:        []string{"Go", "SQL"},
		Projects:      []domain.Project{{Title: "Mess tracker", Link: "https://github.com/asha/mess"}},
		ResumeURL:     "https://drive.google.com/file/d/abc/view",
	}
}

func TestProfileIDOR(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewProfileUsecase(f.repos.Profiles, f.repos.Institutions, validation.New(), audit.NewNop())

	t.Run("Should fail when Context UserID does not match Argument UserID", func(t *testing.T) {
		_, err := uc.GetProfile(asStudent("user1"), "user2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only view your own profile")
	})

	t.Run("Should fail safely when Context UserID is nil", func(t *testing.T) {
		_, err := uc.GetProfile(context.Background(), "user1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})

	t.Run("Should not create a profile for someone else", func(t *testing.T) {
		err := uc.CreateProfile(asStudent("user1"), validProfile("user2", f.registered.ID))
		requireAppError(t, err, http.StatusForbidden)
	})
}

func TestCreateProfile(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewProfileUsecase(f.repos.Profiles, f.repos.Institutions, validation.New(), audit.NewNop())
	ctx := asStudent("asha")

	p := validProfile("asha", f.registered.ID)
	require.NoError(t, uc.CreateProfile(ctx, p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "CSE", p.Branch)
	assert.True(t, p.OnboardingCompleted)

	err := uc.CreateProfile(ctx, validProfile("asha", f.registered.ID))
	requireAppError(t, err, http.StatusConflict)

	status, err := uc.CheckOnboarding(ctx, "asha")
	require.NoError(t, err)
	assert.True(t, status.Completed)
	require.NotNil(t, status.ProfileID)
	assert.Equal(t, p.ID, *status.ProfileID)

	got, err := uc.GetProfile(asCoordinator(), "asha")
	require.NoError(t, err)
	assert.Equal(t, "Asha Reddy", got.FullName)
}

func TestCreateProfileValidation(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewProfileUsecase(f.repos.Profiles, f.repos.Institutions, validation.New(), audit.NewNop())
	ctx := asStudent("asha")

	t.Run("Field errors are reported", func(t *testing.T) {
		p := validProfile("asha", f.registered.ID)
		p.CGPA = 11
		p.AcademicYear = "Final Year"
		appErr := requireAppError(t, uc.CreateProfile(ctx, p), http.StatusBadRequest)
		details, ok := appErr.Details.([]string)
		require.True(t, ok)
		assert.Contains(t, details, "CGPA: must be between 0 and 10")
		assert.Len(t, details, 2)
	})

	t.Run("Unknown institution", func(t *testing.T) {
		p := validProfile("asha", 999)
		requireAppError(t, uc.CreateProfile(ctx, p), http.StatusBadRequest)
	})
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewProfileUsecase(f.repos.Profiles, f.repos.Institutions, validation.New(), audit.NewNop())
	ctx := asStudent("asha")

	requireAppError(t, uc.UpdateProfile(ctx, validProfile("asha", f.registered.ID)), http.StatusNotFound)

	p := validProfile("asha", f.registered.ID)
	require.NoError(t, uc.CreateProfile(ctx, p))

	edit := validProfile("asha", f.unregistered.ID)
	edit.CGPA = 9.1
	require.NoError(t, uc.UpdateProfile(ctx, edit))
	assert.Equal(t, p.ID, edit.ID)

	got, err := uc.GetProfile(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 9.1, got.CGPA)
	assert.Equal(t, f.unregistered.ID, got.InstitutionID)
}

func TestCheckOnboardingWithoutProfile(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewProfileUsecase(f.repos.Profiles, f.repos.Institutions, validation.New(), audit.NewNop())

	status, err := uc.CheckOnboarding(asStudent("new"), "new")
	require.NoError(t, err)
	assert.False(t, status.Completed)
	assert.Nil(t, status.ProfileID)
}
