package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/repository/memory"
	"campus-placement-backend/pkg/apperror"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) UpdateRole(ctx context.Context, id string, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.StudentProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentProfile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, p *domain.StudentProfile) error {
	return m.Called(ctx, p).Error(0)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Archive(ctx context.Context, name, contentType string, content []byte) (string, error) {
	args := m.Called(ctx, name, contentType, content)
	return args.String(0), args.Error(1)
}

// requireAppError asserts err is an *apperror.AppError with the given HTTP code.
func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func asStudent(id string) context.Context {
	return domain.WithActor(context.Background(), domain.Actor{UserID: id, Role: domain.RoleStudent})
}

func asCoordinator() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{UserID: "tpo", Role: domain.RoleCoordinator})
}

// fixture is an empty memory store with one registered and one
// unregistered institution.
type fixture struct {
	repos        domain.Repositories
	registered   *domain.Institution
	unregistered *domain.Institution
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := memory.NewStore().Repositories()
	f := &fixture{
		repos:        repos,
		registered:   &domain.Institution{Name: "Registered Institute", Code: "RI", Registered: true},
		unregistered: &domain.Institution{Name: "Other College", Code: "OC"},
	}
	require.NoError(t, repos.Institutions.Create(context.Background(), f.registered))
	require.NoError(t, repos.Institutions.Create(context.Background(), f.unregistered))
	return f
}

func (f *fixture) addStudent(t *testing.T, userID, branch, year string, cgpa float64, inst *domain.Institution) {
	t.Helper()
	require.NoError(t, f.repos.Profiles.Create(context.Background(), &domain.StudentProfile{
		UserID: userID, FullName: "Student " + userID, Email: userID + "@college.edu",
		InstitutionID: inst.ID, Branch: branch, CGPA: cgpa, AcademicYear: year,
		OnboardingCompleted: true,
	}))
}

func (f *fixture) addJob(t *testing.T, job domain.Job, age time.Duration) *domain.Job {
	t.Helper()
	if job.Source == "" {
		job.Source = domain.SourceManual
	}
	job.CreatedAt = time.Now().Add(-age)
	require.NoError(t, f.repos.Jobs.Create(context.Background(), &job))
	return &job
}

func campusJob(title string, minCGPA float64, branches, years []string) domain.Job {
	return domain.Job{
		Title: title, Company: "Acme", Location: "Hyderabad", Salary: "10 LPA",
		JobType: domain.JobTypeFullTime, IsOnCampus: true, Active: true,
		MinCGPA: minCGPA, AllowedBranches: branches, AcademicYear: years,
	}
}

func externalJob(title, externalID string) domain.Job {
	return domain.Job{
		Title: title, Company: "Remote Co", Location: "Remote", JobType: domain.JobTypeFullTime,
		Source: "adzuna", ExternalID: &externalID, Active: true,
	}
}

func offCampusJob(title, applyURL string) domain.Job {
	return domain.Job{
		Title: title, Company: "Field Co", Location: "Mumbai", JobType: domain.JobTypeFullTime,
		ApplyURL: &applyURL, Active: true,
	}
}
