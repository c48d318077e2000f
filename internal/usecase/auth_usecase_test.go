package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/usecase"
	"campus-placement-backend/pkg/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolveUser(t *testing.T) {
	t.Run("Existing user is returned as is", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Role: domain.RoleCoordinator}, nil)

		user, err := usecase.NewAuthUsecase(repo, audit.NewNop()).ResolveUser(context.Background(), "u1", "a@b.c")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCoordinator, user.Role)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown identity becomes a student", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, "u2").Return(nil, domain.ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == "u2" && u.Role == domain.RoleStudent && u.Email == "new@college.edu"
		})).Return(nil)

		user, err := usecase.NewAuthUsecase(repo, audit.NewNop()).ResolveUser(context.Background(), "u2", "new@college.edu")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStudent, user.Role)
		repo.AssertExpectations(t)
	})

	t.Run("Lost creation race re-reads", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, "u3").Return(nil, domain.ErrNotFound).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)
		repo.On("GetByID", mock.Anything, "u3").Return(&domain.User{ID: "u3", Role: domain.RoleStudent}, nil).Once()

		user, err := usecase.NewAuthUsecase(repo, audit.NewNop()).ResolveUser(context.Background(), "u3", "")
		require.NoError(t, err)
		assert.Equal(t, "u3", user.ID)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByID", mock.Anything, "u4").Return(nil, errors.New("dial tcp: refused"))

		_, err := usecase.NewAuthUsecase(repo, audit.NewNop()).ResolveUser(context.Background(), "u4", "")
		requireAppError(t, err, http.StatusServiceUnavailable)
	})
}

func TestAssignRole(t *testing.T) {
	admin := domain.WithActor(context.Background(), domain.Actor{UserID: "admin", Role: domain.RoleAdmin})

	t.Run("Invalid role", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo), audit.NewNop())
		requireAppError(t, uc.AssignRole(admin, "u1", "recruiter"), http.StatusBadRequest)
	})

	t.Run("Self demotion", func(t *testing.T) {
		uc := usecase.NewAuthUsecase(new(MockUserRepo), audit.NewNop())
		requireAppError(t, uc.AssignRole(admin, "admin", domain.RoleStudent), http.StatusBadRequest)
	})

	t.Run("Unknown user", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("UpdateRole", mock.Anything, "ghost", domain.RoleCoordinator).Return(domain.ErrNotFound)
		uc := usecase.NewAuthUsecase(repo, audit.NewNop())
		requireAppError(t, uc.AssignRole(admin, "ghost", domain.RoleCoordinator), http.StatusNotFound)
	})

	t.Run("Promote", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("UpdateRole", mock.Anything, "u1", domain.RoleCoordinator).Return(nil)
		uc := usecase.NewAuthUsecase(repo, audit.NewNop())
		require.NoError(t, uc.AssignRole(admin, "u1", domain.RoleCoordinator))
		repo.AssertExpectations(t)
	})
}
