package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-placement-backend/config"
	"campus-placement-backend/internal/delivery/http/middleware"
	v1 "campus-placement-backend/internal/delivery/http/v1"
	"campus-placement-backend/internal/repository/memory"
	"campus-placement-backend/internal/usecase"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/auth"
	"campus-placement-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	store.Seed()
	repos := store.Repositories()

	validate := validation.New()
	auditLog := audit.NewNop()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		Environment:              "test",
		AllowedOrigins:           []string{"http://localhost:3000"},
		RateLimitWindowSeconds:   60,
		RateLimitGlobalThreshold: 1000,
		RateLimitWriteThreshold:  1000,
	}

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        usecase.NewAuthUsecase(repos.Users, auditLog),
		JobUC:         usecase.NewJobUsecase(repos.Jobs, repos.Applications, repos.Profiles, repos.Institutions, validate, auditLog),
		ApplicationUC: usecase.NewApplicationUsecase(repos.Applications, repos.Jobs, repos.Profiles, repos.Institutions, nil, validate, auditLog),
		ProfileUC:     usecase.NewProfileUsecase(repos.Profiles, repos.Institutions, validate, auditLog),
		InstitutionUC: usecase.NewInstitutionUsecase(repos.Institutions, validate, auditLog),
		HealthUC:      usecase.NewHealthUsecase(config.StoreDriverMemory, false, nil),
		Verifier:      auth.NewVerifier(testSecret, nil),
		RateLimiter:   middleware.NewRateLimiter(ctx, nil),
		Config:        cfg,
	})
	return &testServer{t: t, router: router}
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@placements.local",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do sends a request as subject; an empty subject sends no token.
func (s *testServer) do(method, path, subject string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(s.t, subject))
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

type jobList struct {
	Jobs []struct {
		ID         int64  `json:"id"`
		Source     string `json:"source"`
		IsOnCampus bool   `json:"is_on_campus"`
	} `json:"jobs"`
	Total int `json:"total"`
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Contains(t, string(env.Data), `"store":"memory"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/jobs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListJobsIsRoleAware(t *testing.T) {
	srv := newTestServer(t)

	t.Run("Student sees eligible on-campus and external jobs", func(t *testing.T) {
		w, env := srv.do(http.MethodGet, "/api/v1/jobs", memory.SeedStudentID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list jobList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		ids := make([]int64, 0, len(list.Jobs))
		for _, j := range list.Jobs {
			ids = append(ids, j.ID)
		}
		assert.ElementsMatch(t, []int64{1, 3, 4, 5}, ids)
		// newest first
		assert.Equal(t, int64(5), ids[0])
	})

	t.Run("Student of unregistered institution sees external jobs only", func(t *testing.T) {
		w, env := srv.do(http.MethodGet, "/api/v1/jobs", memory.SeedStudentTwoID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list jobList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 2, list.Total)
		for _, j := range list.Jobs {
			assert.False(t, j.IsOnCampus)
			assert.NotEqual(t, "manual", j.Source)
		}
	})

	t.Run("Coordinator sees every job", func(t *testing.T) {
		w, env := srv.do(http.MethodGet, "/api/v1/jobs", memory.SeedCoordinatorID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list jobList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		assert.Equal(t, 5, list.Total)
	})

	t.Run("Search filter applies after eligibility", func(t *testing.T) {
		w, env := srv.do(http.MethodGet, "/api/v1/jobs?search=analyst", memory.SeedStudentID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list jobList
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Equal(t, 1, list.Total)
		assert.Equal(t, int64(3), list.Jobs[0].ID)
	})
}

func TestJobWritesAreStaffOnly(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]interface{}{"title": "Platform Engineer", "company": "Acme", "is_on_campus": true}

	w, _ := srv.do(http.MethodPost, "/api/v1/jobs", memory.SeedStudentID, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = srv.do(http.MethodDelete, "/api/v1/jobs/1", memory.SeedStudentID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = srv.do(http.MethodGet, "/api/v1/jobs/stats", memory.SeedCoordinatorID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := srv.do(http.MethodGet, "/api/v1/jobs/stats", memory.SeedAdminID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total_jobs":5`)

	w, _ = srv.do(http.MethodPost, "/api/v1/jobs", memory.SeedCoordinatorID, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodPost, "/api/v1/jobs", memory.SeedCoordinatorID, map[string]interface{}{
		"title": "Platform Engineer", "company": "Acme", "location": "Hyderabad", "is_on_campus": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var job struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &job))

	w, env = srv.do(http.MethodPost, "/api/v1/applications", memory.SeedStudentID, map[string]interface{}{"job_id": job.ID})
	require.Equal(t, http.StatusCreated, w.Code, string(env.Error))
	var app struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &app))
	assert.Equal(t, "applied", app.Status)

	t.Run("Second application conflicts", func(t *testing.T) {
		w, _ := srv.do(http.MethodPost, "/api/v1/applications", memory.SeedStudentID, map[string]interface{}{"job_id": job.ID})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		w, env := srv.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", app.ID), memory.SeedCoordinatorID,
			map[string]string{"status": "hired"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, string(env.Error), "hired")
	})

	t.Run("Students cannot change status", func(t *testing.T) {
		w, _ := srv.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", app.ID), memory.SeedStudentID,
			map[string]string{"status": "accepted"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	w, env = srv.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/interview", app.ID), memory.SeedCoordinatorID,
		map[string]interface{}{"mode": "online", "notes": "Round 1"})
	require.Equal(t, http.StatusOK, w.Code, string(env.Error))
	assert.Contains(t, string(env.Data), `"status":"interview_scheduled"`)

	t.Run("Withdraw after interview conflicts", func(t *testing.T) {
		w, _ := srv.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/withdraw", app.ID), memory.SeedStudentID, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	w, env = srv.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", app.ID), memory.SeedCoordinatorID,
		map[string]string{"status": "accepted", "notes": "Offer released"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = srv.do(http.MethodGet, fmt.Sprintf("/api/v1/applications/%d", app.ID), memory.SeedStudentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Status  string `json:"status"`
		History []struct {
			Status string `json:"status"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "accepted", detail.Status)
	assert.Len(t, detail.History, 3)
}

func TestStudentsOnlySeeTheirOwnApplications(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/applications/user/"+memory.SeedStudentID, memory.SeedStudentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total":2`)

	w, _ = srv.do(http.MethodGet, "/api/v1/applications/user/"+memory.SeedStudentID, memory.SeedStudentTwoID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = srv.do(http.MethodGet, "/api/v1/applications/1", memory.SeedStudentTwoID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = srv.do(http.MethodGet, "/api/v1/applications/user/"+memory.SeedStudentID+"/stats", memory.SeedCoordinatorID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"under_review":1`)
}

func TestExportServesSpreadsheet(t *testing.T) {
	srv := newTestServer(t)

	w, _ := srv.do(http.MethodGet, "/api/v1/applications/job/1/export", memory.SeedCoordinatorID, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "applications_job_1_")
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))
}

func TestFirstSightCreatesStudent(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/auth/me", "brand-new-user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"role":"student"`)

	w, env = srv.do(http.MethodGet, "/api/v1/users/profile/brand-new-user/check-onboarding", "brand-new-user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"completed":false`)

	w, _ = srv.do(http.MethodPut, "/api/v1/users/brand-new-user/role", memory.SeedAdminID, map[string]string{"role": "coordinator"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = srv.do(http.MethodGet, "/api/v1/jobs", "brand-new-user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"total":5`)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestInstitutions(t *testing.T) {
	srv := newTestServer(t)

	w, env := srv.do(http.MethodGet, "/api/v1/institutions", memory.SeedStudentID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)

	body := map[string]interface{}{"name": "Chaitanya Bharathi Institute", "code": "CBIT", "city": "Hyderabad"}

	w, _ = srv.do(http.MethodPost, "/api/v1/institutions", memory.SeedCoordinatorID, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = srv.do(http.MethodPost, "/api/v1/institutions", memory.SeedAdminID, body)
	require.Equal(t, http.StatusCreated, w.Code, string(env.Error))
	assert.Contains(t, string(env.Data), `"registered":true`)

	w, _ = srv.do(http.MethodPost, "/api/v1/institutions", memory.SeedAdminID, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = srv.do(http.MethodGet, "/api/v1/institutions/99", memory.SeedStudentID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
