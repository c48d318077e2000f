package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/internal/usecase"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newApplicationUsecase(f *fixture, archiver usecase.Archiver) domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(
		f.repos.Applications, f.repos.Jobs, f.repos.Profiles, f.repos.Institutions,
		archiver, validation.New(), audit.NewNop(),
	)
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	f.addStudent(t, "ravi", "ECE", "4th Year", 9.0, f.unregistered)
	f.addStudent(t, "meena", "CSE", "4th Year", 6.0, f.registered)

	job := f.addJob(t, campusJob("SDE", 7.5, []string{"CSE"}, []string{"4th Year"}), time.Hour)
	ext := f.addJob(t, externalJob("Remote Go", "a-1"), time.Hour)
	offCampus := f.addJob(t, offCampusJob("Field Sales", "https://fieldco.example/careers/7"), time.Hour)
	uc := newApplicationUsecase(f, nil)

	t.Run("Eligible student applies", func(t *testing.T) {
		app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusApplied, app.Status)
		assert.Equal(t, "SDE", app.JobTitle)
		assert.Equal(t, "Acme", app.Company)
		assert.Equal(t, "10 LPA", app.Salary)
		require.Len(t, app.History, 1)
		assert.Equal(t, domain.StatusApplied, app.History[0].Status)
	})

	t.Run("Second apply conflicts", func(t *testing.T) {
		_, err := uc.Apply(asStudent("asha"), "asha", job.ID)
		requireAppError(t, err, http.StatusConflict)
	})

	t.Run("Below minimum CGPA", func(t *testing.T) {
		_, err := uc.Apply(asStudent("meena"), "meena", job.ID)
		requireAppError(t, err, http.StatusForbidden)
	})

	t.Run("Unregistered institution", func(t *testing.T) {
		_, err := uc.Apply(asStudent("ravi"), "ravi", job.ID)
		requireAppError(t, err, http.StatusForbidden)
	})

	t.Run("No profile", func(t *testing.T) {
		_, err := uc.Apply(asStudent("ghost"), "ghost", job.ID)
		requireAppError(t, err, http.StatusForbidden)
	})

	t.Run("External job", func(t *testing.T) {
		_, err := uc.Apply(asStudent("asha"), "asha", ext.ID)
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Manual off-campus job", func(t *testing.T) {
		_, err := uc.Apply(asStudent("asha"), "asha", offCampus.ID)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Contains(t, appErr.Message, "Off-campus")
	})

	t.Run("Unknown job", func(t *testing.T) {
		_, err := uc.Apply(asStudent("asha"), "asha", 999)
		requireAppError(t, err, http.StatusNotFound)
	})

	t.Run("Deadline passed", func(t *testing.T) {
		closed := campusJob("Closed", 0, nil, nil)
		yesterday := time.Now().Add(-24 * time.Hour)
		closed.ApplicationDeadline = &yesterday
		j := f.addJob(t, closed, 48*time.Hour)
		_, err := uc.Apply(asStudent("asha"), "asha", j.ID)
		requireAppError(t, err, http.StatusBadRequest)
	})
}

func TestApplicationSnapshotSurvivesJobEdit(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	apps := newApplicationUsecase(f, nil)
	jobs := newJobUsecase(f)

	app, err := apps.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	edit := *job
	edit.Title = "Senior SDE"
	edit.Salary = "18 LPA"
	edit.Location = "Pune"
	require.NoError(t, jobs.UpdateJob(asCoordinator(), &edit))

	stored, err := jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	require.Equal(t, "Senior SDE", stored.Title)

	got, err := apps.GetApplication(asStudent("asha"), app.ID)
	require.NoError(t, err)
	assert.Equal(t, "SDE", got.JobTitle)
	assert.Equal(t, "10 LPA", got.Salary)
	assert.Equal(t, "Hyderabad", got.Location)
	assert.Equal(t, "Acme", got.Company)
}

func TestApplicationLifecycle(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	uc := newApplicationUsecase(f, nil)
	staff := asCoordinator()

	app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	t.Run("Move to review with notes", func(t *testing.T) {
		updated, err := uc.UpdateStatus(staff, app.ID, domain.StatusUnderReview, "resume shortlisted")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusUnderReview, updated.Status)
		require.Len(t, updated.History, 2)
		assert.Equal(t, "resume shortlisted", updated.History[1].Notes)
	})

	t.Run("Unknown status is a validation error", func(t *testing.T) {
		_, err := uc.UpdateStatus(staff, app.ID, "hired", "")
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Schedule interview", func(t *testing.T) {
		when := time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC)
		mode := "online"
		updated, err := uc.UpdateInterview(staff, app.ID, domain.InterviewDetails{Date: &when, Mode: &mode})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInterviewScheduled, updated.Status)
		require.NotNil(t, updated.InterviewDate)
		assert.True(t, when.Equal(*updated.InterviewDate))
		assert.Equal(t, "online", *updated.InterviewMode)
		assert.Nil(t, updated.InterviewLocation)
		assert.Len(t, updated.History, 3)
	})

	t.Run("Invalid interview mode", func(t *testing.T) {
		mode := "carrier pigeon"
		_, err := uc.UpdateInterview(staff, app.ID, domain.InterviewDetails{Mode: &mode})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Student can no longer withdraw", func(t *testing.T) {
		_, err := uc.Withdraw(asStudent("asha"), app.ID, "asha", "")
		requireAppError(t, err, http.StatusConflict)
	})

	t.Run("Accept", func(t *testing.T) {
		updated, err := uc.UpdateStatus(staff, app.ID, domain.StatusAccepted, "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, updated.Status)
	})

	t.Run("Terminal state rejects further moves", func(t *testing.T) {
		_, err := uc.UpdateStatus(staff, app.ID, domain.StatusRejected, "")
		requireAppError(t, err, http.StatusConflict)

		_, err = uc.UpdateInterview(staff, app.ID, domain.InterviewDetails{Notes: "again"})
		requireAppError(t, err, http.StatusConflict)

		stored, err := uc.GetApplication(staff, app.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, stored.Status)
		assert.Len(t, stored.History, 4)
	})

	t.Run("Missing application", func(t *testing.T) {
		_, err := uc.UpdateStatus(staff, 999, domain.StatusRejected, "")
		requireAppError(t, err, http.StatusNotFound)
	})
}

func TestInterviewDirectlyFromApplied(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	uc := newApplicationUsecase(f, nil)

	app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	location := "Block C, Room 12"
	updated, err := uc.UpdateInterview(asCoordinator(), app.ID, domain.InterviewDetails{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInterviewScheduled, updated.Status)
	assert.Equal(t, location, *updated.InterviewLocation)
	assert.Equal(t, "Interview scheduled", updated.History[1].Notes)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	f.addStudent(t, "ravi", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	uc := newApplicationUsecase(f, nil)

	app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	_, err = uc.Withdraw(asStudent("ravi"), app.ID, "ravi", "")
	requireAppError(t, err, http.StatusForbidden)

	withdrawn, err := uc.Withdraw(asStudent("asha"), app.ID, "asha", "accepted another offer")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, withdrawn.Status)
	assert.Equal(t, "accepted another offer", withdrawn.History[len(withdrawn.History)-1].Notes)

	_, err = uc.Withdraw(asStudent("asha"), app.ID, "asha", "")
	requireAppError(t, err, http.StatusConflict)
}

func TestStudentAccess(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	uc := newApplicationUsecase(f, nil)

	app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	_, err = uc.GetApplication(asStudent("ravi"), app.ID)
	requireAppError(t, err, http.StatusNotFound)

	_, err = uc.GetApplication(context.Background(), app.ID)
	requireAppError(t, err, http.StatusUnauthorized)

	_, err = uc.ListByStudent(asStudent("ravi"), "asha")
	requireAppError(t, err, http.StatusForbidden)

	apps, err := uc.ListByStudent(asCoordinator(), "asha")
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	uc := newApplicationUsecase(f, nil)
	staff := asCoordinator()

	var ids []int64
	for i := 0; i < 4; i++ {
		job := f.addJob(t, campusJob("Role", 0, nil, nil), time.Duration(i)*time.Hour)
		app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
		require.NoError(t, err)
		ids = append(ids, app.ID)
	}
	_, err := uc.UpdateStatus(staff, ids[0], domain.StatusUnderReview, "")
	require.NoError(t, err)
	_, err = uc.UpdateStatus(staff, ids[1], domain.StatusRejected, "")
	require.NoError(t, err)
	_, err = uc.Withdraw(asStudent("asha"), ids[2], "asha", "")
	require.NoError(t, err)

	first, err := uc.Stats(asStudent("asha"), "asha")
	require.NoError(t, err)
	second, err := uc.Stats(asStudent("asha"), "asha")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, domain.ApplicationStats{Total: 4, Applied: 1, UnderReview: 1, Rejected: 1, Withdrawn: 1}, *first)

	empty, err := uc.Stats(asStudent("nobody"), "nobody")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStats{}, *empty)
}

func TestDeleteApplication(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)
	uc := newApplicationUsecase(f, nil)

	app, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(asCoordinator(), app.ID))
	_, err = uc.GetApplication(asCoordinator(), app.ID)
	requireAppError(t, err, http.StatusNotFound)
	requireAppError(t, uc.Delete(asCoordinator(), app.ID), http.StatusNotFound)

	// the pair is free again
	_, err = uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)
}

func TestExportByJob(t *testing.T) {
	f := newFixture(t)
	f.addStudent(t, "asha", "CSE", "4th Year", 8.2, f.registered)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)

	archiver := new(MockArchiver)
	archiver.On("Archive", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
		Return("exports/2026/10/file.xlsx", nil)
	uc := newApplicationUsecase(f, archiver)

	_, err := uc.Apply(asStudent("asha"), "asha", job.ID)
	require.NoError(t, err)

	export, err := uc.ExportByJob(asCoordinator(), job.ID)
	require.NoError(t, err)
	assert.Contains(t, export.FileName, "applications_job_")
	assert.Equal(t, "exports/2026/10/file.xlsx", export.ArchiveKey)
	archiver.AssertExpectations(t)

	wb, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer wb.Close()

	header, err := wb.GetCellValue("Applications", "B3")
	require.NoError(t, err)
	assert.Equal(t, "STUDENT NAME", header)
	name, err := wb.GetCellValue("Applications", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Student asha", name)
	status, err := wb.GetCellValue("Applications", "H4")
	require.NoError(t, err)
	assert.Equal(t, "applied", status)

	_, err = uc.ExportByJob(asCoordinator(), 999)
	requireAppError(t, err, http.StatusNotFound)
}

func TestExportSurvivesArchiveFailure(t *testing.T) {
	f := newFixture(t)
	job := f.addJob(t, campusJob("SDE", 0, nil, nil), time.Hour)

	archiver := new(MockArchiver)
	archiver.On("Archive", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket missing"))
	uc := newApplicationUsecase(f, archiver)

	export, err := uc.ExportByJob(asCoordinator(), job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, export.Content)
	assert.Empty(t, export.ArchiveKey)
}
