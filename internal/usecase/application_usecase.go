package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// Archiver keeps a copy of generated exports. Optional.
type Archiver interface {
	Archive(ctx context.Context, name, contentType string, content []byte) (string, error)
}

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	jobRepo         domain.JobRepository
	profileRepo     domain.ProfileRepository
	institutionRepo domain.InstitutionRepository
	archiver        Archiver
	validate        *validator.Validate
	audit           *audit.Logger
	now             func() time.Time
}

// NewApplicationUsecase creates a new application usecase. archiver may be nil.
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	profileRepo domain.ProfileRepository,
	institutionRepo domain.InstitutionRepository,
	archiver Archiver,
	validate *validator.Validate,
	auditLog *audit.Logger,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		profileRepo:     profileRepo,
		institutionRepo: institutionRepo,
		archiver:        archiver,
		validate:        validate,
		audit:           auditLog,
		now:             time.Now,
	}
}

// Apply submits a student's application to an open on-campus job they are eligible for
func (uc *applicationUsecase) Apply(ctx context.Context, studentID string, jobID int64) (*domain.Application, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	if job.IsOffCampus() {
		return nil, apperror.BadRequest("Off-campus jobs are applied to on the employer's site")
	}
	now := uc.now()
	if !job.Active {
		return nil, apperror.BadRequest("This job is no longer accepting applications")
	}
	if job.DeadlinePassed(now) {
		return nil, apperror.BadRequest("The application deadline has passed")
	}

	student, err := loadStudentEligibility(ctx, uc.profileRepo, uc.institutionRepo, studentID)
	if err != nil {
		return nil, apperror.Unavailable("Could not verify eligibility, try again later", err)
	}
	if student == nil {
		return nil, apperror.Forbidden("Complete onboarding before applying")
	}
	if !student.InstitutionRegistered {
		return nil, apperror.Forbidden("Your institution is not registered for on-campus placements")
	}
	if !IsEligible(job, *student, now) {
		return nil, apperror.Forbidden("You do not meet the eligibility criteria for this job")
	}

	app := domain.NewApplication(studentID, job, now)
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("You have already applied to this job")
		}
		return nil, storeError(err, "Job not found")
	}

	uc.audit.Record(ctx, audit.Entry{
		Action: audit.ActionApplicationCreated, ActorID: studentID, Resource: "application", ResourceID: app.ID,
		Details: map[string]interface{}{"job_id": jobID},
	})
	return app, nil
}

// Withdraw lets a student retract their own application before an interview is scheduled
func (uc *applicationUsecase) Withdraw(ctx context.Context, applicationID int64, studentID string, notes string) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	if app.StudentID != studentID {
		return nil, apperror.Forbidden("You can only withdraw your own applications")
	}
	if notes == "" {
		notes = "Withdrawn by student"
	}

	from := app.Status
	if err := app.Transition(domain.StatusWithdrawn, notes, uc.now()); err != nil {
		return nil, apperror.Conflict(fmt.Sprintf("An application that is %s cannot be withdrawn", humanStatus(from)))
	}
	if err := uc.applicationRepo.Update(ctx, app); err != nil {
		return nil, storeError(err, "Application not found")
	}

	uc.audit.Record(ctx, audit.Entry{
		Action: audit.ActionApplicationWithdrawn, ActorID: studentID, Resource: "application", ResourceID: app.ID,
		Details: map[string]interface{}{"from": from},
	})
	return app, nil
}

func (uc *applicationUsecase) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	if err := authorizeStudentAccess(ctx, studentID, "You can only view your own applications"); err != nil {
		return nil, err
	}
	apps, err := uc.applicationRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, apperror.Unavailable("Applications are temporarily unavailable", err)
	}
	return apps, nil
}

func (uc *applicationUsecase) Stats(ctx context.Context, studentID string) (*domain.ApplicationStats, error) {
	if err := authorizeStudentAccess(ctx, studentID, "You can only view your own statistics"); err != nil {
		return nil, err
	}
	counts, err := uc.applicationRepo.CountByStatus(ctx, studentID)
	if err != nil {
		return nil, apperror.Unavailable("Statistics are temporarily unavailable", err)
	}
	stats := domain.NewApplicationStats(counts)
	return &stats, nil
}

func (uc *applicationUsecase) GetApplication(ctx context.Context, applicationID int64) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	actor, err := currentActor(ctx)
	if err != nil {
		return nil, err
	}
	// other students' applications are reported as missing
	if !domain.IsStaffRole(actor.Role) && actor.UserID != app.StudentID {
		return nil, apperror.NotFound("Application not found")
	}
	return app, nil
}

func (uc *applicationUsecase) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	if _, err := uc.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, storeError(err, "Job not found")
	}
	apps, err := uc.applicationRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Unavailable("Applications are temporarily unavailable", err)
	}
	return apps, nil
}

// UpdateStatus moves an application along the lifecycle and records the change
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, applicationID int64, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	if !status.IsValid() {
		return nil, apperror.Validation("Invalid status", []string{fmt.Sprintf("Status: %q is not a known application status", status)})
	}

	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}

	from := app.Status
	if err := app.Transition(status, notes, uc.now()); err != nil {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot move an application from %s to %s", humanStatus(from), humanStatus(status)))
	}
	if err := uc.applicationRepo.Update(ctx, app); err != nil {
		return nil, storeError(err, "Application not found")
	}

	uc.audit.Record(ctx, audit.Entry{
		Action: audit.ActionApplicationStatus, Resource: "application", ResourceID: app.ID,
		Details: map[string]interface{}{"from": from, "to": status},
	})
	return app, nil
}

// UpdateInterview merges interview details and moves the application to interview_scheduled
func (uc *applicationUsecase) UpdateInterview(ctx context.Context, applicationID int64, details domain.InterviewDetails) (*domain.Application, error) {
	if err := validateStruct(uc.validate, details); err != nil {
		return nil, err
	}

	app, err := uc.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, storeError(err, "Application not found")
	}
	if app.Status.IsTerminal() {
		return nil, apperror.Conflict(fmt.Sprintf("Cannot schedule an interview for an application that is %s", humanStatus(app.Status)))
	}

	notes := details.Notes
	if notes == "" {
		notes = "Interview scheduled"
	}
	from := app.Status
	if err := app.Transition(domain.StatusInterviewScheduled, notes, uc.now()); err != nil {
		return nil, apperror.Conflict(err.Error())
	}
	app.ApplyInterview(details)

	if err := uc.applicationRepo.Update(ctx, app); err != nil {
		return nil, storeError(err, "Application not found")
	}

	uc.audit.Record(ctx, audit.Entry{
		Action: audit.ActionApplicationInterview, Resource: "application", ResourceID: app.ID,
		Details: map[string]interface{}{"from": from, "mode": app.InterviewMode},
	})
	return app, nil
}

func (uc *applicationUsecase) Delete(ctx context.Context, applicationID int64) error {
	if err := uc.applicationRepo.Delete(ctx, applicationID); err != nil {
		return storeError(err, "Application not found")
	}
	uc.audit.Record(ctx, audit.Entry{Action: audit.ActionApplicationDeleted, Resource: "application", ResourceID: applicationID})
	return nil
}

// ExportByJob renders a job's applications as a spreadsheet and archives a copy when storage is configured
func (uc *applicationUsecase) ExportByJob(ctx context.Context, jobID int64) (*domain.ApplicationExport, error) {
	job, err := uc.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	apps, err := uc.applicationRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, apperror.Unavailable("Applications are temporarily unavailable", err)
	}

	profiles := make(map[string]*domain.StudentProfile, len(apps))
	for _, app := range apps {
		if _, seen := profiles[app.StudentID]; seen {
			continue
		}
		p, err := uc.profileRepo.GetByUserID(ctx, app.StudentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Log.Warn("Profile lookup failed during export", "student_id", app.StudentID, "error", err)
		}
		profiles[app.StudentID] = p
	}

	now := uc.now()
	content, err := buildApplicationsWorkbook(job, apps, profiles)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	export := &domain.ApplicationExport{
		FileName:    fmt.Sprintf("applications_job_%d_%s.xlsx", job.ID, now.Format("20060102_150405")),
		ContentType: xlsxContentType,
		Content:     content,
	}

	if uc.archiver != nil {
		key, err := uc.archiver.Archive(ctx, export.FileName, export.ContentType, export.Content)
		if err != nil {
			logger.Log.Warn("Export archive upload failed", "job_id", job.ID, "error", err)
		} else {
			export.ArchiveKey = key
		}
	}
	return export, nil
}

func humanStatus(s domain.ApplicationStatus) string {
	switch s {
	case domain.StatusUnderReview:
		return "under review"
	case domain.StatusInterviewScheduled:
		return "interview scheduled"
	default:
		return string(s)
	}
}
