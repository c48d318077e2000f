package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"
	"campus-placement-backend/pkg/audit"
	"campus-placement-backend/pkg/jobfeed"
	"campus-placement-backend/pkg/logger"
	"campus-placement-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type jobUsecase struct {
	jobRepo         domain.JobRepository
	applicationRepo domain.ApplicationRepository
	profileRepo     domain.ProfileRepository
	institutionRepo domain.InstitutionRepository
	sources         []jobfeed.Source
	validate        *validator.Validate
	audit           *audit.Logger
	now             func() time.Time
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	applicationRepo domain.ApplicationRepository,
	profileRepo domain.ProfileRepository,
	institutionRepo domain.InstitutionRepository,
	validate *validator.Validate,
	auditLog *audit.Logger,
	sources ...jobfeed.Source,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		profileRepo:     profileRepo,
		institutionRepo: institutionRepo,
		sources:         sources,
		validate:        validate,
		audit:           auditLog,
		now:             time.Now,
	}
}

// prepare validates a job and normalizes its eligibility fields in place.
func (u *jobUsecase) prepare(job *domain.Job) error {
	if err := validateStruct(u.validate, job); err != nil {
		return err
	}
	if job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return apperror.BadRequest("salary_min cannot be greater than salary_max")
	}
	if job.JobType == "" {
		job.JobType = domain.JobTypeFullTime
	}
	if job.Salary == "" {
		job.Salary = jobfeed.SalaryLabel(job.SalaryMin, job.SalaryMax)
	}

	if job.IsExternal() {
		job.ClearEligibility()
		return nil
	}
	if !job.IsOnCampus {
		if job.ApplyURL == nil || strings.TrimSpace(*job.ApplyURL) == "" {
			return apperror.Validation("Validation failed", []string{"Apply URL: off-campus jobs need a link to the employer's application page"})
		}
		job.ClearEligibility()
		return nil
	}
	job.AllowedBranches = validation.NormalizeBranches(job.AllowedBranches)
	years := make([]string, 0, len(job.AcademicYear))
	for _, y := range job.AcademicYear {
		y = strings.TrimSpace(y)
		if !validation.IsAcademicYear(y) {
			return apperror.Validation("Validation failed", []string{fmt.Sprintf("Academic year: %q is not a valid year of study", y)})
		}
		years = append(years, y)
	}
	job.AcademicYear = years
	return nil
}

func (u *jobUsecase) CreateJob(ctx context.Context, userID string, job *domain.Job) error {
	if job.Source == "" {
		job.Source = domain.SourceManual
	}
	if job.IsExternal() {
		return apperror.BadRequest("External postings are imported by the sync, not created by hand")
	}
	job.ExternalID = nil
	if err := u.prepare(job); err != nil {
		return err
	}

	now := u.now()
	job.Active = true
	job.CreatedBy = userID
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return storeError(err, "Job not found")
	}
	u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionJobCreated, ActorID: userID, Resource: "job", ResourceID: job.ID,
		Details: map[string]interface{}{"title": job.Title, "company": job.Company, "on_campus": job.IsOnCampus},
	})
	return nil
}

func (u *jobUsecase) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job not found")
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	jobs, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Unavailable("Job listings are temporarily unavailable", err)
	}
	return jobs, nil
}

// ListEligibleJobs returns what a student may see. Failures to load the
// student's record degrade to external postings only.
func (u *jobUsecase) ListEligibleJobs(ctx context.Context, userID string, filter domain.JobFilter) ([]domain.Job, error) {
	all, err := u.jobRepo.List(ctx, domain.JobFilter{ActiveOnly: true})
	if err != nil {
		return nil, apperror.Unavailable("Job listings are temporarily unavailable", err)
	}

	student, err := loadStudentEligibility(ctx, u.profileRepo, u.institutionRepo, userID)
	if err != nil {
		logger.Log.Warn("Eligibility lookup failed, showing external jobs only", "user_id", userID, "error", err)
		student = nil
	}

	visible := VisibleJobs(all, student, u.now())
	filtered := visible[:0]
	for i := range visible {
		if filter.Matches(&visible[i]) {
			filtered = append(filtered, visible[i])
		}
	}
	return filtered, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, job *domain.Job) error {
	existing, err := u.jobRepo.GetByID(ctx, job.ID)
	if err != nil {
		return storeError(err, "Job not found")
	}

	// origin fields cannot be changed by an edit
	job.Source = existing.Source
	job.ExternalID = existing.ExternalID
	job.CreatedBy = existing.CreatedBy
	job.CreatedAt = existing.CreatedAt
	if err := u.prepare(job); err != nil {
		return err
	}
	job.UpdatedAt = u.now()

	if err := u.jobRepo.Update(ctx, job); err != nil {
		return storeError(err, "Job not found")
	}
	u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionJobUpdated, Resource: "job", ResourceID: job.ID,
		Details: map[string]interface{}{"active": job.Active},
	})
	return nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, id int64) error {
	if err := u.jobRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Job not found")
	}
	u.audit.Record(ctx, audit.Entry{Action: audit.ActionJobDeleted, Resource: "job", ResourceID: id})
	return nil
}

func (u *jobUsecase) GetStats(ctx context.Context) (*domain.PlacementStats, error) {
	jobs, err := u.jobRepo.List(ctx, domain.JobFilter{})
	if err != nil {
		return nil, apperror.Unavailable("Statistics are temporarily unavailable", err)
	}
	counts, err := u.applicationRepo.CountByStatus(ctx, "")
	if err != nil {
		return nil, apperror.Unavailable("Statistics are temporarily unavailable", err)
	}

	stats := &domain.PlacementStats{
		JobsByType:   make(map[string]int64),
		JobsBySource: make(map[string]int64),
		Applications: domain.NewApplicationStats(counts),
		GeneratedAt:  u.now().UTC(),
	}
	for i := range jobs {
		job := &jobs[i]
		stats.TotalJobs++
		if job.Active {
			stats.ActiveJobs++
		}
		if job.IsExternal() {
			stats.ExternalJobs++
		} else if job.IsOnCampus {
			stats.OnCampusJobs++
		}
		stats.JobsByType[job.JobType]++
		stats.JobsBySource[job.Source]++
	}
	return stats, nil
}

// SyncExternal pulls every configured aggregator in turn. A failing source
// is reported in the result and does not stop the others. A posting that
// cannot be stored is counted against its source and skipped.
func (u *jobUsecase) SyncExternal(ctx context.Context) (*domain.SyncResult, error) {
	if len(u.sources) == 0 {
		return nil, apperror.Unavailable("No external job sources are configured", nil)
	}

	result := &domain.SyncResult{StartedAt: u.now().UTC()}
	index := make(map[string]int, len(u.sources))
	var postings []jobfeed.Posting

	for _, src := range u.sources {
		index[src.Name()] = len(result.Sources)
		sr := domain.SourceSyncResult{Source: src.Name()}

		fetched, err := src.Fetch(ctx)
		if err != nil {
			logger.Log.Warn("External job source failed", "source", src.Name(), "error", err)
			sr.Error = err.Error()
		}
		sr.Fetched = len(fetched)
		result.Sources = append(result.Sources, sr)
		postings = append(postings, fetched...)
	}

	unique, duplicates := jobfeed.Dedupe(postings)
	result.Duplicates = duplicates

	for _, p := range unique {
		sr := &result.Sources[index[p.Source]]
		job := jobFromPosting(p)
		created, err := u.jobRepo.UpsertExternal(ctx, job)
		if err != nil {
			logger.Log.Error("Failed to store external job", "source", p.Source, "external_id", p.ExternalID, "error", err)
			sr.Failed++
			result.Failed++
			continue
		}
		if created {
			sr.Created++
			result.Created++
		} else {
			sr.Updated++
			result.Updated++
		}
	}
	result.FinishedAt = u.now().UTC()

	u.audit.Record(ctx, audit.Entry{
		Action: audit.ActionJobsSynced, Resource: "job",
		Details: map[string]interface{}{"created": result.Created, "updated": result.Updated, "failed": result.Failed, "duplicates": result.Duplicates},
	})
	logger.Log.Info("External job sync finished", "created", result.Created, "updated", result.Updated, "failed", result.Failed, "duplicates", result.Duplicates)
	return result, nil
}

func jobFromPosting(p jobfeed.Posting) *domain.Job {
	externalID := p.ExternalID
	job := &domain.Job{
		Title:       p.Title,
		Company:     p.Company,
		Location:    p.Location,
		SalaryMin:   p.SalaryMin,
		SalaryMax:   p.SalaryMax,
		Salary:      jobfeed.SalaryLabel(p.SalaryMin, p.SalaryMax),
		JobType:     p.JobType,
		Description: p.Description,
		ExternalID:  &externalID,
		Source:      p.Source,
		Active:      true,
	}
	if p.ApplyURL != "" {
		applyURL := p.ApplyURL
		job.ApplyURL = &applyURL
	}
	if p.PostedAt != nil {
		job.CreatedAt = *p.PostedAt
	}
	job.ClearEligibility()
	return job
}
