package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Common domain errors
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("resource already exists")
)

// Job types offered on the placement portal
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeInternship = "internship"
)

// SourceManual marks postings created by a coordinator. Any other source
// names the aggregator the posting was imported from.
const SourceManual = "manual"

type Job struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title" validate:"required,max=200"`
	Company      string   `json:"company" validate:"required,max=200"`
	Location     string   `json:"location" validate:"max=200"`
	SalaryMin    float64  `json:"salary_min" validate:"gte=0"`
	SalaryMax    float64  `json:"salary_max" validate:"gte=0"`
	Salary       string   `json:"salary"` // display string, e.g. "6-8 LPA"
	JobType      string   `json:"job_type" validate:"omitempty,oneof=full-time part-time internship"`
	Experience   string   `json:"experience"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`

	IsOnCampus bool    `json:"is_on_campus"`
	ApplyURL   *string `json:"apply_url,omitempty"`
	ExternalID *string `json:"external_id,omitempty"`
	Source     string  `json:"source"`

	// Eligibility constraints, only meaningful for on-campus postings
	MinCGPA             float64    `json:"min_cgpa" validate:"gte=0,lte=10"`
	AllowedBranches     []string   `json:"allowed_branches"`
	AcademicYear        []string   `json:"academic_year"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	Active    bool      `json:"active"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExternal reports whether the posting came from an aggregator.
func (j *Job) IsExternal() bool {
	return j.Source != "" && j.Source != SourceManual
}

// IsOffCampus reports whether the posting is applied to on the employer's
// site. Off-campus postings are visible to every student without gating.
func (j *Job) IsOffCampus() bool {
	return j.IsExternal() || !j.IsOnCampus
}

// ClearEligibility drops every eligibility constraint. External postings
// are visible to everyone and never carry constraints.
func (j *Job) ClearEligibility() {
	j.IsOnCampus = false
	j.MinCGPA = 0
	j.AllowedBranches = nil
	j.AcademicYear = nil
	j.ApplicationDeadline = nil
}

// DeadlinePassed reports whether applications closed before now.
func (j *Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

// JobFilter narrows a job listing. Zero values mean "no filter".
type JobFilter struct {
	Search     string `form:"search"`
	Location   string `form:"location"`
	JobType    string `form:"job_type"`
	OnCampus   *bool  `form:"on_campus"`
	ActiveOnly bool   `form:"active_only"`
}

// Matches applies the filter to a single job.
func (f JobFilter) Matches(j *Job) bool {
	if f.ActiveOnly && !j.Active {
		return false
	}
	if f.OnCampus != nil && j.IsOnCampus != *f.OnCampus {
		return false
	}
	if f.JobType != "" && !strings.EqualFold(j.JobType, f.JobType) {
		return false
	}
	if f.Location != "" && !containsFold(j.Location, f.Location) {
		return false
	}
	if f.Search != "" {
		if !containsFold(j.Title, f.Search) && !containsFold(j.Company, f.Search) && !containsFold(j.Description, f.Search) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

// PlacementStats aggregates jobs and applications for the admin dashboard.
type PlacementStats struct {
	TotalJobs    int64            `json:"total_jobs"`
	ActiveJobs   int64            `json:"active_jobs"`
	OnCampusJobs int64            `json:"on_campus_jobs"`
	ExternalJobs int64            `json:"external_jobs"`
	JobsByType   map[string]int64 `json:"jobs_by_type"`
	JobsBySource map[string]int64 `json:"jobs_by_source"`
	Applications ApplicationStats `json:"applications"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// SourceSyncResult reports what one aggregator contributed to a sync run.
type SourceSyncResult struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

type SyncResult struct {
	Sources    []SourceSyncResult `json:"sources"`
	Created    int                `json:"created"`
	Updated    int                `json:"updated"`
	Failed     int                `json:"failed"`
	Duplicates int                `json:"duplicates"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	// List returns matching jobs ordered by created_at descending.
	List(ctx context.Context, filter JobFilter) ([]Job, error)
	Update(ctx context.Context, job *Job) error
	Delete(ctx context.Context, id int64) error
	// UpsertExternal inserts or refreshes a posting keyed by (source, external_id).
	UpsertExternal(ctx context.Context, job *Job) (created bool, err error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, userID string, job *Job) error
	GetJob(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	ListEligibleJobs(ctx context.Context, userID string, filter JobFilter) ([]Job, error)
	UpdateJob(ctx context.Context, job *Job) error
	DeleteJob(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*PlacementStats, error)
	SyncExternal(ctx context.Context) (*SyncResult, error)
}
