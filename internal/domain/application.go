package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusApplied            ApplicationStatus = "applied"
	StatusUnderReview        ApplicationStatus = "under_review"
	StatusInterviewScheduled ApplicationStatus = "interview_scheduled"
	StatusAccepted           ApplicationStatus = "accepted"
	StatusRejected           ApplicationStatus = "rejected"
	StatusWithdrawn          ApplicationStatus = "withdrawn"
)

// ValidApplicationStatuses returns all statuses in lifecycle order
func ValidApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied, StatusUnderReview, StatusInterviewScheduled,
		StatusAccepted, StatusRejected, StatusWithdrawn,
	}
}

// applicationTransitions lists the statuses reachable from each state.
// Terminal states have no entry.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:            {StatusUnderReview, StatusInterviewScheduled, StatusRejected, StatusWithdrawn},
	StatusUnderReview:        {StatusInterviewScheduled, StatusAccepted, StatusRejected, StatusWithdrawn},
	StatusInterviewScheduled: {StatusAccepted, StatusRejected},
}

// IsValid checks if the status is one of the known lifecycle states
func (s ApplicationStatus) IsValid() bool {
	for _, valid := range ValidApplicationStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// CanTransitionTo reports whether next may follow s. Re-entering the
// current non-terminal status is allowed so notes can be attached.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseApplicationStatus normalizes raw input into a known status.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	status := ApplicationStatus(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// StatusChange is one entry of an application's history.
type StatusChange struct {
	Status ApplicationStatus `json:"status"`
	Date   time.Time         `json:"date"`
	Notes  string            `json:"notes,omitempty"`
}

// InterviewDetails carries the optional interview fields. Nil fields are left untouched.
type InterviewDetails struct {
	Date     *time.Time `json:"date,omitempty"`
	Mode     *string    `json:"mode,omitempty" validate:"omitempty,oneof=online offline phone"`
	Location *string    `json:"location,omitempty" validate:"omitempty,max=300"`
	Notes    string     `json:"notes,omitempty"`
}

// Application represents a student's application to an on-campus job
type Application struct {
	ID        int64  `json:"id"`
	StudentID string `json:"student_id"`
	JobID     int64  `json:"job_id"`

	// Captured at apply time so later job edits do not rewrite history
	JobTitle string `json:"job_title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	Salary   string `json:"salary"`

	Status            ApplicationStatus `json:"status"`
	AppliedAt         time.Time         `json:"applied_at"`
	InterviewDate     *time.Time        `json:"interview_date,omitempty"`
	InterviewMode     *string           `json:"interview_mode,omitempty"`
	InterviewLocation *string           `json:"interview_location,omitempty"`
	History           []StatusChange    `json:"history"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewApplication builds an application in the applied state from a job snapshot.
func NewApplication(studentID string, job *Job, at time.Time) *Application {
	return &Application{
		StudentID: studentID,
		JobID:     job.ID,
		JobTitle:  job.Title,
		Company:   job.Company,
		Location:  job.Location,
		Salary:    job.Salary,
		Status:    StatusApplied,
		AppliedAt: at,
		History:   []StatusChange{{Status: StatusApplied, Date: at}},
		UpdatedAt: at,
	}
}

// Transition moves the application to next and records it in the history.
func (a *Application) Transition(next ApplicationStatus, notes string, at time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.History = append(a.History, StatusChange{Status: next, Date: at, Notes: notes})
	a.UpdatedAt = at
	return nil
}

// ApplyInterview merges the provided interview fields.
func (a *Application) ApplyInterview(details InterviewDetails) {
	if details.Date != nil {
		a.InterviewDate = details.Date
	}
	if details.Mode != nil {
		a.InterviewMode = details.Mode
	}
	if details.Location != nil {
		a.InterviewLocation = details.Location
	}
}

// ApplicationStats counts a student's applications per status
type ApplicationStats struct {
	Total              int64 `json:"total"`
	Applied            int64 `json:"applied"`
	UnderReview        int64 `json:"under_review"`
	InterviewScheduled int64 `json:"interview_scheduled"`
	Accepted           int64 `json:"accepted"`
	Rejected           int64 `json:"rejected"`
	Withdrawn          int64 `json:"withdrawn"`
}

// NewApplicationStats folds per-status counts into the stats shape.
// Unknown statuses are ignored.
func NewApplicationStats(counts map[ApplicationStatus]int64) ApplicationStats {
	var s ApplicationStats
	for status, n := range counts {
		switch status {
		case StatusApplied:
			s.Applied += n
		case StatusUnderReview:
			s.UnderReview += n
		case StatusInterviewScheduled:
			s.InterviewScheduled += n
		case StatusAccepted:
			s.Accepted += n
		case StatusRejected:
			s.Rejected += n
		case StatusWithdrawn:
			s.Withdrawn += n
		default:
			continue
		}
		s.Total += n
	}
	return s
}

// ApplicationExport is a generated spreadsheet of a job's applications
type ApplicationExport struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
	ArchiveKey  string `json:"archive_key,omitempty"`
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	// Create returns ErrDuplicate when the student already applied to the job.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	// Update persists status, interview fields and history.
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id int64) error
	// CountByStatus counts applications per status; empty studentID counts all.
	CountByStatus(ctx context.Context, studentID string) (map[ApplicationStatus]int64, error)
}

// ApplicationUsecase defines the application lifecycle
type ApplicationUsecase interface {
	// Student operations
	Apply(ctx context.Context, studentID string, jobID int64) (*Application, error)
	Withdraw(ctx context.Context, applicationID int64, studentID string, notes string) (*Application, error)
	ListByStudent(ctx context.Context, studentID string) ([]Application, error)
	Stats(ctx context.Context, studentID string) (*ApplicationStats, error)

	// Shared
	GetApplication(ctx context.Context, applicationID int64) (*Application, error)

	// Coordinator operations
	ListByJob(ctx context.Context, jobID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, applicationID int64, status ApplicationStatus, notes string) (*Application, error)
	UpdateInterview(ctx context.Context, applicationID int64, details InterviewDetails) (*Application, error)
	Delete(ctx context.Context, applicationID int64) error
	ExportByJob(ctx context.Context, jobID int64) (*ApplicationExport, error)
}
