package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"campus-placement-backend/internal/domain"
)

// StudentEligibility is the part of a student's record the filter checks.
type StudentEligibility struct {
	CGPA                  float64
	Branch                string
	AcademicYear          string
	InstitutionRegistered bool
}

// IsEligible reports whether a student may see and apply to an on-campus
// job. An empty branch or year list places no restriction; the legacy
// portal treated an empty list as excluding everyone.
func IsEligible(job *domain.Job, student StudentEligibility, now time.Time) bool {
	if job.IsOffCampus() {
		return false
	}
	if !student.InstitutionRegistered || !job.Active || job.DeadlinePassed(now) {
		return false
	}
	if student.CGPA < job.MinCGPA {
		return false
	}
	if len(job.AllowedBranches) > 0 && !containsFoldTrim(job.AllowedBranches, student.Branch) {
		return false
	}
	if len(job.AcademicYear) > 0 && !containsFoldTrim(job.AcademicYear, student.AcademicYear) {
		return false
	}
	return true
}

// VisibleJobs returns the active off-campus postings plus, when student is
// non-nil, the on-campus postings the student is eligible for. The result
// is ordered by created_at descending.
func VisibleJobs(jobs []domain.Job, student *StudentEligibility, now time.Time) []domain.Job {
	visible := make([]domain.Job, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		switch {
		case job.IsOffCampus():
			if job.Active {
				visible = append(visible, *job)
			}
		case student != nil && IsEligible(job, *student, now):
			visible = append(visible, *job)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible
}

// loadStudentEligibility returns nil without error when the student has no
// profile yet. A missing institution counts as unregistered.
func loadStudentEligibility(ctx context.Context, profiles domain.ProfileRepository, institutions domain.InstitutionRepository, userID string) (*StudentEligibility, error) {
	profile, err := profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	student := &StudentEligibility{
		CGPA:         profile.CGPA,
		Branch:       profile.Branch,
		AcademicYear: profile.AcademicYear,
	}
	inst, err := institutions.GetByID(ctx, profile.InstitutionID)
	switch {
	case err == nil:
		student.InstitutionRegistered = inst.Registered
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}
	return student, nil
}

func containsFoldTrim(list []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), value) {
			return true
		}
	}
	return false
}
