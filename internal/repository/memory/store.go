// Package memory implements the repositories over process memory. It backs
// the service when no database is reachable and in tests.
package memory

import (
	"sync"
	"time"

	"campus-placement-backend/internal/domain"
)

// Store holds every entity behind one lock so cross-entity checks
// (such as the student/job uniqueness of applications) stay atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	jobs         map[int64]domain.Job
	applications map[int64]domain.Application
	profiles     map[string]domain.StudentProfile
	institutions map[int64]domain.Institution
	users        map[string]domain.User

	nextJobID         int64
	nextApplicationID int64
	nextProfileID     int64
	nextInstitutionID int64
}

func NewStore() *Store {
	return &Store{
		now:          time.Now,
		jobs:         make(map[int64]domain.Job),
		applications: make(map[int64]domain.Application),
		profiles:     make(map[string]domain.StudentProfile),
		institutions: make(map[int64]domain.Institution),
		users:        make(map[string]domain.User),
	}
}

// Repositories returns the store's views for wiring.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Jobs:         NewJobRepository(s),
		Applications: NewApplicationRepository(s),
		Profiles:     NewProfileRepository(s),
		Institutions: NewInstitutionRepository(s),
		Users:        NewUserRepository(s),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// copies keep callers from mutating stored slices and pointers

func copyJob(j domain.Job) domain.Job {
	j.Requirements = cloneStrings(j.Requirements)
	j.AllowedBranches = cloneStrings(j.AllowedBranches)
	j.AcademicYear = cloneStrings(j.AcademicYear)
	j.ApplyURL = cloneString(j.ApplyURL)
	j.ExternalID = cloneString(j.ExternalID)
	j.ApplicationDeadline = cloneTime(j.ApplicationDeadline)
	return j
}

func copyApplication(a domain.Application) domain.Application {
	a.History = append([]domain.StatusChange{}, a.History...)
	a.InterviewDate = cloneTime(a.InterviewDate)
	a.InterviewMode = cloneString(a.InterviewMode)
	a.InterviewLocation = cloneString(a.InterviewLocation)
	return a
}

func copyProfile(p domain.StudentProfile) domain.StudentProfile {
	p.Skills = cloneStrings(p.Skills)
	p.Certifications = cloneStrings(p.Certifications)
	if p.Projects != nil {
		p.Projects = append([]domain.Project(nil), p.Projects...)
	}
	return p
}
