package memory

import (
	"time"

	"campus-placement-backend/internal/domain"
)

// Sample identities present in a seeded store
const (
	SeedAdminID       = "seed-admin"
	SeedCoordinatorID = "seed-coordinator"
	SeedStudentID     = "seed-student"
	SeedStudentTwoID  = "seed-student-2"
)

func strPtr(s string) *string { return &s }

// Seed fills the store with sample institutions, users, profiles, jobs and
// two applications so the API is usable without a database.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	day := 24 * time.Hour
	deadline := now.Add(30 * day)

	institutions := []domain.Institution{
		{Name: "National Institute of Technology Warangal", Code: "NITW", City: "Warangal", Registered: true},
		{Name: "Vasavi College of Engineering", Code: "VCE", City: "Hyderabad", Registered: true},
		{Name: "Sample Degree College", Code: "SDC", City: "Nagpur", Registered: false},
	}
	for i := range institutions {
		s.nextInstitutionID++
		institutions[i].ID = s.nextInstitutionID
		institutions[i].CreatedAt = now.Add(-90 * day)
		s.institutions[institutions[i].ID] = institutions[i]
	}

	users := []domain.User{
		{ID: SeedAdminID, Email: "admin@placements.local", Role: domain.RoleAdmin},
		{ID: SeedCoordinatorID, Email: "tpo@nitw.local", Role: domain.RoleCoordinator},
		{ID: SeedStudentID, Email: "asha@nitw.local", Role: domain.RoleStudent},
		{ID: SeedStudentTwoID, Email: "ravi@sdc.local", Role: domain.RoleStudent},
	}
	for _, u := range users {
		u.CreatedAt = now.Add(-60 * day)
		u.UpdatedAt = u.CreatedAt
		s.users[u.ID] = u
	}

	profiles := []domain.StudentProfile{
		{
			UserID: SeedStudentID, FullName: "Asha Reddy", Email: "asha@nitw.local", InstitutionID: institutions[0].ID,
			Branch: "CSE", CGPA: 8.4, Semester: 7, AcademicYear: "4th Year",
			Skills:   []string{"Go", "PostgreSQL", "React"},
			Projects: []domain.Project{{Title: "Hostel mess tracker", Description: "Meal booking service"}},
		},
		{
			UserID: SeedStudentTwoID, FullName: "Ravi Kumar", Email: "ravi@sdc.local", InstitutionID: institutions[2].ID,
			Branch: "ECE", CGPA: 7.1, Semester: 5, AcademicYear: "3rd Year",
			Skills: []string{"Embedded C"},
		},
	}
	for _, p := range profiles {
		s.nextProfileID++
		p.ID = s.nextProfileID
		p.OnboardingCompleted = true
		p.CreatedAt = now.Add(-50 * day)
		p.UpdatedAt = p.CreatedAt
		s.profiles[p.UserID] = p
	}

	jobs := []domain.Job{
		{
			Title: "Software Engineer", Company: "Acme Systems", Location: "Hyderabad", Salary: "12 LPA",
			SalaryMin: 1200000, SalaryMax: 1200000, JobType: domain.JobTypeFullTime, Experience: "Fresher",
			Description:  "Backend services in Go",
			Requirements: []string{"Data structures", "SQL"},
			IsOnCampus:   true, MinCGPA: 7.5, AllowedBranches: []string{"CSE", "IT"},
			AcademicYear: []string{"4th Year"}, ApplicationDeadline: &deadline,
		},
		{
			Title: "Hardware Design Intern", Company: "Silicon Peak", Location: "Bengaluru", Salary: "40k/month",
			JobType: domain.JobTypeInternship, Description: "RTL verification",
			IsOnCampus: true, MinCGPA: 7.0, AllowedBranches: []string{"ECE", "EEE"},
			AcademicYear: []string{"3rd Year", "4th Year"},
		},
		{
			Title: "Graduate Analyst", Company: "Northwind Capital", Location: "Mumbai", Salary: "9 LPA",
			JobType: domain.JobTypeFullTime, Description: "Open to every branch",
			IsOnCampus: true, MinCGPA: 6.0,
		},
		{
			Title: "Junior Go Developer", Company: "Remote First", Location: "Remote", Salary: "Not disclosed",
			JobType: domain.JobTypeFullTime, Description: "Imported posting",
			Source: "adzuna", ExternalID: strPtr("seed-adzuna-1"), ApplyURL: strPtr("https://www.adzuna.in/details/seed-adzuna-1"),
		},
		{
			Title: "Data Engineering Intern", Company: "Cloudline", Location: "Pune", Salary: "25000",
			JobType: domain.JobTypeInternship, Description: "Imported posting",
			Source: "jsearch", ExternalID: strPtr("seed-jsearch-1"), ApplyURL: strPtr("https://jobs.example.com/seed-jsearch-1"),
		},
	}
	for i := range jobs {
		j := &jobs[i]
		s.nextJobID++
		j.ID = s.nextJobID
		if j.Source == "" {
			j.Source = domain.SourceManual
			j.CreatedBy = SeedCoordinatorID
		}
		j.Active = true
		j.CreatedAt = now.Add(-time.Duration(len(jobs)-i) * day)
		j.UpdatedAt = j.CreatedAt
		s.jobs[j.ID] = *j
	}

	applied := now.Add(-3 * day)
	first := domain.NewApplication(SeedStudentID, &jobs[0], applied)
	_ = first.Transition(domain.StatusUnderReview, "Resume shortlisted", applied.Add(day))
	second := domain.NewApplication(SeedStudentID, &jobs[2], now.Add(-2*day))
	for _, app := range []*domain.Application{first, second} {
		s.nextApplicationID++
		app.ID = s.nextApplicationID
		s.applications[app.ID] = *app
	}
}
