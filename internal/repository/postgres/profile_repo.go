package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-placement-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func encodeProjects(projects []domain.Project) (string, error) {
	if projects == nil {
		projects = []domain.Project{}
	}
	b, err := json.Marshal(projects)
	return string(b), err
}

func (r *profileRepo) Create(ctx context.Context, p *domain.StudentProfile) error {
	projects, err := encodeProjects(p.Projects)
	if err != nil {
		return err
	}

	query := `INSERT INTO student_profiles (user_id, full_name, email, phone, institution_id, branch, cgpa, semester,
		academic_year, skills, projects, certifications, resume_url, marks_memo_url, onboarding_completed,
		created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $14, $15, $16, $17)
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		p.UserID, p.FullName, p.Email, p.Phone, p.InstitutionID, p.Branch, p.CGPA, p.Semester,
		p.AcademicYear, pq.Array(nonNil(p.Skills)), projects, pq.Array(nonNil(p.Certifications)), p.ResumeURL,
		p.MarksMemoURL, p.OnboardingCompleted, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	switch {
	case isPgError(err, pgUniqueViolation):
		return domain.ErrDuplicate
	case isPgError(err, pgForeignKeyViolation):
		return domain.ErrNotFound
	}
	return err
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.StudentProfile, error) {
	query := `SELECT id, user_id, full_name, email, phone, COALESCE(institution_id, 0), branch, cgpa, semester,
		academic_year, skills, projects, certifications, resume_url, marks_memo_url, onboarding_completed,
		created_at, updated_at
		FROM student_profiles WHERE user_id = $1`

	var p domain.StudentProfile
	var skills, certifications []string
	var projects []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Email, &p.Phone, &p.InstitutionID, &p.Branch, &p.CGPA, &p.Semester,
		&p.AcademicYear, pq.Array(&skills), &projects, pq.Array(&certifications), &p.ResumeURL, &p.MarksMemoURL,
		&p.OnboardingCompleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	p.Skills = skills
	p.Certifications = certifications
	if len(projects) > 0 {
		if err := json.Unmarshal(projects, &p.Projects); err != nil {
			return nil, fmt.Errorf("decode projects of profile %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, p *domain.StudentProfile) error {
	projects, err := encodeProjects(p.Projects)
	if err != nil {
		return err
	}

	query := `UPDATE student_profiles SET full_name = $2, email = $3, phone = $4, institution_id = $5, branch = $6,
		cgpa = $7, semester = $8, academic_year = $9, skills = $10, projects = $11::jsonb, certifications = $12,
		resume_url = $13, marks_memo_url = $14, onboarding_completed = $15, updated_at = $16
		WHERE user_id = $1`

	tag, err := r.db.Exec(ctx, query,
		p.UserID, p.FullName, p.Email, p.Phone, p.InstitutionID, p.Branch,
		p.CGPA, p.Semester, p.AcademicYear, pq.Array(nonNil(p.Skills)), projects, pq.Array(nonNil(p.Certifications)),
		p.ResumeURL, p.MarksMemoURL, p.OnboardingCompleted, p.UpdatedAt,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.ErrNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
