package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-placement-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `id, title, company, location, salary_min, salary_max, salary, job_type, experience,
	description, requirements, is_on_campus, apply_url, external_id, source, min_cgpa,
	allowed_branches, academic_year, application_deadline, active, created_by, created_at, updated_at`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	var requirements, branches, years []string
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.SalaryMin, &job.SalaryMax, &job.Salary,
		&job.JobType, &job.Experience, &job.Description, pq.Array(&requirements), &job.IsOnCampus,
		&job.ApplyURL, &job.ExternalID, &job.Source, &job.MinCGPA,
		pq.Array(&branches), pq.Array(&years), &job.ApplicationDeadline, &job.Active,
		&job.CreatedBy, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.Requirements = requirements
	job.AllowedBranches = branches
	job.AcademicYear = years
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (title, company, location, salary_min, salary_max, salary, job_type, experience,
		description, requirements, is_on_campus, apply_url, external_id, source, min_cgpa,
		allowed_branches, academic_year, application_deadline, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Location, job.SalaryMin, job.SalaryMax, job.Salary, job.JobType, job.Experience,
		job.Description, pq.Array(nonNil(job.Requirements)), job.IsOnCampus, job.ApplyURL, job.ExternalID, job.Source, job.MinCGPA,
		pq.Array(nonNil(job.AllowedBranches)), pq.Array(nonNil(job.AcademicYear)), job.ApplicationDeadline, job.Active,
		job.CreatedBy, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID)
	if isPgError(err, pgUniqueViolation) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	if filter.OnCampus != nil {
		conditions = append(conditions, "is_on_campus = "+arg(*filter.OnCampus))
	}
	if filter.JobType != "" {
		conditions = append(conditions, "LOWER(job_type) = LOWER("+arg(filter.JobType)+")")
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		conditions = append(conditions, "location ILIKE "+arg("%"+loc+"%"))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := arg("%" + search + "%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE %s OR company ILIKE %s OR description ILIKE %s)", p, p, p))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `UPDATE jobs SET title = $2, company = $3, location = $4, salary_min = $5, salary_max = $6, salary = $7,
		job_type = $8, experience = $9, description = $10, requirements = $11, is_on_campus = $12, apply_url = $13,
		min_cgpa = $14, allowed_branches = $15, academic_year = $16, application_deadline = $17, active = $18,
		updated_at = $19
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.SalaryMin, job.SalaryMax, job.Salary,
		job.JobType, job.Experience, job.Description, pq.Array(nonNil(job.Requirements)), job.IsOnCampus, job.ApplyURL,
		job.MinCGPA, pq.Array(nonNil(job.AllowedBranches)), pq.Array(nonNil(job.AcademicYear)), job.ApplicationDeadline, job.Active,
		job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertExternal keys on (source, external_id). The xmax system column is
// zero only for freshly inserted rows.
func (r *jobRepo) UpsertExternal(ctx context.Context, job *domain.Job) (bool, error) {
	if job.ExternalID == nil || *job.ExternalID == "" {
		return false, fmt.Errorf("upsert external job: missing external id")
	}
	now := time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	query := `INSERT INTO jobs (title, company, location, salary_min, salary_max, salary, job_type, description,
		apply_url, external_id, source, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, $12, $13)
		ON CONFLICT (source, external_id) WHERE external_id IS NOT NULL DO UPDATE SET
			title = EXCLUDED.title, company = EXCLUDED.company, location = EXCLUDED.location,
			salary_min = EXCLUDED.salary_min, salary_max = EXCLUDED.salary_max, salary = EXCLUDED.salary,
			job_type = EXCLUDED.job_type, description = EXCLUDED.description, apply_url = EXCLUDED.apply_url,
			active = TRUE, updated_at = EXCLUDED.updated_at
		RETURNING id, (xmax = 0) AS inserted`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		job.Title, job.Company, job.Location, job.SalaryMin, job.SalaryMax, job.Salary, job.JobType, job.Description,
		job.ApplyURL, job.ExternalID, job.Source, job.CreatedAt, job.UpdatedAt,
	).Scan(&job.ID, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
