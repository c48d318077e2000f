package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"campus-placement-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `id, student_id, job_id, job_title, company, location, salary, status, applied_at,
	interview_date, interview_mode, interview_location, history, updated_at`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var history []byte
	err := row.Scan(
		&app.ID, &app.StudentID, &app.JobID, &app.JobTitle, &app.Company, &app.Location, &app.Salary,
		&app.Status, &app.AppliedAt, &app.InterviewDate, &app.InterviewMode, &app.InterviewLocation,
		&history, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &app.History); err != nil {
			return nil, fmt.Errorf("decode history of application %d: %w", app.ID, err)
		}
	}
	if app.History == nil {
		app.History = []domain.StatusChange{}
	}
	return &app, nil
}

func encodeHistory(history []domain.StatusChange) (string, error) {
	if history == nil {
		history = []domain.StatusChange{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new application
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	history, err := encodeHistory(app.History)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO applications (student_id, job_id, job_title, company, location, salary, status,
			applied_at, interview_date, interview_mode, interview_location, history, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13)
		RETURNING id`

	err = r.db.QueryRow(ctx, query,
		app.StudentID, app.JobID, app.JobTitle, app.Company, app.Location, app.Salary, app.Status,
		app.AppliedAt, app.InterviewDate, app.InterviewMode, app.InterviewLocation, history, app.UpdatedAt,
	).Scan(&app.ID)
	switch {
	case isPgError(err, pgUniqueViolation):
		return domain.ErrDuplicate
	case isPgError(err, pgForeignKeyViolation):
		return domain.ErrNotFound
	}
	return err
}

// GetByID retrieves an application by ID
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return app, nil
}

func (r *applicationRepo) list(ctx context.Context, query string, arg interface{}) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// ListByStudent returns a student's applications, newest first
func (r *applicationRepo) ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE student_id = $1 ORDER BY applied_at DESC, id DESC`
	return r.list(ctx, query, studentID)
}

// ListByJob returns the applications to a job, newest first
func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC, id DESC`
	return r.list(ctx, query, jobID)
}

// Update persists status, interview fields and history
func (r *applicationRepo) Update(ctx context.Context, app *domain.Application) error {
	history, err := encodeHistory(app.History)
	if err != nil {
		return err
	}

	query := `
		UPDATE applications
		SET status = $2, interview_date = $3, interview_mode = $4, interview_location = $5,
			history = $6::jsonb, updated_at = $7
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		app.ID, app.Status, app.InterviewDate, app.InterviewMode, app.InterviewLocation, history, app.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus counts applications per status; empty studentID counts all
func (r *applicationRepo) CountByStatus(ctx context.Context, studentID string) (map[domain.ApplicationStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM applications WHERE ($1 = '' OR student_id = $1) GROUP BY status`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ApplicationStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.ApplicationStatus(status)] = count
	}
	return counts, rows.Err()
}
