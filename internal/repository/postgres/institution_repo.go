package postgres

import (
	"context"

	"campus-placement-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type institutionRepo struct {
	db *pgxpool.Pool
}

func NewInstitutionRepository(db *pgxpool.Pool) domain.InstitutionRepository {
	return &institutionRepo{db: db}
}

func (r *institutionRepo) Create(ctx context.Context, inst *domain.Institution) error {
	query := `INSERT INTO institutions (name, code, city, registered, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRow(ctx, query, inst.Name, inst.Code, inst.City, inst.Registered, inst.CreatedAt).Scan(&inst.ID)
	if isPgError(err, pgUniqueViolation) {
		return domain.ErrDuplicate
	}
	return err
}

func (r *institutionRepo) GetByID(ctx context.Context, id int64) (*domain.Institution, error) {
	query := `SELECT id, name, code, city, registered, created_at FROM institutions WHERE id = $1`
	var inst domain.Institution
	err := r.db.QueryRow(ctx, query, id).Scan(&inst.ID, &inst.Name, &inst.Code, &inst.City, &inst.Registered, &inst.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &inst, nil
}

func (r *institutionRepo) List(ctx context.Context) ([]domain.Institution, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code, city, registered, created_at FROM institutions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	institutions := []domain.Institution{}
	for rows.Next() {
		var inst domain.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Code, &inst.City, &inst.Registered, &inst.CreatedAt); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}
	return institutions, rows.Err()
}
