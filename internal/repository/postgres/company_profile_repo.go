package postgres

import (
	"context"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyProfileRepo struct {
	db *pgxpool.Pool
}

func NewCompanyProfileRepository(db *pgxpool.Pool) domain.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

const companyColumns = `
	cp.id, cp.user_id, cp.name, cp.description, cp.sector, cp.city_id, cp.address,
	cp.website, cp.logo_url, cp.phone, cp.created_at, cp.updated_at, c.name`

func scanCompany(row pgx.Row) (*domain.CompanyProfile, error) {
	var p domain.CompanyProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Description, &p.Sector, &p.CityID, &p.Address,
		&p.Website, &p.LogoURL, &p.Phone, &p.CreatedAt, &p.UpdatedAt, &p.CityName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *companyProfileRepo) Create(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		INSERT INTO company_profiles (user_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query, p.UserID, p.Name).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create company profile: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create company profile: %w", err)
	}
	return nil
}

func (r *companyProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	query := `SELECT ` + companyColumns + `
		FROM company_profiles cp
		LEFT JOIN cities c ON c.id = cp.city_id
		WHERE cp.user_id = $1`
	p, err := scanCompany(conn(ctx, r.db).QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFound(err, "get company profile")
	}
	return p, nil
}

func (r *companyProfileRepo) GetByID(ctx context.Context, id int64) (*domain.CompanyProfile, error) {
	query := `SELECT ` + companyColumns + `
		FROM company_profiles cp
		LEFT JOIN cities c ON c.id = cp.city_id
		WHERE cp.id = $1`
	p, err := scanCompany(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "get company profile")
	}
	return p, nil
}

func (r *companyProfileRepo) Update(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		UPDATE company_profiles SET
			name = $2, description = $3, sector = $4, city_id = $5, address = $6,
			website = $7, logo_url = $8, phone = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Sector, p.CityID, p.Address,
		p.Website, p.LogoURL, p.Phone,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return notFound(err, "update company profile")
	}
	return nil
}

func (r *companyProfileRepo) ListPublishedJobs(ctx context.Context, companyID int64) ([]domain.JobWithCompany, error) {
	query := `SELECT ` + jobWithCompanyColumns + jobWithCompanyFrom + `
		WHERE j.company_id = $1 AND j.state = 'published'
		ORDER BY j.published_at DESC NULLS LAST, j.id DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company postings: %w", err)
	}
	defer rows.Close()

	jobs := []domain.JobWithCompany{}
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}
