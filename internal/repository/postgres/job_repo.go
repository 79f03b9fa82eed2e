package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `
	j.id, j.company_id, j.category_id, j.city_id, j.title, j.description,
	j.contract_type, j.work_mode, j.salary_min, j.salary_max, j.state,
	j.published_at, j.expires_at, j.created_at, j.updated_at`

const jobWithCompanyColumns = jobColumns + `,
	COALESCE(cp.name, 'Unknown Company') AS company_name,
	cp.logo_url, cat.name, ci.name,
	COALESCE((
		SELECT array_agg(s.name ORDER BY s.name)
		FROM posting_requirements pr
		JOIN skills s ON s.id = pr.skill_id
		WHERE pr.posting_id = j.id
	), '{}') AS requirements`

const jobWithCompanyFrom = `
	FROM job_postings j
	LEFT JOIN company_profiles cp ON cp.id = j.company_id
	LEFT JOIN categories cat ON cat.id = j.category_id
	LEFT JOIN cities ci ON ci.id = j.city_id`

func jobFields(j *domain.JobPosting) []any {
	return []any{
		&j.ID, &j.CompanyID, &j.CategoryID, &j.CityID, &j.Title, &j.Description,
		&j.ContractType, &j.WorkMode, &j.SalaryMin, &j.SalaryMax, &j.State,
		&j.PublishedAt, &j.ExpiresAt, &j.CreatedAt, &j.UpdatedAt,
	}
}

func scanJobWithCompany(row pgx.Row) (*domain.JobWithCompany, error) {
	var job domain.JobWithCompany
	var requirements []string
	dest := append(jobFields(&job.JobPosting),
		&job.CompanyName, &job.CompanyLogoURL, &job.CategoryName, &job.CityName,
		pq.Array(&requirements),
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	job.Requirements = requirements
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	query := `
		INSERT INTO job_postings (company_id, category_id, city_id, title, description, contract_type,
			work_mode, salary_min, salary_max, state, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		job.CompanyID, job.CategoryID, job.CityID, job.Title, job.Description, job.ContractType,
		job.WorkMode, job.SalaryMin, job.SalaryMax, job.State, job.ExpiresAt,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM job_postings j WHERE j.id = $1`
	var job domain.JobPosting
	if err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(jobFields(&job)...); err != nil {
		return nil, notFound(err, "get job")
	}
	return &job, nil
}

// GetByIDWithCompany retrieves a posting with company, category, city and requirement names
func (r *jobRepo) GetByIDWithCompany(ctx context.Context, id int64) (*domain.JobWithCompany, error) {
	query := `SELECT ` + jobWithCompanyColumns + jobWithCompanyFrom + ` WHERE j.id = $1`
	job, err := scanJobWithCompany(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "get job")
	}
	return job, nil
}

func publishedWhere(filter domain.JobFilter) (string, []any) {
	conds := []string{"j.state = 'published'"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		add("(j.title ILIKE $%[1]d OR j.description ILIKE $%[1]d)", "%"+likeEscaper.Replace(q)+"%")
	}
	if filter.CategoryID != nil {
		add("j.category_id = $%d", *filter.CategoryID)
	}
	if filter.CityID != nil {
		add("j.city_id = $%d", *filter.CityID)
	}
	if filter.ContractType != "" {
		add("j.contract_type = $%d", filter.ContractType)
	}
	if filter.WorkMode != "" {
		add("j.work_mode = $%d", filter.WorkMode)
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *jobRepo) FetchPublished(ctx context.Context, filter domain.JobFilter, limit, offset int) ([]domain.JobWithCompany, int64, error) {
	where, args := publishedWhere(filter)

	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM job_postings j`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count published jobs: %w", err)
	}

	query := `SELECT ` + jobWithCompanyColumns + jobWithCompanyFrom + where +
		fmt.Sprintf(` ORDER BY j.published_at DESC NULLS LAST, j.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := conn(ctx, r.db).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch published jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.JobWithCompany{}
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, total, rows.Err()
}

// FetchByCompanyID lists a company's postings in any state with applicant counts
func (r *jobRepo) FetchByCompanyID(ctx context.Context, companyID int64, limit, offset int) ([]domain.JobSummary, int64, error) {
	var total int64
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM job_postings WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count company jobs: %w", err)
	}

	query := `
		SELECT ` + jobColumns + `,
			(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS applicant_count
		FROM job_postings j
		WHERE j.company_id = $1
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := conn(ctx, r.db).Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch company jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.JobSummary{}
	for rows.Next() {
		var s domain.JobSummary
		if err := rows.Scan(append(jobFields(&s.JobPosting), &s.ApplicantCount)...); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, s)
	}
	return jobs, total, rows.Err()
}

func (r *jobRepo) Update(ctx context.Context, job *domain.JobPosting) error {
	query := `
		UPDATE job_postings SET
			category_id = $2, city_id = $3, title = $4, description = $5, contract_type = $6,
			work_mode = $7, salary_min = $8, salary_max = $9, expires_at = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		job.ID, job.CategoryID, job.CityID, job.Title, job.Description, job.ContractType,
		job.WorkMode, job.SalaryMin, job.SalaryMax, job.ExpiresAt,
	).Scan(&job.UpdatedAt)
	if err != nil {
		return notFound(err, "update job")
	}
	return nil
}

// UpdateState sets the state; publishedAt is only written when the column is still null.
func (r *jobRepo) UpdateState(ctx context.Context, id int64, state domain.PostingState, publishedAt *time.Time) error {
	query := `
		UPDATE job_postings
		SET state = $2, published_at = COALESCE(published_at, $3), updated_at = NOW()
		WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id, state, publishedAt)
	return affectedOne(tag, err, "update job state")
}

func (r *jobRepo) Delete(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	return affectedOne(tag, err, "delete job")
}

func (r *jobRepo) AddRequirement(ctx context.Context, req *domain.PostingRequirement) (bool, error) {
	query := `
		INSERT INTO posting_requirements (posting_id, skill_id, level, mandatory)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (posting_id, skill_id) DO NOTHING
		RETURNING id, created_at`
	err := conn(ctx, r.db).QueryRow(ctx, query, req.PostingID, req.SkillID, req.Level, req.Mandatory).
		Scan(&req.ID, &req.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("add requirement: %w", err)
	}

	// Already required; hand back the stored row.
	query = `SELECT id, level, mandatory, created_at FROM posting_requirements WHERE posting_id = $1 AND skill_id = $2`
	if err := conn(ctx, r.db).QueryRow(ctx, query, req.PostingID, req.SkillID).
		Scan(&req.ID, &req.Level, &req.Mandatory, &req.CreatedAt); err != nil {
		return false, notFound(err, "get requirement")
	}
	return false, nil
}

func (r *jobRepo) GetRequirement(ctx context.Context, id int64) (*domain.PostingRequirement, error) {
	query := `
		SELECT pr.id, pr.posting_id, pr.skill_id, s.name, pr.level, pr.mandatory, pr.created_at
		FROM posting_requirements pr
		JOIN skills s ON s.id = pr.skill_id
		WHERE pr.id = $1`
	var req domain.PostingRequirement
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&req.ID, &req.PostingID, &req.SkillID, &req.SkillName, &req.Level, &req.Mandatory, &req.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err, "get requirement")
	}
	return &req, nil
}

func (r *jobRepo) DeleteRequirement(ctx context.Context, id int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM posting_requirements WHERE id = $1`, id)
	return affectedOne(tag, err, "delete requirement")
}

func (r *jobRepo) ListRequirements(ctx context.Context, postingID int64) ([]domain.PostingRequirement, error) {
	query := `
		SELECT pr.id, pr.posting_id, pr.skill_id, s.name, pr.level, pr.mandatory, pr.created_at
		FROM posting_requirements pr
		JOIN skills s ON s.id = pr.skill_id
		WHERE pr.posting_id = $1
		ORDER BY pr.mandatory DESC, s.name`
	rows, err := conn(ctx, r.db).Query(ctx, query, postingID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	reqs := []domain.PostingRequirement{}
	for rows.Next() {
		var req domain.PostingRequirement
		if err := rows.Scan(&req.ID, &req.PostingID, &req.SkillID, &req.SkillName, &req.Level, &req.Mandatory, &req.CreatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *jobRepo) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
