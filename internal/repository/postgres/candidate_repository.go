package postgres

import (
	"context"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

const candidateColumns = `
	cp.id, cp.user_id, cp.full_name, cp.birth_date, cp.gender, cp.national_id,
	cp.title, cp.summary, cp.phone, cp.expected_salary, cp.availability, cp.city_id,
	cp.linkedin_url, cp.github_url, cp.portfolio_url, cp.photo_url,
	cp.created_at, cp.updated_at, c.name`

func scanCandidate(row pgx.Row) (*domain.CandidateProfile, error) {
	var p domain.CandidateProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.BirthDate, &p.Gender, &p.NationalID,
		&p.Title, &p.Summary, &p.Phone, &p.ExpectedSalary, &p.Availability, &p.CityID,
		&p.LinkedInURL, &p.GitHubURL, &p.PortfolioURL, &p.PhotoURL,
		&p.CreatedAt, &p.UpdatedAt, &p.CityName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *candidateRepository) Create(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (user_id, full_name, birth_date, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query, p.UserID, p.FullName, p.BirthDate, p.Title).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create candidate profile: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create candidate profile: %w", err)
	}
	return nil
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidate_profiles cp
		LEFT JOIN cities c ON c.id = cp.city_id
		WHERE cp.user_id = $1`
	p, err := scanCandidate(conn(ctx, r.db).QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFound(err, "get candidate profile")
	}
	return p, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id int64) (*domain.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidate_profiles cp
		LEFT JOIN cities c ON c.id = cp.city_id
		WHERE cp.id = $1`
	p, err := scanCandidate(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "get candidate profile")
	}
	return p, nil
}

func (r *candidateRepository) Update(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles SET
			full_name = $2, birth_date = $3, gender = $4, national_id = $5,
			title = $6, summary = $7, phone = $8, expected_salary = $9,
			availability = $10, city_id = $11, linkedin_url = $12, github_url = $13,
			portfolio_url = $14, photo_url = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		p.ID, p.FullName, p.BirthDate, p.Gender, p.NationalID,
		p.Title, p.Summary, p.Phone, p.ExpectedSalary,
		p.Availability, p.CityID, p.LinkedInURL, p.GitHubURL,
		p.PortfolioURL, p.PhotoURL,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update candidate profile: %w", domain.ErrConflict)
		}
		return notFound(err, "update candidate profile")
	}
	return nil
}

func (r *candidateRepository) ListExperiences(ctx context.Context, candidateID int64) ([]domain.WorkExperience, error) {
	query := `
		SELECT id, candidate_id, company, position, start_date, end_date, is_current, description, created_at
		FROM work_experiences
		WHERE candidate_id = $1
		ORDER BY is_current DESC, start_date DESC, id DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	experiences := []domain.WorkExperience{}
	for rows.Next() {
		var e domain.WorkExperience
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Company, &e.Position, &e.StartDate, &e.EndDate, &e.IsCurrent, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *candidateRepository) AddExperience(ctx context.Context, e *domain.WorkExperience) error {
	query := `
		INSERT INTO work_experiences (candidate_id, company, position, start_date, end_date, is_current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		e.CandidateID, e.Company, e.Position, e.StartDate, e.EndDate, e.IsCurrent, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("add experience: %w", err)
	}
	return nil
}

func (r *candidateRepository) ListEducations(ctx context.Context, candidateID int64) ([]domain.Education, error) {
	query := `
		SELECT id, candidate_id, institution, degree, level, start_date, end_date, status, created_at
		FROM educations
		WHERE candidate_id = $1
		ORDER BY start_date DESC, id DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list educations: %w", err)
	}
	defer rows.Close()

	educations := []domain.Education{}
	for rows.Next() {
		var e domain.Education
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Institution, &e.Degree, &e.Level, &e.StartDate, &e.EndDate, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		educations = append(educations, e)
	}
	return educations, rows.Err()
}

func (r *candidateRepository) AddEducation(ctx context.Context, e *domain.Education) error {
	query := `
		INSERT INTO educations (candidate_id, institution, degree, level, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		e.CandidateID, e.Institution, e.Degree, e.Level, e.StartDate, e.EndDate, e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("add education: %w", err)
	}
	return nil
}

func (r *candidateRepository) ListSkills(ctx context.Context, candidateID int64) ([]domain.CandidateSkill, error) {
	query := `
		SELECT cs.candidate_id, cs.skill_id, s.name, cs.level
		FROM candidate_skills cs
		JOIN skills s ON s.id = cs.skill_id
		WHERE cs.candidate_id = $1
		ORDER BY s.name`
	rows, err := conn(ctx, r.db).Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list candidate skills: %w", err)
	}
	defer rows.Close()

	skills := []domain.CandidateSkill{}
	for rows.Next() {
		var s domain.CandidateSkill
		if err := rows.Scan(&s.CandidateID, &s.SkillID, &s.SkillName, &s.Level); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

func (r *candidateRepository) AddSkill(ctx context.Context, candidateID, skillID int64, level domain.SkillLevel) (bool, error) {
	query := `
		INSERT INTO candidate_skills (candidate_id, skill_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (candidate_id, skill_id) DO NOTHING`
	tag, err := conn(ctx, r.db).Exec(ctx, query, candidateID, skillID, level)
	if err != nil {
		return false, fmt.Errorf("add candidate skill: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *candidateRepository) ListLanguages(ctx context.Context, candidateID int64) ([]domain.CandidateLanguage, error) {
	query := `
		SELECT cl.candidate_id, cl.language_id, l.name, cl.level
		FROM candidate_languages cl
		JOIN languages l ON l.id = cl.language_id
		WHERE cl.candidate_id = $1
		ORDER BY l.name`
	rows, err := conn(ctx, r.db).Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list candidate languages: %w", err)
	}
	defer rows.Close()

	languages := []domain.CandidateLanguage{}
	for rows.Next() {
		var l domain.CandidateLanguage
		if err := rows.Scan(&l.CandidateID, &l.LanguageID, &l.LanguageName, &l.Level); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

func (r *candidateRepository) AddLanguage(ctx context.Context, candidateID, languageID int64, level domain.LanguageLevel) (bool, error) {
	query := `
		INSERT INTO candidate_languages (candidate_id, language_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (candidate_id, language_id) DO NOTHING`
	tag, err := conn(ctx, r.db).Exec(ctx, query, candidateID, languageID, level)
	if err != nil {
		return false, fmt.Errorf("add candidate language: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *candidateRepository) ListDocuments(ctx context.Context, candidateID int64) ([]domain.Document, error) {
	query := `
		SELECT id, candidate_id, name, url, kind, created_at
		FROM documents
		WHERE candidate_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := conn(ctx, r.db).Query(ctx, query, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.CandidateID, &d.Name, &d.URL, &d.Kind, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *candidateRepository) LatestDocument(ctx context.Context, candidateID int64, kind domain.DocumentKind) (*domain.Document, error) {
	query := `
		SELECT id, candidate_id, name, url, kind, created_at
		FROM documents
		WHERE candidate_id = $1 AND kind = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	var d domain.Document
	err := conn(ctx, r.db).QueryRow(ctx, query, candidateID, kind).
		Scan(&d.ID, &d.CandidateID, &d.Name, &d.URL, &d.Kind, &d.CreatedAt)
	if err != nil {
		return nil, notFound(err, "latest document")
	}
	return &d, nil
}

func (r *candidateRepository) CreateDocument(ctx context.Context, d *domain.Document) error {
	query := `
		INSERT INTO documents (candidate_id, name, url, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := conn(ctx, r.db).QueryRow(ctx, query, d.CandidateID, d.Name, d.URL, d.Kind).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (r *candidateRepository) UpdateDocument(ctx context.Context, d *domain.Document) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE documents SET name = $2, url = $3 WHERE id = $1`,
		d.ID, d.Name, d.URL,
	)
	return affectedOne(tag, err, "update document")
}
