package postgres

import (
	"context"
	"errors"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

const applicationSelect = `
	SELECT
		a.id, a.job_id, a.candidate_id, a.status, a.feedback, a.applied_at, a.updated_at,
		j.title, j.state, co.name,
		ca.full_name, NULLIF(ca.title, ''), ci.name
	FROM applications a
	JOIN job_postings j ON j.id = a.job_id
	LEFT JOIN company_profiles co ON co.id = j.company_id
	JOIN candidate_profiles ca ON ca.id = a.candidate_id
	LEFT JOIN cities ci ON ci.id = ca.city_id`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.JobID, &app.CandidateID, &app.Status, &app.Feedback, &app.AppliedAt, &app.UpdatedAt,
		&app.JobTitle, &app.JobState, &app.CompanyName,
		&app.CandidateName, &app.CandidateTitle, &app.CandidateCity,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	applications := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// CreateIfAbsent inserts a pending application; a concurrent or earlier
// application for the same pair is returned unchanged.
func (r *applicationRepo) CreateIfAbsent(ctx context.Context, jobID, candidateID int64) (*domain.Application, bool, error) {
	query := `
		INSERT INTO applications (job_id, candidate_id, status, applied_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (job_id, candidate_id) DO NOTHING
		RETURNING id`
	var id int64
	err := conn(ctx, r.db).QueryRow(ctx, query, jobID, candidateID, domain.StatusPending).Scan(&id)
	created := true
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		created = false
		err = conn(ctx, r.db).QueryRow(ctx,
			`SELECT id FROM applications WHERE job_id = $1 AND candidate_id = $2`, jobID, candidateID,
		).Scan(&id)
		if err != nil {
			return nil, false, notFound(err, "get existing application")
		}
	case err != nil:
		return nil, false, fmt.Errorf("create application: %w", err)
	}

	app, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return app, created, nil
}

// GetByID retrieves an application by ID with joined posting and candidate data
func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	app, err := scanApplication(conn(ctx, r.db).QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get application")
	}
	return app, nil
}

func (r *applicationRepo) GetByPair(ctx context.Context, jobID, candidateID int64) (*domain.Application, error) {
	app, err := scanApplication(conn(ctx, r.db).QueryRow(ctx,
		applicationSelect+` WHERE a.job_id = $1 AND a.candidate_id = $2`, jobID, candidateID))
	if err != nil {
		return nil, notFound(err, "get application by pair")
	}
	return app, nil
}

// Exists checks if the candidate already applied to the posting
func (r *applicationRepo) Exists(ctx context.Context, jobID, candidateID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, query, jobID, candidateID).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) ListByCandidate(ctx context.Context, candidateID int64, limit int) ([]domain.Application, error) {
	query := applicationSelect + ` WHERE a.candidate_id = $1 ORDER BY a.applied_at DESC, a.id DESC`
	if limit > 0 {
		return r.list(ctx, query+` LIMIT $2`, candidateID, limit)
	}
	return r.list(ctx, query, candidateID)
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.list(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC, a.id DESC`, jobID)
}

// UpdateStatus sets the status and updated_at. A nil feedback keeps the
// stored one and an empty string clears it.
func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, feedback *string) error {
	query := `
		UPDATE applications
		SET status = $2,
		    feedback = CASE WHEN $3::text IS NULL THEN feedback ELSE NULLIF($3::text, '') END,
		    updated_at = NOW()
		WHERE id = $1`
	tag, err := conn(ctx, r.db).Exec(ctx, query, id, status, feedback)
	return affectedOne(tag, err, "update application status")
}

func (r *applicationRepo) SaveIfAbsent(ctx context.Context, candidateID, jobID int64) (bool, error) {
	query := `
		INSERT INTO saved_postings (candidate_id, job_id)
		VALUES ($1, $2)
		ON CONFLICT (candidate_id, job_id) DO NOTHING`
	tag, err := conn(ctx, r.db).Exec(ctx, query, candidateID, jobID)
	if err != nil {
		return false, fmt.Errorf("save posting: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *applicationRepo) Unsave(ctx context.Context, candidateID, jobID int64) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM saved_postings WHERE candidate_id = $1 AND job_id = $2`, candidateID, jobID,
	)
	return affectedOne(tag, err, "unsave posting")
}

func (r *applicationRepo) ListSaved(ctx context.Context, candidateID int64, limit int) ([]domain.SavedPosting, error) {
	query := `
		SELECT sp.id, sp.candidate_id, sp.job_id, sp.created_at, j.title, j.state, COALESCE(co.name, '')
		FROM saved_postings sp
		JOIN job_postings j ON j.id = sp.job_id
		LEFT JOIN company_profiles co ON co.id = j.company_id
		WHERE sp.candidate_id = $1
		ORDER BY sp.created_at DESC, sp.id DESC`
	args := []any{candidateID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list saved postings: %w", err)
	}
	defer rows.Close()

	saved := []domain.SavedPosting{}
	for rows.Next() {
		var s domain.SavedPosting
		if err := rows.Scan(&s.ID, &s.CandidateID, &s.JobID, &s.CreatedAt, &s.JobTitle, &s.JobState, &s.CompanyName); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

func (r *applicationRepo) Stats(ctx context.Context, candidateID int64) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM applications WHERE candidate_id = $1 AND status <> 'rejected'),
			(SELECT COUNT(*) FROM applications WHERE candidate_id = $1 AND status = 'interview'),
			(SELECT COUNT(*) FROM saved_postings WHERE candidate_id = $1)`
	var stats domain.DashboardStats
	err := conn(ctx, r.db).QueryRow(ctx, query, candidateID).
		Scan(&stats.ActiveApplications, &stats.Interviews, &stats.SavedPostings)
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	return &stats, nil
}
