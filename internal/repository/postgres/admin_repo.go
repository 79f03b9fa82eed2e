package postgres

import (
	"context"
	"fmt"

	"jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Tables reported by TableCounts, in schema order.
var reportedTables = []string{
	"countries", "regions", "cities",
	"users", "candidate_profiles", "company_profiles",
	"work_experiences", "educations", "documents",
	"skills", "languages", "candidate_skills", "candidate_languages",
	"categories", "job_postings", "posting_requirements",
	"applications", "saved_postings",
}

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

// GetStats fetches dashboard statistics
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		JobsByState:          map[string]int64{},
		ApplicationsByStatus: map[string]int64{},
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE role = 'admin'),
			(SELECT COUNT(*) FROM users WHERE role = 'company'),
			(SELECT COUNT(*) FROM users WHERE role = 'candidate'),
			(SELECT COUNT(*) FROM skills),
			(SELECT COUNT(*) FROM languages)`
	err := conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.UsersByRole.Admin, &stats.UsersByRole.Company, &stats.UsersByRole.Candidate,
		&stats.Skills, &stats.Languages,
	)
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	if err := r.groupCount(ctx, `SELECT state, COUNT(*) FROM job_postings GROUP BY state`, stats.JobsByState, &stats.TotalJobs); err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`, stats.ApplicationsByStatus, &stats.TotalApplications); err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	return stats, nil
}

func (r *adminRepo) groupCount(ctx context.Context, query string, into map[string]int64, total *int64) error {
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
		*total += n
	}
	return rows.Err()
}

// TableCounts returns the number of rows in every application table.
func (r *adminRepo) TableCounts(ctx context.Context) ([]domain.TableCount, error) {
	counts := make([]domain.TableCount, 0, len(reportedTables))
	for _, table := range reportedTables {
		tc := domain.TableCount{Table: table}
		if err := conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&tc.Count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, tc)
	}
	return counts, nil
}
