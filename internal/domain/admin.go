package domain

import "context"

// AdminStats contains platform dashboard statistics
type AdminStats struct {
	TotalUsers           int64            `json:"total_users"`
	UsersByRole          UsersByRole      `json:"users_by_role"`
	TotalJobs            int64            `json:"total_jobs"`
	JobsByState          map[string]int64 `json:"jobs_by_state"`
	TotalApplications    int64            `json:"total_applications"`
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	Skills               int64            `json:"skills"`
	Languages            int64            `json:"languages"`
}

type UsersByRole struct {
	Admin     int64 `json:"admin"`
	Company   int64 `json:"company"`
	Candidate int64 `json:"candidate"`
}

// TableCount is one row of the record count report.
type TableCount struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)
	TableCounts(ctx context.Context) ([]TableCount, error)
}

type AdminUsecase interface {
	Dashboard(ctx context.Context, caller Caller) (*AdminStats, error)
}
