package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/validation"
)

const (
	dateLayout      = "2006-01-02"
	defaultPageSize = 10
	maxPageSize     = 100
)

func paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// optional returns nil for blank strings so empty form fields clear the column.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseDate(field, value string) (*time.Time, *apperror.FieldError) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, &apperror.FieldError{Field: field, Message: "must be a date in YYYY-MM-DD format"}
	}
	return &t, nil
}

// dateRange parses start/end and rejects an end before the start.
func dateRange(start, end string) (time.Time, *time.Time, error) {
	s, startErr := parseDate("start_date", start)
	e, endErr := parseDate("end_date", end)
	if err := validation.Collect(startErr, endErr); err != nil {
		return time.Time{}, nil, err
	}
	if s == nil {
		return time.Time{}, nil, apperror.Validation(apperror.FieldError{Field: "start_date", Message: "is required"})
	}
	if e != nil && e.Before(*s) {
		return time.Time{}, nil, apperror.Validation(apperror.FieldError{Field: "end_date", Message: "cannot be before start_date"})
	}
	return *s, e, nil
}

func requireRole(caller domain.Caller, roles ...domain.Role) error {
	if caller.Anonymous() {
		return apperror.Unauthorized("User not authenticated")
	}
	for _, r := range roles {
		if caller.Role == r {
			return nil
		}
	}
	return apperror.Forbidden("You do not have permission to perform this action")
}

func candidateFor(ctx context.Context, repo domain.CandidateRepository, caller domain.Caller) (*domain.CandidateProfile, error) {
	if err := requireRole(caller, domain.RoleCandidate); err != nil {
		return nil, err
	}
	profile, err := repo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func companyFor(ctx context.Context, repo domain.CompanyProfileRepository, caller domain.Caller) (*domain.CompanyProfile, error) {
	if err := requireRole(caller, domain.RoleCompany); err != nil {
		return nil, err
	}
	profile, err := repo.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// ownedJob loads a posting and checks that it belongs to the caller's company.
func ownedJob(ctx context.Context, jobs domain.JobRepository, companies domain.CompanyProfileRepository, caller domain.Caller, jobID int64) (*domain.JobPosting, *domain.CompanyProfile, error) {
	company, err := companyFor(ctx, companies, caller)
	if err != nil {
		return nil, nil, err
	}
	job, err := jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, apperror.NotFound("Job not found")
		}
		return nil, nil, err
	}
	if job.CompanyID != company.ID {
		record(ctx, caller, audit.EventAccessDenied, "job_posting", job.ID, nil)
		return nil, nil, apperror.Forbidden("You do not have access to this job")
	}
	return job, company, nil
}

func record(ctx context.Context, caller domain.Caller, event audit.EventType, resource string, id int64, details map[string]interface{}) {
	requestID, _ := ctx.Value(domain.KeyRequestID).(string)
	audit.Record(ctx, audit.Event{
		Event:      event,
		ActorID:    caller.UserID,
		ActorRole:  string(caller.Role),
		Resource:   resource,
		ResourceID: id,
		RequestID:  requestID,
		Details:    details,
	})
}
