package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

type ApplicationOptions struct {
	// EnforceStatusGraph rejects status changes that CanTransition refuses.
	// When false any known status is accepted.
	EnforceStatusGraph bool
}

type applicationUsecase struct {
	appRepo       domain.ApplicationRepository
	jobRepo       domain.JobRepository
	candidateRepo domain.CandidateRepository
	companyRepo   domain.CompanyProfileRepository
	tx            domain.Transactor
	validate      *validator.Validate
	opts          ApplicationOptions
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	candidateRepo domain.CandidateRepository,
	companyRepo domain.CompanyProfileRepository,
	tx domain.Transactor,
	validate *validator.Validate,
	opts ApplicationOptions,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		candidateRepo: candidateRepo,
		companyRepo:   companyRepo,
		tx:            tx,
		validate:      validate,
		opts:          opts,
	}
}

func (u *applicationUsecase) loadJob(ctx context.Context, jobID int64) (*domain.JobPosting, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}
	return job, nil
}

func (u *applicationUsecase) checkTransition(from, to domain.ApplicationStatus) error {
	if !u.opts.EnforceStatusGraph || domain.CanTransition(from, to) {
		return nil
	}
	return apperror.Validation(apperror.FieldError{
		Field:   "status",
		Message: fmt.Sprintf("cannot change from %s to %s", from, to),
	})
}

// Apply creates a pending application. Applying twice returns the existing
// application with created set to false, even once the posting has left
// published; only a new application requires a published posting.
func (u *applicationUsecase) Apply(ctx context.Context, caller domain.Caller, jobID int64) (*domain.Application, bool, error) {
	var (
		app     *domain.Application
		created bool
	)
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		candidate, err := candidateFor(ctx, u.candidateRepo, caller)
		if err != nil {
			return err
		}
		job, err := u.loadJob(ctx, jobID)
		if err != nil {
			return err
		}
		existing, err := u.appRepo.GetByPair(ctx, job.ID, candidate.ID)
		switch {
		case err == nil:
			app = existing
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		if job.State != domain.PostingPublished {
			return apperror.Validation(apperror.FieldError{Field: "job_id", Message: "is not accepting applications"})
		}
		app, created, err = u.appRepo.CreateIfAbsent(ctx, job.ID, candidate.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		record(ctx, caller, audit.EventApplicationCreated, "application", app.ID,
			map[string]interface{}{"job_id": jobID})
	}
	return app, created, nil
}

func (u *applicationUsecase) Withdraw(ctx context.Context, caller domain.Caller, applicationID int64) (*domain.Application, error) {
	var app *domain.Application
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		candidate, err := candidateFor(ctx, u.candidateRepo, caller)
		if err != nil {
			return err
		}
		current, err := u.appRepo.GetByID(ctx, applicationID)
		if err != nil || current.CandidateID != candidate.ID {
			if err == nil || errors.Is(err, domain.ErrNotFound) {
				return apperror.NotFound("Application not found")
			}
			return err
		}
		if err := u.checkTransition(current.Status, domain.StatusWithdrawn); err != nil {
			return err
		}
		if err := u.appRepo.UpdateStatus(ctx, current.ID, domain.StatusWithdrawn, nil); err != nil {
			return err
		}
		record(ctx, caller, audit.EventApplicationStatusSet, "application", current.ID, map[string]interface{}{
			"from": string(current.Status),
			"to":   string(domain.StatusWithdrawn),
		})
		app, err = u.appRepo.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// HasApplied is false for anyone who is not a candidate.
func (u *applicationUsecase) HasApplied(ctx context.Context, caller domain.Caller, jobID int64) (bool, error) {
	if !caller.Is(domain.RoleCandidate) {
		return false, nil
	}
	candidate, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return false, err
	}
	return u.appRepo.Exists(ctx, jobID, candidate.ID)
}

func (u *applicationUsecase) ListMine(ctx context.Context, caller domain.Caller) ([]domain.Application, error) {
	candidate, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	return u.appRepo.ListByCandidate(ctx, candidate.ID, 0)
}

func (u *applicationUsecase) Save(ctx context.Context, caller domain.Caller, jobID int64) (bool, error) {
	candidate, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return false, err
	}
	if _, err := u.loadJob(ctx, jobID); err != nil {
		return false, err
	}
	return u.appRepo.SaveIfAbsent(ctx, candidate.ID, jobID)
}

func (u *applicationUsecase) Unsave(ctx context.Context, caller domain.Caller, jobID int64) error {
	candidate, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return err
	}
	if err := u.appRepo.Unsave(ctx, candidate.ID, jobID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Saved job not found")
		}
		return err
	}
	return nil
}

func (u *applicationUsecase) ListSaved(ctx context.Context, caller domain.Caller) ([]domain.SavedPosting, error) {
	candidate, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	return u.appRepo.ListSaved(ctx, candidate.ID, 0)
}

// ListApplicants returns all applications for a job owned by the caller's company
func (u *applicationUsecase) ListApplicants(ctx context.Context, caller domain.Caller, jobID int64) ([]domain.Application, error) {
	if _, _, err := ownedJob(ctx, u.jobRepo, u.companyRepo, caller, jobID); err != nil {
		return nil, err
	}
	return u.appRepo.ListByJob(ctx, jobID)
}

// SetStatus updates an application's status and feedback. The application
// must belong to a posting of the caller's company.
func (u *applicationUsecase) SetStatus(ctx context.Context, caller domain.Caller, applicationID int64, input domain.StatusInput) (*domain.Application, error) {
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}
	if input.Feedback != nil {
		trimmed := strings.TrimSpace(*input.Feedback)
		input.Feedback = &trimmed
	}
	status := domain.ApplicationStatus(input.Status)
	if !status.Valid() {
		return nil, apperror.Validation(apperror.FieldError{Field: "status", Message: "is not a valid application status"})
	}

	var app *domain.Application
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireRole(caller, domain.RoleCompany); err != nil {
			return err
		}
		current, err := u.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperror.NotFound("Application not found")
			}
			return err
		}
		if _, _, err := ownedJob(ctx, u.jobRepo, u.companyRepo, caller, current.JobID); err != nil {
			return err
		}
		if err := u.checkTransition(current.Status, status); err != nil {
			return err
		}
		if err := u.appRepo.UpdateStatus(ctx, current.ID, status, input.Feedback); err != nil {
			return err
		}
		record(ctx, caller, audit.EventApplicationStatusSet, "application", current.ID, map[string]interface{}{
			"from": string(current.Status),
			"to":   string(status),
		})
		app, err = u.appRepo.GetByID(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

var applicantColumns = []string{"CANDIDATE", "TITLE", "CITY", "STATUS", "APPLIED AT", "FEEDBACK"}

// ExportApplicants renders the applicants of an owned posting as an Excel file
func (u *applicationUsecase) ExportApplicants(ctx context.Context, caller domain.Caller, jobID int64) ([]byte, string, error) {
	job, _, err := ownedJob(ctx, u.jobRepo, u.companyRepo, caller, jobID)
	if err != nil {
		return nil, "", err
	}
	apps, err := u.appRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Applicants"
	f.SetSheetName("Sheet1", sheetName)

	for i, col := range applicantColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(applicantColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, app := range apps {
		values := []interface{}{
			deref(app.CandidateName),
			deref(app.CandidateTitle),
			deref(app.CandidateCity),
			string(app.Status),
			app.AppliedAt.Format("2006-01-02 15:04"),
			deref(app.Feedback),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range applicantColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("job_%d_applicants_%s.xlsx", job.ID, time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
