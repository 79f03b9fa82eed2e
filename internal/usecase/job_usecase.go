package usecase

import (
	"context"
	"errors"
	"time"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/audit"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type jobUsecase struct {
	jobRepo            domain.JobRepository
	companyProfileRepo domain.CompanyProfileRepository
	catalog            domain.CatalogUsecase
	tx                 domain.Transactor
	validate           *validator.Validate
	now                func() time.Time
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	companyProfileRepo domain.CompanyProfileRepository,
	catalog domain.CatalogUsecase,
	tx domain.Transactor,
	validate *validator.Validate,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:            jobRepo,
		companyProfileRepo: companyProfileRepo,
		catalog:            catalog,
		tx:                 tx,
		validate:           validate,
		now:                time.Now,
	}
}

func (u *jobUsecase) validateInput(input domain.JobInput) error {
	if err := validation.Struct(u.validate, input); err != nil {
		return err
	}
	return validation.Collect(
		validation.NonNegative("salary_min", input.SalaryMin),
		validation.NonNegative("salary_max", input.SalaryMax),
		validation.SalaryRange(input.SalaryMin, input.SalaryMax),
	)
}

func applyJobInput(job *domain.JobPosting, input domain.JobInput) {
	job.Title = input.Title
	job.Description = input.Description
	job.CategoryID = input.CategoryID
	job.CityID = input.CityID
	job.ContractType = input.ContractType
	job.WorkMode = input.WorkMode
	job.SalaryMin = input.SalaryMin
	job.SalaryMax = input.SalaryMax
	job.ExpiresAt = input.ExpiresAt
}

// CreateJob always stores the posting as a draft.
func (u *jobUsecase) CreateJob(ctx context.Context, caller domain.Caller, input domain.JobInput) (*domain.JobPosting, error) {
	company, err := companyFor(ctx, u.companyProfileRepo, caller)
	if err != nil {
		return nil, err
	}
	if err := u.validateInput(input); err != nil {
		return nil, err
	}

	job := &domain.JobPosting{CompanyID: company.ID, State: domain.PostingDraft}
	applyJobInput(job, input)
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) UpdateJob(ctx context.Context, caller domain.Caller, id int64, input domain.JobInput) (*domain.JobPosting, error) {
	if err := u.validateInput(input); err != nil {
		return nil, err
	}
	var job *domain.JobPosting
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		job, _, err = ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, id)
		if err != nil {
			return err
		}
		applyJobInput(job, input)
		return u.jobRepo.Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ChangeState is the only way a posting leaves draft. The first move to
// published stamps published_at.
func (u *jobUsecase) ChangeState(ctx context.Context, caller domain.Caller, id int64, state domain.PostingState) (*domain.JobPosting, error) {
	if !state.Valid() {
		return nil, apperror.Validation(apperror.FieldError{
			Field:   "state",
			Message: "must be one of draft, published, paused, closed, expired",
		})
	}

	var job *domain.JobPosting
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, _, err := ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, id)
		if err != nil {
			return err
		}
		var publishedAt *time.Time
		if state == domain.PostingPublished && current.PublishedAt == nil {
			now := u.now()
			publishedAt = &now
		}
		if err := u.jobRepo.UpdateState(ctx, id, state, publishedAt); err != nil {
			return err
		}
		record(ctx, caller, audit.EventPostingStateChanged, "job_posting", id, map[string]interface{}{
			"from": string(current.State),
			"to":   string(state),
		})
		job, err = u.jobRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (u *jobUsecase) DeleteJob(ctx context.Context, caller domain.Caller, id int64) error {
	return u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, _, err := ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, id); err != nil {
			return err
		}
		if err := u.jobRepo.Delete(ctx, id); err != nil {
			return err
		}
		record(ctx, caller, audit.EventPostingDeleted, "job_posting", id, nil)
		return nil
	})
}

func (u *jobUsecase) GetJob(ctx context.Context, caller domain.Caller, id int64) (*domain.JobDetail, error) {
	job, err := u.jobRepo.GetByIDWithCompany(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found")
		}
		return nil, err
	}

	isOwner := false
	if caller.Is(domain.RoleCompany) {
		company, err := u.companyProfileRepo.GetByUserID(ctx, caller.UserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		isOwner = company != nil && company.ID == job.CompanyID
	}
	if job.State != domain.PostingPublished && !isOwner && !caller.Is(domain.RoleAdmin) {
		return nil, apperror.NotFound("Job not found")
	}

	reqs, err := u.jobRepo.ListRequirements(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.JobDetail{JobWithCompany: job, RequirementList: reqs, IsOwner: isOwner}, nil
}

func (u *jobUsecase) ListPublished(ctx context.Context, filter domain.JobFilter, page, pageSize int) ([]domain.JobWithCompany, int64, error) {
	limit, offset := paginate(page, pageSize)
	return u.jobRepo.FetchPublished(ctx, filter, limit, offset)
}

func (u *jobUsecase) ListMine(ctx context.Context, caller domain.Caller, page, pageSize int) ([]domain.JobSummary, int64, error) {
	company, err := companyFor(ctx, u.companyProfileRepo, caller)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := paginate(page, pageSize)
	return u.jobRepo.FetchByCompanyID(ctx, company.ID, limit, offset)
}

// AddRequirement resolves the skill through the catalog. A skill the posting
// already requires is reported with false rather than as an error.
func (u *jobUsecase) AddRequirement(ctx context.Context, caller domain.Caller, postingID int64, input domain.RequirementInput) (*domain.PostingRequirement, bool, error) {
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, false, err
	}

	var (
		req     *domain.PostingRequirement
		created bool
	)
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, _, err := ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, postingID); err != nil {
			return err
		}
		skill, _, err := u.catalog.Resolve(ctx, domain.CatalogSkill, input.Skill)
		if err != nil {
			return err
		}
		req = &domain.PostingRequirement{
			PostingID: postingID,
			SkillID:   skill.ID,
			SkillName: skill.Name,
			Mandatory: input.Mandatory,
		}
		if input.Level != "" {
			level := domain.SkillLevel(input.Level)
			req.Level = &level
		}
		created, err = u.jobRepo.AddRequirement(ctx, req)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return req, created, nil
}

func (u *jobUsecase) RemoveRequirement(ctx context.Context, caller domain.Caller, requirementID int64) error {
	return u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := requireRole(caller, domain.RoleCompany); err != nil {
			return err
		}
		req, err := u.jobRepo.GetRequirement(ctx, requirementID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return apperror.NotFound("Requirement not found")
			}
			return err
		}
		if _, _, err := ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, req.PostingID); err != nil {
			return err
		}
		if err := u.jobRepo.DeleteRequirement(ctx, requirementID); err != nil {
			return err
		}
		record(ctx, caller, audit.EventRequirementRemoved, "posting_requirement", requirementID,
			map[string]interface{}{"posting_id": req.PostingID, "skill": req.SkillName})
		return nil
	})
}

func (u *jobUsecase) ListRequirements(ctx context.Context, caller domain.Caller, postingID int64) ([]domain.PostingRequirement, error) {
	if _, _, err := ownedJob(ctx, u.jobRepo, u.companyProfileRepo, caller, postingID); err != nil {
		return nil, err
	}
	return u.jobRepo.ListRequirements(ctx, postingID)
}

func (u *jobUsecase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return u.jobRepo.ListCategories(ctx)
}
