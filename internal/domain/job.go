package domain

import (
	"context"
	"time"
)

type PostingState string

const (
	PostingDraft     PostingState = "draft"
	PostingPublished PostingState = "published"
	PostingPaused    PostingState = "paused"
	PostingClosed    PostingState = "closed"
	PostingExpired   PostingState = "expired"
)

func (s PostingState) Valid() bool {
	switch s {
	case PostingDraft, PostingPublished, PostingPaused, PostingClosed, PostingExpired:
		return true
	}
	return false
}

const (
	ContractFullTime   = "full_time"
	ContractPartTime   = "part_time"
	ContractFreelance  = "freelance"
	ContractInternship = "internship"
	ContractTemporary  = "temporary"
	ContractPerProject = "per_project"
)

const (
	WorkModeOnSite = "on_site"
	WorkModeRemote = "remote"
	WorkModeHybrid = "hybrid"
)

type JobPosting struct {
	ID           int64        `json:"id"`
	CompanyID    int64        `json:"company_id"`
	CategoryID   *int64       `json:"category_id,omitempty"`
	CityID       *int64       `json:"city_id,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ContractType string       `json:"contract_type"`
	WorkMode     string       `json:"work_mode"`
	SalaryMin    *float64     `json:"salary_min,omitempty"`
	SalaryMax    *float64     `json:"salary_max,omitempty"`
	State        PostingState `json:"state"`
	PublishedAt  *time.Time   `json:"published_at,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// JobWithCompany extends JobPosting with the context shown on public pages
type JobWithCompany struct {
	JobPosting
	CompanyName    string   `json:"company_name"`
	CompanyLogoURL *string  `json:"company_logo_url,omitempty"`
	CategoryName   *string  `json:"category_name,omitempty"`
	CityName       *string  `json:"city_name,omitempty"`
	Requirements   []string `json:"requirements"`
}

// JobSummary is a company's own posting with its applicant count.
type JobSummary struct {
	JobPosting
	ApplicantCount int `json:"applicant_count"`
}

type JobDetail struct {
	*JobWithCompany
	RequirementList []PostingRequirement `json:"requirement_list"`
	IsOwner         bool                 `json:"is_owner"`
}

type PostingRequirement struct {
	ID        int64       `json:"id"`
	PostingID int64       `json:"posting_id"`
	SkillID   int64       `json:"skill_id"`
	SkillName string      `json:"skill_name"`
	Level     *SkillLevel `json:"level,omitempty"`
	Mandatory bool        `json:"mandatory"`
	CreatedAt time.Time   `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type JobFilter struct {
	Query        string
	CategoryID   *int64
	CityID       *int64
	ContractType string
	WorkMode     string
}

// JobInput is used for create and update. State is never taken from it.
type JobInput struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"required,max=10000"`
	CategoryID   *int64     `json:"category_id"`
	CityID       *int64     `json:"city_id"`
	ContractType string     `json:"contract_type" validate:"required,oneof=full_time part_time freelance internship temporary per_project"`
	WorkMode     string     `json:"work_mode" validate:"required,oneof=on_site remote hybrid"`
	SalaryMin    *float64   `json:"salary_min"`
	SalaryMax    *float64   `json:"salary_max"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type RequirementInput struct {
	Skill     string `json:"skill" validate:"required,max=100"`
	Level     string `json:"level" validate:"omitempty,oneof=basic intermediate advanced expert"`
	Mandatory bool   `json:"mandatory"`
}

type JobRepository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id int64) (*JobPosting, error)
	GetByIDWithCompany(ctx context.Context, id int64) (*JobWithCompany, error)
	FetchPublished(ctx context.Context, filter JobFilter, limit, offset int) ([]JobWithCompany, int64, error)
	FetchByCompanyID(ctx context.Context, companyID int64, limit, offset int) ([]JobSummary, int64, error)
	Update(ctx context.Context, job *JobPosting) error
	UpdateState(ctx context.Context, id int64, state PostingState, publishedAt *time.Time) error
	Delete(ctx context.Context, id int64) error

	// AddRequirement inserts unless the posting already requires the skill
	// and reports whether a row was created.
	AddRequirement(ctx context.Context, req *PostingRequirement) (bool, error)
	GetRequirement(ctx context.Context, id int64) (*PostingRequirement, error)
	DeleteRequirement(ctx context.Context, id int64) error
	ListRequirements(ctx context.Context, postingID int64) ([]PostingRequirement, error)

	ListCategories(ctx context.Context) ([]Category, error)
}

type JobUsecase interface {
	CreateJob(ctx context.Context, caller Caller, input JobInput) (*JobPosting, error)
	UpdateJob(ctx context.Context, caller Caller, id int64, input JobInput) (*JobPosting, error)
	ChangeState(ctx context.Context, caller Caller, id int64, state PostingState) (*JobPosting, error)
	DeleteJob(ctx context.Context, caller Caller, id int64) error
	// GetJob shows published postings to everyone and any state to the owner.
	GetJob(ctx context.Context, caller Caller, id int64) (*JobDetail, error)
	ListPublished(ctx context.Context, filter JobFilter, page, pageSize int) ([]JobWithCompany, int64, error)
	ListMine(ctx context.Context, caller Caller, page, pageSize int) ([]JobSummary, int64, error)

	AddRequirement(ctx context.Context, caller Caller, postingID int64, input RequirementInput) (*PostingRequirement, bool, error)
	RemoveRequirement(ctx context.Context, caller Caller, requirementID int64) error
	ListRequirements(ctx context.Context, caller Caller, postingID int64) ([]PostingRequirement, error)

	ListCategories(ctx context.Context) ([]Category, error)
}
