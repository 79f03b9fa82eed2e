package domain

import (
	"context"
	"strings"
	"time"
)

// Placeholder birth date stored at registration until the candidate edits it.
var PlaceholderBirthDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

type CandidateProfile struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	FullName       string    `json:"full_name"`
	BirthDate      time.Time `json:"birth_date"`
	Gender         *string   `json:"gender,omitempty"`
	NationalID     *string   `json:"national_id,omitempty"`
	Title          string    `json:"title"`
	Summary        *string   `json:"summary,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	ExpectedSalary *float64  `json:"expected_salary,omitempty"`
	Availability   *string   `json:"availability,omitempty"`
	CityID         *int64    `json:"city_id,omitempty"`
	LinkedInURL    *string   `json:"linkedin_url,omitempty"`
	GitHubURL      *string   `json:"github_url,omitempty"`
	PortfolioURL   *string   `json:"portfolio_url,omitempty"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Joined
	CityName *string `json:"city_name,omitempty"`
}

// HasPersonalInfo reports whether the first wizard step has been completed.
func (p *CandidateProfile) HasPersonalInfo() bool {
	return p != nil && strings.TrimSpace(p.Title) != ""
}

type WorkExperience struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsCurrent   bool       `json:"is_current"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Education struct {
	ID          int64      `json:"id"`
	CandidateID int64      `json:"candidate_id"`
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Level       *string    `json:"level,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type DocumentKind string

const (
	DocumentCV          DocumentKind = "CV"
	DocumentCoverLetter DocumentKind = "COVER_LETTER"
	DocumentCertificate DocumentKind = "CERTIFICATE"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentCV, DocumentCoverLetter, DocumentCertificate:
		return true
	}
	return false
}

type Document struct {
	ID          int64        `json:"id"`
	CandidateID int64        `json:"candidate_id"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Kind        DocumentKind `json:"kind"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CandidateSkill struct {
	CandidateID int64      `json:"candidate_id"`
	SkillID     int64      `json:"skill_id"`
	SkillName   string     `json:"skill_name"`
	Level       SkillLevel `json:"level"`
}

type CandidateLanguage struct {
	CandidateID  int64         `json:"candidate_id"`
	LanguageID   int64         `json:"language_id"`
	LanguageName string        `json:"language_name"`
	Level        LanguageLevel `json:"level"`
}

// PersonalInfoInput is the payload of the first wizard step and of profile
// edits. Dates use YYYY-MM-DD.
type PersonalInfoInput struct {
	FullName       string   `json:"full_name" validate:"required,max=200,valid_name"`
	BirthDate      string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender         string   `json:"gender" validate:"omitempty,oneof=female male other"`
	NationalID     string   `json:"national_id" validate:"omitempty,ec_national_id"`
	Title          string   `json:"title" validate:"required,max=200,letters_spaces"`
	Summary        string   `json:"summary" validate:"max=2000"`
	Phone          string   `json:"phone" validate:"omitempty,phone_ec"`
	ExpectedSalary *float64 `json:"expected_salary"`
	Availability   string   `json:"availability" validate:"max=100"`
	CityID         *int64   `json:"city_id"`
	LinkedInURL    string   `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL      string   `json:"github_url" validate:"omitempty,url"`
	PortfolioURL   string   `json:"portfolio_url" validate:"omitempty,url"`
	PhotoURL       string   `json:"photo_url" validate:"omitempty,url"`
}

type ExperienceInput struct {
	Company     string `json:"company" validate:"required,max=200"`
	Position    string `json:"position" validate:"required,max=200"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description" validate:"max=4000"`
}

type EducationInput struct {
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"required,max=200"`
	Level       string `json:"level" validate:"max=100"`
	StartDate   string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status      string `json:"status" validate:"max=50"`
}

type SkillInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"required,oneof=basic intermediate advanced expert"`
}

type LanguageInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level string `json:"level" validate:"required,oneof=A1 A2 B1 B2 C1 C2 native"`
}

type DocumentInput struct {
	Name string `json:"name" validate:"required,max=200"`
	URL  string `json:"url" validate:"required,max=1000,doc_url"`
	Kind string `json:"kind" validate:"omitempty,oneof=CV COVER_LETTER CERTIFICATE"`
}

type DashboardStats struct {
	ActiveApplications int `json:"active_applications"`
	Interviews         int `json:"interviews"`
	SavedPostings      int `json:"saved_postings"`
}

type CandidateDashboard struct {
	Profile            *CandidateProfile   `json:"profile"`
	Experiences        []WorkExperience    `json:"experiences"`
	Educations         []Education         `json:"educations"`
	Skills             []CandidateSkill    `json:"skills"`
	Languages          []CandidateLanguage `json:"languages"`
	LatestCV           *Document           `json:"latest_cv,omitempty"`
	CVPending          bool                `json:"cv_pending"`
	RecentApplications []Application       `json:"recent_applications"`
	SavedPostings      []SavedPosting      `json:"saved_postings"`
	Stats              DashboardStats      `json:"stats"`
}

// CandidatePublicProfile is what companies see when evaluating applicants.
type CandidatePublicProfile struct {
	Profile     *CandidateProfile   `json:"profile"`
	Experiences []WorkExperience    `json:"experiences"`
	Educations  []Education         `json:"educations"`
	Skills      []CandidateSkill    `json:"skills"`
	Languages   []CandidateLanguage `json:"languages"`
	LatestCV    *Document           `json:"latest_cv,omitempty"`
}

// Number of rows shown in dashboard panels.
const DashboardPanelSize = 5

type CandidateRepository interface {
	Create(ctx context.Context, profile *CandidateProfile) error
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	GetByID(ctx context.Context, id int64) (*CandidateProfile, error)
	Update(ctx context.Context, profile *CandidateProfile) error

	ListExperiences(ctx context.Context, candidateID int64) ([]WorkExperience, error)
	AddExperience(ctx context.Context, exp *WorkExperience) error
	ListEducations(ctx context.Context, candidateID int64) ([]Education, error)
	AddEducation(ctx context.Context, edu *Education) error

	ListSkills(ctx context.Context, candidateID int64) ([]CandidateSkill, error)
	// AddSkill links the skill unless the pair already exists and reports
	// whether a row was created.
	AddSkill(ctx context.Context, candidateID, skillID int64, level SkillLevel) (bool, error)
	ListLanguages(ctx context.Context, candidateID int64) ([]CandidateLanguage, error)
	AddLanguage(ctx context.Context, candidateID, languageID int64, level LanguageLevel) (bool, error)

	ListDocuments(ctx context.Context, candidateID int64) ([]Document, error)
	// LatestDocument returns ErrNotFound when the candidate has none of kind.
	LatestDocument(ctx context.Context, candidateID int64, kind DocumentKind) (*Document, error)
	CreateDocument(ctx context.Context, doc *Document) error
	UpdateDocument(ctx context.Context, doc *Document) error
}

type CandidateUsecase interface {
	Dashboard(ctx context.Context, caller Caller) (*CandidateDashboard, error)
	UpdateProfile(ctx context.Context, caller Caller, input PersonalInfoInput) (*CandidateProfile, error)
	AddEducation(ctx context.Context, caller Caller, input EducationInput) (*Education, error)
	UploadDocument(ctx context.Context, caller Caller, input DocumentInput) (*Document, error)
	GetPublicProfile(ctx context.Context, caller Caller, candidateID int64) (*CandidatePublicProfile, error)
}
