package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	candidateRepo   domain.CandidateRepository
	applicationRepo domain.ApplicationRepository
	validate        *validator.Validate
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	applicationRepo domain.ApplicationRepository,
	validate *validator.Validate,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo:   candidateRepo,
		applicationRepo: applicationRepo,
		validate:        validate,
	}
}

func (u *candidateUsecase) Dashboard(ctx context.Context, caller domain.Caller) (*domain.CandidateDashboard, error) {
	profile, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}

	dash := &domain.CandidateDashboard{Profile: profile}
	if dash.Experiences, err = u.candidateRepo.ListExperiences(ctx, profile.ID); err != nil {
		return nil, err
	}
	if dash.Educations, err = u.candidateRepo.ListEducations(ctx, profile.ID); err != nil {
		return nil, err
	}
	if dash.Skills, err = u.candidateRepo.ListSkills(ctx, profile.ID); err != nil {
		return nil, err
	}
	if dash.Languages, err = u.candidateRepo.ListLanguages(ctx, profile.ID); err != nil {
		return nil, err
	}
	if dash.LatestCV, err = latestCV(ctx, u.candidateRepo, profile.ID); err != nil {
		return nil, err
	}
	dash.CVPending = dash.LatestCV == nil

	if dash.RecentApplications, err = u.applicationRepo.ListByCandidate(ctx, profile.ID, domain.DashboardPanelSize); err != nil {
		return nil, err
	}
	if dash.SavedPostings, err = u.applicationRepo.ListSaved(ctx, profile.ID, domain.DashboardPanelSize); err != nil {
		return nil, err
	}
	stats, err := u.applicationRepo.Stats(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	dash.Stats = *stats
	return dash, nil
}

func (u *candidateUsecase) UpdateProfile(ctx context.Context, caller domain.Caller, input domain.PersonalInfoInput) (*domain.CandidateProfile, error) {
	profile, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	if err := applyPersonalInfo(u.validate, profile, input); err != nil {
		return nil, err
	}
	if err := updateProfile(ctx, u.candidateRepo, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (u *candidateUsecase) AddEducation(ctx context.Context, caller domain.Caller, input domain.EducationInput) (*domain.Education, error) {
	profile, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}
	start, end, err := dateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	edu := &domain.Education{
		CandidateID: profile.ID,
		Institution: input.Institution,
		Degree:      input.Degree,
		Level:       optional(input.Level),
		StartDate:   start,
		EndDate:     end,
		Status:      optional(input.Status),
	}
	if err := u.candidateRepo.AddEducation(ctx, edu); err != nil {
		return nil, err
	}
	return edu, nil
}

// UploadDocument always stores a new document; the wizard is the place that
// replaces the latest CV.
func (u *candidateUsecase) UploadDocument(ctx context.Context, caller domain.Caller, input domain.DocumentInput) (*domain.Document, error) {
	profile, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}

	kind := domain.DocumentKind(input.Kind)
	if kind == "" {
		kind = domain.DocumentCV
	}
	doc := &domain.Document{
		CandidateID: profile.ID,
		Name:        input.Name,
		URL:         input.URL,
		Kind:        kind,
	}
	if err := u.candidateRepo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (u *candidateUsecase) GetPublicProfile(ctx context.Context, caller domain.Caller, candidateID int64) (*domain.CandidatePublicProfile, error) {
	if err := requireRole(caller, domain.RoleCompany, domain.RoleAdmin); err != nil {
		return nil, err
	}
	profile, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate not found")
		}
		return nil, err
	}

	out := &domain.CandidatePublicProfile{Profile: profile}
	if out.Experiences, err = u.candidateRepo.ListExperiences(ctx, profile.ID); err != nil {
		return nil, err
	}
	if out.Educations, err = u.candidateRepo.ListEducations(ctx, profile.ID); err != nil {
		return nil, err
	}
	if out.Skills, err = u.candidateRepo.ListSkills(ctx, profile.ID); err != nil {
		return nil, err
	}
	if out.Languages, err = u.candidateRepo.ListLanguages(ctx, profile.ID); err != nil {
		return nil, err
	}
	if out.LatestCV, err = latestCV(ctx, u.candidateRepo, profile.ID); err != nil {
		return nil, err
	}
	return out, nil
}

// latestCV returns nil without error when the candidate has no CV yet.
func latestCV(ctx context.Context, repo domain.CandidateRepository, candidateID int64) (*domain.Document, error) {
	doc, err := repo.LatestDocument(ctx, candidateID, domain.DocumentCV)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

// applyPersonalInfo validates input and copies it onto profile. The title
// is trimmed first so a blank one fails required.
func applyPersonalInfo(v *validator.Validate, profile *domain.CandidateProfile, input domain.PersonalInfoInput) error {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Title = strings.TrimSpace(input.Title)
	input.NationalID = strings.TrimSpace(input.NationalID)
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validation.Struct(v, input); err != nil {
		return err
	}
	birthDate, dateErr := parseDate("birth_date", input.BirthDate)
	err := validation.Collect(
		dateErr,
		validation.NonNegative("expected_salary", input.ExpectedSalary),
	)
	if err != nil {
		return err
	}

	profile.FullName = input.FullName
	if birthDate != nil {
		profile.BirthDate = *birthDate
	}
	profile.Gender = optional(input.Gender)
	profile.NationalID = optional(input.NationalID)
	profile.Title = input.Title
	profile.Summary = optional(input.Summary)
	profile.Phone = optional(input.Phone)
	profile.ExpectedSalary = input.ExpectedSalary
	profile.Availability = optional(input.Availability)
	profile.CityID = input.CityID
	profile.LinkedInURL = optional(input.LinkedInURL)
	profile.GitHubURL = optional(input.GitHubURL)
	profile.PortfolioURL = optional(input.PortfolioURL)
	profile.PhotoURL = optional(input.PhotoURL)
	return nil
}

func updateProfile(ctx context.Context, repo domain.CandidateRepository, profile *domain.CandidateProfile) error {
	if err := repo.Update(ctx, profile); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return apperror.Conflict("National ID is already registered")
		}
		return err
	}
	return nil
}
