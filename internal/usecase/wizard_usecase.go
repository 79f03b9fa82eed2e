package usecase

import (
	"context"
	"errors"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/logger"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Number of steps shown in the progress indicator, Complete included.
const wizardTotalSteps = int(domain.StepComplete)

var skipMessages = map[domain.WizardStep]string{
	domain.StepExperience: "No work experience added",
	domain.StepSkills:     "No skills added",
	domain.StepLanguages:  "No languages added",
	domain.StepDocuments:  "CV upload postponed",
}

type WizardOptions struct {
	// RequirePersonalInfo redirects every step after the first to step 1
	// until the candidate has a professional title.
	RequirePersonalInfo bool
}

type wizardUsecase struct {
	candidateRepo domain.CandidateRepository
	catalog       domain.CatalogUsecase
	tx            domain.Transactor
	validate      *validator.Validate
	opts          WizardOptions
}

func NewWizardUsecase(
	candidateRepo domain.CandidateRepository,
	catalog domain.CatalogUsecase,
	tx domain.Transactor,
	validate *validator.Validate,
	opts WizardOptions,
) domain.WizardUsecase {
	return &wizardUsecase{
		candidateRepo: candidateRepo,
		catalog:       catalog,
		tx:            tx,
		validate:      validate,
		opts:          opts,
	}
}

// enter performs the checks shared by GET and POST: role, step range, and
// the personal info gate.
func (u *wizardUsecase) enter(ctx context.Context, caller domain.Caller, step domain.WizardStep) (*domain.CandidateProfile, error) {
	if err := requireRole(caller, domain.RoleCandidate); err != nil {
		return nil, err
	}
	if !step.Valid() {
		return nil, &domain.WizardRedirect{
			Location: domain.LandingRoute(domain.RoleCandidate),
			Reason:   "unknown wizard step",
		}
	}
	profile, err := candidateFor(ctx, u.candidateRepo, caller)
	if err != nil {
		return nil, err
	}
	if u.opts.RequirePersonalInfo && step > domain.StepPersonalInfo && !profile.HasPersonalInfo() {
		return nil, &domain.WizardRedirect{
			Location: domain.StepPersonalInfo.Route(),
			Reason:   "personal information must be completed first",
		}
	}
	return profile, nil
}

func (u *wizardUsecase) GetStep(ctx context.Context, caller domain.Caller, step domain.WizardStep) (*domain.WizardView, error) {
	profile, err := u.enter(ctx, caller, step)
	if err != nil {
		return nil, err
	}

	view := &domain.WizardView{
		Step:       step,
		StepName:   step.String(),
		TotalSteps: wizardTotalSteps,
		Skippable:  step.Skippable(),
		NextRoute:  step.Next().Route(),
	}

	switch step {
	case domain.StepPersonalInfo:
		view.Profile = profile
	case domain.StepExperience:
		view.Experiences, err = u.candidateRepo.ListExperiences(ctx, profile.ID)
	case domain.StepSkills:
		view.Skills, err = u.candidateRepo.ListSkills(ctx, profile.ID)
	case domain.StepLanguages:
		view.Languages, err = u.candidateRepo.ListLanguages(ctx, profile.ID)
	case domain.StepDocuments:
		view.Document, err = latestCV(ctx, u.candidateRepo, profile.ID)
	case domain.StepComplete:
		view.Profile = profile
		view.Summary, err = u.summary(ctx, profile.ID)
		view.NextRoute = domain.LandingRoute(domain.RoleCandidate)
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (u *wizardUsecase) summary(ctx context.Context, candidateID int64) (*domain.WizardSummary, error) {
	experiences, err := u.candidateRepo.ListExperiences(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	skills, err := u.candidateRepo.ListSkills(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	languages, err := u.candidateRepo.ListLanguages(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	cv, err := latestCV(ctx, u.candidateRepo, candidateID)
	if err != nil {
		return nil, err
	}
	return &domain.WizardSummary{
		Experiences: len(experiences),
		Skills:      len(skills),
		Languages:   len(languages),
		CVPending:   cv == nil,
	}, nil
}

func (u *wizardUsecase) Submit(ctx context.Context, caller domain.Caller, step domain.WizardStep, sub domain.WizardSubmission) (*domain.WizardResult, error) {
	profile, err := u.enter(ctx, caller, step)
	if err != nil {
		return nil, err
	}

	next := step.Next()
	result := &domain.WizardResult{Step: step, NextStep: next, NextRoute: next.Route()}
	if step == domain.StepComplete {
		result.Message = "Profile complete"
		result.NextRoute = domain.LandingRoute(domain.RoleCandidate)
		return result, nil
	}

	if sub.Skip {
		if !step.Skippable() {
			return nil, apperror.Validation(apperror.FieldError{Field: "skip", Message: "this step cannot be skipped"})
		}
		result.Skipped = true
		result.Message = skipMessages[step]
		return result, nil
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		switch step {
		case domain.StepPersonalInfo:
			return u.submitPersonalInfo(ctx, profile, sub.PersonalInfo, result)
		case domain.StepExperience:
			return u.submitExperience(ctx, profile, sub.Experience, result)
		case domain.StepSkills:
			return u.submitSkill(ctx, profile, sub.Skill, result)
		case domain.StepLanguages:
			return u.submitLanguage(ctx, profile, sub.Language, result)
		case domain.StepDocuments:
			return u.submitDocument(ctx, profile, sub.Document, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Debug("wizard step submitted",
		"step", step.String(),
		"candidate_id", profile.ID,
		"created", result.Created,
	)
	return result, nil
}

func missing(field string) error {
	return apperror.Validation(apperror.FieldError{Field: field, Message: "is required"})
}

func (u *wizardUsecase) submitPersonalInfo(ctx context.Context, profile *domain.CandidateProfile, input *domain.PersonalInfoInput, result *domain.WizardResult) error {
	if input == nil {
		return missing("personal_info")
	}
	if err := applyPersonalInfo(u.validate, profile, *input); err != nil {
		return err
	}
	if err := updateProfile(ctx, u.candidateRepo, profile); err != nil {
		return err
	}
	result.Message = "Personal information saved"
	return nil
}

func (u *wizardUsecase) submitExperience(ctx context.Context, profile *domain.CandidateProfile, input *domain.ExperienceInput, result *domain.WizardResult) error {
	if input == nil {
		return missing("experience")
	}
	if err := validation.Struct(u.validate, *input); err != nil {
		return err
	}
	if input.IsCurrent && input.EndDate != "" {
		return apperror.Validation(apperror.FieldError{Field: "end_date", Message: "must be empty for a current position"})
	}
	start, end, err := dateRange(input.StartDate, input.EndDate)
	if err != nil {
		return err
	}

	exp := &domain.WorkExperience{
		CandidateID: profile.ID,
		Company:     input.Company,
		Position:    input.Position,
		StartDate:   start,
		EndDate:     end,
		IsCurrent:   input.IsCurrent,
		Description: optional(input.Description),
	}
	if err := u.candidateRepo.AddExperience(ctx, exp); err != nil {
		return err
	}
	result.Created = true
	result.Message = "Work experience added"
	return nil
}

func (u *wizardUsecase) submitSkill(ctx context.Context, profile *domain.CandidateProfile, input *domain.SkillInput, result *domain.WizardResult) error {
	if input == nil {
		return missing("skill")
	}
	if err := validation.Struct(u.validate, *input); err != nil {
		return err
	}
	skill, _, err := u.catalog.Resolve(ctx, domain.CatalogSkill, input.Name)
	if err != nil {
		return err
	}
	created, err := u.candidateRepo.AddSkill(ctx, profile.ID, skill.ID, domain.SkillLevel(input.Level))
	if err != nil {
		return err
	}
	result.Created = created
	if created {
		result.Message = "Skill " + skill.Name + " added"
	} else {
		result.Message = "Skill " + skill.Name + " is already in your profile"
	}
	return nil
}

func (u *wizardUsecase) submitLanguage(ctx context.Context, profile *domain.CandidateProfile, input *domain.LanguageInput, result *domain.WizardResult) error {
	if input == nil {
		return missing("language")
	}
	if err := validation.Struct(u.validate, *input); err != nil {
		return err
	}
	language, _, err := u.catalog.Resolve(ctx, domain.CatalogLanguage, input.Name)
	if err != nil {
		return err
	}
	created, err := u.candidateRepo.AddLanguage(ctx, profile.ID, language.ID, domain.LanguageLevel(input.Level))
	if err != nil {
		return err
	}
	result.Created = created
	if created {
		result.Message = "Language " + language.Name + " added"
	} else {
		result.Message = "Language " + language.Name + " is already in your profile"
	}
	return nil
}

// submitDocument replaces the most recent CV, or creates the first one.
func (u *wizardUsecase) submitDocument(ctx context.Context, profile *domain.CandidateProfile, input *domain.DocumentInput, result *domain.WizardResult) error {
	if input == nil {
		return missing("document")
	}
	doc := *input
	doc.Kind = string(domain.DocumentCV)
	if err := validation.Struct(u.validate, doc); err != nil {
		return err
	}

	existing, err := u.candidateRepo.LatestDocument(ctx, profile.ID, domain.DocumentCV)
	switch {
	case err == nil:
		existing.Name = doc.Name
		existing.URL = doc.URL
		if err := u.candidateRepo.UpdateDocument(ctx, existing); err != nil {
			return err
		}
		result.Message = "CV updated"
	case errors.Is(err, domain.ErrNotFound):
		created := &domain.Document{
			CandidateID: profile.ID,
			Name:        doc.Name,
			URL:         doc.URL,
			Kind:        domain.DocumentCV,
		}
		if err := u.candidateRepo.CreateDocument(ctx, created); err != nil {
			return err
		}
		result.Created = true
		result.Message = "CV uploaded"
	default:
		return err
	}
	return nil
}
