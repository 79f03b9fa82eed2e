package usecase_test

import (
	"context"
	"errors"
	"testing"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_GateRedirectsUntilPersonalInfo(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	_, err := f.wizard.GetStep(ctx, candidate, domain.StepSkills)
	var redirect *domain.WizardRedirect
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, domain.StepPersonalInfo.Route(), redirect.Location)

	_, err = f.wizard.Submit(ctx, candidate, domain.StepSkills, domain.WizardSubmission{
		Skill: &domain.SkillInput{Name: "Go", Level: "advanced"},
	})
	require.True(t, errors.As(err, &redirect))
	assert.Empty(t, f.store.candSkills, "redirected submit must not write")

	f.completePersonalInfo(t, candidate)

	view, err := f.wizard.GetStep(ctx, candidate, domain.StepSkills)
	require.NoError(t, err)
	assert.Equal(t, "skills", view.StepName)
}

func TestWizard_GateDisabled(t *testing.T) {
	opts := defaultOptions()
	opts.wizard.RequirePersonalInfo = false
	f := newFixture(t, opts)
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	res, err := f.wizard.Submit(context.Background(), candidate, domain.StepSkills, domain.WizardSubmission{
		Skill: &domain.SkillInput{Name: "Go", Level: "advanced"},
	})

	require.NoError(t, err)
	assert.True(t, res.Created)
}

func TestWizard_InvalidStepRedirectsToDashboard(t *testing.T) {
	f := newFixture(t, defaultOptions())
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	for _, step := range []domain.WizardStep{0, 7, -1} {
		_, err := f.wizard.GetStep(context.Background(), candidate, step)
		var redirect *domain.WizardRedirect
		require.True(t, errors.As(err, &redirect), "step %d", step)
		assert.Equal(t, domain.LandingRoute(domain.RoleCandidate), redirect.Location)
	}
}

func TestWizard_RequiresCandidate(t *testing.T) {
	f := newFixture(t, defaultOptions())
	company := f.register(t, "comp-1", domain.RoleCompany)

	_, err := f.wizard.GetStep(context.Background(), company, domain.StepPersonalInfo)
	assertKind(t, err, apperror.KindAuthorization)

	_, err = f.wizard.GetStep(context.Background(), domain.Caller{}, domain.StepPersonalInfo)
	assertKind(t, err, apperror.KindUnauthorized)
}

func TestWizard_PersonalInfoValidation(t *testing.T) {
	f := newFixture(t, defaultOptions())
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	_, err := f.wizard.Submit(context.Background(), candidate, domain.StepPersonalInfo, domain.WizardSubmission{
		PersonalInfo: &domain.PersonalInfoInput{
			FullName:   "Ana Torres",
			Title:      "Developer 3",
			NationalID: "1710034066",
			Phone:      "12345",
		},
	})

	assertKind(t, err, apperror.KindValidation)
	assert.ElementsMatch(t, []string{"national_id", "title", "phone"}, fieldNames(err))

	profile, _ := f.store.Candidates().GetByUserID(context.Background(), candidate.UserID)
	assert.Empty(t, profile.Title)
}

func TestWizard_BlankTitleKeepsGateClosed(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	_, err := f.wizard.Submit(ctx, candidate, domain.StepPersonalInfo, domain.WizardSubmission{
		PersonalInfo: &domain.PersonalInfoInput{FullName: "Ana Torres", Title: "   "},
	})
	assertKind(t, err, apperror.KindValidation)
	assert.Equal(t, []string{"title"}, fieldNames(err))

	_, err = f.wizard.GetStep(ctx, candidate, domain.StepSkills)
	var redirect *domain.WizardRedirect
	require.True(t, errors.As(err, &redirect))
	assert.Equal(t, domain.StepPersonalInfo.Route(), redirect.Location)

	res, err := f.wizard.Submit(ctx, candidate, domain.StepPersonalInfo, domain.WizardSubmission{
		PersonalInfo: &domain.PersonalInfoInput{FullName: "Ana Torres", Title: "  Backend Developer "},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StepExperience, res.NextStep)

	profile, _ := f.store.Candidates().GetByUserID(ctx, candidate.UserID)
	assert.Equal(t, "Backend Developer", profile.Title)
}

func TestHasPersonalInfo_IgnoresWhitespaceTitle(t *testing.T) {
	assert.False(t, (*domain.CandidateProfile)(nil).HasPersonalInfo())
	assert.False(t, (&domain.CandidateProfile{Title: " \t "}).HasPersonalInfo())
	assert.True(t, (&domain.CandidateProfile{Title: "Backend Developer"}).HasPersonalInfo())
}

func TestWizard_PersonalInfoAcceptsValidNationalID(t *testing.T) {
	f := newFixture(t, defaultOptions())
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	res, err := f.wizard.Submit(context.Background(), candidate, domain.StepPersonalInfo, domain.WizardSubmission{
		PersonalInfo: &domain.PersonalInfoInput{
			FullName:   "Ana Torres",
			Title:      "Ingeniera de Datos",
			NationalID: "1710034065",
			BirthDate:  "1994-03-12",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StepExperience, res.NextStep)
	assert.Equal(t, domain.StepExperience.Route(), res.NextRoute)

	profile, _ := f.store.Candidates().GetByUserID(context.Background(), candidate.UserID)
	require.NotNil(t, profile.NationalID)
	assert.Equal(t, "1710034065", *profile.NationalID)
	assert.Equal(t, 1994, profile.BirthDate.Year())
}

func TestWizard_DuplicateSkillCreatesOneRow(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)
	f.completePersonalInfo(t, candidate)

	first, err := f.wizard.Submit(ctx, candidate, domain.StepSkills, domain.WizardSubmission{
		Skill: &domain.SkillInput{Name: "Python", Level: "advanced"},
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.wizard.Submit(ctx, candidate, domain.StepSkills, domain.WizardSubmission{
		Skill: &domain.SkillInput{Name: "python", Level: "basic"},
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Contains(t, second.Message, "already")

	assert.Len(t, f.store.candSkills, 1)
	assert.Len(t, f.store.catalog[domain.CatalogSkill], 1)
	assert.Equal(t, domain.SkillAdvanced, f.store.candSkills[0].Level)
}

func TestWizard_ExperienceRules(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)
	f.completePersonalInfo(t, candidate)

	_, err := f.wizard.Submit(ctx, candidate, domain.StepExperience, domain.WizardSubmission{
		Experience: &domain.ExperienceInput{
			Company: "Acme", Position: "Dev", StartDate: "2022-01-01", EndDate: "2021-01-01",
		},
	})
	assertKind(t, err, apperror.KindValidation)
	assert.Equal(t, []string{"end_date"}, fieldNames(err))

	_, err = f.wizard.Submit(ctx, candidate, domain.StepExperience, domain.WizardSubmission{
		Experience: &domain.ExperienceInput{
			Company: "Acme", Position: "Dev", StartDate: "2022-01-01", EndDate: "2023-01-01", IsCurrent: true,
		},
	})
	assertKind(t, err, apperror.KindValidation)

	res, err := f.wizard.Submit(ctx, candidate, domain.StepExperience, domain.WizardSubmission{
		Experience: &domain.ExperienceInput{
			Company: "Acme", Position: "Dev", StartDate: "2022-01-01", IsCurrent: true,
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Len(t, f.store.experiences, 1)
}

func TestWizard_SkipRules(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	_, err := f.wizard.Submit(ctx, candidate, domain.StepPersonalInfo, domain.WizardSubmission{Skip: true})
	assertKind(t, err, apperror.KindValidation)

	f.completePersonalInfo(t, candidate)

	res, err := f.wizard.Submit(ctx, candidate, domain.StepLanguages, domain.WizardSubmission{Skip: true})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, domain.StepDocuments, res.NextStep)
	assert.Empty(t, f.store.candLangs)
}

func TestWizard_DocumentReplacesLatestCV(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)
	f.completePersonalInfo(t, candidate)

	_, err := f.wizard.Submit(ctx, candidate, domain.StepDocuments, domain.WizardSubmission{
		Document: &domain.DocumentInput{Name: "cv", URL: "https://files.example.com/cv/a.png"},
	})
	assertKind(t, err, apperror.KindValidation)

	first, err := f.wizard.Submit(ctx, candidate, domain.StepDocuments, domain.WizardSubmission{
		Document: &domain.DocumentInput{Name: "cv", URL: "https://files.example.com/cv/a.pdf"},
	})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.wizard.Submit(ctx, candidate, domain.StepDocuments, domain.WizardSubmission{
		Document: &domain.DocumentInput{Name: "cv v2", URL: "https://files.example.com/cv/b.docx?X-Amz-Signature=abc"},
	})
	require.NoError(t, err)
	assert.False(t, second.Created)

	require.Len(t, f.store.documents, 1)
	assert.Equal(t, "cv v2", f.store.documents[0].Name)
	assert.Equal(t, domain.DocumentCV, f.store.documents[0].Kind)
}

func TestWizard_CompleteIsNoOp(t *testing.T) {
	f := newFixture(t, defaultOptions())
	candidate := f.register(t, "cand-1", domain.RoleCandidate)
	f.completePersonalInfo(t, candidate)
	txBefore := f.store.txCount

	res, err := f.wizard.Submit(context.Background(), candidate, domain.StepComplete, domain.WizardSubmission{})

	require.NoError(t, err)
	assert.Equal(t, domain.LandingRoute(domain.RoleCandidate), res.NextRoute)
	assert.Equal(t, txBefore, f.store.txCount)
}

// Scenario: register, personal info, skip experience, one skill, skip
// languages and documents, then the dashboard reflects exactly that.
func TestWizard_FullOnboardingScenario(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	me, err := f.auth.Me(ctx, candidate)
	require.NoError(t, err)
	assert.False(t, me.ProfileComplete)
	assert.Equal(t, domain.StepPersonalInfo.Route(), me.LandingRoute)

	f.completePersonalInfo(t, candidate)
	steps := []struct {
		step domain.WizardStep
		sub  domain.WizardSubmission
	}{
		{domain.StepExperience, domain.WizardSubmission{Skip: true}},
		{domain.StepSkills, domain.WizardSubmission{Skill: &domain.SkillInput{Name: "Go", Level: "expert"}}},
		{domain.StepLanguages, domain.WizardSubmission{Skip: true}},
		{domain.StepDocuments, domain.WizardSubmission{Skip: true}},
	}
	for _, s := range steps {
		_, err := f.wizard.Submit(ctx, candidate, s.step, s.sub)
		require.NoError(t, err, "step %s", s.step)
	}

	view, err := f.wizard.GetStep(ctx, candidate, domain.StepComplete)
	require.NoError(t, err)
	assert.Equal(t, &domain.WizardSummary{Skills: 1, CVPending: true}, view.Summary)
	assert.Equal(t, domain.LandingRoute(domain.RoleCandidate), view.NextRoute)

	dash, err := f.candidates.Dashboard(ctx, candidate)
	require.NoError(t, err)
	assert.Len(t, dash.Skills, 1)
	assert.Empty(t, dash.Experiences)
	assert.True(t, dash.CVPending)
	assert.Nil(t, dash.LatestCV)

	me, err = f.auth.Me(ctx, candidate)
	require.NoError(t, err)
	assert.True(t, me.ProfileComplete)
	assert.Equal(t, domain.LandingRoute(domain.RoleCandidate), me.LandingRoute)
}
