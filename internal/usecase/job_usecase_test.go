package usecase_test

import (
	"context"
	"testing"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCreateJob_AlwaysDraft(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	company := f.register(t, "comp-1", domain.RoleCompany)

	job, err := f.jobs.CreateJob(ctx, company, validJobInput("Go Developer"))
	require.NoError(t, err)
	assert.Equal(t, domain.PostingDraft, job.State)
	assert.Nil(t, job.PublishedAt)

	detail, err := f.jobs.GetJob(ctx, company, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingDraft, detail.State)
	assert.True(t, detail.IsOwner)
}

func TestCreateJob_Validation(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	company := f.register(t, "comp-1", domain.RoleCompany)

	input := validJobInput("Go Developer")
	input.SalaryMin = ptr(3000)
	input.SalaryMax = ptr(1000)
	_, err := f.jobs.CreateJob(ctx, company, input)
	assertKind(t, err, apperror.KindValidation)
	assert.Equal(t, []string{"salary_min"}, fieldNames(err))

	input = validJobInput("Go Developer")
	input.SalaryMin = ptr(-1)
	_, err = f.jobs.CreateJob(ctx, company, input)
	assertKind(t, err, apperror.KindValidation)

	input = validJobInput("")
	input.WorkMode = "moon"
	_, err = f.jobs.CreateJob(ctx, company, input)
	assertKind(t, err, apperror.KindValidation)
	assert.ElementsMatch(t, []string{"title", "work_mode"}, fieldNames(err))

	assert.Empty(t, f.store.jobs)
}

func TestCreateJob_RequiresCompany(t *testing.T) {
	f := newFixture(t, defaultOptions())
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	_, err := f.jobs.CreateJob(context.Background(), candidate, validJobInput("Go Developer"))
	assertKind(t, err, apperror.KindAuthorization)
}

func TestChangeState_PublishedAtSetOnce(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	company := f.register(t, "comp-1", domain.RoleCompany)

	job := f.publishedJob(t, company, "Go Developer")
	require.NotNil(t, job.PublishedAt)
	firstPublished := *job.PublishedAt

	paused, err := f.jobs.ChangeState(ctx, company, job.ID, domain.PostingPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.PostingPaused, paused.State)

	again, err := f.jobs.ChangeState(ctx, company, job.ID, domain.PostingPublished)
	require.NoError(t, err)
	assert.Equal(t, firstPublished, *again.PublishedAt)

	_, err = f.jobs.ChangeState(ctx, company, job.ID, domain.PostingState("archived"))
	assertKind(t, err, apperror.KindValidation)
}

func TestJobOwnership(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	owner := f.register(t, "comp-a", domain.RoleCompany)
	other := f.register(t, "comp-b", domain.RoleCompany)

	job, err := f.jobs.CreateJob(ctx, owner, validJobInput("Go Developer"))
	require.NoError(t, err)

	_, err = f.jobs.UpdateJob(ctx, other, job.ID, validJobInput("Hijacked"))
	assertKind(t, err, apperror.KindAuthorization)

	_, err = f.jobs.ChangeState(ctx, other, job.ID, domain.PostingPublished)
	assertKind(t, err, apperror.KindAuthorization)

	err = f.jobs.DeleteJob(ctx, other, job.ID)
	assertKind(t, err, apperror.KindAuthorization)

	_, _, err = f.jobs.AddRequirement(ctx, other, job.ID, domain.RequirementInput{Skill: "Go"})
	assertKind(t, err, apperror.KindAuthorization)

	stored, _ := f.store.Jobs().GetByID(ctx, job.ID)
	assert.Equal(t, "Go Developer", stored.Title)
	assert.Equal(t, domain.PostingDraft, stored.State)

	_, err = f.jobs.UpdateJob(ctx, owner, 999, validJobInput("Missing"))
	assertKind(t, err, apperror.KindNotFound)
}

func TestGetJob_DraftHiddenFromOthers(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	owner := f.register(t, "comp-a", domain.RoleCompany)
	other := f.register(t, "comp-b", domain.RoleCompany)
	candidate := f.register(t, "cand-1", domain.RoleCandidate)

	job, err := f.jobs.CreateJob(ctx, owner, validJobInput("Go Developer"))
	require.NoError(t, err)

	for _, caller := range []domain.Caller{other, candidate, {}} {
		_, err := f.jobs.GetJob(ctx, caller, job.ID)
		assertKind(t, err, apperror.KindNotFound)
	}

	_, err = f.jobs.GetJob(ctx, domain.Caller{UserID: "admin-1", Role: domain.RoleAdmin}, job.ID)
	assert.NoError(t, err)

	_, err = f.jobs.ChangeState(ctx, owner, job.ID, domain.PostingPublished)
	require.NoError(t, err)

	detail, err := f.jobs.GetJob(ctx, domain.Caller{}, job.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsOwner)
	assert.Equal(t, "Company comp-a", detail.CompanyName)
}

func TestListPublished_OnlyPublished(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	company := f.register(t, "comp-1", domain.RoleCompany)

	_, err := f.jobs.CreateJob(ctx, company, validJobInput("Draft"))
	require.NoError(t, err)
	f.publishedJob(t, company, "Live")

	jobs, total, err := f.jobs.ListPublished(ctx, domain.JobFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Live", jobs[0].Title)

	mine, total, err := f.jobs.ListMine(ctx, company, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, mine, 2)
}

func TestRequirements(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	owner := f.register(t, "comp-a", domain.RoleCompany)
	other := f.register(t, "comp-b", domain.RoleCompany)

	job, err := f.jobs.CreateJob(ctx, owner, validJobInput("Go Developer"))
	require.NoError(t, err)

	req, created, err := f.jobs.AddRequirement(ctx, owner, job.ID, domain.RequirementInput{Skill: "Kubernetes", Level: "advanced", Mandatory: true})
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, req.Level)
	assert.Equal(t, domain.SkillAdvanced, *req.Level)

	dup, created, err := f.jobs.AddRequirement(ctx, owner, job.ID, domain.RequirementInput{Skill: "kubernetes"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, req.ID, dup.ID)

	reqs, err := f.jobs.ListRequirements(ctx, owner, job.ID)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	err = f.jobs.RemoveRequirement(ctx, other, req.ID)
	assertKind(t, err, apperror.KindAuthorization)

	require.NoError(t, f.jobs.RemoveRequirement(ctx, owner, req.ID))
	err = f.jobs.RemoveRequirement(ctx, owner, req.ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteJob(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()
	company := f.register(t, "comp-1", domain.RoleCompany)

	job, err := f.jobs.CreateJob(ctx, company, validJobInput("Go Developer"))
	require.NoError(t, err)

	require.NoError(t, f.jobs.DeleteJob(ctx, company, job.ID))
	_, err = f.jobs.GetJob(ctx, company, job.ID)
	assertKind(t, err, apperror.KindNotFound)
}
