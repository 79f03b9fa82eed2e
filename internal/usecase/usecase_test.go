package usecase_test

import (
	"context"
	"strings"
	"testing"

	"jobboard-backend/internal/domain"
	"jobboard-backend/internal/usecase"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) FindByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepo) InsertIfAbsent(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, bool, error) {
	args := m.Called(ctx, kind, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CatalogItem), args.Bool(1), args.Error(2)
}

func (m *MockCatalogRepo) Search(ctx context.Context, kind domain.CatalogKind, prefix string, limit int) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, kind, prefix, limit)
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

// fixture wires every usecase to one in-memory store.
type fixture struct {
	store        *memStore
	auth         domain.AuthUsecase
	catalog      domain.CatalogUsecase
	wizard       domain.WizardUsecase
	candidates   domain.CandidateUsecase
	companies    domain.CompanyProfileUsecase
	jobs         domain.JobUsecase
	applications domain.ApplicationUsecase
}

type fixtureOptions struct {
	wizard       usecase.WizardOptions
	applications usecase.ApplicationOptions
}

func defaultOptions() fixtureOptions {
	return fixtureOptions{
		wizard:       usecase.WizardOptions{RequirePersonalInfo: true},
		applications: usecase.ApplicationOptions{EnforceStatusGraph: true},
	}
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	s := newMemStore()
	v := validation.New()
	catalog := usecase.NewCatalogUsecase(s.Catalog())
	return &fixture{
		store:        s,
		auth:         usecase.NewAuthUsecase(s.Users(), s.Candidates(), s.Companies(), s, v),
		catalog:      catalog,
		wizard:       usecase.NewWizardUsecase(s.Candidates(), catalog, s, v, opts.wizard),
		candidates:   usecase.NewCandidateUsecase(s.Candidates(), s.Applications(), v),
		companies:    usecase.NewCompanyProfileUsecase(s.Companies(), v),
		jobs:         usecase.NewJobUsecase(s.Jobs(), s.Companies(), catalog, s, v),
		applications: usecase.NewApplicationUsecase(s.Applications(), s.Jobs(), s.Candidates(), s.Companies(), s, v, opts.applications),
	}
}

// register creates a user of role and returns the caller acting as them.
func (f *fixture) register(t *testing.T, id string, role domain.Role) domain.Caller {
	t.Helper()
	_, err := f.auth.Register(context.Background(), domain.RegisterInput{
		UserID: id,
		Email:  id + "@example.com",
		Role:   role,
	})
	require.NoError(t, err)
	return domain.Caller{UserID: id, Role: role}
}

func (f *fixture) completePersonalInfo(t *testing.T, caller domain.Caller) {
	t.Helper()
	_, err := f.wizard.Submit(context.Background(), caller, domain.StepPersonalInfo, domain.WizardSubmission{
		PersonalInfo: &domain.PersonalInfoInput{FullName: "Ana Torres", Title: "Backend Developer"},
	})
	require.NoError(t, err)
}

func (f *fixture) publishedJob(t *testing.T, company domain.Caller, title string) *domain.JobPosting {
	t.Helper()
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, company, validJobInput(title))
	require.NoError(t, err)
	job, err = f.jobs.ChangeState(ctx, company, job.ID, domain.PostingPublished)
	require.NoError(t, err)
	return job
}

func validJobInput(title string) domain.JobInput {
	return domain.JobInput{
		Title:        title,
		Description:  "Build and run services",
		ContractType: domain.ContractFullTime,
		WorkMode:     domain.WorkModeRemote,
	}
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, kind), "expected %s error, got %v", kind, err)
}

func fieldNames(err error) []string {
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		return nil
	}
	names := make([]string, len(appErr.Fields))
	for i, f := range appErr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestCatalogResolve_ReturnsExistingMatch(t *testing.T) {
	repo := new(MockCatalogRepo)
	uc := usecase.NewCatalogUsecase(repo)
	ctx := context.Background()

	existing := &domain.CatalogItem{ID: 7, Kind: domain.CatalogSkill, Name: "Go"}
	repo.On("FindByName", ctx, domain.CatalogSkill, "go").Return(existing, nil)

	item, created, err := uc.Resolve(ctx, domain.CatalogSkill, "  go ")

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, item)
	repo.AssertNotCalled(t, "InsertIfAbsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogResolve_InsertsNewName(t *testing.T) {
	repo := new(MockCatalogRepo)
	uc := usecase.NewCatalogUsecase(repo)
	ctx := context.Background()

	inserted := &domain.CatalogItem{ID: 8, Kind: domain.CatalogLanguage, Name: "Quechua"}
	repo.On("FindByName", ctx, domain.CatalogLanguage, "Quechua").Return(nil, domain.ErrNotFound)
	repo.On("InsertIfAbsent", ctx, domain.CatalogLanguage, "Quechua").Return(inserted, true, nil)

	item, created, err := uc.Resolve(ctx, domain.CatalogLanguage, "Quechua")

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(8), item.ID)
	repo.AssertExpectations(t)
}

func TestCatalogResolve_LostInsertRaceRereads(t *testing.T) {
	repo := new(MockCatalogRepo)
	uc := usecase.NewCatalogUsecase(repo)
	ctx := context.Background()

	winner := &domain.CatalogItem{ID: 9, Kind: domain.CatalogSkill, Name: "PostgreSQL"}
	repo.On("FindByName", ctx, domain.CatalogSkill, "postgresql").Return(nil, domain.ErrNotFound).Once()
	repo.On("InsertIfAbsent", ctx, domain.CatalogSkill, "postgresql").Return(nil, false, nil)
	repo.On("FindByName", ctx, domain.CatalogSkill, "postgresql").Return(winner, nil).Once()

	item, created, err := uc.Resolve(ctx, domain.CatalogSkill, "postgresql")

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "PostgreSQL", item.Name)
	repo.AssertNumberOfCalls(t, "FindByName", 2)
}

func TestCatalogResolve_RejectsBadNames(t *testing.T) {
	uc := usecase.NewCatalogUsecase(new(MockCatalogRepo))
	ctx := context.Background()

	_, _, err := uc.Resolve(ctx, domain.CatalogSkill, "   ")
	assertKind(t, err, apperror.KindValidation)

	_, _, err = uc.Resolve(ctx, domain.CatalogSkill, strings.Repeat("x", domain.MaxCatalogNameLength+1))
	assertKind(t, err, apperror.KindValidation)

	_, _, err = uc.Resolve(ctx, domain.CatalogKind("tool"), "Docker")
	assertKind(t, err, apperror.KindValidation)
}

func TestCatalogSearch(t *testing.T) {
	repo := new(MockCatalogRepo)
	uc := usecase.NewCatalogUsecase(repo)
	ctx := context.Background()

	repo.On("Search", ctx, domain.CatalogSkill, "py", 20).Return([]domain.CatalogItem{{ID: 1, Name: "Python"}}, nil)

	items, err := uc.Search(ctx, domain.CatalogSkill, " py ")
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = uc.Search(ctx, domain.CatalogKind("tool"), "py")
	assertKind(t, err, apperror.KindNotFound)
}

func TestCatalogResolve_CaseInsensitiveAgainstStore(t *testing.T) {
	f := newFixture(t, defaultOptions())
	ctx := context.Background()

	first, created, err := f.catalog.Resolve(ctx, domain.CatalogSkill, "JavaScript")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.catalog.Resolve(ctx, domain.CatalogSkill, "javascript")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "JavaScript", second.Name)
}
