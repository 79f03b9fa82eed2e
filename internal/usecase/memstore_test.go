package usecase_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"jobboard-backend/internal/domain"
)

// memStore is an in-memory implementation of every repository used by the
// scenario tests. Each repository interface gets its own view type because
// several share method names.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	users        map[string]*domain.User
	candidates   map[int64]*domain.CandidateProfile
	companies    map[int64]*domain.CompanyProfile
	experiences  []domain.WorkExperience
	educations   []domain.Education
	documents    []domain.Document
	catalog      map[domain.CatalogKind][]domain.CatalogItem
	candSkills   []domain.CandidateSkill
	candLangs    []domain.CandidateLanguage
	jobs         map[int64]*domain.JobPosting
	requirements []domain.PostingRequirement
	apps         map[int64]*domain.Application
	saved        []domain.SavedPosting

	txCount int
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*domain.User{},
		candidates: map[int64]*domain.CandidateProfile{},
		companies:  map[int64]*domain.CompanyProfile{},
		catalog:    map[domain.CatalogKind][]domain.CatalogItem{},
		jobs:       map[int64]*domain.JobPosting{},
		apps:       map[int64]*domain.Application{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) Users() domain.UserRepository                { return memUsers{s} }
func (s *memStore) Candidates() domain.CandidateRepository      { return memCandidates{s} }
func (s *memStore) Companies() domain.CompanyProfileRepository  { return memCompanies{s} }
func (s *memStore) Catalog() domain.CatalogRepository           { return memCatalog{s} }
func (s *memStore) Jobs() domain.JobRepository                  { return memJobs{s} }
func (s *memStore) Applications() domain.ApplicationRepository  { return memApps{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()
	return fn(ctx)
}

// --- users

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- candidates

type memCandidates struct{ s *memStore }

func (r memCandidates) Create(_ context.Context, p *domain.CandidateProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.s.candidates[p.ID] = &cp
	return nil
}

func (r memCandidates) GetByUserID(_ context.Context, userID string) (*domain.CandidateProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.candidates {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCandidates) GetByID(_ context.Context, id int64) (*domain.CandidateProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.candidates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memCandidates) Update(_ context.Context, p *domain.CandidateProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.candidates[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.NationalID != nil {
		for id, other := range r.s.candidates {
			if id != p.ID && other.NationalID != nil && *other.NationalID == *p.NationalID {
				return domain.ErrConflict
			}
		}
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.s.candidates[p.ID] = &cp
	return nil
}

func (r memCandidates) ListExperiences(_ context.Context, candidateID int64) ([]domain.WorkExperience, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.WorkExperience{}
	for _, e := range r.s.experiences {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (r memCandidates) AddExperience(_ context.Context, e *domain.WorkExperience) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.experiences = append(r.s.experiences, *e)
	return nil
}

func (r memCandidates) ListEducations(_ context.Context, candidateID int64) ([]domain.Education, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Education{}
	for _, e := range r.s.educations {
		if e.CandidateID == candidateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memCandidates) AddEducation(_ context.Context, e *domain.Education) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.id()
	r.s.educations = append(r.s.educations, *e)
	return nil
}

func (r memCandidates) ListSkills(_ context.Context, candidateID int64) ([]domain.CandidateSkill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CandidateSkill{}
	for _, cs := range r.s.candSkills {
		if cs.CandidateID == candidateID {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (r memCandidates) AddSkill(_ context.Context, candidateID, skillID int64, level domain.SkillLevel) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cs := range r.s.candSkills {
		if cs.CandidateID == candidateID && cs.SkillID == skillID {
			return false, nil
		}
	}
	r.s.candSkills = append(r.s.candSkills, domain.CandidateSkill{
		CandidateID: candidateID,
		SkillID:     skillID,
		SkillName:   r.s.catalogName(domain.CatalogSkill, skillID),
		Level:       level,
	})
	return true, nil
}

func (r memCandidates) ListLanguages(_ context.Context, candidateID int64) ([]domain.CandidateLanguage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CandidateLanguage{}
	for _, cl := range r.s.candLangs {
		if cl.CandidateID == candidateID {
			out = append(out, cl)
		}
	}
	return out, nil
}

func (r memCandidates) AddLanguage(_ context.Context, candidateID, languageID int64, level domain.LanguageLevel) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cl := range r.s.candLangs {
		if cl.CandidateID == candidateID && cl.LanguageID == languageID {
			return false, nil
		}
	}
	r.s.candLangs = append(r.s.candLangs, domain.CandidateLanguage{
		CandidateID:  candidateID,
		LanguageID:   languageID,
		LanguageName: r.s.catalogName(domain.CatalogLanguage, languageID),
		Level:        level,
	})
	return true, nil
}

func (r memCandidates) ListDocuments(_ context.Context, candidateID int64) ([]domain.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Document{}
	for i := len(r.s.documents) - 1; i >= 0; i-- {
		if r.s.documents[i].CandidateID == candidateID {
			out = append(out, r.s.documents[i])
		}
	}
	return out, nil
}

func (r memCandidates) LatestDocument(_ context.Context, candidateID int64, kind domain.DocumentKind) (*domain.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.documents) - 1; i >= 0; i-- {
		d := r.s.documents[i]
		if d.CandidateID == candidateID && d.Kind == kind {
			return &d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCandidates) CreateDocument(_ context.Context, d *domain.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.id()
	d.CreatedAt = time.Now()
	r.s.documents = append(r.s.documents, *d)
	return nil
}

func (r memCandidates) UpdateDocument(_ context.Context, d *domain.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.documents {
		if r.s.documents[i].ID == d.ID {
			r.s.documents[i].Name = d.Name
			r.s.documents[i].URL = d.URL
			return nil
		}
	}
	return domain.ErrNotFound
}

// --- companies

type memCompanies struct{ s *memStore }

func (r memCompanies) Create(_ context.Context, p *domain.CompanyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	cp := *p
	r.s.companies[p.ID] = &cp
	return nil
}

func (r memCompanies) GetByUserID(_ context.Context, userID string) (*domain.CompanyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.companies {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCompanies) GetByID(_ context.Context, id int64) (*domain.CompanyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memCompanies) Update(_ context.Context, p *domain.CompanyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.companies[p.ID] = &cp
	return nil
}

func (r memCompanies) ListPublishedJobs(_ context.Context, companyID int64) ([]domain.JobWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.JobWithCompany{}
	for _, j := range r.s.sortedJobs() {
		if j.CompanyID == companyID && j.State == domain.PostingPublished {
			out = append(out, r.s.withCompany(j))
		}
	}
	return out, nil
}

// --- catalog

type memCatalog struct{ s *memStore }

func (s *memStore) catalogName(kind domain.CatalogKind, id int64) string {
	for _, item := range s.catalog[kind] {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}

func (r memCatalog) FindByName(_ context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.catalog[kind] {
		if strings.EqualFold(item.Name, name) {
			cp := item
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memCatalog) InsertIfAbsent(_ context.Context, kind domain.CatalogKind, name string) (*domain.CatalogItem, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.catalog[kind] {
		if strings.EqualFold(item.Name, name) {
			return nil, false, nil
		}
	}
	item := domain.CatalogItem{ID: r.s.id(), Kind: kind, Name: name, CreatedAt: time.Now()}
	r.s.catalog[kind] = append(r.s.catalog[kind], item)
	return &item, true, nil
}

func (r memCatalog) Search(_ context.Context, kind domain.CatalogKind, prefix string, limit int) ([]domain.CatalogItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.CatalogItem{}
	for _, item := range r.s.catalog[kind] {
		if strings.HasPrefix(strings.ToLower(item.Name), strings.ToLower(prefix)) && len(out) < limit {
			out = append(out, item)
		}
	}
	return out, nil
}

// --- jobs

type memJobs struct{ s *memStore }

func (s *memStore) sortedJobs() []*domain.JobPosting {
	out := make([]*domain.JobPosting, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	return out
}

func (s *memStore) withCompany(j *domain.JobPosting) domain.JobWithCompany {
	jc := domain.JobWithCompany{JobPosting: *j, Requirements: []string{}}
	if c, ok := s.companies[j.CompanyID]; ok {
		jc.CompanyName = c.Name
	}
	for _, req := range s.requirements {
		if req.PostingID == j.ID {
			jc.Requirements = append(jc.Requirements, req.SkillName)
		}
	}
	return jc
}

func (r memJobs) Create(_ context.Context, j *domain.JobPosting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j.ID = r.s.id()
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	cp := *j
	r.s.jobs[j.ID] = &cp
	return nil
}

func (r memJobs) GetByID(_ context.Context, id int64) (*domain.JobPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r memJobs) GetByIDWithCompany(_ context.Context, id int64) (*domain.JobWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	jc := r.s.withCompany(j)
	return &jc, nil
}

func (r memJobs) FetchPublished(_ context.Context, _ domain.JobFilter, limit, offset int) ([]domain.JobWithCompany, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []domain.JobWithCompany{}
	for _, j := range r.s.sortedJobs() {
		if j.State == domain.PostingPublished {
			all = append(all, r.s.withCompany(j))
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.JobWithCompany{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r memJobs) FetchByCompanyID(_ context.Context, companyID int64, limit, offset int) ([]domain.JobSummary, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := []domain.JobSummary{}
	for _, j := range r.s.sortedJobs() {
		if j.CompanyID != companyID {
			continue
		}
		summary := domain.JobSummary{JobPosting: *j}
		for _, a := range r.s.apps {
			if a.JobID == j.ID {
				summary.ApplicantCount++
			}
		}
		all = append(all, summary)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.JobSummary{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r memJobs) Update(_ context.Context, j *domain.JobPosting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[j.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *j
	cp.State = stored.State
	cp.PublishedAt = stored.PublishedAt
	r.s.jobs[j.ID] = &cp
	return nil
}

func (r memJobs) UpdateState(_ context.Context, id int64, state domain.PostingState, publishedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.State = state
	if j.PublishedAt == nil && publishedAt != nil {
		t := *publishedAt
		j.PublishedAt = &t
	}
	return nil
}

func (r memJobs) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

func (r memJobs) AddRequirement(_ context.Context, req *domain.PostingRequirement) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.requirements {
		if existing.PostingID == req.PostingID && existing.SkillID == req.SkillID {
			*req = existing
			return false, nil
		}
	}
	req.ID = r.s.id()
	req.CreatedAt = time.Now()
	r.s.requirements = append(r.s.requirements, *req)
	return true, nil
}

func (r memJobs) GetRequirement(_ context.Context, id int64) (*domain.PostingRequirement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requirements {
		if req.ID == id {
			cp := req
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memJobs) DeleteRequirement(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, req := range r.s.requirements {
		if req.ID == id {
			r.s.requirements = append(r.s.requirements[:i], r.s.requirements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memJobs) ListRequirements(_ context.Context, postingID int64) ([]domain.PostingRequirement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.PostingRequirement{}
	for _, req := range r.s.requirements {
		if req.PostingID == postingID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r memJobs) ListCategories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Engineering"}}, nil
}

// --- applications

type memApps struct{ s *memStore }

func (s *memStore) joinApplication(a *domain.Application) domain.Application {
	out := *a
	if j, ok := s.jobs[a.JobID]; ok {
		title, state := j.Title, j.State
		out.JobTitle, out.JobState = &title, &state
		if c, ok := s.companies[j.CompanyID]; ok {
			name := c.Name
			out.CompanyName = &name
		}
	}
	if c, ok := s.candidates[a.CandidateID]; ok {
		name, title := c.FullName, c.Title
		out.CandidateName, out.CandidateTitle = &name, &title
	}
	return out
}

func (s *memStore) sortedApps(keep func(*domain.Application) bool) []domain.Application {
	out := []domain.Application{}
	for _, a := range s.apps {
		if keep(a) {
			out = append(out, s.joinApplication(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memApps) CreateIfAbsent(_ context.Context, jobID, candidateID int64) (*domain.Application, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			out := r.s.joinApplication(a)
			return &out, false, nil
		}
	}
	now := time.Now()
	a := &domain.Application{
		ID:          r.s.id(),
		JobID:       jobID,
		CandidateID: candidateID,
		Status:      domain.StatusPending,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	r.s.apps[a.ID] = a
	out := r.s.joinApplication(a)
	return &out, true, nil
}

func (r memApps) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := r.s.joinApplication(a)
	return &out, nil
}

func (r memApps) GetByPair(_ context.Context, jobID, candidateID int64) (*domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			out := r.s.joinApplication(a)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r memApps) Exists(_ context.Context, jobID, candidateID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (r memApps) ListByCandidate(_ context.Context, candidateID int64, limit int) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.sortedApps(func(a *domain.Application) bool { return a.CandidateID == candidateID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memApps) ListByJob(_ context.Context, jobID int64) ([]domain.Application, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedApps(func(a *domain.Application) bool { return a.JobID == jobID }), nil
}

func (r memApps) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus, feedback *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.apps[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	switch {
	case feedback == nil:
	case *feedback == "":
		a.Feedback = nil
	default:
		f := *feedback
		a.Feedback = &f
	}
	a.UpdatedAt = time.Now()
	return nil
}

func (r memApps) SaveIfAbsent(_ context.Context, candidateID, jobID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sp := range r.s.saved {
		if sp.CandidateID == candidateID && sp.JobID == jobID {
			return false, nil
		}
	}
	r.s.saved = append(r.s.saved, domain.SavedPosting{ID: r.s.id(), CandidateID: candidateID, JobID: jobID, CreatedAt: time.Now()})
	return true, nil
}

func (r memApps) Unsave(_ context.Context, candidateID, jobID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, sp := range r.s.saved {
		if sp.CandidateID == candidateID && sp.JobID == jobID {
			r.s.saved = append(r.s.saved[:i], r.s.saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memApps) ListSaved(_ context.Context, candidateID int64, limit int) ([]domain.SavedPosting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.SavedPosting{}
	for i := len(r.s.saved) - 1; i >= 0; i-- {
		sp := r.s.saved[i]
		if sp.CandidateID != candidateID {
			continue
		}
		if j, ok := r.s.jobs[sp.JobID]; ok {
			sp.JobTitle, sp.JobState = j.Title, j.State
		}
		out = append(out, sp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memApps) Stats(_ context.Context, candidateID int64) (*domain.DashboardStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &domain.DashboardStats{}
	for _, a := range r.s.apps {
		if a.CandidateID != candidateID {
			continue
		}
		if a.Status.Active() {
			stats.ActiveApplications++
		}
		if a.Status == domain.StatusInterview {
			stats.Interviews++
		}
	}
	for _, sp := range r.s.saved {
		if sp.CandidateID == candidateID {
			stats.SavedPostings++
		}
	}
	return stats, nil
}
