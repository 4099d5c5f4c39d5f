package service

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/n8n"
)

// In-memory repository doubles. FindByID returns copies so the services see a
// fresh load on every call, the same as the GORM-backed implementations.

type mockPermitRepo struct {
	permits    map[uint]*model.Permit
	nextID     uint
	yearCounts map[int]int64
}

func newMockPermitRepo() *mockPermitRepo {
	return &mockPermitRepo{permits: map[uint]*model.Permit{}, yearCounts: map[int]int64{}}
}

func (r *mockPermitRepo) Create(permit *model.Permit) error {
	r.nextID++
	permit.ID = r.nextID
	stored := *permit
	r.permits[permit.ID] = &stored
	return nil
}

func (r *mockPermitRepo) Update(permit *model.Permit) error {
	if _, ok := r.permits[permit.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *permit
	r.permits[permit.ID] = &stored
	return nil
}

func (r *mockPermitRepo) Delete(id uint) error {
	delete(r.permits, id)
	return nil
}

func (r *mockPermitRepo) FindByID(id uint) (*model.Permit, error) {
	permit, ok := r.permits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *permit
	return &loaded, nil
}

func (r *mockPermitRepo) GetAll(status string) ([]model.Permit, error) {
	var list []model.Permit
	for _, p := range r.permits {
		if status == "" || string(p.Status) == status {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (r *mockPermitRepo) GetMapped() ([]model.Permit, error) {
	var list []model.Permit
	for _, p := range r.permits {
		if p.MapPositionX != nil && p.MapPositionY != nil {
			list = append(list, *p)
		}
	}
	return list, nil
}

func (r *mockPermitRepo) CountByStatus() (map[string]int64, error) {
	counts := map[string]int64{}
	for _, p := range r.permits {
		counts[string(p.Status)]++
	}
	return counts, nil
}

func (r *mockPermitRepo) CountCreatedInYear(year int) (int64, error) {
	return r.yearCounts[year], nil
}

func (r *mockPermitRepo) GetExpirable() ([]model.Permit, error) {
	var list []model.Permit
	for _, p := range r.permits {
		if p.Status == model.StatusApproved || p.Status == model.StatusActive {
			list = append(list, *p)
		}
	}
	return list, nil
}

type mockUserRepo struct {
	users []model.User
}

func (r *mockUserRepo) Create(user *model.User) error { return nil }
func (r *mockUserRepo) Update(user *model.User) error { return nil }

func (r *mockUserRepo) FindByID(id uint) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) FindByUsername(username string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Username == username {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) FindByFullName(fullName string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].FullName == fullName {
			return &r.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) GetAll() ([]model.User, error) { return r.users, nil }

func (r *mockUserRepo) GetByRole(roleName string) ([]model.User, error) {
	var matched []model.User
	for _, u := range r.users {
		if u.Role.Name == roleName {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

type mockSuggestionRepo struct {
	suggestions map[uint]*model.Suggestion
	order       []uint
	nextID      uint
}

func newMockSuggestionRepo() *mockSuggestionRepo {
	return &mockSuggestionRepo{suggestions: map[uint]*model.Suggestion{}}
}

func (r *mockSuggestionRepo) CreateMany(suggestions []model.Suggestion) error {
	for i := range suggestions {
		r.nextID++
		suggestions[i].ID = r.nextID
		stored := suggestions[i]
		r.suggestions[stored.ID] = &stored
		r.order = append(r.order, stored.ID)
	}
	return nil
}

func (r *mockSuggestionRepo) FindByID(id uint) (*model.Suggestion, error) {
	suggestion, ok := r.suggestions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *suggestion
	return &loaded, nil
}

func (r *mockSuggestionRepo) GetByPermitID(permitID uint) ([]model.Suggestion, error) {
	var list []model.Suggestion
	for _, id := range r.order {
		if s := r.suggestions[id]; s.PermitID == permitID {
			list = append(list, *s)
		}
	}
	return list, nil
}

func (r *mockSuggestionRepo) GetPendingByPermitID(permitID uint) ([]model.Suggestion, error) {
	var list []model.Suggestion
	for _, id := range r.order {
		if s := r.suggestions[id]; s.PermitID == permitID && s.Status == model.SuggestionPending {
			list = append(list, *s)
		}
	}
	return list, nil
}

func (r *mockSuggestionRepo) Update(suggestion *model.Suggestion) error {
	if _, ok := r.suggestions[suggestion.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *suggestion
	r.suggestions[suggestion.ID] = &stored
	return nil
}

func (r *mockSuggestionRepo) RejectAllPending(permitID uint) (int64, error) {
	var affected int64
	for _, s := range r.suggestions {
		if s.PermitID == permitID && s.Status == model.SuggestionPending {
			s.Status = model.SuggestionRejected
			affected++
		}
	}
	return affected, nil
}

func (r *mockSuggestionRepo) DeleteByPermitID(permitID uint) error {
	for id, s := range r.suggestions {
		if s.PermitID == permitID {
			delete(r.suggestions, id)
		}
	}
	return nil
}

type mockJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.AnalysisJob
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: map[string]*model.AnalysisJob{}}
}

func (r *mockJobRepo) Create(job *model.AnalysisJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	r.jobs[job.JobID] = &stored
	return nil
}

func (r *mockJobRepo) Update(job *model.AnalysisJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *job
	r.jobs[job.JobID] = &stored
	return nil
}

func (r *mockJobRepo) FindByJobID(jobID string) (*model.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *job
	return &loaded, nil
}

func (r *mockJobRepo) LatestByPermitID(permitID uint) (*model.AnalysisJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.AnalysisJob
	for _, job := range r.jobs {
		if job.PermitID == permitID && (latest == nil || job.ID > latest.ID) {
			latest = job
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *latest
	return &loaded, nil
}

type mockWebhookRepo struct {
	active *model.WebhookConfig
}

func (r *mockWebhookRepo) GetAll() ([]model.WebhookConfig, error) {
	if r.active == nil {
		return nil, nil
	}
	return []model.WebhookConfig{*r.active}, nil
}

func (r *mockWebhookRepo) FindActive() (*model.WebhookConfig, error) {
	if r.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.active, nil
}

func (r *mockWebhookRepo) FindByID(id uint) (*model.WebhookConfig, error) {
	if r.active != nil && r.active.ID == id {
		return r.active, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockWebhookRepo) Create(config *model.WebhookConfig) error { return nil }
func (r *mockWebhookRepo) Update(config *model.WebhookConfig) error { return nil }

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.events = append(p.events, routingKey)
	return nil
}

// recordingTrigger captures webhook dispatches. The done channel is closed on
// the first call so tests can wait for the background dispatch goroutine.
type recordingTrigger struct {
	mu      sync.Mutex
	calls   int
	lastURL string
	lastReq n8n.AnalysisRequest
	err     error
	done    chan struct{}
}

func newRecordingTrigger() *recordingTrigger {
	return &recordingTrigger{done: make(chan struct{})}
}

func (t *recordingTrigger) TriggerAnalysis(ctx context.Context, webhookURL string, req n8n.AnalysisRequest) error {
	t.mu.Lock()
	t.calls++
	t.lastURL = webhookURL
	t.lastReq = req
	if t.calls == 1 {
		close(t.done)
	}
	t.mu.Unlock()
	return t.err
}
