package worker

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

type sweepPermitRepo struct {
	permits map[uint]*model.Permit
}

func (r *sweepPermitRepo) Create(p *model.Permit) error { return nil }

func (r *sweepPermitRepo) Update(p *model.Permit) error {
	if _, ok := r.permits[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *p
	r.permits[p.ID] = &stored
	return nil
}

func (r *sweepPermitRepo) Delete(id uint) error { return nil }

func (r *sweepPermitRepo) FindByID(id uint) (*model.Permit, error) {
	p, ok := r.permits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := *p
	return &loaded, nil
}

func (r *sweepPermitRepo) GetAll(status string) ([]model.Permit, error) { return nil, nil }
func (r *sweepPermitRepo) GetMapped() ([]model.Permit, error)           { return nil, nil }
func (r *sweepPermitRepo) CountByStatus() (map[string]int64, error)     { return nil, nil }
func (r *sweepPermitRepo) CountCreatedInYear(year int) (int64, error)   { return 0, nil }

func (r *sweepPermitRepo) GetExpirable() ([]model.Permit, error) {
	var list []model.Permit
	for _, p := range r.permits {
		if p.Status == model.StatusApproved || p.Status == model.StatusActive {
			list = append(list, *p)
		}
	}
	return list, nil
}

type sweepPublisher struct {
	keys []string
}

func (p *sweepPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.keys = append(p.keys, routingKey)
	return nil
}

func TestSweepLapsesOnlyOverdueApprovedAndActivePermits(t *testing.T) {
	repo := &sweepPermitRepo{permits: map[uint]*model.Permit{
		1: {Model: gorm.Model{ID: 1}, PermitCode: "PTW-2026-0001", Status: model.StatusApproved, EndDate: "2026-08-20"},
		2: {Model: gorm.Model{ID: 2}, PermitCode: "PTW-2026-0002", Status: model.StatusActive, EndDate: "2026-08-28"},
		3: {Model: gorm.Model{ID: 3}, PermitCode: "PTW-2026-0003", Status: model.StatusActive, EndDate: "2026-08-29"},
		4: {Model: gorm.Model{ID: 4}, PermitCode: "PTW-2026-0004", Status: model.StatusDraft, EndDate: "2026-01-01"},
		5: {Model: gorm.Model{ID: 5}, PermitCode: "PTW-2026-0005", Status: model.StatusCompleted, EndDate: "2026-01-01"},
	}}
	publisher := &sweepPublisher{}

	w := NewExpiryWorker(repo, publisher, time.Minute)
	w.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	w.sweep(context.Background())

	wantStatus := map[uint]model.PermitStatus{
		1: model.StatusExpired, // end date long past
		2: model.StatusExpired, // covered through the whole 28th, overdue on the 29th
		3: model.StatusActive,  // end day not over yet
		4: model.StatusDraft,   // drafts never lapse
		5: model.StatusCompleted,
	}
	for id, want := range wantStatus {
		if got := repo.permits[id].Status; got != want {
			t.Errorf("permit %d status = %q, want %q", id, got, want)
		}
	}
	if len(publisher.keys) != 2 {
		t.Errorf("published %v, want two permit.expired events", publisher.keys)
	}
	for _, key := range publisher.keys {
		if key != "permit.expired" {
			t.Errorf("published routing key %q", key)
		}
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &sweepPermitRepo{permits: map[uint]*model.Permit{}}
	w := NewExpiryWorker(repo, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
