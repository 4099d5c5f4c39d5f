package worker

import (
	"context"
	"log"
	"time"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/mq"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/workflow"
)

// ExpiryWorker periodically lapses approved and active permits whose planned
// window has passed. Expired is terminal; nothing reopens a lapsed permit.
type ExpiryWorker struct {
	permits   repository.PermitRepository
	publisher mq.Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewExpiryWorker(permits repository.PermitRepository, publisher mq.Publisher, interval time.Duration) *ExpiryWorker {
	return &ExpiryWorker{
		permits:   permits,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
	}
}

// Run starts the sweep loop and should be launched in its own goroutine.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("expiry worker shutting down")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	permits, err := w.permits.GetExpirable()
	if err != nil {
		log.Printf("load expirable permits failed: %v", err)
		return
	}

	now := w.now()
	for i := range permits {
		p := &permits[i]
		if !workflow.Expired(p, now) || !workflow.Expire(p) {
			continue
		}
		if err := w.permits.Update(p); err != nil {
			log.Printf("expire permit %s failed: %v", p.PermitCode, err)
			continue
		}
		w.publish(ctx, p)
		log.Printf("permit %s expired (planned end %s)", p.PermitCode, p.EndDate)
	}
}

func (w *ExpiryWorker) publish(ctx context.Context, p *model.Permit) {
	if w.publisher == nil {
		return
	}
	payload := map[string]any{
		"event":      "permit.expired",
		"permitId":   p.ID,
		"permitCode": p.PermitCode,
		"status":     p.Status,
		"occurredAt": w.now().UTC().Format(time.RFC3339),
	}
	if err := w.publisher.Publish(ctx, "permit.expired", payload); err != nil {
		log.Printf("publish permit.expired failed: %v", err)
	}
}
