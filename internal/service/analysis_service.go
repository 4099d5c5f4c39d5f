package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"permit-work-backend/internal/hazard"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/n8n"
	"permit-work-backend/internal/repository"
)

var (
	// ErrNoActiveWebhook is returned before any outbound call is made when no
	// active n8n configuration exists.
	ErrNoActiveWebhook = errors.New("no active webhook configuration")
	ErrAnalysisTimeout = errors.New("analysis timed out waiting for suggestions")
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollBudget   = 180 * time.Second
)

// AnalysisService runs the fire-and-poll suggestion flow: it dispatches the
// permit to the external automation, records an AnalysisJob, and resolves the
// job through the callback. Completion is signalled exclusively by job status,
// never inferred from how many suggestions have arrived so far.
type AnalysisService struct {
	permits      repository.PermitRepository
	suggestions  repository.SuggestionRepository
	jobs         repository.AnalysisJobRepository
	webhooks     repository.WebhookRepository
	trigger      n8n.Trigger
	callbackBase string
	pollInterval time.Duration
	pollBudget   time.Duration
	now          func() time.Time
}

func NewAnalysisService(
	permits repository.PermitRepository,
	suggestions repository.SuggestionRepository,
	jobs repository.AnalysisJobRepository,
	webhooks repository.WebhookRepository,
	trigger n8n.Trigger,
	callbackBase string,
) *AnalysisService {
	return &AnalysisService{
		permits:      permits,
		suggestions:  suggestions,
		jobs:         jobs,
		webhooks:     webhooks,
		trigger:      trigger,
		callbackBase: callbackBase,
		pollInterval: defaultPollInterval,
		pollBudget:   defaultPollBudget,
		now:          time.Now,
	}
}

// StartAnalysis checks the webhook precondition, records a queued job and
// dispatches the webhook call in the background. When no active webhook
// exists it fails locally and nothing leaves the process.
func (s *AnalysisService) StartAnalysis(ctx context.Context, permitID uint) (*model.AnalysisJob, error) {
	webhook, err := s.webhooks.FindActive()
	if err != nil {
		return nil, ErrNoActiveWebhook
	}

	permit, err := s.permits.FindByID(permitID)
	if err != nil {
		return nil, err
	}

	job := &model.AnalysisJob{
		JobID:    uuid.NewString(),
		PermitID: permitID,
		Status:   model.JobQueued,
	}
	if err := s.jobs.Create(job); err != nil {
		return nil, err
	}

	// Dispatch works on its own copy; the returned record stays a snapshot.
	dispatched := *job
	go s.dispatch(&dispatched, webhook.URL, permit)
	return job, nil
}

func (s *AnalysisService) dispatch(job *model.AnalysisJob, webhookURL string, permit *model.Permit) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	job.Status = model.JobRunning
	if err := s.jobs.Update(job); err != nil {
		log.Printf("mark job %s running failed: %v", job.JobID, err)
	}

	if err := s.trigger.TriggerAnalysis(ctx, webhookURL, s.buildRequest(job, permit)); err != nil {
		log.Printf("analysis dispatch for permit %d failed: %v", permit.ID, err)
		s.markFailed(job, err.Error())
	}
	// On success the job stays running until the callback marks it done.
}

func (s *AnalysisService) buildRequest(job *model.AnalysisJob, permit *model.Permit) n8n.AnalysisRequest {
	refs, err := hazard.ParseRefs(permit.SelectedHazards)
	if err != nil {
		log.Printf("permit %d carries unreadable hazard refs: %v", permit.ID, err)
	}
	labels := make([]string, 0, len(refs))
	for _, ref := range refs {
		labels = append(labels, hazard.Label(ref))
	}
	notes, err := hazard.ParseNotes(permit.HazardNotes)
	if err != nil {
		log.Printf("permit %d carries unreadable hazard notes: %v", permit.ID, err)
	}

	return n8n.AnalysisRequest{
		JobID:             job.JobID,
		PermitID:          permit.ID,
		PermitCode:        permit.PermitCode,
		Type:              string(permit.Type),
		Description:       permit.Description,
		WorkDescription:   permit.WorkDescription,
		Department:        permit.Department,
		Location:          permit.Location,
		StartDate:         permit.StartDate,
		EndDate:           permit.EndDate,
		SelectedHazards:   refs,
		HazardLabels:      labels,
		HazardNotes:       notes,
		IdentifiedHazards: permit.IdentifiedHazards,
		OverallRisk:       permit.OverallRisk,
		CallbackURL:       fmt.Sprintf("%s/api/permits/%d/suggestions/callback", s.callbackBase, permit.ID),
	}
}

// CompleteJob stores the suggestions delivered by the automation callback and
// marks the job done. This is the terminal signal pollers wait for.
func (s *AnalysisService) CompleteJob(jobID string, incoming []model.Suggestion) error {
	job, err := s.jobs.FindByJobID(jobID)
	if err != nil {
		return err
	}
	for i := range incoming {
		incoming[i].PermitID = job.PermitID
		incoming[i].Status = model.SuggestionPending
	}
	if err := s.suggestions.CreateMany(incoming); err != nil {
		return err
	}

	job.Status = model.JobDone
	t := s.now()
	job.CompletedAt = &t
	return s.jobs.Update(job)
}

// FailJob records a failure reported by the automation.
func (s *AnalysisService) FailJob(jobID, message string) error {
	job, err := s.jobs.FindByJobID(jobID)
	if err != nil {
		return err
	}
	s.markFailed(job, message)
	return nil
}

func (s *AnalysisService) markFailed(job *model.AnalysisJob, message string) {
	job.Status = model.JobFailed
	job.Error = message
	t := s.now()
	job.CompletedAt = &t
	if err := s.jobs.Update(job); err != nil {
		log.Printf("mark job %s failed: %v", job.JobID, err)
	}
}

// WaitForSuggestions blocks until the job reaches a terminal status or the
// poll budget runs out. Abandoning the wait does not cancel the automation;
// the job record keeps its eventual outcome either way.
func (s *AnalysisService) WaitForSuggestions(ctx context.Context, jobID string) ([]model.Suggestion, error) {
	deadline := s.now().Add(s.pollBudget)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		job, err := s.jobs.FindByJobID(jobID)
		if err != nil {
			return nil, err
		}
		switch pollVerdict(s.now(), deadline, job.Status) {
		case verdictDone:
			return s.suggestions.GetByPermitID(job.PermitID)
		case verdictFailed:
			return nil, errors.Errorf("analysis failed: %s", job.Error)
		case verdictTimeout:
			return nil, ErrAnalysisTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

type verdict int

const (
	verdictContinue verdict = iota
	verdictDone
	verdictFailed
	verdictTimeout
)

// pollVerdict decides one polling step. A terminal job status always wins,
// including exactly at the deadline; timeout is declared only strictly after
// the budget has elapsed.
func pollVerdict(now, deadline time.Time, jobStatus string) verdict {
	switch jobStatus {
	case model.JobDone:
		return verdictDone
	case model.JobFailed:
		return verdictFailed
	}
	if now.After(deadline) {
		return verdictTimeout
	}
	return verdictContinue
}
