package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"permit-work-backend/internal/model"
)

func newTestAnalysisService(webhook *model.WebhookConfig, trigger *recordingTrigger) (*AnalysisService, *mockPermitRepo, *mockSuggestionRepo, *mockJobRepo) {
	permits := newMockPermitRepo()
	suggestions := newMockSuggestionRepo()
	jobs := newMockJobRepo()
	s := NewAnalysisService(permits, suggestions, jobs, &mockWebhookRepo{active: webhook}, trigger, "http://localhost:3000")
	return s, permits, suggestions, jobs
}

func TestStartAnalysisFailsLocallyWithoutActiveWebhook(t *testing.T) {
	trigger := newRecordingTrigger()
	s, permits, _, jobs := newTestAnalysisService(nil, trigger)
	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001", Status: model.StatusDraft})

	_, err := s.StartAnalysis(context.Background(), 1)
	if !errors.Is(err, ErrNoActiveWebhook) {
		t.Fatalf("err = %v, want ErrNoActiveWebhook", err)
	}
	if trigger.calls != 0 {
		t.Errorf("webhook was called %d times, nothing may leave the process", trigger.calls)
	}
	if len(jobs.jobs) != 0 {
		t.Errorf("a job record was created for a request that failed locally")
	}
}

func TestStartAnalysisDispatchesToActiveWebhook(t *testing.T) {
	trigger := newRecordingTrigger()
	webhook := &model.WebhookConfig{Name: "prod", URL: "https://n8n.example.com/webhook/ptw", IsActive: true}
	s, permits, _, jobs := newTestAnalysisService(webhook, trigger)
	permits.Create(&model.Permit{
		PermitCode:      "PTW-2026-0001",
		Type:            model.TypeHotWork,
		Description:     "Schweißarbeiten am Tanklager",
		SelectedHazards: `["5-3","5-1"]`,
		HazardNotes:     `{"5-3":"Brandwache gestellt"}`,
		OverallRisk:     "hoch",
		Status:          model.StatusDraft,
	})

	job, err := s.StartAnalysis(context.Background(), 1)
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if job.Status != model.JobQueued {
		t.Errorf("new job status = %q, want queued", job.Status)
	}

	select {
	case <-trigger.done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never reached the webhook")
	}

	if trigger.lastURL != webhook.URL {
		t.Errorf("dispatched to %q, want %q", trigger.lastURL, webhook.URL)
	}
	req := trigger.lastReq
	if req.JobID != job.JobID || req.PermitCode != "PTW-2026-0001" {
		t.Errorf("request identifies job %q permit %q", req.JobID, req.PermitCode)
	}
	if len(req.SelectedHazards) != 2 || len(req.HazardLabels) != 2 {
		t.Errorf("hazard refs/labels = %v / %v, want 2 of each", req.SelectedHazards, req.HazardLabels)
	}
	if !strings.Contains(req.CallbackURL, "/api/permits/1/suggestions/callback") {
		t.Errorf("callback URL = %q", req.CallbackURL)
	}

	stored, err := jobs.FindByJobID(job.JobID)
	if err != nil {
		t.Fatalf("job record missing: %v", err)
	}
	if stored.Status != model.JobRunning {
		t.Errorf("job status after dispatch = %q, want running", stored.Status)
	}
}

func TestDispatchFailureMarksJobFailed(t *testing.T) {
	trigger := newRecordingTrigger()
	trigger.err = errors.New("connection refused")
	webhook := &model.WebhookConfig{URL: "https://n8n.example.com/webhook/ptw", IsActive: true}
	s, permits, _, jobs := newTestAnalysisService(webhook, trigger)
	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001"})

	permit, _ := permits.FindByID(1)
	job := &model.AnalysisJob{JobID: "job-1", PermitID: 1, Status: model.JobQueued}
	jobs.Create(job)

	s.dispatch(job, webhook.URL, permit)

	stored, _ := jobs.FindByJobID("job-1")
	if stored.Status != model.JobFailed {
		t.Errorf("job status = %q, want failed", stored.Status)
	}
	if stored.Error == "" || stored.CompletedAt == nil {
		t.Errorf("failed job must carry the error and a completion time, got %+v", stored)
	}
}

func TestCompleteJobStoresSuggestionsAndSignalsDone(t *testing.T) {
	s, _, suggestions, jobs := newTestAnalysisService(nil, newRecordingTrigger())
	finished := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return finished }

	jobs.Create(&model.AnalysisJob{JobID: "job-1", PermitID: 7, Status: model.JobRunning})

	incoming := []model.Suggestion{
		{SuggestionType: "field_improvement", FieldName: "description", SuggestedValue: "Klarere Beschreibung"},
		{SuggestionType: "hazard_notes", FieldName: "5-3", SuggestedValue: "Brandwache während und 2h nach den Arbeiten"},
	}
	if err := s.CompleteJob("job-1", incoming); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	stored, err := suggestions.GetByPermitID(7)
	if err != nil || len(stored) != 2 {
		t.Fatalf("stored suggestions = %v, %v", stored, err)
	}
	for _, suggestion := range stored {
		if suggestion.PermitID != 7 || suggestion.Status != model.SuggestionPending {
			t.Errorf("suggestion not normalized: %+v", suggestion)
		}
	}

	job, _ := jobs.FindByJobID("job-1")
	if job.Status != model.JobDone {
		t.Errorf("job status = %q, want done", job.Status)
	}
	if job.CompletedAt == nil || !job.CompletedAt.Equal(finished) {
		t.Errorf("CompletedAt = %v, want %v", job.CompletedAt, finished)
	}
}

func TestFailJobRecordsReportedError(t *testing.T) {
	s, _, _, jobs := newTestAnalysisService(nil, newRecordingTrigger())
	jobs.Create(&model.AnalysisJob{JobID: "job-1", PermitID: 7, Status: model.JobRunning})

	if err := s.FailJob("job-1", "model unavailable"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}
	job, _ := jobs.FindByJobID("job-1")
	if job.Status != model.JobFailed || job.Error != "model unavailable" {
		t.Errorf("job = %+v", job)
	}

	if err := s.FailJob("no-such-job", "x"); err == nil {
		t.Error("FailJob accepted an unknown job id")
	}
}

func TestPollVerdict(t *testing.T) {
	deadline := time.Date(2026, 8, 29, 12, 3, 0, 0, time.UTC)
	cases := []struct {
		name   string
		now    time.Time
		status string
		want   verdict
	}{
		{"running before deadline", deadline.Add(-time.Minute), model.JobRunning, verdictContinue},
		{"queued exactly at deadline", deadline, model.JobQueued, verdictContinue},
		{"done before deadline", deadline.Add(-time.Minute), model.JobDone, verdictDone},
		{"done exactly at deadline", deadline, model.JobDone, verdictDone},
		{"done after deadline", deadline.Add(time.Second), model.JobDone, verdictDone},
		{"failed after deadline", deadline.Add(time.Second), model.JobFailed, verdictFailed},
		{"still running strictly after deadline", deadline.Add(time.Nanosecond), model.JobRunning, verdictTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pollVerdict(tc.now, deadline, tc.status); got != tc.want {
				t.Errorf("pollVerdict(%v, %q) = %v, want %v", tc.now, tc.status, got, tc.want)
			}
		})
	}
}

func TestWaitForSuggestionsReturnsOnDone(t *testing.T) {
	s, _, suggestions, jobs := newTestAnalysisService(nil, newRecordingTrigger())
	s.pollInterval = time.Millisecond

	jobs.Create(&model.AnalysisJob{JobID: "job-1", PermitID: 7, Status: model.JobDone})
	suggestions.CreateMany([]model.Suggestion{{PermitID: 7, FieldName: "description", Status: model.SuggestionPending}})

	got, err := s.WaitForSuggestions(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("WaitForSuggestions: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("suggestions = %v, want 1", got)
	}
}

func TestWaitForSuggestionsTimesOutOnExhaustedBudget(t *testing.T) {
	s, _, _, jobs := newTestAnalysisService(nil, newRecordingTrigger())
	s.pollInterval = time.Millisecond
	s.pollBudget = -time.Second // deadline already behind us

	jobs.Create(&model.AnalysisJob{JobID: "job-1", PermitID: 7, Status: model.JobRunning})

	_, err := s.WaitForSuggestions(context.Background(), "job-1")
	if !errors.Is(err, ErrAnalysisTimeout) {
		t.Errorf("err = %v, want ErrAnalysisTimeout", err)
	}
}

func TestWaitForSuggestionsHonorsContextCancel(t *testing.T) {
	s, _, _, jobs := newTestAnalysisService(nil, newRecordingTrigger())
	s.pollInterval = time.Hour // never ticks, the select must exit via ctx

	jobs.Create(&model.AnalysisJob{JobID: "job-1", PermitID: 7, Status: model.JobRunning})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.WaitForSuggestions(ctx, "job-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
