package service

import (
	"testing"
	"time"

	"github.com/pkg/errors"

	"permit-work-backend/internal/model"
)

func TestApplyToPermitFieldMapping(t *testing.T) {
	cases := []struct {
		name             string
		suggestion       model.Suggestion
		check            func(t *testing.T, p *model.Permit)
		wantErr          bool
		wantUnknownField bool
	}{
		{
			name:       "description",
			suggestion: model.Suggestion{FieldName: "description", SuggestedValue: "Präzisere Beschreibung"},
			check: func(t *testing.T, p *model.Permit) {
				if p.Description != "Präzisere Beschreibung" {
					t.Errorf("Description = %q", p.Description)
				}
			},
		},
		{
			name:       "work description in snake case",
			suggestion: model.Suggestion{FieldName: "work_description", SuggestedValue: "Schritt für Schritt"},
			check: func(t *testing.T, p *model.Permit) {
				if p.WorkDescription != "Schritt für Schritt" {
					t.Errorf("WorkDescription = %q", p.WorkDescription)
				}
			},
		},
		{
			name:       "work description in camel case",
			suggestion: model.Suggestion{FieldName: "workDescription", SuggestedValue: "Schritt für Schritt"},
			check: func(t *testing.T, p *model.Permit) {
				if p.WorkDescription != "Schritt für Schritt" {
					t.Errorf("WorkDescription = %q", p.WorkDescription)
				}
			},
		},
		{
			name:       "risk is normalized from english",
			suggestion: model.Suggestion{FieldName: "overall_risk", SuggestedValue: "high"},
			check: func(t *testing.T, p *model.Permit) {
				if p.OverallRisk != "hoch" {
					t.Errorf("OverallRisk = %q, want hoch", p.OverallRisk)
				}
			},
		},
		{
			name:       "unknown risk value is refused",
			suggestion: model.Suggestion{FieldName: "overall_risk", SuggestedValue: "apocalyptic"},
			wantErr:    true,
		},
		{
			name: "hazard replacement carries a json set",
			suggestion: model.Suggestion{
				SuggestionType: "hazard_replacement",
				FieldName:      "selected_hazards",
				SuggestedValue: `["5-3","1-5"]`,
			},
			check: func(t *testing.T, p *model.Permit) {
				if p.SelectedHazards != `["5-3","1-5"]` {
					t.Errorf("SelectedHazards = %q", p.SelectedHazards)
				}
			},
		},
		{
			name: "hazard note targets one reference",
			suggestion: model.Suggestion{
				SuggestionType: "hazard_notes",
				FieldName:      "5-3",
				SuggestedValue: "Brandwache während und nach den Arbeiten",
			},
			check: func(t *testing.T, p *model.Permit) {
				if p.HazardNotes != `{"5-3":"Brandwache während und nach den Arbeiten"}` {
					t.Errorf("HazardNotes = %q", p.HazardNotes)
				}
			},
		},
		{
			name:             "unknown field",
			suggestion:       model.Suggestion{FieldName: "permit_code", SuggestedValue: "PTW-X"},
			wantErr:          true,
			wantUnknownField: true,
		},
		{
			name:             "hazard note with malformed reference",
			suggestion:       model.Suggestion{SuggestionType: "hazard_notes", FieldName: "not-a-ref-"},
			wantErr:          true,
			wantUnknownField: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			permit := &model.Permit{PermitCode: "PTW-2026-0001"}
			err := applyToPermit(permit, &tc.suggestion)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tc.wantUnknownField && !errors.Is(err, ErrUnknownField) {
					t.Fatalf("err = %v, want ErrUnknownField", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyToPermit: %v", err)
			}
			tc.check(t, permit)
		})
	}
}

func TestApplySuggestionPersistsAndMarksApplied(t *testing.T) {
	s, permits, suggestions, _ := newTestAnalysisService(nil, newRecordingTrigger())
	applied := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return applied }

	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001", Description: "alt"})
	suggestions.CreateMany([]model.Suggestion{{
		PermitID:       1,
		FieldName:      "description",
		SuggestedValue: "neu",
		Status:         model.SuggestionPending,
	}})

	suggestion, err := s.ApplySuggestion(1)
	if err != nil {
		t.Fatalf("ApplySuggestion: %v", err)
	}
	if suggestion.Status != model.SuggestionApplied {
		t.Errorf("status = %q, want applied", suggestion.Status)
	}
	if suggestion.AppliedAt == nil || !suggestion.AppliedAt.Equal(applied) {
		t.Errorf("AppliedAt = %v, want %v", suggestion.AppliedAt, applied)
	}

	permit, _ := permits.FindByID(1)
	if permit.Description != "neu" {
		t.Errorf("Description = %q, suggestion was not persisted", permit.Description)
	}
}

func TestApplySuggestionRefusesDecidedSuggestions(t *testing.T) {
	s, permits, suggestions, _ := newTestAnalysisService(nil, newRecordingTrigger())
	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001"})
	suggestions.CreateMany([]model.Suggestion{{
		PermitID:       1,
		FieldName:      "description",
		SuggestedValue: "neu",
		Status:         model.SuggestionRejected,
	}})

	if _, err := s.ApplySuggestion(1); !errors.Is(err, ErrSuggestionNotPending) {
		t.Errorf("err = %v, want ErrSuggestionNotPending", err)
	}
	permit, _ := permits.FindByID(1)
	if permit.Description != "" {
		t.Errorf("rejected suggestion was applied: %q", permit.Description)
	}
}

// Accepted suggestions may still be applied; acceptance is a review step, not
// a terminal state.
func TestApplySuggestionAcceptsAcceptedSuggestions(t *testing.T) {
	s, permits, suggestions, _ := newTestAnalysisService(nil, newRecordingTrigger())
	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001"})
	suggestions.CreateMany([]model.Suggestion{{
		PermitID:       1,
		FieldName:      "description",
		SuggestedValue: "neu",
		Status:         model.SuggestionAccepted,
	}})

	suggestion, err := s.ApplySuggestion(1)
	if err != nil {
		t.Fatalf("ApplySuggestion: %v", err)
	}
	if suggestion.Status != model.SuggestionApplied {
		t.Errorf("status = %q, want applied", suggestion.Status)
	}
}

func TestApplyAllSkipsUnresolvableFields(t *testing.T) {
	s, permits, suggestions, _ := newTestAnalysisService(nil, newRecordingTrigger())
	permits.Create(&model.Permit{PermitCode: "PTW-2026-0001"})
	suggestions.CreateMany([]model.Suggestion{
		{PermitID: 1, FieldName: "description", SuggestedValue: "neu", Status: model.SuggestionPending},
		{PermitID: 1, FieldName: "no_such_field", SuggestedValue: "x", Status: model.SuggestionPending},
		{PermitID: 1, FieldName: "identified_hazards", SuggestedValue: "Funkenflug", Status: model.SuggestionPending},
	})

	applied, skipped, err := s.ApplyAll(1)
	if err != nil {
		t.Fatalf("ApplyAll: %v", err)
	}
	if applied != 2 || skipped != 1 {
		t.Errorf("applied = %d, skipped = %d, want 2/1", applied, skipped)
	}

	permit, _ := permits.FindByID(1)
	if permit.Description != "neu" || permit.IdentifiedHazards != "Funkenflug" {
		t.Errorf("batch apply did not persist: %+v", permit)
	}
}
