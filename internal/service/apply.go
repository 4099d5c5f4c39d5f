package service

import (
	"encoding/json"

	"github.com/pkg/errors"

	"permit-work-backend/internal/hazard"
	"permit-work-backend/internal/model"
)

var (
	ErrSuggestionNotPending = errors.New("suggestion is not pending")
	ErrUnknownField         = errors.New("suggestion targets an unknown field")
)

// ApplySuggestion writes the suggested value into the target permit field,
// then marks the suggestion applied with a timestamp.
func (s *AnalysisService) ApplySuggestion(suggestionID uint) (*model.Suggestion, error) {
	suggestion, err := s.suggestions.FindByID(suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion.Status != model.SuggestionPending && suggestion.Status != model.SuggestionAccepted {
		return nil, ErrSuggestionNotPending
	}

	permit, err := s.permits.FindByID(suggestion.PermitID)
	if err != nil {
		return nil, err
	}
	if err := applyToPermit(permit, suggestion); err != nil {
		return nil, err
	}
	if err := s.permits.Update(permit); err != nil {
		return nil, err
	}

	suggestion.Status = model.SuggestionApplied
	t := s.now()
	suggestion.AppliedAt = &t
	if err := s.suggestions.Update(suggestion); err != nil {
		return nil, err
	}
	return suggestion, nil
}

// ApplyAll applies every pending suggestion of a permit in arrival order.
// Suggestions whose target field cannot be resolved are skipped and counted
// separately rather than aborting the batch.
func (s *AnalysisService) ApplyAll(permitID uint) (applied, skipped int, err error) {
	pending, err := s.suggestions.GetPendingByPermitID(permitID)
	if err != nil {
		return 0, 0, err
	}
	for i := range pending {
		if _, err := s.ApplySuggestion(pending[i].ID); err != nil {
			skipped++
			continue
		}
		applied++
	}
	return applied, skipped, nil
}

// applyToPermit maps a suggestion's fieldName onto the permit. Hazard-note
// suggestions address a single hazard reference; hazard replacements carry a
// whole serialized reference set.
func applyToPermit(permit *model.Permit, suggestion *model.Suggestion) error {
	switch suggestion.FieldName {
	case "description":
		permit.Description = suggestion.SuggestedValue
	case "work_description", "workDescription":
		permit.WorkDescription = suggestion.SuggestedValue
	case "identified_hazards", "identifiedHazards":
		permit.IdentifiedHazards = suggestion.SuggestedValue
	case "overall_risk", "overallRisk":
		risk, err := hazard.NormalizeRisk(suggestion.SuggestedValue)
		if err != nil {
			return err
		}
		permit.OverallRisk = risk
	case "selected_hazards", "selectedHazards":
		var refs []string
		if err := json.Unmarshal([]byte(suggestion.SuggestedValue), &refs); err != nil {
			return errors.Wrap(err, "suggested hazard set is not a JSON array")
		}
		encoded, err := hazard.EncodeRefs(refs)
		if err != nil {
			return err
		}
		permit.SelectedHazards = encoded
	default:
		// hazard_notes suggestions use the hazard reference itself as the
		// field name and replace the note for that one hazard.
		if suggestion.SuggestionType == "hazard_notes" {
			if _, _, err := hazard.ParseRef(suggestion.FieldName); err != nil {
				return errors.Wrapf(ErrUnknownField, "%q", suggestion.FieldName)
			}
			notes, err := hazard.ParseNotes(permit.HazardNotes)
			if err != nil {
				return err
			}
			notes[suggestion.FieldName] = suggestion.SuggestedValue
			encoded, err := hazard.EncodeNotes(notes)
			if err != nil {
				return err
			}
			permit.HazardNotes = encoded
			return nil
		}
		return errors.Wrapf(ErrUnknownField, "%q", suggestion.FieldName)
	}
	return nil
}
