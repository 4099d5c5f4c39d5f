package hazard

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// EncodeRefs serializes a hazard reference set for storage on the permit.
func EncodeRefs(refs []string) (string, error) {
	if len(refs) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(refs)
	if err != nil {
		return "", errors.Wrap(err, "encode hazard refs")
	}
	return string(data), nil
}

// ParseRefs deserializes a stored hazard reference set. An empty value is a
// valid empty set.
func ParseRefs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var refs []string
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		return nil, errors.Wrap(err, "parse hazard refs")
	}
	return refs, nil
}

// EncodeNotes serializes the per-hazard note map for storage on the permit.
func EncodeNotes(notes map[string]string) (string, error) {
	if len(notes) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(notes)
	if err != nil {
		return "", errors.Wrap(err, "encode hazard notes")
	}
	return string(data), nil
}

// ParseNotes deserializes a stored note map. An empty value is a valid empty map.
func ParseNotes(raw string) (map[string]string, error) {
	if raw == "" {
		return map[string]string{}, nil
	}
	notes := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, errors.Wrap(err, "parse hazard notes")
	}
	return notes, nil
}

// PruneNotes drops notes whose key is not in the selected hazard set. Note
// keys are expected to be a subset of the selection; stale keys can survive
// edits and are silently discarded here.
func PruneNotes(notes map[string]string, selected []string) map[string]string {
	if len(notes) == 0 {
		return notes
	}
	keep := make(map[string]bool, len(selected))
	for _, ref := range selected {
		keep[ref] = true
	}
	pruned := make(map[string]string, len(notes))
	for ref, note := range notes {
		if keep[ref] {
			pruned[ref] = note
		}
	}
	return pruned
}
