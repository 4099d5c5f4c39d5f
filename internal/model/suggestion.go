package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SuggestionPending  = "pending"
	SuggestionAccepted = "accepted"
	SuggestionRejected = "rejected"
	SuggestionApplied  = "applied"
)

// Suggestion is an AI-generated proposed edit to a permit, produced by the
// external analysis webhook and reviewed by a human.
type Suggestion struct {
	gorm.Model
	PermitID       uint       `json:"permit_id" gorm:"index;not null"`
	SuggestionType string     `json:"suggestion_type"` // improvement, safety, compliance, hazard_replacement, hazard_notes, field_improvement
	FieldName      string     `json:"field_name"`
	OriginalValue  string     `json:"original_value" gorm:"type:text"`
	SuggestedValue string     `json:"suggested_value" gorm:"type:text"`
	Reasoning      string     `json:"reasoning" gorm:"type:text"`
	Priority       string     `json:"priority"` // critical, high, medium, low
	Status         string     `json:"status" gorm:"default:pending"`
	AppliedAt      *time.Time `json:"applied_at"`
}

const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// AnalysisJob tracks one asynchronous analysis request. The webhook callback
// marks it done; completion is never inferred from how many suggestions exist.
type AnalysisJob struct {
	gorm.Model
	JobID       string     `json:"job_id" gorm:"uniqueIndex;not null"`
	PermitID    uint       `json:"permit_id" gorm:"index;not null"`
	Status      string     `json:"status" gorm:"default:queued"`
	Error       string     `json:"error"`
	CompletedAt *time.Time `json:"completed_at"`
}
