package model

import (
	"time"

	"gorm.io/gorm"
)

// PermitStatus is the position of a permit in its approval-and-execution lifecycle.
type PermitStatus string

const (
	StatusDraft     PermitStatus = "draft"
	StatusPending   PermitStatus = "pending"
	StatusApproved  PermitStatus = "approved"
	StatusActive    PermitStatus = "active"
	StatusSuspended PermitStatus = "suspended"
	StatusCompleted PermitStatus = "completed"
	StatusExpired   PermitStatus = "expired"
)

// PermitType classifies the kind of work being authorized.
type PermitType string

const (
	TypeGeneral       PermitType = "general"
	TypeHotWork       PermitType = "hot_work"
	TypeHeightWork    PermitType = "height_work"
	TypeConfinedSpace PermitType = "confined_space"
	TypeElectrical    PermitType = "electrical_work"
	TypeChemical      PermitType = "chemical_work"
	TypeMachinery     PermitType = "machinery_work"
	TypeExcavation    PermitType = "excavation"
	TypeMaintenance   PermitType = "maintenance"
	TypeCleaning      PermitType = "cleaning"
	TypeOther         PermitType = "other"
)

// PermitTypes lists every valid permit type.
var PermitTypes = []PermitType{
	TypeGeneral, TypeHotWork, TypeHeightWork, TypeConfinedSpace,
	TypeElectrical, TypeChemical, TypeMachinery, TypeExcavation,
	TypeMaintenance, TypeCleaning, TypeOther,
}

type Permit struct {
	gorm.Model
	PermitCode      string     `json:"permit_id" gorm:"uniqueIndex;not null"` // display code, e.g. PTW-2026-0042
	Type            PermitType `json:"type" gorm:"default:general"`
	Description     string     `json:"description"`
	WorkDescription string     `json:"work_description" gorm:"type:text"`
	Department      string     `json:"department"`
	RequestorName   string     `json:"requestor_name"`
	Location        string     `json:"location"`
	WorkLocationID  *uint      `json:"work_location_id"`

	// Planned window (YYYY-MM-DD)
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// Actual execution window, populated once the permit goes active
	WorkStartedAt   *time.Time `json:"work_started_at"`
	WorkCompletedAt *time.Time `json:"work_completed_at"`

	// Hazard assessment. SelectedHazards and HazardNotes are serialized JSON
	// (a string array of "<categoryID>-<index>" refs and a ref->note object).
	SelectedHazards   string `json:"selected_hazards" gorm:"type:text"`
	HazardNotes       string `json:"hazard_notes" gorm:"type:text"`
	IdentifiedHazards string `json:"identified_hazards" gorm:"type:text"`
	OverallRisk       string `json:"overall_risk"` // niedrig, mittel, hoch, kritisch

	// Approval slots
	DepartmentHeadApproval   bool       `json:"department_head_approval" gorm:"default:false"`
	DepartmentHead           string     `json:"department_head"`
	DepartmentHeadApprovedAt *time.Time `json:"department_head_approved_at"`
	MaintenanceApproval      bool       `json:"maintenance_approval" gorm:"default:false"`
	MaintenanceApprover      string     `json:"maintenance_approver"`
	MaintenanceApprovedAt    *time.Time `json:"maintenance_approved_at"`
	SafetyOfficerApproval    bool       `json:"safety_officer_approval" gorm:"default:false"`
	SafetyOfficer            string     `json:"safety_officer"`
	SafetyOfficerApprovedAt  *time.Time `json:"safety_officer_approved_at"`

	Status          PermitStatus `json:"status" gorm:"default:draft"`
	RejectionReason string       `json:"rejection_reason"`

	// Logical 800x600 map position, present only for map-placed permits
	MapPositionX *float64 `json:"map_position_x"`
	MapPositionY *float64 `json:"map_position_y"`

	// Execution record
	PerformerName      string `json:"performer_name"`
	PerformerSignature string `json:"performer_signature" gorm:"type:text"` // embedded image data
	CompletedMeasures  string `json:"completed_measures" gorm:"type:text"`  // serialized string set

	WorkLocation *WorkLocation `json:"work_location" gorm:"foreignKey:WorkLocationID"`
	Attachments  []Attachment  `json:"attachments" gorm:"foreignKey:PermitID"`
}

type Attachment struct {
	gorm.Model
	PermitID uint   `json:"permit_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	Path     string `json:"path"`
	Uploader string `json:"uploader"`
}

// ValidType reports whether t is one of the known permit types.
func ValidType(t PermitType) bool {
	for _, known := range PermitTypes {
		if t == known {
			return true
		}
	}
	return false
}
