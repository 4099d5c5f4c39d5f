package workflow

import (
	"time"

	"github.com/pkg/errors"

	"permit-work-backend/internal/hazard"
	"permit-work-backend/internal/model"
)

// Approval slot discriminators, as sent by the approve endpoint.
const (
	ApprovalDepartmentHead = "department_head"
	ApprovalMaintenance    = "maintenance"
	ApprovalSafetyOfficer  = "safety_officer"
)

var ErrUnknownApprovalType = errors.New("unknown approval type")

// safetyCriticalTypes always require the safety officer slot, independent of
// the assessed risk.
var safetyCriticalTypes = map[model.PermitType]bool{
	model.TypeHotWork:       true,
	model.TypeConfinedSpace: true,
	model.TypeElectrical:    true,
	model.TypeChemical:      true,
}

// RequiresSafetyOfficer reports whether the third approval slot gates this
// permit. Department head and maintenance are always required.
func RequiresSafetyOfficer(p *model.Permit) bool {
	return safetyCriticalTypes[p.Type] || hazard.HighRisk(p.OverallRisk)
}

// ApprovalsComplete reports whether every required slot is set.
func ApprovalsComplete(p *model.Permit) bool {
	if !p.DepartmentHeadApproval || !p.MaintenanceApproval {
		return false
	}
	if RequiresSafetyOfficer(p) && !p.SafetyOfficerApproval {
		return false
	}
	return true
}

// Approve sets one approval slot on a pending permit and flips the status to
// approved once all required slots are set. Approvals are monotonic: setting
// an already-set slot is a no-op, and only reject or withdraw clears them.
// Returns whether the permit reached approved.
func Approve(p *model.Permit, approvalType, approver string, now time.Time) (bool, error) {
	if p.Status != model.StatusPending {
		return false, ErrNotPending
	}

	switch approvalType {
	case ApprovalDepartmentHead:
		if !p.DepartmentHeadApproval {
			p.DepartmentHeadApproval = true
			p.DepartmentHead = approver
			t := now
			p.DepartmentHeadApprovedAt = &t
		}
	case ApprovalMaintenance:
		if !p.MaintenanceApproval {
			p.MaintenanceApproval = true
			p.MaintenanceApprover = approver
			t := now
			p.MaintenanceApprovedAt = &t
		}
	case ApprovalSafetyOfficer:
		if !p.SafetyOfficerApproval {
			p.SafetyOfficerApproval = true
			p.SafetyOfficer = approver
			t := now
			p.SafetyOfficerApprovedAt = &t
		}
	default:
		return false, errors.Wrapf(ErrUnknownApprovalType, "%q", approvalType)
	}

	if ApprovalsComplete(p) {
		p.Status = model.StatusApproved
		return true, nil
	}
	return false, nil
}

// ApprovalRole returns the role entitled to fill an approval slot. Admins may
// fill any slot.
func ApprovalRole(approvalType string) (string, error) {
	switch approvalType {
	case ApprovalDepartmentHead:
		return model.RoleDepartmentHead, nil
	case ApprovalMaintenance:
		return model.RoleMaintenance, nil
	case ApprovalSafetyOfficer:
		return model.RoleSafetyOfficer, nil
	default:
		return "", errors.Wrapf(ErrUnknownApprovalType, "%q", approvalType)
	}
}
