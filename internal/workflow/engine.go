// Package workflow is the permit lifecycle state machine. It decides which
// actions are legal for a given status and role, applies transitions and
// tracks the three approval slots that gate pending -> approved. The server
// is the authoritative validator; clients only render the legal subset.
package workflow

import (
	"time"

	"github.com/pkg/errors"

	"permit-work-backend/internal/model"
)

type Action string

const (
	ActionSubmit   Action = "submit"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionActivate Action = "activate"
	ActionWithdraw Action = "withdraw"
	ActionComplete Action = "complete"
	ActionSuspend  Action = "suspend"
	ActionResume   Action = "resume"
)

var (
	ErrUnknownAction     = errors.New("unknown workflow action")
	ErrIllegalTransition = errors.New("transition not allowed from current status")
	ErrRoleNotAllowed    = errors.New("role may not perform this action")
	ErrNotPending        = errors.New("permit is not awaiting approval")
	ErrReasonRequired    = errors.New("a rejection reason is required")
)

type edge struct {
	from model.PermitStatus
	to   model.PermitStatus
}

// edges are the documented status transitions. Approvals are not an edge:
// they accumulate inside pending and the engine flips the status to approved
// once the required slots are set.
var edges = map[Action]edge{
	ActionSubmit:   {model.StatusDraft, model.StatusPending},
	ActionReject:   {model.StatusPending, model.StatusDraft},
	ActionActivate: {model.StatusApproved, model.StatusActive},
	ActionWithdraw: {model.StatusApproved, model.StatusDraft},
	ActionComplete: {model.StatusActive, model.StatusCompleted},
	ActionSuspend:  {model.StatusActive, model.StatusSuspended},
	ActionResume:   {model.StatusSuspended, model.StatusActive},
}

// statusActions lists the actions offered in each status, before role filtering.
var statusActions = map[model.PermitStatus][]Action{
	model.StatusDraft:     {ActionSubmit},
	model.StatusPending:   {ActionApprove, ActionReject},
	model.StatusApproved:  {ActionActivate, ActionWithdraw},
	model.StatusActive:    {ActionComplete, ActionSuspend},
	model.StatusSuspended: {ActionResume},
	model.StatusCompleted: {},
	model.StatusExpired:   {},
}

var actionRoles = map[Action][]string{
	ActionSubmit:   {model.RoleEmployee, model.RoleDepartmentHead, model.RoleAdmin},
	ActionApprove:  {model.RoleDepartmentHead, model.RoleSafetyOfficer, model.RoleMaintenance, model.RoleAdmin},
	ActionReject:   {model.RoleDepartmentHead, model.RoleSafetyOfficer, model.RoleMaintenance, model.RoleAdmin},
	ActionActivate: {model.RoleEmployee, model.RoleDepartmentHead, model.RoleAdmin},
	ActionWithdraw: {model.RoleEmployee, model.RoleAdmin},
	ActionComplete: {model.RoleEmployee, model.RoleAdmin},
	ActionSuspend:  {model.RoleSafetyOfficer, model.RoleDepartmentHead, model.RoleAdmin},
	ActionResume:   {model.RoleSafetyOfficer, model.RoleDepartmentHead, model.RoleAdmin},
}

// Allowed reports whether the role may perform the action at all.
func Allowed(action Action, role string) bool {
	for _, r := range actionRoles[action] {
		if r == role {
			return true
		}
	}
	return false
}

// LegalActions returns the actions a user of the given role may request on a
// permit in the given status. Pure function of its inputs.
func LegalActions(status model.PermitStatus, role string) []Action {
	var legal []Action
	for _, action := range statusActions[status] {
		if Allowed(action, role) {
			legal = append(legal, action)
		}
	}
	return legal
}

// Validate checks a requested (action, nextStatus) pair against the current
// status without applying it.
func Validate(current model.PermitStatus, action Action, next model.PermitStatus) error {
	e, ok := edges[action]
	if !ok {
		return errors.Wrapf(ErrUnknownAction, "%q", action)
	}
	if e.from != current || e.to != next {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s via %s", current, next, action)
	}
	return nil
}

// Transition validates and applies a status transition, stamping the actual
// execution window and clearing approval progress where the edge demands it.
// The permit is left untouched on error.
func Transition(p *model.Permit, action Action, next model.PermitStatus, now time.Time) error {
	if err := Validate(p.Status, action, next); err != nil {
		return err
	}

	switch action {
	case ActionSubmit:
		p.RejectionReason = ""
	case ActionActivate:
		if p.WorkStartedAt == nil {
			t := now
			p.WorkStartedAt = &t
		}
	case ActionComplete:
		if p.WorkCompletedAt == nil {
			t := now
			p.WorkCompletedAt = &t
		}
	case ActionWithdraw:
		clearApprovals(p)
	}

	p.Status = next
	return nil
}

// Expire moves an overdue permit into the terminal expired status. Only
// approved and active permits can lapse; draft and pending ones simply sit
// until someone touches them.
func Expire(p *model.Permit) bool {
	if p.Status != model.StatusApproved && p.Status != model.StatusActive {
		return false
	}
	p.Status = model.StatusExpired
	return true
}

// Expired reports whether the planned window of the permit has passed.
func Expired(p *model.Permit, now time.Time) bool {
	if p.EndDate == "" {
		return false
	}
	end, err := time.ParseInLocation("2006-01-02", p.EndDate, now.Location())
	if err != nil {
		return false
	}
	// The permit covers the whole end day.
	return now.After(end.AddDate(0, 0, 1))
}

// EditableWhileActive reports whether a field may be written in the current
// status. Performer fields and the actual execution window are only editable
// while the permit is active.
func EditableWhileActive(status model.PermitStatus) bool {
	return status == model.StatusActive
}

func clearApprovals(p *model.Permit) {
	p.DepartmentHeadApproval = false
	p.DepartmentHeadApprovedAt = nil
	p.MaintenanceApproval = false
	p.MaintenanceApprovedAt = nil
	p.SafetyOfficerApproval = false
	p.SafetyOfficerApprovedAt = nil
}

// Reject returns a pending permit to draft, recording the reason and
// clearing all approval progress.
func Reject(p *model.Permit, reason string) error {
	if p.Status != model.StatusPending {
		return errors.Wrapf(ErrIllegalTransition, "%s -> %s via %s", p.Status, model.StatusDraft, ActionReject)
	}
	if reason == "" {
		return ErrReasonRequired
	}
	clearApprovals(p)
	p.RejectionReason = reason
	p.Status = model.StatusDraft
	return nil
}
