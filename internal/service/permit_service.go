package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"

	"permit-work-backend/internal/mailer"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/mq"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/workflow"
)

// Actor identifies the user requesting a workflow change.
type Actor struct {
	UserID uint
	Name   string
	Role   string
}

// PermitService executes workflow transitions and their side effects:
// persistence, lifecycle events and approver notifications. Validation
// itself lives in the workflow package.
type PermitService struct {
	permits   repository.PermitRepository
	users     repository.UserRepository
	publisher mq.Publisher
	mail      *mailer.Mailer
	now       func() time.Time
}

func NewPermitService(permits repository.PermitRepository, users repository.UserRepository, publisher mq.Publisher, mail *mailer.Mailer) *PermitService {
	return &PermitService{
		permits:   permits,
		users:     users,
		publisher: publisher,
		mail:      mail,
		now:       time.Now,
	}
}

var transitionEvents = map[workflow.Action]string{
	workflow.ActionSubmit:   "permit.submitted",
	workflow.ActionActivate: "permit.activated",
	workflow.ActionWithdraw: "permit.withdrawn",
	workflow.ActionComplete: "permit.completed",
	workflow.ActionSuspend:  "permit.suspended",
	workflow.ActionResume:   "permit.resumed",
}

// Transition applies a requested (action, nextStatus) pair. The permit is
// reloaded and re-validated here regardless of what the client displayed.
func (s *PermitService) Transition(ctx context.Context, permitID uint, action workflow.Action, next model.PermitStatus, actor Actor) (*model.Permit, error) {
	if !workflow.Allowed(action, actor.Role) {
		return nil, errors.Wrapf(workflow.ErrRoleNotAllowed, "%s as %s", action, actor.Role)
	}

	permit, err := s.permits.FindByID(permitID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Transition(permit, action, next, s.now()); err != nil {
		return nil, err
	}
	if err := s.permits.Update(permit); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, transitionEvents[action], permit)
	if action == workflow.ActionSubmit {
		s.notifyApprovers(permit)
	}
	return permit, nil
}

// Approve fills one approval slot. The acting role must match the slot;
// admins may fill any slot. When the last required slot is set the permit
// moves to approved.
func (s *PermitService) Approve(ctx context.Context, permitID uint, approvalType string, actor Actor) (*model.Permit, error) {
	requiredRole, err := workflow.ApprovalRole(approvalType)
	if err != nil {
		return nil, err
	}
	if actor.Role != requiredRole && actor.Role != model.RoleAdmin {
		return nil, errors.Wrapf(workflow.ErrRoleNotAllowed, "approval %s as %s", approvalType, actor.Role)
	}

	permit, err := s.permits.FindByID(permitID)
	if err != nil {
		return nil, err
	}
	completed, err := workflow.Approve(permit, approvalType, actor.Name, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.permits.Update(permit); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "permit.approval", permit)
	if completed {
		s.publishEvent(ctx, "permit.approved", permit)
		s.notifyRequestor(permit, "freigegeben", "")
	}
	return permit, nil
}

// Reject returns a pending permit to draft, clearing approval progress.
func (s *PermitService) Reject(ctx context.Context, permitID uint, reason string, actor Actor) (*model.Permit, error) {
	if !workflow.Allowed(workflow.ActionReject, actor.Role) {
		return nil, errors.Wrapf(workflow.ErrRoleNotAllowed, "reject as %s", actor.Role)
	}

	permit, err := s.permits.FindByID(permitID)
	if err != nil {
		return nil, err
	}
	if err := workflow.Reject(permit, reason); err != nil {
		return nil, err
	}
	if err := s.permits.Update(permit); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "permit.rejected", permit)
	s.notifyRequestor(permit, "abgelehnt", reason)
	return permit, nil
}

func (s *PermitService) publishEvent(ctx context.Context, event string, permit *model.Permit) {
	if s.publisher == nil || event == "" {
		return
	}
	payload := map[string]any{
		"event":      event,
		"permitId":   permit.ID,
		"permitCode": permit.PermitCode,
		"status":     permit.Status,
		"type":       permit.Type,
		"occurredAt": s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.Publish(ctx, event, payload); err != nil {
		log.Printf("publish %s failed: %v", event, err)
	}
}

// notifyApprovers mails every user holding a required approval role.
func (s *PermitService) notifyApprovers(permit *model.Permit) {
	roles := []string{model.RoleDepartmentHead, model.RoleMaintenance}
	if workflow.RequiresSafetyOfficer(permit) {
		roles = append(roles, model.RoleSafetyOfficer)
	}
	for _, role := range roles {
		approvers, err := s.users.GetByRole(role)
		if err != nil {
			log.Printf("load %s approvers failed: %v", role, err)
			continue
		}
		for _, approver := range approvers {
			if err := s.mail.NotifyApprovalNeeded(approver.Email, permit.PermitCode, permit.Description); err != nil {
				log.Printf("notify %s failed: %v", approver.Email, err)
			}
		}
	}
}

func (s *PermitService) notifyRequestor(permit *model.Permit, decision, reason string) {
	user, err := s.users.FindByFullName(permit.RequestorName)
	if err != nil {
		return // requestor name is free text, a matching account is optional
	}
	if err := s.mail.NotifyDecision(user.Email, permit.PermitCode, decision, reason); err != nil {
		log.Printf("notify %s failed: %v", user.Email, err)
	}
}

// NextPermitCode builds the human-readable display code for a new permit.
func (s *PermitService) NextPermitCode() (string, error) {
	year := s.now().Year()
	count, err := s.permits.CountCreatedInYear(year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PTW-%d-%04d", year, count+1), nil
}
