package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/service"
	"permit-work-backend/internal/workflow"
)

// WorkflowHandler exposes the transition, approve and reject endpoints. Every
// request is re-validated against the state machine here; the client renders
// the legal actions but is never trusted.
type WorkflowHandler struct {
	svc *service.PermitService
}

func NewWorkflowHandler(svc *service.PermitService) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(float64); ok {
		actor.UserID = uint(id)
	}
	actor.Name, _ = c.Locals("full_name").(string)
	actor.Role, _ = c.Locals("role").(string)
	return actor
}

type WorkflowRequest struct {
	Action     string `json:"action"`
	NextStatus string `json:"nextStatus"`
}

func (h *WorkflowHandler) Transition(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	var req WorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	permit, err := h.svc.Transition(c.Context(), uint(id),
		workflow.Action(req.Action), model.PermitStatus(req.NextStatus), actorFromCtx(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": permit})
}

type ApproveRequest struct {
	ApprovalType string `json:"approvalType"`
}

func (h *WorkflowHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	var req ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	permit, err := h.svc.Approve(c.Context(), uint(id), req.ApprovalType, actorFromCtx(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Approval recorded", "data": permit})
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (h *WorkflowHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	permit, err := h.svc.Reject(c.Context(), uint(id), req.Reason, actorFromCtx(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Permit rejected", "data": permit})
}

// workflowError maps state machine errors onto HTTP statuses. The wrapped
// message carries the offending transition and is surfaced verbatim.
func workflowError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
	case errors.Is(err, workflow.ErrRoleNotAllowed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrIllegalTransition),
		errors.Is(err, workflow.ErrNotPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrUnknownAction),
		errors.Is(err, workflow.ErrUnknownApprovalType),
		errors.Is(err, workflow.ErrReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update permit"})
	}
}
