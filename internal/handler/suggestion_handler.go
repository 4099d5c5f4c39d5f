package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/service"
)

type SuggestionHandler struct {
	suggestions repository.SuggestionRepository
	analysis    *service.AnalysisService
}

func NewSuggestionHandler(suggestions repository.SuggestionRepository, analysis *service.AnalysisService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, analysis: analysis}
}

// Analyze fires the external AI analysis for a permit. The request is
// accepted immediately; suggestions arrive later through the callback.
func (h *SuggestionHandler) Analyze(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	job, err := h.analysis.StartAnalysis(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveWebhook) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No active webhook configuration. Configure and activate an n8n webhook first.",
			})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to start analysis"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Analysis started",
		"data":    job,
	})
}

type CallbackRequest struct {
	JobID       string             `json:"jobId"`
	Error       string             `json:"error"`
	Suggestions []model.Suggestion `json:"suggestions"`
}

// Callback is invoked by the n8n automation with the analysis outcome. It is
// the explicit terminal signal the polling wait relies on.
func (h *SuggestionHandler) Callback(c *fiber.Ctx) error {
	var req CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.JobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "jobId is required"})
	}

	if req.Error != "" {
		if err := h.analysis.FailJob(req.JobID, req.Error); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown analysis job"})
		}
		return c.JSON(fiber.Map{"message": "Analysis failure recorded"})
	}

	if err := h.analysis.CompleteJob(req.JobID, req.Suggestions); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown analysis job"})
	}
	return c.JSON(fiber.Map{"message": "Suggestions stored", "count": len(req.Suggestions)})
}

// Wait long-polls an analysis job until it terminates or the poll budget
// elapses. Giving up here does not cancel the automation run.
func (h *SuggestionHandler) Wait(c *fiber.Ctx) error {
	jobID := c.Query("job_id")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "job_id query parameter is required"})
	}

	suggestions, err := h.analysis.WaitForSuggestions(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, service.ErrAnalysisTimeout) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{"error": "Analysis timed out. Try again later."})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown analysis job"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": suggestions})
}

func (h *SuggestionHandler) GetByPermit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	suggestions, err := h.suggestions.GetByPermitID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load suggestions"})
	}
	return c.JSON(fiber.Map{"data": suggestions})
}

type SuggestionStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a pending suggestion to accepted or rejected. Applied is
// only reachable through the apply endpoints.
func (h *SuggestionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid suggestion id"})
	}

	var req SuggestionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Status != model.SuggestionAccepted && req.Status != model.SuggestionRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Status must be accepted or rejected"})
	}

	suggestion, err := h.suggestions.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Suggestion not found"})
	}
	if suggestion.Status != model.SuggestionPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Suggestion has already been decided"})
	}

	suggestion.Status = req.Status
	if err := h.suggestions.Update(suggestion); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update suggestion"})
	}
	return c.JSON(fiber.Map{"message": "Suggestion updated", "data": suggestion})
}

func (h *SuggestionHandler) Apply(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid suggestion id"})
	}

	suggestion, err := h.analysis.ApplySuggestion(uint(id))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Suggestion not found"})
		case errors.Is(err, service.ErrSuggestionNotPending):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Suggestion has already been decided"})
		case errors.Is(err, service.ErrUnknownField):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply suggestion"})
		}
	}
	return c.JSON(fiber.Map{"message": "Suggestion applied", "data": suggestion})
}

func (h *SuggestionHandler) ApplyAll(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	applied, skipped, err := h.analysis.ApplyAll(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to apply suggestions"})
	}
	return c.JSON(fiber.Map{"message": "Suggestions applied", "applied": applied, "skipped": skipped})
}

// RejectAll is idempotent: with nothing pending it succeeds and reports 0.
func (h *SuggestionHandler) RejectAll(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}

	rejected, err := h.suggestions.RejectAllPending(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reject suggestions"})
	}
	return c.JSON(fiber.Map{"message": "Suggestions rejected", "rejected": rejected})
}

func (h *SuggestionHandler) DeleteAll(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	if err := h.suggestions.DeleteByPermitID(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete suggestions"})
	}
	return c.JSON(fiber.Map{"message": "Suggestions deleted"})
}
