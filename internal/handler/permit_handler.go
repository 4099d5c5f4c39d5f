package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"permit-work-backend/internal/geo"
	"permit-work-backend/internal/hazard"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/service"
	"permit-work-backend/internal/workflow"
)

type PermitHandler struct {
	permits   repository.PermitRepository
	locations repository.LocationRepository
	svc       *service.PermitService
}

func NewPermitHandler(permits repository.PermitRepository, locations repository.LocationRepository, svc *service.PermitService) *PermitHandler {
	return &PermitHandler{permits: permits, locations: locations, svc: svc}
}

type PermitRequest struct {
	Type              string            `json:"type"`
	Description       string            `json:"description"`
	WorkDescription   string            `json:"work_description"`
	Department        string            `json:"department"`
	RequestorName     string            `json:"requestor_name"`
	Location          string            `json:"location"`
	WorkLocationID    *uint             `json:"work_location_id"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	SelectedHazards   []string          `json:"selected_hazards"`
	HazardNotes       map[string]string `json:"hazard_notes"`
	IdentifiedHazards string            `json:"identified_hazards"`
	OverallRisk       string            `json:"overall_risk"`
	MapPositionX      *float64          `json:"map_position_x"`
	MapPositionY      *float64          `json:"map_position_y"`
}

func (h *PermitHandler) GetAll(c *fiber.Ctx) error {
	permits, err := h.permits.GetAll(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load permits"})
	}
	return c.JSON(fiber.Map{"data": permits})
}

func (h *PermitHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	permit, err := h.permits.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
	}

	role, _ := c.Locals("role").(string)
	return c.JSON(fiber.Map{
		"data":          permit,
		"legal_actions": workflow.LegalActions(permit.Status, role),
	})
}

// GetMapped serves the map view: only permits with a stored map position.
func (h *PermitHandler) GetMapped(c *fiber.Ctx) error {
	permits, err := h.permits.GetMapped()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load map permits"})
	}
	return c.JSON(fiber.Map{"data": permits})
}

func (h *PermitHandler) GetStats(c *fiber.Ctx) error {
	counts, err := h.permits.CountByStatus()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load statistics"})
	}

	var total int64
	for _, count := range counts {
		total += count
	}
	// Dashboards expect every status key, including zero ones.
	stats := fiber.Map{"total": total}
	for _, status := range []model.PermitStatus{
		model.StatusDraft, model.StatusPending, model.StatusApproved,
		model.StatusActive, model.StatusSuspended, model.StatusCompleted, model.StatusExpired,
	} {
		stats[string(status)] = counts[string(status)]
	}
	return c.JSON(fiber.Map{"data": stats})
}

func (h *PermitHandler) Create(c *fiber.Ctx) error {
	var req PermitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	permit := model.Permit{Status: model.StatusDraft}
	if err := h.fillFromRequest(&permit, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if permit.RequestorName == "" {
		permit.RequestorName, _ = c.Locals("full_name").(string)
	}

	code, err := h.svc.NextPermitCode()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to allocate permit code"})
	}
	permit.PermitCode = code

	if err := h.permits.Create(&permit); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create permit"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Permit created", "data": permit})
}

func (h *PermitHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	permit, err := h.permits.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
	}
	if permit.Status == model.StatusCompleted || permit.Status == model.StatusExpired {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Permit is closed and can no longer be edited"})
	}

	var req PermitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.fillFromRequest(permit, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Execution record fields are gated on active status and handled
	// separately so a stale edit cannot slip them in early.
	var exec struct {
		PerformerName      string   `json:"performer_name"`
		PerformerSignature string   `json:"performer_signature"`
		CompletedMeasures  []string `json:"completed_measures"`
	}
	if err := c.BodyParser(&exec); err == nil {
		hasExec := exec.PerformerName != "" || exec.PerformerSignature != "" || len(exec.CompletedMeasures) > 0
		if hasExec && !workflow.EditableWhileActive(permit.Status) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Execution fields are only editable while the permit is active"})
		}
		if hasExec {
			permit.PerformerName = exec.PerformerName
			permit.PerformerSignature = exec.PerformerSignature
			if encoded, err := hazard.EncodeRefs(exec.CompletedMeasures); err == nil {
				permit.CompletedMeasures = encoded
			}
		}
	}

	if err := h.permits.Update(permit); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update permit"})
	}
	return c.JSON(fiber.Map{"message": "Permit updated", "data": permit})
}

func (h *PermitHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	if _, err := h.permits.FindByID(uint(id)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
	}
	if err := h.permits.Delete(uint(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete permit"})
	}
	return c.JSON(fiber.Map{"message": "Permit deleted"})
}

// fillFromRequest copies validated request fields onto the permit. Hazard
// sets and notes are serialized for storage; note keys outside the selected
// set are pruned.
func (h *PermitHandler) fillFromRequest(permit *model.Permit, req *PermitRequest) error {
	if req.Type != "" {
		if !model.ValidType(model.PermitType(req.Type)) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown permit type "+req.Type)
		}
		permit.Type = model.PermitType(req.Type)
	}
	if permit.Type == "" {
		permit.Type = model.TypeGeneral
	}

	if req.Description != "" {
		permit.Description = req.Description
	}
	if req.WorkDescription != "" {
		permit.WorkDescription = req.WorkDescription
	}
	if req.Department != "" {
		permit.Department = req.Department
	}
	if req.RequestorName != "" {
		permit.RequestorName = req.RequestorName
	}
	if req.StartDate != "" {
		permit.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		permit.EndDate = req.EndDate
	}
	if req.IdentifiedHazards != "" {
		permit.IdentifiedHazards = req.IdentifiedHazards
	}

	risk, err := hazard.NormalizeRisk(req.OverallRisk)
	if err != nil {
		return err
	}
	if risk != "" {
		permit.OverallRisk = risk
	}

	if req.SelectedHazards != nil {
		encoded, err := hazard.EncodeRefs(req.SelectedHazards)
		if err != nil {
			return err
		}
		permit.SelectedHazards = encoded
	}
	if req.HazardNotes != nil {
		selected, err := hazard.ParseRefs(permit.SelectedHazards)
		if err != nil {
			return err
		}
		encoded, err := hazard.EncodeNotes(hazard.PruneNotes(req.HazardNotes, selected))
		if err != nil {
			return err
		}
		permit.HazardNotes = encoded
	}

	if req.WorkLocationID != nil {
		location, err := h.locations.FindByID(*req.WorkLocationID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown work location")
		}
		permit.WorkLocationID = req.WorkLocationID
		permit.Location = location.Name
	} else if req.Location != "" {
		permit.Location = req.Location
	}

	if req.MapPositionX != nil && req.MapPositionY != nil {
		if !geo.InBounds(*req.MapPositionX, *req.MapPositionY) {
			return fiber.NewError(fiber.StatusBadRequest, "map position outside the logical map bounds")
		}
		permit.MapPositionX = req.MapPositionX
		permit.MapPositionY = req.MapPositionY
	}
	return nil
}
