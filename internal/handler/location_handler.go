package handler

import (
	"github.com/gofiber/fiber/v2"

	"permit-work-backend/internal/geo"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

type LocationHandler struct {
	repo repository.LocationRepository
}

func NewLocationHandler(repo repository.LocationRepository) *LocationHandler {
	return &LocationHandler{repo: repo}
}

func (h *LocationHandler) GetActive(c *fiber.Ctx) error {
	locations, err := h.repo.GetActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load work locations"})
	}
	return c.JSON(fiber.Map{"data": locations})
}

func (h *LocationHandler) GetAll(c *fiber.Ctx) error {
	locations, err := h.repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load work locations"})
	}
	return c.JSON(fiber.Map{"data": locations})
}

func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var location model.WorkLocation
	if err := c.BodyParser(&location); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if location.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Location name is required"})
	}
	if location.MapPositionX != nil && location.MapPositionY != nil &&
		!geo.InBounds(*location.MapPositionX, *location.MapPositionY) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Map position outside the logical map bounds"})
	}
	location.IsActive = true

	if err := h.repo.Create(&location); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create work location"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Work location created", "data": location})
}

func (h *LocationHandler) GetMapBackgrounds(c *fiber.Ctx) error {
	backgrounds, err := h.repo.GetMapBackgrounds()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load map backgrounds"})
	}

	// Images are served via the static uploads route; expand to full URLs.
	baseURL := c.BaseURL()
	for i := range backgrounds {
		if backgrounds[i].ImagePath != "" {
			backgrounds[i].ImagePath = baseURL + "/" + backgrounds[i].ImagePath
		}
	}
	return c.JSON(fiber.Map{"data": backgrounds})
}

type MapPositionRequest struct {
	OffsetX        float64 `json:"offset_x"`
	OffsetY        float64 `json:"offset_y"`
	RenderedWidth  float64 `json:"rendered_width"`
	RenderedHeight float64 `json:"rendered_height"`
}

// ConvertPosition maps a click on a rendered map of arbitrary size onto the
// fixed 800x600 logical space markers are stored in.
func (h *LocationHandler) ConvertPosition(c *fiber.Ctx) error {
	var req MapPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	x, y, err := geo.ToLogical(req.OffsetX, req.OffsetY, req.RenderedWidth, req.RenderedHeight)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"map_position_x": x, "map_position_y": y}})
}
