package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

type WebhookHandler struct {
	repo repository.WebhookRepository
}

func NewWebhookHandler(repo repository.WebhookRepository) *WebhookHandler {
	return &WebhookHandler{repo: repo}
}

func (h *WebhookHandler) GetAll(c *fiber.Ctx) error {
	configs, err := h.repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load webhook configurations"})
	}
	return c.JSON(fiber.Map{"data": configs})
}

func (h *WebhookHandler) Create(c *fiber.Ctx) error {
	var config model.WebhookConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if config.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Webhook URL is required"})
	}

	if config.IsActive {
		if err := h.deactivateOthers(0); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update webhook configurations"})
		}
	}
	if err := h.repo.Create(&config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create webhook configuration"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Webhook configuration created", "data": config})
}

type WebhookUpdateRequest struct {
	Name     *string `json:"name"`
	URL      *string `json:"url"`
	IsActive *bool   `json:"is_active"`
}

func (h *WebhookHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid webhook id"})
	}
	config, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Webhook configuration not found"})
	}

	var req WebhookUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		config.Name = *req.Name
	}
	if req.URL != nil {
		config.URL = *req.URL
	}
	if req.IsActive != nil {
		// At most one webhook is active; activating one deactivates the rest.
		if *req.IsActive {
			if err := h.deactivateOthers(config.ID); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update webhook configurations"})
			}
		}
		config.IsActive = *req.IsActive
	}

	if err := h.repo.Update(config); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save webhook configuration"})
	}
	return c.JSON(fiber.Map{"message": "Webhook configuration saved", "data": config})
}

func (h *WebhookHandler) deactivateOthers(keepID uint) error {
	configs, err := h.repo.GetAll()
	if err != nil {
		return err
	}
	for i := range configs {
		if configs[i].ID == keepID || !configs[i].IsActive {
			continue
		}
		configs[i].IsActive = false
		if err := h.repo.Update(&configs[i]); err != nil {
			return err
		}
	}
	return nil
}
