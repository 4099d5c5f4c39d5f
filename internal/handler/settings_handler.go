package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"permit-work-backend/internal/repository"
)

type SettingsHandler struct {
	repo repository.SettingsRepository
}

func NewSettingsHandler(repo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{repo: repo}
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	return c.JSON(fiber.Map{"data": settings})
}

// Update takes a multipart form so the logo can ride along with the text
// fields. Absent fields keep their current value.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	settings, err := h.repo.Get()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}

	if v := c.FormValue("app_name"); v != "" {
		settings.AppName = v
	}
	if v := c.FormValue("header_color"); v != "" {
		settings.HeaderColor = v
	}
	if v := c.FormValue("header_text_color"); v != "" {
		settings.HeaderTextColor = v
	}

	if file, err := c.FormFile("logo"); err == nil {
		uploadDir := "./uploads/logos"
		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			os.MkdirAll(uploadDir, 0755)
		}
		filename := fmt.Sprintf("logo_%d_%s", time.Now().Unix(), filepath.Base(file.Filename))
		path := fmt.Sprintf("uploads/logos/%s", filename)
		if err := c.SaveFile(file, path); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store logo"})
		}
		settings.LogoPath = path
	}

	if err := h.repo.Update(settings); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": settings})
}
