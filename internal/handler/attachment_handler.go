package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

type AttachmentHandler struct {
	attachments repository.AttachmentRepository
	permits     repository.PermitRepository
}

func NewAttachmentHandler(attachments repository.AttachmentRepository, permits repository.PermitRepository) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments, permits: permits}
}

func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	if _, err := h.permits.FindByID(uint(id)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Permit not found"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A file is required"})
	}

	uploadDir := "./uploads/attachments"
	if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
		os.MkdirAll(uploadDir, 0755)
	}
	filename := fmt.Sprintf("%d_%d_%s", id, time.Now().Unix(), filepath.Base(file.Filename))
	path := fmt.Sprintf("uploads/attachments/%s", filename)
	if err := c.SaveFile(file, path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store file"})
	}

	uploader, _ := c.Locals("full_name").(string)
	attachment := model.Attachment{
		PermitID: uint(id),
		FileName: file.Filename,
		MimeType: file.Header.Get("Content-Type"),
		FileSize: file.Size,
		Path:     path,
		Uploader: uploader,
	}
	if err := h.attachments.Create(&attachment); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save attachment"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Attachment uploaded", "data": attachment})
}

func (h *AttachmentHandler) GetByPermit(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid permit id"})
	}
	attachments, err := h.attachments.GetByPermitID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load attachments"})
	}
	return c.JSON(fiber.Map{"data": attachments})
}

func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attachment id"})
	}
	attachment, err := h.attachments.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Attachment not found"})
	}

	if attachment.Path != "" {
		os.Remove("./" + attachment.Path)
	}
	if err := h.attachments.Delete(attachment.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete attachment"})
	}
	return c.JSON(fiber.Map{"message": "Attachment deleted"})
}
