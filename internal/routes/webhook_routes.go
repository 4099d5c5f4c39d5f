package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

func SetupWebhookRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewWebhookRepository(db)
	hdl := handler.NewWebhookHandler(repo)

	api := app.Group("/api/webhook-configs", middleware.Auth)
	api.Get("/", hdl.GetAll)
	api.Post("/", middleware.Role(model.RoleAdmin), hdl.Create)
	api.Patch("/:id", middleware.Role(model.RoleAdmin), hdl.Update)
}
