package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

func SetupSettingsRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewSettingsRepository(db)
	hdl := handler.NewSettingsHandler(repo)

	api := app.Group("/api/settings", middleware.Auth)
	api.Get("/", hdl.Get)
	api.Put("/", middleware.Role(model.RoleAdmin), hdl.Update)
}
