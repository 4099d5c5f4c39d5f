package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/repository"
)

func SetupLocationRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewLocationRepository(db)
	hdl := handler.NewLocationHandler(repo)

	locations := app.Group("/api/work-locations", middleware.Auth)
	locations.Get("/active", hdl.GetActive)
	locations.Get("/", hdl.GetAll)
	locations.Post("/", middleware.Role(model.RoleAdmin), hdl.Create)

	app.Get("/api/map-backgrounds", middleware.Auth, hdl.GetMapBackgrounds)
	app.Post("/api/map/position", middleware.Auth, hdl.ConvertPosition)
}
