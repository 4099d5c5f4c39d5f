package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/repository"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewUserRepository(db)
	hdl := handler.NewAuthHandler(repo)

	app.Post("/api/auth/login", hdl.Login)
	app.Get("/api/profile", middleware.Auth, hdl.GetProfile)

	users := app.Group("/api/users", middleware.Auth)
	users.Get("/department-heads", hdl.GetDepartmentHeads)
	users.Get("/safety-officers", hdl.GetSafetyOfficers)
	users.Get("/maintenance-approvers", hdl.GetMaintenanceApprovers)
	users.Get("/", hdl.GetUsers)
}
