package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/mailer"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/model"
	"permit-work-backend/internal/mq"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/service"
)

func SetupPermitRoutes(app *fiber.App, db *gorm.DB, publisher mq.Publisher, mail *mailer.Mailer) {
	permitRepo := repository.NewPermitRepository(db)
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	svc := service.NewPermitService(permitRepo, userRepo, publisher, mail)
	permits := handler.NewPermitHandler(permitRepo, locationRepo, svc)
	wf := handler.NewWorkflowHandler(svc)
	attachments := handler.NewAttachmentHandler(attachmentRepo, permitRepo)

	api := app.Group("/api/permits", middleware.Auth)

	// Fixed paths must be registered before /:id.
	api.Get("/map", permits.GetMapped)
	api.Get("/stats", permits.GetStats)

	api.Get("/", permits.GetAll)
	api.Post("/", permits.Create)
	api.Get("/:id", permits.GetByID)
	api.Patch("/:id", permits.Update)
	api.Delete("/:id", middleware.Role(model.RoleAdmin), permits.Delete)

	api.Post("/:id/workflow", wf.Transition)
	api.Post("/:id/approve", wf.Approve)
	api.Post("/:id/reject", wf.Reject)

	api.Post("/:id/attachments", attachments.Upload)
	api.Get("/:id/attachments", attachments.GetByPermit)

	app.Delete("/api/attachments/:id", middleware.Auth, attachments.Delete)
}
