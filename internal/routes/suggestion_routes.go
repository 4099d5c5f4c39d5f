package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"permit-work-backend/config"
	"permit-work-backend/internal/handler"
	"permit-work-backend/internal/middleware"
	"permit-work-backend/internal/n8n"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/service"
)

func SetupSuggestionRoutes(app *fiber.App, db *gorm.DB) {
	permitRepo := repository.NewPermitRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	jobRepo := repository.NewAnalysisJobRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)

	analysis := service.NewAnalysisService(
		permitRepo, suggestionRepo, jobRepo, webhookRepo,
		n8n.NewClient(),
		config.GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
	)
	hdl := handler.NewSuggestionHandler(suggestionRepo, analysis)

	// The automation callback authenticates via the job id it was handed,
	// not via a user token.
	app.Post("/api/permits/:id/suggestions/callback", hdl.Callback)

	api := app.Group("/api/permits", middleware.Auth)
	api.Post("/:id/analyze", hdl.Analyze)
	api.Get("/:id/suggestions/wait", hdl.Wait)
	api.Get("/:id/suggestions", hdl.GetByPermit)
	api.Post("/:id/suggestions/apply-all", hdl.ApplyAll)
	api.Post("/:id/suggestions/reject-all", hdl.RejectAll)
	api.Delete("/:id/suggestions", hdl.DeleteAll)

	suggestions := app.Group("/api/suggestions", middleware.Auth)
	suggestions.Patch("/:id/status", hdl.UpdateStatus)
	suggestions.Post("/:id/apply", hdl.Apply)
}
