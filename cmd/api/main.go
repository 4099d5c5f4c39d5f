package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"permit-work-backend/config"
	"permit-work-backend/internal/mailer"
	"permit-work-backend/internal/mq"
	"permit-work-backend/internal/repository"
	"permit-work-backend/internal/routes"
	"permit-work-backend/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	config.ConnectDB()

	// Event publishing and mail are both optional; without the config the
	// services simply skip them.
	var publisher mq.Publisher
	if url := config.GetEnv("RABBITMQ_URL", ""); url != "" {
		rabbit, err := mq.NewRabbitPublisher(url, config.GetEnv("RABBITMQ_EXCHANGE", "permit.events"))
		if err != nil {
			log.Printf("rabbitmq unavailable, events disabled: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	mail := mailer.New(
		config.GetEnv("SMTP_HOST", ""),
		config.GetEnvAsInt("SMTP_PORT", 587),
		config.GetEnv("SMTP_USER", ""),
		config.GetEnv("SMTP_PASSWORD", ""),
		config.GetEnv("SMTP_FROM", "noreply@permit-work.local"),
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // signatures and attachments ride in here
	})
	app.Use(cors.New())
	app.Use(logger.New())
	app.Static("/uploads", "./uploads")

	routes.SetupAuthRoutes(app, config.DB)
	routes.SetupPermitRoutes(app, config.DB, publisher, mail)
	routes.SetupSuggestionRoutes(app, config.DB)
	routes.SetupSettingsRoutes(app, config.DB)
	routes.SetupLocationRoutes(app, config.DB)
	routes.SetupWebhookRoutes(app, config.DB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := worker.NewExpiryWorker(
		repository.NewPermitRepository(config.DB),
		publisher,
		time.Duration(config.GetEnvAsInt("EXPIRY_SWEEP_MINUTES", 15))*time.Minute,
	)
	go sweeper.Run(ctx)

	port := config.GetEnv("PORT", ":3000")
	log.Printf("server listening on %s", port)
	if err := app.Listen(port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
