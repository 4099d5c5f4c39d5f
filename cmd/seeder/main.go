package main

import (
	"log"

	"github.com/joho/godotenv"

	"permit-work-backend/config"
	"permit-work-backend/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	config.ConnectDB()
	database.SeedAll(config.DB)
}
