package config

import (
	"fmt"
	"log"

	"permit-work-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		GetEnv("DB_USER", "root"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_HOST", "127.0.0.1"),
		GetEnv("DB_PORT", "3306"),
		GetEnv("DB_NAME", "permit_work"),
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to database: " + err.Error())
	}

	log.Println("database connection established")

	db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.WorkLocation{},
		&model.MapBackground{},
		&model.Permit{},
		&model.Attachment{},
		&model.Suggestion{},
		&model.AnalysisJob{},
		&model.WebhookConfig{},
		&model.AppSetting{},
	)

	DB = db
}
