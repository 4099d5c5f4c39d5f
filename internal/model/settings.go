package model

import "gorm.io/gorm"

// AppSetting is the single process-wide configuration record applied to the
// navigation shell. Exactly one row exists.
type AppSetting struct {
	gorm.Model
	AppName         string `json:"app_name" gorm:"default:Arbeitserlaubnis"`
	LogoPath        string `json:"logo_path"`
	HeaderColor     string `json:"header_color" gorm:"default:#1f2937"`
	HeaderTextColor string `json:"header_text_color" gorm:"default:#ffffff"`
}

// WebhookConfig points at the external n8n automation that performs the
// actual AI analysis. Analysis requests require an active config.
type WebhookConfig struct {
	gorm.Model
	Name     string `json:"name"`
	URL      string `json:"url" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"default:false"`
}
