package model

import "gorm.io/gorm"

// WorkLocation is a named place on the site map where work can be authorized.
type WorkLocation struct {
	gorm.Model
	Name         string   `json:"name" gorm:"not null"`
	Description  string   `json:"description"`
	Building     string   `json:"building"`
	Area         string   `json:"area"`
	MapPositionX *float64 `json:"map_position_x"`
	MapPositionY *float64 `json:"map_position_y"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`
}

// MapBackground is a site plan image the permit map is drawn over. Marker
// positions are stored in the fixed 800x600 logical space regardless of the
// rendered image size.
type MapBackground struct {
	gorm.Model
	Name      string `json:"name" gorm:"not null"`
	ImagePath string `json:"image_path"`
	IsDefault bool   `json:"is_default" gorm:"default:false"`
}
