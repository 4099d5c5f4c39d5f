package model

import "gorm.io/gorm"

const (
	RoleAdmin          = "admin"
	RoleDepartmentHead = "department_head"
	RoleSafetyOfficer  = "safety_officer"
	RoleMaintenance    = "maintenance"
	RoleEmployee       = "employee"
)

type Role struct {
	gorm.Model
	Name  string `json:"name" gorm:"unique;not null"`
	Users []User `json:"users"`
}

type User struct {
	gorm.Model
	Username   string `json:"username" gorm:"unique;not null"`
	Password   string `json:"-"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	RoleID     uint   `json:"role_id"`
	IsActive   bool   `json:"is_active" gorm:"default:true"`

	Role Role `json:"role" gorm:"foreignKey:RoleID"`
}
