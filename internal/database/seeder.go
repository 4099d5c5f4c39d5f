package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"permit-work-backend/internal/model"
)

// SeedAll creates the baseline records a fresh installation needs: roles, an
// admin account plus one user per approver role, the settings row, sample
// work locations and the default map background.
func SeedAll(db *gorm.DB) {
	roles := []string{
		model.RoleAdmin,
		model.RoleDepartmentHead,
		model.RoleSafetyOfficer,
		model.RoleMaintenance,
		model.RoleEmployee,
	}
	roleIDs := make(map[string]uint, len(roles))
	for _, name := range roles {
		role := model.Role{Name: name}
		db.FirstOrCreate(&role, model.Role{Name: name})
		roleIDs[name] = role.ID
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	users := []model.User{
		{Username: "admin", FullName: "System Administrator", Email: "admin@permit-work.local", Department: "IT", RoleID: roleIDs[model.RoleAdmin]},
		{Username: "mueller", FullName: "Thomas Müller", Email: "mueller@permit-work.local", Department: "Produktion", RoleID: roleIDs[model.RoleDepartmentHead]},
		{Username: "schneider", FullName: "Anna Schneider", Email: "schneider@permit-work.local", Department: "Arbeitssicherheit", RoleID: roleIDs[model.RoleSafetyOfficer]},
		{Username: "weber", FullName: "Karl Weber", Email: "weber@permit-work.local", Department: "Instandhaltung", RoleID: roleIDs[model.RoleMaintenance]},
		{Username: "fischer", FullName: "Lisa Fischer", Email: "fischer@permit-work.local", Department: "Produktion", RoleID: roleIDs[model.RoleEmployee]},
	}
	for _, u := range users {
		u.Password = string(hashedPassword)
		u.IsActive = true
		db.FirstOrCreate(&u, model.User{Username: u.Username})
	}
	log.Println("seeded roles and users")

	var settings model.AppSetting
	db.FirstOrCreate(&settings, model.AppSetting{})

	x1, y1 := 220.0, 180.0
	x2, y2 := 540.0, 310.0
	locations := []model.WorkLocation{
		{Name: "Halle A - Schweißbereich", Building: "Halle A", Area: "Fertigung", MapPositionX: &x1, MapPositionY: &y1, IsActive: true},
		{Name: "Tanklager Süd", Building: "Außenbereich", Area: "Lager", MapPositionX: &x2, MapPositionY: &y2, IsActive: true},
	}
	for _, l := range locations {
		db.FirstOrCreate(&l, model.WorkLocation{Name: l.Name})
	}

	background := model.MapBackground{Name: "Werksplan", ImagePath: "uploads/maps/werksplan.png", IsDefault: true}
	db.FirstOrCreate(&background, model.MapBackground{Name: background.Name})

	log.Println("seeding complete")
}
