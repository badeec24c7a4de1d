package db

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexhelp/platform/internal/models"
)

// Demo accounts created on first boot. Development convenience only, never
// meant for production installs.
var demoUsers = []struct {
	Username string
	Email    string
	Password string
	Role     string
	Color    string
}{
	{"admin", "admin@example.com", "admin123", models.RoleAdmin, "#dc3545"},
	{"developer", "dev@example.com", "dev123", models.RoleDeveloper, "#17a2b8"},
	{"expert", "expert@example.com", "expert123", models.RoleExpert, "#28a745"},
	{"client", "client@example.com", "client123", models.RoleClient, "#6c757d"},
}

var demoAssistants = []models.Assistant{
	{Name: "Civil Law Assistant", Description: "Contracts, transactions and real estate", Specialty: "civil law", Icon: "🏛️", Color: "#007bff", IsActive: true},
	{Name: "Labor Law Assistant", Description: "Employment law consultations", Specialty: "labor law", Icon: "👨‍💼", Color: "#28a745", IsActive: true},
	{Name: "Family Law Assistant", Description: "Marriage, divorce and alimony questions", Specialty: "family law", Icon: "👨‍👩‍👧", Color: "#ff6b6b", IsActive: true},
}

// Seed inserts the demo users and assistants when the users table is empty.
// Calling it again is a no-op.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range demoUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := models.User{
				Username:     u.Username,
				Email:        u.Email,
				PasswordHash: string(hash),
				Role:         u.Role,
				IsActive:     true,
				AvatarColor:  u.Color,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		}
		for _, a := range demoAssistants {
			assistant := a
			if err := tx.Create(&assistant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
