package models

import "time"

// Roles known to the platform. Authorization is an exact match on these
// labels; there is no hierarchy (an admin does not pass an expert-only check).
const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleExpert    = "expert"
	RoleClient    = "client"
)

// Roles lists every valid role label.
var Roles = []string{RoleAdmin, RoleDeveloper, RoleExpert, RoleClient}

// ValidRole reports whether role is one of the four platform roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;size:255;not null"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"` // bcrypt digest, never the plaintext
	Role         string `gorm:"size:50;not null;default:client"`
	IsActive     bool   `gorm:"not null;default:true"`
	AvatarColor  string `gorm:"size:20;default:#007bff"`
	CreatedAt    time.Time
}

// ToDict returns the JSON projection of the user. The password digest is
// deliberately absent.
func (u *User) ToDict() map[string]any {
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"role":         u.Role,
		"is_active":    u.IsActive,
		"avatar_color": u.AvatarColor,
		"created_at":   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (User) TableName() string { return "users" }
