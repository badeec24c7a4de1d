package models

import "time"

// Assistant is a named specialty persona users chat with.
type Assistant struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string
	Specialty   string `gorm:"size:255"`
	Icon        string `gorm:"size:20;default:⚖️"`
	Color       string `gorm:"size:20;default:#007bff"`
	// CreatedBy is nulled, not cascaded, when the owning user is deleted.
	CreatedBy *uint `gorm:"index"`
	IsActive  bool  `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (a *Assistant) ToDict() map[string]any {
	return map[string]any{
		"id":          a.ID,
		"name":        a.Name,
		"description": a.Description,
		"specialty":   a.Specialty,
		"icon":        a.Icon,
		"color":       a.Color,
		"created_by":  a.CreatedBy,
		"is_active":   a.IsActive,
		"created_at":  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (Assistant) TableName() string { return "assistants" }
